package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/contactsmgr/contacts/internal/model"
)

// WriteCSV writes the header and one row per person.
func WriteCSV(w io.Writer, persons []model.PersonResponse) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range persons {
		if err := cw.Write(Row(p)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
