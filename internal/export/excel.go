package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/contactsmgr/contacts/internal/model"
)

// PersonsSheet is the worksheet name of the Excel export.
const PersonsSheet = "PeopleSheet"

// ErrNoWorksheet indicates an uploaded workbook without worksheets.
var ErrNoWorksheet = errors.New("workbook has no worksheets")

// WriteExcel writes a workbook with one PeopleSheet worksheet.
// The header row is bold on a light grey fill.
func WriteExcel(w io.Writer, persons []model.PersonResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), PersonsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D3D3D3"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetRow(PersonsSheet, "A1", &Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(Header))
	if err := f.SetCellStyle(PersonsSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	widths := make([]int, len(Header))
	for i, h := range Header {
		widths[i] = len(h)
	}

	for i, p := range persons {
		row := Row(p)
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(PersonsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
		for c, v := range row {
			if n := len([]rune(v)); n > widths[c] {
				widths[c] = n
			}
		}
	}

	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(PersonsSheet, col, col, float64(min(width+2, 60))); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ReadCountryNames returns the non-blank values of column A, from row 2 on,
// of the first worksheet. Row 1 is a header.
func ReadCountryNames(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWorksheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	var names []string
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) == 0 {
			continue
		}
		name := strings.TrimSpace(rows[i][0])
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
