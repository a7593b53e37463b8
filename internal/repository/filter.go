package repository

import (
	"fmt"
	"strings"

	"github.com/contactsmgr/contacts/internal/model"
)

// PersonFilter narrows a person listing to one field containing Term.
// The zero value, a blank Term or an unknown Field selects every person.
type PersonFilter struct {
	Field string
	Term  string
}

// filterColumns maps searchable fields to the SQL expression they match on.
// The date of birth renders the same way as model.DateOfBirthSearchLayout.
var filterColumns = map[string]string{
	model.FieldPersonName:  "p.person_name",
	model.FieldEmail:       "p.email",
	model.FieldDateOfBirth: "to_char(p.date_of_birth, 'DD FMMonth YYYY')",
	model.FieldGender:      "p.gender",
	model.FieldCountryID:   "c.country_name",
	model.FieldAddress:     "p.address",
}

// whereClause renders the filter as a SQL condition using placeholder $argIndex.
// It returns "" when the filter selects everything.
func (f PersonFilter) whereClause(argIndex int) (string, []any) {
	if strings.TrimSpace(f.Term) == "" {
		return "", nil
	}
	column, ok := filterColumns[f.Field]
	if !ok {
		return "", nil
	}
	clause := fmt.Sprintf("%s ILIKE $%d ESCAPE '\\'", column, argIndex)
	return clause, []any{"%" + escapeLike(f.Term) + "%"}
}

// escapeLike escapes LIKE wildcards so the term matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
