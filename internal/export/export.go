// Package export renders person lists as CSV, Excel and PDF documents
// and parses country spreadsheets.
package export

import (
	"strconv"

	"github.com/contactsmgr/contacts/internal/model"
)

// File names and content types served for each export format.
const (
	CSVFileName   = "people.csv"
	ExcelFileName = "people.xlsx"
	PDFFileName   = "people.pdf"

	CSVContentType   = "text/csv; charset=utf-8"
	ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	PDFContentType   = "application/pdf"
)

// DateLayout is the date of birth format used in exported rows.
const DateLayout = "2006-01-02"

// Header is the column row shared by the CSV and Excel exports.
var Header = []string{
	"PersonName",
	"Email",
	"DateOfBirth",
	"Age",
	"Gender",
	"Country",
	"Address",
	"ReceiveNewsLetters",
}

// Row renders a person as export cells, in Header order.
// A missing date of birth or age renders as an empty cell.
func Row(p model.PersonResponse) []string {
	dob := ""
	if p.DateOfBirth != nil {
		dob = p.DateOfBirth.Format(DateLayout)
	}
	age := ""
	if p.Age != nil {
		age = strconv.FormatFloat(*p.Age, 'f', 0, 64)
	}
	return []string{
		p.Name,
		p.Email,
		dob,
		age,
		p.Gender,
		p.Country,
		p.Address,
		strconv.FormatBool(p.ReceiveNewsLetters),
	}
}
