package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/contactsmgr/contacts/internal/model"
)

// pdfColumns are the PDF table columns with widths in mm.
// Landscape A4 is 297mm wide; 20mm margins leave 257mm.
var pdfColumns = []struct {
	title string
	width float64
}{
	{"Person Name", 38},
	{"Email", 50},
	{"Date of Birth", 26},
	{"Age", 12},
	{"Gender", 18},
	{"Country", 28},
	{"Address", 63},
	{"Newsletters", 22},
}

// WritePDF renders the persons as a landscape A4 table with 20mm margins.
func WritePDF(w io.Writer, persons []model.PersonResponse) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle("Persons List", true)

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(211, 211, 211)
		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, 8, c.title, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, "Persons List", "", 1, "L", false, 0, "")
	header()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, p := range persons {
		cells := Row(p)
		for i, c := range pdfColumns {
			text := cells[i]
			if i == 2 && p.DateOfBirth != nil {
				text = p.DateOfBirth.Format("02 Jan 2006")
			}
			pdf.CellFormat(c.width, 7, fit(pdf, tr, text, c.width-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// fit translates s to the font encoding, shortening it with an ellipsis to fit width.
func fit(pdf *fpdf.Fpdf, tr func(string) string, s string, width float64) string {
	if pdf.GetStringWidth(tr(s)) <= width {
		return tr(s)
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(tr(string(r)+"...")) > width {
		r = r[:len(r)-1]
	}
	return tr(string(r) + "...")
}
