package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"edalens/internal/errors"
)

// PDFOptions tunes the PDF writer
type PDFOptions struct {
	// Compress deflates page streams; tests turn it off to inspect the text
	Compress bool
}

// RenderPDF writes an A4 document with a centered running header, one titled block per section
// and a "Page N" footer
func RenderPDF(r Report, w io.Writer, opts PDFOptions) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(opts.Compress)
	pdf.SetTitle(Title, true)
	pdf.SetCreator("edalens", true)
	pdf.SetCreationDate(r.GeneratedAt)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 15)
		pdf.CellFormat(0, 10, Title, "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	for _, s := range r.Sections {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 10, tr(s.Title), "", 1, "L", false, 0, "")
		pdf.Ln(3)

		pdf.SetFont("Arial", "", 10)
		for _, line := range s.Lines {
			pdf.MultiCell(0, 5, tr(line), "", "", false)
			pdf.Ln(-1)
		}
	}

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "failed to write PDF report")
	}
	return nil
}
