package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders a landscape A4 document: the composed stage image on
// top, the item list as a table beneath it.
func WritePDF(doc Document) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(doc.PlotName, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, doc.PlotName, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(doc.StagePNG) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader("stage", opts, bytes.NewReader(doc.StagePNG))
		// Fit the stage image to the page width, leaving room for the table.
		pageW, _ := pdf.GetPageSize()
		left, _, right, _ := pdf.GetMargins()
		usable := pageW - left - right
		pdf.ImageOptions("stage", left, pdf.GetY(), usable, 0, true, opts, 0, "")
		pdf.Ln(4)
	}

	widths := []float64{10, 60, 50, 40, 40, 18, 18, 20, 16}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 235)
	for i, h := range columnHeaders {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range doc.Rows {
		cells := []string{
			strconv.Itoa(r.Position),
			r.Item,
			r.Label,
			r.Category,
			r.Section,
			formatFloat(r.X),
			formatFloat(r.Y),
			formatFloat(r.Rotation),
			formatFloat(r.Scale),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
