package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth  = 210.0
	marginLeft = 15.0
	marginTop  = 15.0
	qrSize     = 22.0

	colDescription = 88.0
	colQty         = 18.0
	colUnit        = 16.0
	colUnitPrice   = 24.0
	colTotal       = 24.0
	rowHeight      = 7.0
)

// PDF renders the quote as an A4 document: header with quote number and
// validity, a QR code carrying the quote number for site reference, the
// line item table, and the totals block.
func PDF(doc QuoteDocument) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Quote %s", doc.QuoteNumber)), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(marginLeft)
	pdf.CellFormat(0, 5, doc.CreatedAt.Format("02 Jan 2006"), "", 1, "L", false, 0, "")
	pdf.SetX(marginLeft)
	pdf.CellFormat(0, 5, fmt.Sprintf("Valid until %s (%d days)", doc.ValidUntil().Format("02 Jan 2006"), doc.ValidDays), "", 1, "L", false, 0, "")

	if err := drawQuoteQR(pdf, doc.QuoteNumber); err != nil {
		return nil, err
	}

	if doc.Title != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetX(marginLeft)
		pdf.CellFormat(0, 7, tr(doc.Title), "", 1, "L", false, 0, "")
	}
	if doc.Description != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetX(marginLeft)
		pdf.MultiCell(pageWidth-2*marginLeft, 5, tr(doc.Description), "", "L", false)
	}

	// Line item table
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(51, 51, 51)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetX(marginLeft)
	pdf.CellFormat(colDescription, rowHeight, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colQty, rowHeight, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colUnit, rowHeight, "Unit", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colUnitPrice, rowHeight, "Unit price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colTotal, rowHeight, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, item := range doc.LineItems {
		pdf.SetX(marginLeft)
		pdf.CellFormat(colDescription, rowHeight, tr(item.Description), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, rowHeight, formatQty(item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colUnit, rowHeight, tr(item.Unit), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colUnitPrice, rowHeight, tr(formatGBP(item.UnitPrice)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colTotal, rowHeight, tr(formatGBP(item.Total)), "1", 1, "R", false, 0, "")
	}

	// Totals block
	pdf.Ln(4)
	totalsLabel := func(label string, amount float64, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.SetX(marginLeft + colDescription)
		pdf.CellFormat(colQty+colUnit+colUnitPrice, 6, tr(label), "", 0, "R", false, 0, "")
		pdf.CellFormat(colTotal, 6, tr(formatGBP(amount)), "", 1, "R", false, 0, "")
	}
	breakdown := doc.Totals.Breakdown
	totalsLabel("Interior items", breakdown.InteriorTotal, false)
	totalsLabel("Exterior items", breakdown.ExteriorTotal, false)
	if breakdown.CleanupFee > 0 {
		totalsLabel("Cleanup fee", breakdown.CleanupFee, false)
	}
	totalsLabel("Total", doc.Totals.Total, true)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render quote pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// drawQuoteQR places a QR code carrying the quote number in the top
// right corner of the current page.
func drawQuoteQR(pdf *fpdf.Fpdf, quoteNumber string) error {
	qrPNG, err := qrcode.Encode(quoteNumber, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("generate quote QR code: %w", err)
	}

	imgName := "qr_" + quoteNumber
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, pageWidth-marginLeft-qrSize, marginTop, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}

func formatQty(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func formatGBP(amount float64) string {
	return fmt.Sprintf("£%.2f", amount)
}
