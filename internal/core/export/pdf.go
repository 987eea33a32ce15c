package export

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/pivot"
)

// PDF grids are capped well below Excel's limits; a page of cells past this is unreadable
const (
	pdfMaxRows = 10000
	pdfMaxCols = 256
)

// PDFDocument collects a render in a GridSink and prints every sheet with gofpdf
type PDFDocument struct {
	*GridSink
	style PDFStyle
	title string
}

// NewPDFDocument creates a new PDF document
func NewPDFDocument(title string, style PDFStyle) *PDFDocument {
	return &PDFDocument{
		GridSink: NewGridSink(pdfMaxRows, pdfMaxCols),
		style:    style,
		title:    title,
	}
}

// Write prints one or more pages per sheet
func (p *PDFDocument) Write(w io.Writer) error {
	orientation := "P"
	if p.style.Orientation == "landscape" {
		orientation = "L"
	}
	pageSize := p.style.PageSize
	if pageSize == "" {
		pageSize = "A4"
	}

	pdf := gofpdf.New(orientation, "mm", pageSize, "")
	pdf.SetTitle(p.title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, sheet := range p.Sheets() {
		p.printSheet(pdf, sheet, tr)
	}
	if pdf.PageNo() == 0 {
		pdf.AddPage()
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// Close is a no-op; the grid lives in memory
func (p *PDFDocument) Close() error {
	return nil
}

// GetContentType returns the MIME type for PDF files
func (p *PDFDocument) GetContentType() string {
	return ContentTypePDF
}

// GetFileExtension returns the file extension for PDF files
func (p *PDFDocument) GetFileExtension() string {
	return ".pdf"
}

func (p *PDFDocument) printSheet(pdf *gofpdf.Fpdf, sheet *GridSheet, tr func(string) string) {
	bounds := sheet.Bounds()
	if bounds.Empty() {
		return
	}

	pageWidth, pageHeight := pdf.GetPageSize()
	left, top, right, bottom := pdf.GetMargins()
	usableWidth := pageWidth - left - right
	headerHeight := 10.0

	cols := bounds.ColMax - bounds.ColMin + 1
	cellWidth := p.style.CellWidth
	if cellWidth*float64(cols) > usableWidth {
		cellWidth = usableWidth / float64(cols)
	}
	cellHeight := p.style.CellHeight
	rowsPerPage := int(math.Floor((pageHeight - top - bottom - headerHeight) / cellHeight))
	if rowsPerPage < 1 {
		rowsPerPage = 1
	}

	for first := bounds.RowMin; first <= bounds.RowMax; first += rowsPerPage {
		last := min(first+rowsPerPage-1, bounds.RowMax)

		pdf.AddPage()
		pdf.SetFont(p.fontFamily(), "B", 11)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 8, tr(sheet.Name), "", 1, "L", false, 0, "")
		originY := top + headerHeight

		pdf.SetFont(p.fontFamily(), "", p.style.FontSize)
		for row := first; row <= last; row++ {
			for col := bounds.ColMin; col <= bounds.ColMax; col++ {
				if sheet.Covered(row, col) && !(row == first && p.coveredFromPreviousPage(sheet, row, col, first)) {
					continue
				}
				width, height := cellWidth, cellHeight
				if m, ok := sheet.MergeAt(row, col); ok {
					width = cellWidth * float64(m.ColEnd-m.ColStart+1)
					height = cellHeight * float64(min(m.RowEnd, last)-m.RowStart+1)
				}
				x := left + float64(col-bounds.ColMin)*cellWidth
				y := originY + float64(row-first)*cellHeight
				cell, _ := sheet.Cell(row, col)
				p.drawCell(pdf, tr, x, y, width, height, cell)
			}
		}
	}
}

// coveredFromPreviousPage reports whether a vertical merge started above the
// page's first row, in which case its remainder is drawn as a plain cell.
func (p *PDFDocument) coveredFromPreviousPage(sheet *GridSheet, row, col, first int) bool {
	for _, m := range sheet.Merges {
		if m.RowStart < first && m.RowEnd >= row && m.ColStart == col {
			return true
		}
	}
	return false
}

func (p *PDFDocument) drawCell(pdf *gofpdf.Fpdf, tr func(string) string, x, y, w, h float64, cell GridCell) {
	border := ""
	fill := false
	align := "LT"
	pdf.SetTextColor(0, 0, 0)

	if s := cell.Style; s != nil {
		if s.Fill != "" {
			r, g, b := hexToRGB(s.Fill)
			pdf.SetFillColor(r, g, b)
			fill = true
		}
		if s.FontColor != "" {
			r, g, b := hexToRGB(s.FontColor)
			pdf.SetTextColor(r, g, b)
		}
		if s.BorderColor != "" {
			r, g, b := hexToRGB(s.BorderColor)
			pdf.SetDrawColor(r, g, b)
			border = "1"
		}
		switch s.Horizontal {
		case "center":
			align = "CT"
		case "right":
			align = "RT"
		}
	}
	if cell.Value == nil && !fill && border == "" {
		return
	}

	pdf.SetXY(x, y)
	pdf.CellFormat(w, h, tr(formatValue(cell)), border, 0, align, fill, 0, "")
}

func (p *PDFDocument) fontFamily() string {
	if p.style.FontFamily == "" {
		return "Arial"
	}
	return p.style.FontFamily
}

// formatValue renders a cell the way a spreadsheet would show it
func formatValue(cell GridCell) string {
	if cell.Value == nil {
		return ""
	}
	if cell.Style != nil && cell.Style.NumberFormat == pivot.PercentFormat {
		if f, ok := toFloat(cell.Value); ok {
			return strconv.FormatFloat(f*100, 'f', 2, 64) + "%"
		}
	}
	if f, ok := cell.Value.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(cell.Value)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}

// hexToRGB converts hex color to RGB values
func hexToRGB(hex string) (int, int, int) {
	h, err := pivot.NormalizeHex(hex)
	if err != nil {
		return 255, 255, 255
	}
	v, _ := strconv.ParseUint(h, 16, 32)
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)
}
