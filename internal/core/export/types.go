package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/pivot"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatExcel ExportFormat = "excel"
	FormatPDF   ExportFormat = "pdf"
)

// MIME types of the produced documents
const (
	ContentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF   = "application/pdf"
)

// ErrOutOfRange is returned for coordinates a document cannot address
var ErrOutOfRange = errors.New("coordinate out of range")

// Document is a render target that can be serialised once the render is done
type Document interface {
	pivot.Sink
	Write(w io.Writer) error
	Close() error
	GetContentType() string
	GetFileExtension() string
}

// ParseFormat maps a format name to an ExportFormat; empty means Excel
func ParseFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatExcel, "xlsx":
		return FormatExcel, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// Result is a serialised document plus what the render did
type Result struct {
	Data        []byte
	ContentType string
	Extension   string
	Outcome     *pivot.RenderOutcome
}

// PDFStyle defines page options for PDF output
type PDFStyle struct {
	Orientation string // "portrait" or "landscape"
	PageSize    string // "A4", "Letter", etc.
	FontFamily  string
	FontSize    float64
	CellWidth   float64 // mm, before scaling to the page
	CellHeight  float64 // mm
}

// DefaultPDFStyle returns default PDF styling
func DefaultPDFStyle() PDFStyle {
	return PDFStyle{
		Orientation: "landscape",
		PageSize:    "A4",
		FontFamily:  "Arial",
		FontSize:    8,
		CellWidth:   28,
		CellHeight:  6,
	}
}
