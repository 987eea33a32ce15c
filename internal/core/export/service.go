package export

import (
	"bytes"
	"fmt"

	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/pivot"
)

// Service renders workbooks into serialised documents
type Service struct {
	engine   *pivot.Engine
	pdfStyle PDFStyle
}

// NewService creates a new export service
func NewService(engine *pivot.Engine) *Service {
	return &Service{
		engine:   engine,
		pdfStyle: DefaultPDFStyle(),
	}
}

// NewDocument creates an empty document of the given format
func (s *Service) NewDocument(format ExportFormat, title string) (Document, error) {
	switch format {
	case FormatExcel, "":
		return NewExcelSink(), nil
	case FormatPDF:
		return NewPDFDocument(title, s.pdfStyle), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// Export renders wb in the given format and returns the serialised bytes.
// The outcome is returned even when the render fails.
func (s *Service) Export(wb *pivot.Workbook, format ExportFormat) (*Result, error) {
	doc, err := s.NewDocument(format, wb.Title)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	outcome, err := s.engine.Render(doc, wb)
	if err != nil {
		return &Result{Outcome: outcome}, fmt.Errorf("render failed: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return &Result{Outcome: outcome}, fmt.Errorf("export failed: %w", err)
	}

	return &Result{
		Data:        buf.Bytes(),
		ContentType: doc.GetContentType(),
		Extension:   doc.GetFileExtension(),
		Outcome:     outcome,
	}, nil
}

// GetContentType returns the content type for the given format
func (s *Service) GetContentType(format ExportFormat) string {
	switch format {
	case FormatPDF:
		return ContentTypePDF
	case FormatExcel:
		return ContentTypeExcel
	default:
		return "application/octet-stream"
	}
}

// GetFileExtension returns the file extension for the given format
func (s *Service) GetFileExtension(format ExportFormat) string {
	switch format {
	case FormatPDF:
		return ".pdf"
	case FormatExcel:
		return ".xlsx"
	default:
		return ".bin"
	}
}
