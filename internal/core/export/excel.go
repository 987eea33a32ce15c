package export

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/pivot"
)

const (
	defaultSheet     = "Sheet1"
	maxSheetNameLen  = 31
	invalidSheetRune = "\\/?*[]:"
)

// ExcelSink implements pivot.Sink on top of an excelize workbook
type ExcelSink struct {
	file    *excelize.File
	names   map[string]string // requested sheet name -> actual sheet name
	styles  map[pivot.CellStyle]int
	active  bool
	claimed bool
}

// NewExcelSink creates a new workbook holding only the default sheet
func NewExcelSink() *ExcelSink {
	return &ExcelSink{
		file:   excelize.NewFile(),
		names:  make(map[string]string),
		styles: make(map[pivot.CellStyle]int),
	}
}

// CreateSheet appends a sheet. Names are sanitised to Excel's rules and
// de-duplicated with a " (n)" suffix.
func (e *ExcelSink) CreateSheet(name string, position int) error {
	clean := sanitizeSheetName(name)
	if clean == defaultSheet && !e.claimed {
		// reuse the untouched default sheet instead of shadowing it
		e.claimed = true
		e.names[name] = clean
		e.active = true
		return nil
	}

	actual := e.uniqueName(clean)
	index, err := e.file.NewSheet(actual)
	if err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", actual, err)
	}
	e.names[name] = actual

	// the first sheet created becomes the one the workbook opens on
	if !e.active {
		e.file.SetActiveSheet(index)
		e.active = true
	}
	return nil
}

// SetCell writes value at the 0-based (row, col). A nil value only applies the style.
func (e *ExcelSink) SetCell(sheet string, row, col int, value interface{}, style *pivot.CellStyle) error {
	cell, err := cellName(row, col)
	if err != nil {
		return err
	}
	sheet = e.sheet(sheet)

	if value != nil {
		if err := e.file.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
		}
	}
	if style == nil {
		return nil
	}

	id, err := e.styleID(*style)
	if err != nil {
		return err
	}
	if err := e.file.SetCellStyle(sheet, cell, cell, id); err != nil {
		return fmt.Errorf("failed to style %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// MergeRegion merges the inclusive 0-based rectangle
func (e *ExcelSink) MergeRegion(sheet string, rowStart, colStart, rowEnd, colEnd int) error {
	topLeft, err := cellName(rowStart, colStart)
	if err != nil {
		return err
	}
	bottomRight, err := cellName(rowEnd, colEnd)
	if err != nil {
		return err
	}
	return e.file.MergeCell(e.sheet(sheet), topLeft, bottomRight)
}

// SetColumnWidth sets the width of the 0-based column
func (e *ExcelSink) SetColumnWidth(sheet string, col int, width float64) error {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return err
	}
	return e.file.SetColWidth(e.sheet(sheet), name, name, width)
}

// SetRowHeight sets the height of the 0-based row
func (e *ExcelSink) SetRowHeight(sheet string, row int, height float64) error {
	if row < 0 || row >= excelize.TotalRows {
		return fmt.Errorf("row %d: %w", row, ErrOutOfRange)
	}
	return e.file.SetRowHeight(e.sheet(sheet), row+1, height)
}

// RemoveSheet deletes a sheet
func (e *ExcelSink) RemoveSheet(name string) error {
	return e.file.DeleteSheet(e.sheet(name))
}

// DefaultSheet returns the sheet excelize creates with every new file
func (e *ExcelSink) DefaultSheet() string {
	return defaultSheet
}

// Sheets returns the sheet names in workbook order
func (e *ExcelSink) Sheets() []string {
	return e.file.GetSheetList()
}

// Write serialises the workbook
func (e *ExcelSink) Write(w io.Writer) error {
	if err := e.file.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

// Close releases the workbook's temporary resources
func (e *ExcelSink) Close() error {
	return e.file.Close()
}

// GetContentType returns the MIME type for Excel files
func (e *ExcelSink) GetContentType() string {
	return ContentTypeExcel
}

// GetFileExtension returns the file extension for Excel files
func (e *ExcelSink) GetFileExtension() string {
	return ".xlsx"
}

func (e *ExcelSink) sheet(name string) string {
	if actual, ok := e.names[name]; ok {
		return actual
	}
	return name
}

func (e *ExcelSink) uniqueName(name string) string {
	taken := func(candidate string) bool {
		for _, s := range e.file.GetSheetList() {
			if strings.EqualFold(s, candidate) {
				return true
			}
		}
		return false
	}
	if !taken(name) {
		return name
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate := truncateRunes(name, maxSheetNameLen-len(suffix)) + suffix
		if !taken(candidate) {
			return candidate
		}
	}
}

// styleID returns the excelize style for s, creating it once per distinct style
func (e *ExcelSink) styleID(s pivot.CellStyle) (int, error) {
	if id, ok := e.styles[s]; ok {
		return id, nil
	}

	style := &excelize.Style{}
	if s.Fill != "" {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{s.Fill},
		}
	}
	if s.FontColor != "" {
		style.Font = &excelize.Font{Color: s.FontColor}
	}
	if s.BorderColor != "" {
		style.Border = []excelize.Border{
			{Type: "left", Color: s.BorderColor, Style: 1},
			{Type: "top", Color: s.BorderColor, Style: 1},
			{Type: "right", Color: s.BorderColor, Style: 1},
			{Type: "bottom", Color: s.BorderColor, Style: 1},
		}
	}
	if s.Horizontal != "" || s.Vertical != "" || s.WrapText {
		style.Alignment = &excelize.Alignment{
			Horizontal: s.Horizontal,
			Vertical:   s.Vertical,
			WrapText:   s.WrapText,
		}
	}
	if s.NumberFormat != "" {
		format := s.NumberFormat
		style.CustomNumFmt = &format
	}

	id, err := e.file.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("failed to create style: %w", err)
	}
	e.styles[s] = id
	return id, nil
}

// cellName converts 0-based coordinates to an A1 reference
func cellName(row, col int) (string, error) {
	if row < 0 || col < 0 || row >= excelize.TotalRows || col >= excelize.MaxColumns {
		return "", fmt.Errorf("cell (%d, %d): %w", row, col, ErrOutOfRange)
	}
	return excelize.CoordinatesToCellName(col+1, row+1)
}

// sanitizeSheetName replaces characters Excel forbids and trims to 31 characters
func sanitizeSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidSheetRune, r) {
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, "'")
	name = truncateRunes(name, maxSheetNameLen)
	if strings.TrimSpace(name) == "" {
		return "Table"
	}
	return name
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
