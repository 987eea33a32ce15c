package export

import (
	"fmt"
	"strings"

	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/pivot"
)

// GridCell is one recorded cell
type GridCell struct {
	Value interface{}
	Style *pivot.CellStyle
}

// GridMerge is an inclusive merged rectangle
type GridMerge struct {
	RowStart, ColStart, RowEnd, ColEnd int
}

// GridSheet is the in-memory content of one sheet
type GridSheet struct {
	Name    string
	Cells   map[[2]int]GridCell
	Merges  []GridMerge
	Widths  map[int]float64
	Heights map[int]float64
}

// Bounds returns the envelope of the sheet's cells
func (s *GridSheet) Bounds() pivot.Extremes {
	ext := pivot.NewExtremes()
	for pos := range s.Cells {
		ext.Include(pos[0], pos[1])
	}
	return ext
}

// Cell returns the cell at the 0-based (row, col)
func (s *GridSheet) Cell(row, col int) (GridCell, bool) {
	c, ok := s.Cells[[2]int{row, col}]
	return c, ok
}

// MergeAt returns the merge whose top-left corner is (row, col)
func (s *GridSheet) MergeAt(row, col int) (GridMerge, bool) {
	for _, m := range s.Merges {
		if m.RowStart == row && m.ColStart == col {
			return m, true
		}
	}
	return GridMerge{}, false
}

// Covered reports whether (row, col) lies inside a merge but is not its corner
func (s *GridSheet) Covered(row, col int) bool {
	for _, m := range s.Merges {
		if row >= m.RowStart && row <= m.RowEnd && col >= m.ColStart && col <= m.ColEnd &&
			(row != m.RowStart || col != m.ColStart) {
			return true
		}
	}
	return false
}

// GridSink implements pivot.Sink in memory. It backs the PDF document and
// offline previews.
type GridSink struct {
	sheets  []*GridSheet
	names   map[string]*GridSheet // requested name -> sheet
	maxRows int
	maxCols int
}

// NewGridSink creates an empty grid limited to maxRows x maxCols cells
func NewGridSink(maxRows, maxCols int) *GridSink {
	return &GridSink{names: make(map[string]*GridSheet), maxRows: maxRows, maxCols: maxCols}
}

// CreateSheet inserts a sheet at position, appending when position is past the end.
// A name already taken gets a " (n)" suffix, like the Excel sink; later writes
// to the requested name go to the newest sheet.
func (g *GridSink) CreateSheet(name string, position int) error {
	sheet := &GridSheet{
		Name:    g.uniqueName(name),
		Cells:   make(map[[2]int]GridCell),
		Widths:  make(map[int]float64),
		Heights: make(map[int]float64),
	}
	g.names[name] = sheet

	if position < 0 || position >= len(g.sheets) {
		g.sheets = append(g.sheets, sheet)
		return nil
	}
	g.sheets = append(g.sheets[:position], append([]*GridSheet{sheet}, g.sheets[position:]...)...)
	return nil
}

// SetCell records a cell; a nil value keeps any earlier value and replaces the style
func (g *GridSink) SetCell(sheet string, row, col int, value interface{}, style *pivot.CellStyle) error {
	s, err := g.get(sheet)
	if err != nil {
		return err
	}
	if err := g.check(row, col); err != nil {
		return err
	}
	key := [2]int{row, col}
	if value == nil {
		value = s.Cells[key].Value
	}
	s.Cells[key] = GridCell{Value: value, Style: style}
	return nil
}

// MergeRegion records a merged rectangle
func (g *GridSink) MergeRegion(sheet string, rowStart, colStart, rowEnd, colEnd int) error {
	s, err := g.get(sheet)
	if err != nil {
		return err
	}
	if err := g.check(rowEnd, colEnd); err != nil {
		return err
	}
	if err := g.check(rowStart, colStart); err != nil {
		return err
	}
	s.Merges = append(s.Merges, GridMerge{rowStart, colStart, rowEnd, colEnd})
	return nil
}

// SetColumnWidth records a column width
func (g *GridSink) SetColumnWidth(sheet string, col int, width float64) error {
	s, err := g.get(sheet)
	if err != nil {
		return err
	}
	s.Widths[col] = width
	return nil
}

// SetRowHeight records a row height
func (g *GridSink) SetRowHeight(sheet string, row int, height float64) error {
	s, err := g.get(sheet)
	if err != nil {
		return err
	}
	s.Heights[row] = height
	return nil
}

// RemoveSheet drops a sheet; removing an unknown sheet is a no-op
func (g *GridSink) RemoveSheet(name string) error {
	target := g.lookup(name)
	if target == nil {
		return nil
	}
	for requested, s := range g.names {
		if s == target {
			delete(g.names, requested)
		}
	}
	for i, s := range g.sheets {
		if s == target {
			g.sheets = append(g.sheets[:i], g.sheets[i+1:]...)
			break
		}
	}
	return nil
}

// DefaultSheet returns "" because a grid starts without sheets
func (g *GridSink) DefaultSheet() string {
	return ""
}

// Sheets returns the recorded sheets in order
func (g *GridSink) Sheets() []*GridSheet {
	return g.sheets
}

// Sheet returns the named sheet or nil
func (g *GridSink) Sheet(name string) *GridSheet {
	return g.lookup(name)
}

func (g *GridSink) lookup(name string) *GridSheet {
	if s, ok := g.names[name]; ok {
		return s
	}
	for _, s := range g.sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func (g *GridSink) uniqueName(name string) string {
	taken := func(candidate string) bool {
		for _, s := range g.sheets {
			if strings.EqualFold(s.Name, candidate) {
				return true
			}
		}
		return false
	}
	if !taken(name) {
		return name
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", name, n)
		if !taken(candidate) {
			return candidate
		}
	}
}

func (g *GridSink) get(name string) (*GridSheet, error) {
	s := g.lookup(name)
	if s == nil {
		return nil, fmt.Errorf("sheet %q does not exist", name)
	}
	return s, nil
}

func (g *GridSink) check(row, col int) error {
	if row < 0 || col < 0 || row >= g.maxRows || col >= g.maxCols {
		return fmt.Errorf("cell (%d, %d): %w", row, col, ErrOutOfRange)
	}
	return nil
}
