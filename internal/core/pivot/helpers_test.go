package pivot

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

type memCell struct {
	value interface{}
	style *CellStyle
}

type memMerge struct {
	sheet                              string
	rowStart, colStart, rowEnd, colEnd int
}

// memSink records writes; it rejects negative coordinates and anything past limit
type memSink struct {
	sheets  []string
	cells   map[string]map[[2]int]memCell
	merges  []memMerge
	widths  map[string]map[int]float64
	heights map[string]map[int]float64
	removed []string
	limit   int
	def     string
}

func newMemSink() *memSink {
	return &memSink{
		cells:   make(map[string]map[[2]int]memCell),
		widths:  make(map[string]map[int]float64),
		heights: make(map[string]map[int]float64),
		limit:   1 << 20,
		def:     "Sheet1",
	}
}

func (s *memSink) CreateSheet(name string, position int) error {
	s.sheets = append(s.sheets, name)
	s.cells[name] = make(map[[2]int]memCell)
	return nil
}

func (s *memSink) SetCell(sheet string, row, col int, value interface{}, style *CellStyle) error {
	if row < 0 || col < 0 || row >= s.limit || col >= s.limit {
		return fmt.Errorf("coordinate (%d, %d) out of range", row, col)
	}
	s.cells[sheet][[2]int{row, col}] = memCell{value: value, style: style}
	return nil
}

func (s *memSink) MergeRegion(sheet string, rowStart, colStart, rowEnd, colEnd int) error {
	s.merges = append(s.merges, memMerge{sheet, rowStart, colStart, rowEnd, colEnd})
	return nil
}

func (s *memSink) SetColumnWidth(sheet string, col int, width float64) error {
	if s.widths[sheet] == nil {
		s.widths[sheet] = make(map[int]float64)
	}
	s.widths[sheet][col] = width
	return nil
}

func (s *memSink) SetRowHeight(sheet string, row int, height float64) error {
	if s.heights[sheet] == nil {
		s.heights[sheet] = make(map[int]float64)
	}
	s.heights[sheet][row] = height
	return nil
}

func (s *memSink) RemoveSheet(name string) error {
	s.removed = append(s.removed, name)
	return nil
}

func (s *memSink) DefaultSheet() string {
	return s.def
}

func (s *memSink) value(sheet string, row, col int) (interface{}, bool) {
	c, ok := s.cells[sheet][[2]int{row, col}]
	return c.value, ok
}

func cv(v interface{}) CellValue {
	return CellValue{Value: v, Formatted: fmt.Sprint(v)}
}

func row(values ...interface{}) Row {
	r := make(Row, len(values))
	for i, v := range values {
		r[i] = cv(v)
	}
	return r
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func quietLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}
