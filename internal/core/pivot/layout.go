package pivot

import "math"

// Extremes is the bounding box of cells touched by a pass. It starts inverted
// (min > max) and only ever widens.
type Extremes struct {
	RowMin int `json:"row_min"`
	RowMax int `json:"row_max"`
	ColMin int `json:"col_min"`
	ColMax int `json:"col_max"`
}

// NewExtremes returns an empty envelope
func NewExtremes() Extremes {
	return Extremes{
		RowMin: math.MaxInt, RowMax: -1,
		ColMin: math.MaxInt, ColMax: -1,
	}
}

// Include widens the envelope to cover (row, col)
func (e *Extremes) Include(row, col int) {
	e.RowMin = min(e.RowMin, row)
	e.RowMax = max(e.RowMax, row)
	e.ColMin = min(e.ColMin, col)
	e.ColMax = max(e.ColMax, col)
}

// Empty reports whether nothing was included yet
func (e Extremes) Empty() bool {
	return e.RowMin > e.RowMax || e.ColMin > e.ColMax
}

// Origin holds where one table's header bands and data region begin
type Origin struct {
	HeaderRow int `json:"header_row"` // first column-header band
	HeaderCol int `json:"header_col"` // first row-header band
	DataRow   int `json:"data_row"`
	DataCol   int `json:"data_col"`
}

// Layout carries the cursor shared by consecutive tables of one export
type Layout struct {
	mode        Mode
	orientation Orientation
	row, col    int
}

// NewLayout returns a layout with the cursor at the top-left corner
func NewLayout(mode Mode, orientation Orientation) *Layout {
	if mode == "" {
		mode = ModeMany
	}
	if orientation == "" {
		orientation = Vertical
	}
	return &Layout{mode: mode, orientation: orientation}
}

// NewSheet reports whether a table must open its own sheet
func (l *Layout) NewSheet(first bool) bool {
	return l.mode != ModeSingle || first
}

// Cursor returns the current row and column offsets
func (l *Layout) Cursor() (row, col int) {
	return l.row, l.col
}

// Origin places a table at the cursor, adding its margins and reserving one
// band per hierarchy level for the headers it shows.
func (l *Layout) Origin(spec *TableSpec) Origin {
	o := Origin{
		HeaderRow: l.row + spec.MarginRow,
		HeaderCol: l.col + spec.MarginCol,
	}
	o.DataRow, o.DataCol = o.HeaderRow, o.HeaderCol
	if spec.ShowColumnHeaders {
		o.DataRow += len(spec.Columns)
	}
	if spec.ShowRowHeaders {
		o.DataCol += len(spec.Rows)
	}
	return o
}

// Advance moves the cursor past a finished table. Separate sheets always start
// at the corner, so only single mode moves it. An empty envelope leaves it in place.
func (l *Layout) Advance(ext Extremes) {
	if l.mode != ModeSingle || ext.Empty() {
		return
	}
	if l.orientation == Horizontal {
		l.col = ext.ColMax + 1
		return
	}
	l.row = ext.RowMax + 1
}
