package pivot

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Axis selects which hierarchy a header pass writes
type Axis int

const (
	AxisRows Axis = iota
	AxisColumns
)

func (a Axis) String() string {
	if a == AxisRows {
		return "rows"
	}
	return "columns"
}

// CellSkip records one write the sink rejected
type CellSkip struct {
	Sheet  string `json:"sheet"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Op     string `json:"op"`
	Reason string `json:"reason"`
}

// TableOutcome summarises one rendered table
type TableOutcome struct {
	Name     string   `json:"name"`
	Sheet    string   `json:"sheet"`
	Origin   Origin   `json:"origin"`
	Extremes Extremes `json:"extremes"`
	Rows     int      `json:"rows"`
}

// RenderOutcome is what a render pass did
type RenderOutcome struct {
	CellsWritten int            `json:"cells_written"`
	CellsSkipped int            `json:"cells_skipped"`
	Merges       int            `json:"merges"`
	Sheets       []string       `json:"sheets"`
	Tables       []TableOutcome `json:"tables"`
	Skips        []CellSkip     `json:"skips,omitempty"`
}

// tableWriter writes one table onto one sheet and accounts for every cell
type tableWriter struct {
	sink    Sink
	sheet   string
	theme   *Theme
	styling bool
	outcome *RenderOutcome
	logger  zerolog.Logger
}

func (w *tableWriter) skip(op string, row, col int, err error) {
	w.outcome.CellsSkipped++
	w.outcome.Skips = append(w.outcome.Skips, CellSkip{
		Sheet: w.sheet, Row: row, Col: col, Op: op, Reason: err.Error(),
	})
	w.logger.Warn().Err(err).
		Str("sheet", w.sheet).
		Int("row", row).
		Int("col", col).
		Str("op", op).
		Msg("cell skipped")
}

func (w *tableWriter) setCell(row, col int, value interface{}, style *CellStyle) {
	if err := w.sink.SetCell(w.sheet, row, col, value, style); err != nil {
		w.skip("set", row, col, err)
		return
	}
	w.outcome.CellsWritten++
}

// writeAliases writes the row hierarchy's header names left to right
func (w *tableWriter) writeAliases(headers []string, row, col int) {
	for i, h := range headers {
		style := CellStyle{Horizontal: "left", Vertical: "top"}
		if w.styling {
			style = w.theme.HeaderStyle("left")
		}
		w.setCell(row, col+i, h, &style)
	}
}

// writeHeaders writes every placed node of tree into its span. Depth d of the
// hierarchy lands on band base+d-1 of the cross axis.
func (w *tableWriter) writeHeaders(tree *Node, axis Axis, base int, merge bool) {
	horizontal := "center"
	if axis == AxisRows {
		horizontal = "left"
	}
	style := CellStyle{Horizontal: horizontal, Vertical: "top"}
	if w.styling {
		style = w.theme.HeaderStyle(horizontal)
	}

	tree.Walk(func(node *Node, depth int) {
		if !node.Placed() {
			return
		}
		band := base + depth - 1
		span := NewExtremes()
		for i := node.Start; i < node.End; i++ {
			row, col := i, band
			if axis == AxisColumns {
				row, col = band, i
			}
			span.Include(row, col)
			w.setCell(row, col, node.Name, &style)
		}
		if !merge || node.End-node.Start < 2 {
			return
		}
		if err := w.sink.MergeRegion(w.sheet, span.RowMin, span.ColMin, span.RowMax, span.ColMax); err != nil {
			w.skip("merge", span.RowMin, span.ColMin, err)
			return
		}
		w.outcome.Merges++
	})
}

type placedValue struct {
	value   interface{}
	percent bool
}

type cellPos struct {
	row, col int
}

// placeData locates every row's cell through both trees and writes the first
// measure there. With styling on, the whole envelope is painted with the pane
// colors, empty cells included.
func (w *tableWriter) placeData(t *Table, rowTree, colTree *Node, origin Origin) (Extremes, error) {
	ext := NewExtremes()
	if len(t.Spec.Measures) == 0 {
		return ext, nil
	}

	cells := make(map[cellPos]placedValue)
	order := make([]cellPos, 0, len(t.Data))
	for i, row := range t.Data {
		rnode, err := rowTree.Descend(row, t.Spec.Rows)
		if err != nil {
			return ext, &TableError{Table: t.Spec.Name, Err: rowError(i, err)}
		}
		cnode, err := colTree.Descend(row, t.Spec.Columns)
		if err != nil {
			return ext, &TableError{Table: t.Spec.Name, Err: rowError(i, err)}
		}

		// every configured measure must exist, only the first one is placed
		measures := make([]CellValue, 0, len(t.Spec.Measures))
		for _, m := range t.Spec.Measures {
			cell, err := row.At(m.Index)
			if err != nil {
				return ext, &TableError{Table: t.Spec.Name, Err: rowError(i, err)}
			}
			measures = append(measures, cell)
		}

		pos := cellPos{row: origin.DataRow, col: origin.DataCol}
		if rnode.Placed() {
			pos.row = rnode.Start
		}
		if cnode.Placed() {
			pos.col = cnode.Start
		}
		ext.Include(pos.row, pos.col)

		if _, seen := cells[pos]; !seen {
			order = append(order, pos)
		}
		cells[pos] = placedValue{
			value:   measures[0].Value,
			percent: strings.HasSuffix(measures[0].Formatted, "%"),
		}
	}

	if !w.styling {
		for _, pos := range order {
			v := cells[pos]
			var style *CellStyle
			if v.percent {
				style = &CellStyle{NumberFormat: PercentFormat}
			}
			w.setCell(pos.row, pos.col, v.value, style)
		}
		return ext, nil
	}

	for col := ext.ColMin; col <= ext.ColMax; col++ {
		for row := ext.RowMin; row <= ext.RowMax; row++ {
			v, ok := cells[cellPos{row: row, col: col}]
			format := ""
			if v.percent {
				format = PercentFormat
			}
			style := w.theme.PaneStyle(row, format)
			if !ok {
				w.setCell(row, col, nil, &style)
				continue
			}
			w.setCell(row, col, v.value, &style)
		}
	}
	return ext, nil
}

func rowError(i int, err error) error {
	return fmt.Errorf("row %d: %w", i, err)
}
