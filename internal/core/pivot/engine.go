package pivot

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Disclaimer sheet geometry
const (
	disclaimerWidth  = 150
	disclaimerHeight = 150
)

// Engine renders workbooks into a Sink
type Engine struct {
	logger zerolog.Logger
	strict bool
}

// Option configures an Engine
type Option func(*Engine)

// WithStrictCells makes any skipped cell fail the render with ErrSkippedCells
func WithStrictCells(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// NewEngine creates a new engine logging through logger
func NewEngine(logger zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{logger: logger.With().Str("component", "pivot").Logger()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render writes the optional disclaimer sheet and every table of wb into sink.
// Palette and structural errors abort the render; rejected cells are counted
// in the outcome and only abort it in strict mode.
func (e *Engine) Render(sink Sink, wb *Workbook) (*RenderOutcome, error) {
	outcome := &RenderOutcome{}
	position := 0

	if wb.DisclaimerName != "" {
		if err := e.writeDisclaimer(sink, wb, outcome); err != nil {
			return outcome, err
		}
		position++
	}

	layout := NewLayout(wb.Mode, wb.Orientation)
	sheet := ""
	for i := range wb.Tables {
		t := &wb.Tables[i]
		if layout.NewSheet(i == 0) {
			sheet = t.Spec.SheetName()
			if err := sink.CreateSheet(sheet, position); err != nil {
				return outcome, &TableError{Table: t.Spec.Name, Err: fmt.Errorf("failed to create sheet %q: %w", sheet, err)}
			}
			outcome.Sheets = append(outcome.Sheets, sheet)
		}

		ext, origin, err := e.renderTable(sink, sheet, wb.Styling, t, layout, outcome)
		if err != nil {
			return outcome, err
		}
		layout.Advance(ext)
		position++

		outcome.Tables = append(outcome.Tables, TableOutcome{
			Name:     t.Spec.Name,
			Sheet:    sheet,
			Origin:   origin,
			Extremes: ext,
			Rows:     len(t.Data),
		})
		e.logger.Debug().
			Str("table", t.Spec.Name).
			Str("sheet", sheet).
			Int("rows", len(t.Data)).
			Msg("table rendered")
	}

	if def := sink.DefaultSheet(); def != "" && len(outcome.Sheets) > 0 && !contains(outcome.Sheets, def) {
		if err := sink.RemoveSheet(def); err != nil {
			return outcome, fmt.Errorf("failed to remove default sheet: %w", err)
		}
	}

	if e.strict && outcome.CellsSkipped > 0 {
		return outcome, fmt.Errorf("%w: %d", ErrSkippedCells, outcome.CellsSkipped)
	}
	return outcome, nil
}

// renderTable runs the build, measure, sort, assign, header and data passes for one table
func (e *Engine) renderTable(sink Sink, sheet string, styling bool, t *Table, layout *Layout, outcome *RenderOutcome) (Extremes, Origin, error) {
	palette := t.Spec.Palette
	if palette == nil {
		palette = DefaultPalette()
	}
	theme, err := ResolvePalette(palette)
	if err != nil {
		return NewExtremes(), Origin{}, &TableError{Table: t.Spec.Name, Err: err}
	}

	rowTree, err := BuildTree(t.Data, t.Spec.Rows)
	if err != nil {
		return NewExtremes(), Origin{}, &TableError{Table: t.Spec.Name, Err: err}
	}
	colTree, err := BuildTree(t.Data, t.Spec.Columns)
	if err != nil {
		return NewExtremes(), Origin{}, &TableError{Table: t.Spec.Name, Err: err}
	}

	rowTree.Measure()
	colTree.Measure()
	rowTree.Sort(t.Spec.Sorting)
	colTree.Sort(t.Spec.Sorting)

	origin := layout.Origin(&t.Spec)
	rowTree.Assign(origin.DataRow)
	colTree.Assign(origin.DataCol)

	w := &tableWriter{
		sink:    sink,
		sheet:   sheet,
		theme:   theme,
		styling: styling,
		outcome: outcome,
		logger:  e.logger.With().Str("table", t.Spec.Name).Logger(),
	}

	if t.Spec.ShowRowHeaders {
		if t.Spec.ShowRowAliases {
			w.writeAliases(rowTree.Headers(), origin.DataRow-1, origin.HeaderCol)
		}
		w.writeHeaders(rowTree, AxisRows, origin.HeaderCol, t.Spec.Merge)
	}
	if t.Spec.ShowColumnHeaders {
		w.writeHeaders(colTree, AxisColumns, origin.HeaderRow, t.Spec.Merge)
	}

	ext, err := w.placeData(t, rowTree, colTree, origin)
	return ext, origin, err
}

func (e *Engine) writeDisclaimer(sink Sink, wb *Workbook, outcome *RenderOutcome) error {
	name := wb.DisclaimerName
	if err := sink.CreateSheet(name, 0); err != nil {
		return fmt.Errorf("failed to create disclaimer sheet: %w", err)
	}
	outcome.Sheets = append(outcome.Sheets, name)

	w := &tableWriter{sink: sink, sheet: name, outcome: outcome, logger: e.logger}
	w.setCell(1, 1, wb.Description, &CellStyle{WrapText: true})

	if err := sink.SetColumnWidth(name, 1, disclaimerWidth); err != nil {
		w.skip("width", 0, 1, err)
	}
	if err := sink.SetRowHeight(name, 1, disclaimerHeight); err != nil {
		w.skip("height", 1, 0, err)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
