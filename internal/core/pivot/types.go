package pivot

import (
	"fmt"
	"strconv"
	"strings"
)

// CellValue is one cell of an extracted row: the raw value plus its display string
type CellValue struct {
	Value     interface{} `json:"_value"`
	Formatted string      `json:"_formattedValue"`
}

// Key returns the grouping identity of the cell. Categories are grouped by
// display string, never by raw value.
func (v CellValue) Key() string {
	return v.Formatted
}

// SortValue returns the value used to order categories.
// Binned ranges ("[0, 10)") are not stable identities, so they sort by display string.
func (v CellValue) SortValue() interface{} {
	if strings.HasPrefix(stringForm(v.Value), "[") {
		return v.Formatted
	}
	return v.Value
}

// Row is one flat row of the extract
type Row []CellValue

// At returns the cell at index or a FieldIndexError when the row is too short
func (r Row) At(index int) (CellValue, error) {
	if index < 0 || index >= len(r) {
		return CellValue{}, &FieldIndexError{Index: index, Width: len(r)}
	}
	return r[index], nil
}

// FieldRef points at one source column of the extract
type FieldRef struct {
	Index  int    `json:"index"`
	Header string `json:"header"`
}

// SortKind tells automatic and manual directives apart
type SortKind int

const (
	SortAutomatic SortKind = iota
	SortManual
)

// SortDirective orders the siblings of one header.
// Descending mirrors the extension's "sorted" flag, which is a reverse flag.
type SortDirective struct {
	Kind       SortKind
	Descending bool
	Order      []string // manual order, only read when Kind == SortManual
}

// Automatic returns a value/alphabetic directive
func Automatic(descending bool) SortDirective {
	return SortDirective{Kind: SortAutomatic, Descending: descending}
}

// Manual returns a directive placing the listed categories first, in list order,
// and the remaining ones after them sorted with the fallback direction.
func Manual(order []string, descending bool) SortDirective {
	return SortDirective{Kind: SortManual, Descending: descending, Order: order}
}

// SortRules maps header names to their directive
type SortRules map[string]SortDirective

// For returns the directive for header. Headers without a rule sort
// automatically with the reverse flag set, like an empty sorting list does.
func (r SortRules) For(header string) SortDirective {
	if d, ok := r[header]; ok {
		return d
	}
	return Automatic(true)
}

// Mode controls how tables share sheets
type Mode string

const (
	ModeMany   Mode = "many"   // one sheet per table
	ModeSingle Mode = "single" // tables stacked on a shared sheet
)

// Orientation is the stacking direction in single mode
type Orientation string

const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
)

// TableSpec is the immutable export configuration of one table
type TableSpec struct {
	Name  string // metadata key
	Alias string // sheet name
	Title string

	Rows     []FieldRef
	Columns  []FieldRef
	Measures []FieldRef

	ShowRowHeaders    bool
	ShowColumnHeaders bool
	ShowRowAliases    bool
	Merge             bool

	MarginRow int
	MarginCol int

	Sorting SortRules
	Palette Palette
}

// SheetName returns the name of the sheet the table opens
func (s *TableSpec) SheetName() string {
	switch {
	case s.Alias != "":
		return s.Alias
	case s.Title != "":
		return s.Title
	default:
		return s.Name
	}
}

// Table couples a spec with its rows
type Table struct {
	Spec TableSpec
	Data []Row
}

// Workbook is everything one export renders
type Workbook struct {
	Title          string
	DisclaimerName string
	Description    string
	Mode           Mode
	Orientation    Orientation
	Styling        bool
	Tables         []Table
}

// stringForm renders a raw value the way the fallback comparison sees it.
// A missing value reads "None" so null categories sort among the labels.
func stringForm(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case interface{ String() string }:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
