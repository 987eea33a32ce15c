package pivot

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidColor indicates a palette color that is not a 3 or 6 digit hex triplet.
	ErrInvalidColor = errors.New("invalid hex color")

	// ErrFieldIndex indicates a row narrower than an axis or measure reference.
	ErrFieldIndex = errors.New("field index out of range")

	// ErrUnknownCategory indicates a row value with no matching node in an axis tree.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrSkippedCells is returned in strict mode when any cell could not be written.
	ErrSkippedCells = errors.New("cells skipped during render")
)

// ColorError reports the palette slot holding a malformed color
type ColorError struct {
	Slot  string
	Color string
}

func (e *ColorError) Error() string {
	return fmt.Sprintf("palette slot %q: %v: %q", e.Slot, ErrInvalidColor, e.Color)
}

func (e *ColorError) Unwrap() error {
	return ErrInvalidColor
}

// FieldIndexError reports a reference past the end of a row
type FieldIndexError struct {
	Index int
	Width int
}

func (e *FieldIndexError) Error() string {
	return fmt.Sprintf("%v: index %d, row has %d fields", ErrFieldIndex, e.Index, e.Width)
}

func (e *FieldIndexError) Unwrap() error {
	return ErrFieldIndex
}

// TableError wraps a failure with the table it happened in
type TableError struct {
	Table string
	Err   error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("table %q: %v", e.Table, e.Err)
}

func (e *TableError) Unwrap() error {
	return e.Err
}
