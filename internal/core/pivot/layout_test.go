package pivot

import "testing"

func TestExtremes(t *testing.T) {
	e := NewExtremes()
	if !e.Empty() {
		t.Fatal("New envelope must be empty")
	}
	e.Include(4, 2)
	e.Include(1, 7)
	if e.Empty() || e.RowMin != 1 || e.RowMax != 4 || e.ColMin != 2 || e.ColMax != 7 {
		t.Errorf("Unexpected envelope %+v", e)
	}
}

func TestLayoutOrigin(t *testing.T) {
	spec := &TableSpec{
		Rows:              []FieldRef{{Index: 0}, {Index: 1}},
		Columns:           []FieldRef{{Index: 2}},
		ShowRowHeaders:    true,
		ShowColumnHeaders: true,
		MarginRow:         1,
		MarginCol:         2,
	}
	o := NewLayout(ModeMany, Vertical).Origin(spec)
	expected := Origin{HeaderRow: 1, HeaderCol: 2, DataRow: 2, DataCol: 4}
	if o != expected {
		t.Errorf("Expected %+v, got %+v", expected, o)
	}

	spec.ShowRowHeaders = false
	o = NewLayout(ModeMany, Vertical).Origin(spec)
	if o.DataCol != 2 {
		t.Errorf("Expected no row header bands, got DataCol %d", o.DataCol)
	}
}

func TestLayoutAdvance(t *testing.T) {
	ext := NewExtremes()
	ext.Include(0, 0)
	ext.Include(4, 3)

	tests := []struct {
		name        string
		mode        Mode
		orientation Orientation
		row, col    int
	}{
		{"many never moves", ModeMany, Vertical, 0, 0},
		{"single vertical", ModeSingle, Vertical, 5, 0},
		{"single horizontal", ModeSingle, Horizontal, 0, 4},
	}
	for _, tt := range tests {
		l := NewLayout(tt.mode, tt.orientation)
		l.Advance(ext)
		if r, c := l.Cursor(); r != tt.row || c != tt.col {
			t.Errorf("%s: expected cursor (%d, %d), got (%d, %d)", tt.name, tt.row, tt.col, r, c)
		}
	}

	l := NewLayout(ModeSingle, Vertical)
	l.Advance(NewExtremes())
	if r, _ := l.Cursor(); r != 0 {
		t.Errorf("Empty envelope must not move the cursor, got row %d", r)
	}
}

func TestLayoutNewSheet(t *testing.T) {
	single := NewLayout(ModeSingle, Vertical)
	if !single.NewSheet(true) || single.NewSheet(false) {
		t.Error("Single mode opens a sheet for the first table only")
	}
	many := NewLayout("", "")
	if !many.NewSheet(false) {
		t.Error("Many mode opens a sheet for every table")
	}
}
