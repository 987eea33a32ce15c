package pivot

// Sink receives the rendered grid. Rows and columns are 0-based; a sink
// rejects coordinates it cannot address by returning an error.
type Sink interface {
	CreateSheet(name string, position int) error
	SetCell(sheet string, row, col int, value interface{}, style *CellStyle) error
	MergeRegion(sheet string, rowStart, colStart, rowEnd, colEnd int) error
	SetColumnWidth(sheet string, col int, width float64) error
	SetRowHeight(sheet string, row int, height float64) error
	RemoveSheet(name string) error

	// DefaultSheet names the sheet a fresh workbook starts with, "" if none
	DefaultSheet() string
}
