package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/pivot"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/modules/extract/models"
)

// ErrInvalidMetadata is returned when a session's metadata cannot describe its tables
var ErrInvalidMetadata = errors.New("invalid table metadata")

// WorkbookBuilder turns decoded upload bodies into a pivot.Workbook
type WorkbookBuilder struct {
	themes       *pivot.ThemeSet
	defaultTheme string
}

// NewWorkbookBuilder creates a builder resolving palettes from themes.
// defaultTheme is used by sessions that name no theme.
func NewWorkbookBuilder(themes *pivot.ThemeSet, defaultTheme string) *WorkbookBuilder {
	if themes == nil {
		themes = pivot.BuiltinThemes()
	}
	return &WorkbookBuilder{themes: themes, defaultTheme: defaultTheme}
}

// Build assembles the workbook; tables are ordered by their upload ordinal
func (b *WorkbookBuilder) Build(req *models.SessionRequest, tables []models.TableUpload) (*pivot.Workbook, error) {
	req.Normalize()

	base, err := b.basePalette(req.Theme)
	if err != nil {
		return nil, err
	}

	ordered := make([]models.TableUpload, len(tables))
	copy(ordered, tables)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].UploadID < ordered[j].UploadID
	})

	wb := &pivot.Workbook{
		Title:          req.Title,
		DisclaimerName: req.DisclaimerName,
		Description:    *req.Description,
		Mode:           pivot.Mode(req.Mode),
		Orientation:    pivot.Orientation(req.Orientation),
		Styling:        bool(*req.HasStyling),
		Tables:         make([]pivot.Table, 0, len(ordered)),
	}

	for i := range ordered {
		t := &ordered[i]
		meta, ok := req.Metadata[t.Name]
		if !ok {
			return nil, fmt.Errorf("%w: no metadata for table %q", ErrInvalidMetadata, t.Name)
		}
		spec, err := buildSpec(t, &meta, base)
		if err != nil {
			return nil, err
		}

		data := make([]pivot.Row, len(t.Data))
		for j, row := range t.Data {
			data[j] = pivot.Row(row)
		}
		wb.Tables = append(wb.Tables, pivot.Table{Spec: *spec, Data: data})
	}
	return wb, nil
}

func (b *WorkbookBuilder) basePalette(theme string) (pivot.Palette, error) {
	if theme == "" {
		theme = b.defaultTheme
	}
	p, ok := b.themes.Palette(theme)
	if !ok {
		return nil, fmt.Errorf("%w: unknown theme %q", ErrInvalidMetadata, theme)
	}
	return p, nil
}

func buildSpec(t *models.TableUpload, meta *models.TableMeta, base pivot.Palette) (*pivot.TableSpec, error) {
	sorting, err := sortRules(meta)
	if err != nil {
		return nil, fmt.Errorf("table %q: %w", t.Name, err)
	}

	palette := make(pivot.Palette, len(base)+len(t.Color))
	for slot, color := range base {
		palette[slot] = color
	}
	for slot, color := range t.Color {
		palette[slot] = color.Hex
	}

	merge := true
	if meta.Merge != nil {
		merge = bool(*meta.Merge)
	}

	return &pivot.TableSpec{
		Name:              t.Name,
		Alias:             t.Alias,
		Rows:              fieldRefs(t, meta.Rows),
		Columns:           fieldRefs(t, meta.Columns),
		Measures:          fieldRefs(t, meta.Measures),
		ShowRowHeaders:    bool(meta.WithHeadersRow),
		ShowColumnHeaders: bool(meta.WithHeadersCol),
		ShowRowAliases:    bool(meta.WithAliasRow),
		Merge:             merge,
		MarginRow:         int(t.MarginRow),
		MarginCol:         int(t.MarginCol),
		Sorting:           sorting,
		Palette:           palette,
	}, nil
}

func fieldRefs(t *models.TableUpload, fields []models.FieldIndex) []pivot.FieldRef {
	refs := make([]pivot.FieldRef, len(fields))
	for i, f := range fields {
		index := int(f.Index)
		refs[i] = pivot.FieldRef{Index: index, Header: t.Header(index)}
	}
	return refs
}

// sortRules maps the sorting list to directives. An entry with a "sorted"
// flag is automatic; one without takes its manual order from custom_sort.
// An empty list leaves every header on the default.
func sortRules(meta *models.TableMeta) (pivot.SortRules, error) {
	rules := make(pivot.SortRules, len(meta.Sorting))
	for _, entry := range meta.Sorting {
		if entry.Sorted != nil {
			rules[entry.Name] = pivot.Automatic(bool(*entry.Sorted))
			continue
		}
		custom, ok := meta.CustomSort[entry.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q has neither a direction nor a custom order", ErrInvalidMetadata, entry.Name)
		}
		order := make([]string, len(custom.Sort))
		for i, v := range custom.Sort {
			order[i] = string(v)
		}
		rules[entry.Name] = pivot.Manual(order, bool(custom.Sorted))
	}
	return rules, nil
}

// DecodeTables decodes stored table payloads
func DecodeTables(payloads [][]byte) ([]models.TableUpload, error) {
	tables := make([]models.TableUpload, len(payloads))
	for i, p := range payloads {
		if err := json.Unmarshal(p, &tables[i]); err != nil {
			return nil, fmt.Errorf("%w: table %d: %v", ErrInvalidMetadata, i, err)
		}
	}
	return tables, nil
}
