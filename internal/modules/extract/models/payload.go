package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/pivot"
)

// Defaults applied to a session body
const (
	DefaultTitle       = "Dashboard"
	DefaultDescription = "Here is the Excel data extract from your Tableau Dashboard"
)

// FlexBool decodes JSON booleans as well as "true"/"false" strings
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = FlexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid boolean %s", data)
	}
	s = strings.TrimSpace(s)
	*b = FlexBool(strings.EqualFold(s, "true") || s == "1")
	return nil
}

// FlexInt decodes JSON numbers as well as numeric strings
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = FlexInt(int(f))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid integer %s", data)
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid integer %q", s)
	}
	*n = FlexInt(v)
	return nil
}

// FlexString decodes any JSON scalar as its text form
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = FlexString(t)
	default:
		*s = FlexString(fmt.Sprint(t))
	}
	return nil
}

// SessionRequest is the body of POST /upload/start
type SessionRequest struct {
	Title          string               `json:"title"`
	DisclaimerName string               `json:"disclaimer_name"`
	Description    *string              `json:"description"`
	Mode           string               `json:"mode"`
	Orientation    string               `json:"orientation"`
	HasStyling     *FlexBool            `json:"has_styling"`
	Theme          string               `json:"theme"`
	Metadata       map[string]TableMeta `json:"metadata"`
}

// Normalize fills in the defaults of an incomplete body
func (r *SessionRequest) Normalize() {
	if r.Title == "" {
		r.Title = DefaultTitle
	}
	if r.Description == nil {
		desc := DefaultDescription
		r.Description = &desc
	}
	if r.Mode != string(pivot.ModeSingle) {
		r.Mode = string(pivot.ModeMany)
	}
	if r.Orientation != string(pivot.Horizontal) {
		r.Orientation = string(pivot.Vertical)
	}
	if r.HasStyling == nil {
		styling := FlexBool(true)
		r.HasStyling = &styling
	}
	if r.Metadata == nil {
		r.Metadata = make(map[string]TableMeta)
	}
}

// TableMeta describes how one table of the dashboard is laid out
type TableMeta struct {
	WithHeadersRow FlexBool              `json:"with_headers_row"`
	WithHeadersCol FlexBool              `json:"with_headers_col"`
	WithAliasRow   FlexBool              `json:"with_alias_row"`
	Sorting        []SortEntry           `json:"sorting"`
	CustomSort     map[string]CustomSort `json:"custom_sort"`
	Rows           []FieldIndex          `json:"rows"`
	Columns        []FieldIndex          `json:"columns"`
	Measures       []FieldIndex          `json:"measures"`
	Headers        []HeaderName          `json:"headers"`
	Merge          *FlexBool             `json:"merge"`
}

// SortEntry names a header and, when Sorted is set, its automatic direction
type SortEntry struct {
	Name   string    `json:"name"`
	Sorted *FlexBool `json:"sorted"`
}

// CustomSort is a manual category order with the direction of the leftovers
type CustomSort struct {
	Sort   []FlexString `json:"sort"`
	Sorted FlexBool     `json:"sorted"`
}

// FieldIndex points at a column of the table's rows
type FieldIndex struct {
	Index FlexInt `json:"index"`
}

// HeaderName is a display header of the dashboard
type HeaderName struct {
	Name string `json:"name"`
}

// TableUpload is the body of POST /upload/{upload_id}
type TableUpload struct {
	UploadID  FlexInt              `json:"upload_id"`
	Data      [][]pivot.CellValue  `json:"_data"`
	Columns   []ColumnInfo         `json:"_columns"`
	Alias     string               `json:"alias"`
	Name      string               `json:"name"`
	MarginCol FlexInt              `json:"margin_col"`
	MarginRow FlexInt              `json:"margin_row"`
	Color     map[string]ColorSpec `json:"color"`
}

// ColumnInfo describes one column of the table's rows
type ColumnInfo struct {
	FieldName string `json:"_fieldName"`
}

// ColorSpec is a palette entry
type ColorSpec struct {
	Hex string `json:"hex"`
}

// Header returns the field name of column index, or "" when out of range
func (t *TableUpload) Header(index int) string {
	if index < 0 || index >= len(t.Columns) {
		return ""
	}
	return t.Columns[index].FieldName
}
