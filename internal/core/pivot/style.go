package pivot

import (
	"strconv"
	"strings"
)

// Palette slots used by the renderer
const (
	SlotHeaderFill   = "header_fill"
	SlotHeaderBorder = "header_border"
	SlotPaneFill0    = "pane_fill_0"
	SlotPaneFill1    = "pane_fill_1"
	SlotPaneBorder   = "pane_border"
	SlotNull         = "null"
)

// Foreground colors picked by luminance
const (
	DarkFont  = "000000"
	LightFont = "FFFFFF"
)

// luminanceThreshold separates light backgrounds (dark text) from dark ones
const luminanceThreshold = 186

// Palette maps slots to hex colors ("#C40F25", "fff", ...)
type Palette map[string]string

// Fill is a solid background with its readable foreground
type Fill struct {
	Color     string
	FontColor string
}

// Theme is a resolved palette: fills for fill slots, border colors for border slots
type Theme struct {
	Fills   map[string]Fill
	Borders map[string]string
}

// CellStyle is the sink-independent description of a cell's look.
// It is comparable so sinks can cache their native style handles by value.
type CellStyle struct {
	Fill         string
	FontColor    string
	BorderColor  string
	Horizontal   string
	Vertical     string
	NumberFormat string
	WrapText     bool
}

// PercentFormat is applied to measures displayed with a trailing percent sign
const PercentFormat = "0.00%"

// NormalizeHex strips the leading '#', doubles 3-digit shorthand and upper-cases the result
func NormalizeHex(hex string) (string, error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return "", ErrInvalidColor
	}
	if _, err := strconv.ParseUint(h, 16, 32); err != nil {
		return "", ErrInvalidColor
	}
	return strings.ToUpper(h), nil
}

// Luminance returns the perceived brightness of a 6-digit hex color
func Luminance(hex string) (float64, error) {
	h, err := NormalizeHex(hex)
	if err != nil {
		return 0, err
	}
	v, _ := strconv.ParseUint(h, 16, 32)
	r := float64(v >> 16 & 0xFF)
	g := float64(v >> 8 & 0xFF)
	b := float64(v & 0xFF)
	// explicit conversions keep the products from being fused
	return float64(0.299*r) + float64(0.587*g) + float64(0.114*b), nil
}

// ContrastFont returns the font color readable on top of hex
func ContrastFont(hex string) (string, error) {
	l, err := Luminance(hex)
	if err != nil {
		return "", err
	}
	if l > luminanceThreshold {
		return DarkFont, nil
	}
	return LightFont, nil
}

// ResolvePalette turns a palette into fills and borders. Slots whose name
// contains "border" become borders, every other slot a fill.
// Missing slots come from the built-in default theme.
func ResolvePalette(p Palette) (*Theme, error) {
	merged := make(Palette, len(p))
	for slot, color := range DefaultPalette() {
		merged[slot] = color
	}
	for slot, color := range p {
		merged[slot] = color
	}

	theme := &Theme{
		Fills:   make(map[string]Fill),
		Borders: make(map[string]string),
	}
	for slot, color := range merged {
		h, err := NormalizeHex(color)
		if err != nil {
			return nil, &ColorError{Slot: slot, Color: color}
		}
		if strings.Contains(slot, "border") {
			theme.Borders[slot] = h
			continue
		}
		font, _ := ContrastFont(h)
		theme.Fills[slot] = Fill{Color: h, FontColor: font}
	}
	return theme, nil
}

// HeaderStyle styles a header or alias cell
func (t *Theme) HeaderStyle(horizontal string) CellStyle {
	fill := t.Fills[SlotHeaderFill]
	return CellStyle{
		Fill:        fill.Color,
		FontColor:   fill.FontColor,
		BorderColor: t.Borders[SlotHeaderBorder],
		Horizontal:  horizontal,
		Vertical:    "top",
	}
}

// PaneStyle styles a data-region cell. Rows alternate between the two pane
// fills; row is 0-based, so the first sheet row takes pane_fill_0.
func (t *Theme) PaneStyle(row int, numberFormat string) CellStyle {
	slot := SlotPaneFill0
	if row%2 == 1 {
		slot = SlotPaneFill1
	}
	fill := t.Fills[slot]
	return CellStyle{
		Fill:         fill.Color,
		FontColor:    fill.FontColor,
		BorderColor:  t.Borders[SlotPaneBorder],
		NumberFormat: numberFormat,
	}
}
