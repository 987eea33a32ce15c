package pivot

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed themes.yaml
var builtinThemes []byte

// ThemeSet is a named collection of palettes
type ThemeSet struct {
	Default string             `yaml:"default"`
	Themes  map[string]Palette `yaml:"themes"`
}

var builtin = mustLoadThemes(builtinThemes)

func mustLoadThemes(data []byte) *ThemeSet {
	set, err := LoadThemes(data)
	if err != nil {
		panic(fmt.Sprintf("pivot: built-in themes: %v", err))
	}
	return set
}

// LoadThemes parses a YAML theme file and validates every color in it
func LoadThemes(data []byte) (*ThemeSet, error) {
	var set ThemeSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse themes: %w", err)
	}
	for name, palette := range set.Themes {
		for slot, color := range palette {
			if _, err := NormalizeHex(color); err != nil {
				return nil, fmt.Errorf("theme %q: %w", name, &ColorError{Slot: slot, Color: color})
			}
		}
	}
	if set.Default != "" {
		if _, ok := set.Themes[set.Default]; !ok {
			return nil, fmt.Errorf("default theme %q is not defined", set.Default)
		}
	}
	return &set, nil
}

// BuiltinThemes returns the embedded theme set
func BuiltinThemes() *ThemeSet {
	return builtin.clone()
}

// DefaultPalette returns the palette tables fall back to when they carry no colors
func DefaultPalette() Palette {
	return builtin.Themes[builtin.Default].clone()
}

// Merge adds the themes of other, overriding same-named ones, and adopts its default if set
func (s *ThemeSet) Merge(other *ThemeSet) {
	if other == nil {
		return
	}
	if s.Themes == nil {
		s.Themes = make(map[string]Palette)
	}
	for name, p := range other.Themes {
		s.Themes[name] = p.clone()
	}
	if other.Default != "" {
		s.Default = other.Default
	}
}

// Palette returns the named theme, or the default one when name is empty
func (s *ThemeSet) Palette(name string) (Palette, bool) {
	if name == "" {
		name = s.Default
	}
	p, ok := s.Themes[name]
	if !ok {
		return nil, false
	}
	return p.clone(), true
}

// Names returns the theme names in alphabetical order
func (s *ThemeSet) Names() []string {
	names := make([]string, 0, len(s.Themes))
	for name := range s.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *ThemeSet) clone() *ThemeSet {
	out := &ThemeSet{Default: s.Default, Themes: make(map[string]Palette, len(s.Themes))}
	for name, p := range s.Themes {
		out.Themes[name] = p.clone()
	}
	return out
}

func (p Palette) clone() Palette {
	out := make(Palette, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
