// Package layout decides between compact and expanded slide layouts.
package layout

import (
	"fmt"
	"strings"
)

// Mode is a user override for a section's layout.
type Mode string

const (
	// Auto picks Expanded when the section's cardinality exceeds its threshold.
	Auto Mode = "auto"
	// Always forces Expanded.
	Always Mode = "always"
	// Never forces Compact.
	Never Mode = "never"
)

// ParseMode parses a config value. Empty text means Auto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return Auto, nil
	case Auto, Always, Never:
		return m, nil
	default:
		return "", fmt.Errorf("invalid layout mode %q: must be one of always, never, auto", s)
	}
}

// Valid reports whether m is one of the three modes.
func (m Mode) Valid() bool {
	switch m {
	case Auto, Always, Never:
		return true
	}
	return false
}

// UnmarshalText implements encoding.TextUnmarshaler so config decoding rejects unknown modes.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m), nil
}

// Variant is a presentation strategy for a section.
type Variant int

const (
	// Compact packs a section into few aggregate slides.
	Compact Variant = iota
	// Expanded spreads a section over one slide per item or page.
	Expanded
)

func (v Variant) String() string {
	if v == Expanded {
		return "expanded"
	}
	return "compact"
}

// Select applies mode to a section with the given cardinality.
// Auto (and any unrecognized mode) expands only when cardinality > threshold.
func Select(cardinality int, mode Mode, threshold int) Variant {
	switch mode {
	case Always:
		return Expanded
	case Never:
		return Compact
	}
	if cardinality > threshold {
		return Expanded
	}
	return Compact
}
