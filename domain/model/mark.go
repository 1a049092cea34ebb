package model

import "strings"

// MarkKind is the geometric shape drawn for each datum.
type MarkKind int

const (
	// MarkUnknown means no kind has been selected yet
	MarkUnknown MarkKind = iota
	MarkArc
	MarkArea
	MarkBar
	MarkCircle
	MarkLine
	MarkPoint
	MarkRect
	MarkRule
	MarkSquare
	MarkTick
	MarkTrail
)

var markKindNames = []string{
	MarkUnknown: "",
	MarkArc:     "arc",
	MarkArea:    "area",
	MarkBar:     "bar",
	MarkCircle:  "circle",
	MarkLine:    "line",
	MarkPoint:   "point",
	MarkRect:    "rect",
	MarkRule:    "rule",
	MarkSquare:  "square",
	MarkTick:    "tick",
	MarkTrail:   "trail",
}

// String returns the Vega-Lite mark type name
func (m MarkKind) String() string {
	if m < 0 || int(m) >= len(markKindNames) {
		return ""
	}
	return markKindNames[m]
}

// ParseMarkKind matches a mark name case-insensitively.
func ParseMarkKind(s string) (MarkKind, bool) {
	lower := strings.ToLower(s)
	if lower == "" {
		return MarkUnknown, false
	}
	for kind, name := range markKindNames {
		if name == lower {
			return MarkKind(kind), true
		}
	}
	return MarkUnknown, false
}

// MarkSpec is the selected mark and its styling.
type MarkSpec struct {
	Kind  MarkKind
	Color string
}

// SetColor styles the currently selected mark kind.
func (m *MarkSpec) SetColor(color string) error {
	if m.Kind == MarkUnknown {
		return ErrMarkKindUnset
	}
	m.Color = color
	return nil
}
