// Package keycap computes what each key of a virtual keyboard shows.
package keycap

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/divVerent/vkeyboard/internal/keyboard"
)

// Blank is the color of keys without a matching variant or color.
var Blank = colorful.Color{R: 0.75, G: 0.75, B: 0.75}

// Cap is one key or separator as it is displayed.
type Cap struct {
	Key       string
	Label     string
	Events    []keyboard.Modifier
	Color     colorful.Color
	Width     float64
	Index     int
	Separator bool
	Found     bool
}

// ParseColor parses a color of a definition file.
func ParseColor(s string) (colorful.Color, error) {
	return colorful.Hex(s)
}

func colorFor(o *keyboard.Options, events []keyboard.Modifier) colorful.Color {
	s, found := keyboard.ColorFor(o.Colors, events)
	if !found {
		return Blank
	}
	c, err := ParseColor(s)
	if err != nil {
		return Blank
	}
	return c
}

// Rows returns the caps of all key rows for a state with the given modifiers held.
func Rows(o *keyboard.Options, state string, pressed keyboard.ModifierSet) [][]Cap {
	rows := make([][]Cap, 0, len(o.Keys))
	for _, row := range o.Keys {
		caps := make([]Cap, 0, len(row))
		for _, k := range keyboard.ConvertRow(row) {
			c := Cap{
				Key:       k.Label,
				Width:     k.Width,
				Index:     k.Index,
				Separator: k.Type == keyboard.TypeSeparator,
			}
			if !c.Separator {
				v, found := keyboard.ActiveVariant(o.Lookup(state, k.Label), pressed)
				c.Found = found
				if found {
					c.Label = v.Label
					c.Events = v.Events
					c.Color = colorFor(o, v.Events)
				} else {
					c.Label = k.Label
					c.Color = Blank
				}
			}
			caps = append(caps, c)
		}
		rows = append(rows, caps)
	}
	return rows
}

// RowWidth returns the total relative width of a row.
func RowWidth(caps []Cap) float64 {
	w := 0.0
	for _, c := range caps {
		w += c.Width
	}
	return w
}

// MaxRowWidth returns the widest row's relative width.
func MaxRowWidth(rows [][]Cap) float64 {
	w := 0.0
	for _, r := range rows {
		w = max(w, RowWidth(r))
	}
	return w
}
