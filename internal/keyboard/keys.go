package keyboard

import (
	"encoding/json"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

type KeyType string

const (
	TypeKey KeyType = "key"
	// TypeSeparator is spelled like this in definition files.
	TypeSeparator KeyType = "seperator"
)

// KeyWidths are the widths a key may have, relative to a normal key.
var KeyWidths = []float64{1, 1.2, 1.5, 1.7, 1.9, 2, 2.525, 2.6, 3, 4, 7}

const defaultWidth = 1

// KeyDef is one entry of a key row: a key or a gap.
// In files a plain string is a key of default width.
type KeyDef struct {
	Type  KeyType
	Label string
	Width float64 // 0 means default width.
}

// Key is a shorthand for a key definition.
func Key(label string, width float64) KeyDef {
	return KeyDef{Type: TypeKey, Label: label, Width: width}
}

// Separator is a shorthand for a gap in a row.
func Separator(width float64) KeyDef {
	return KeyDef{Type: TypeSeparator, Width: width}
}

func (d KeyDef) Validate() error {
	switch d.Type {
	case TypeKey, "":
		if d.Width != 0 && !slices.Contains(KeyWidths, d.Width) {
			return fmt.Errorf("key %q has unsupported width %v", d.Label, d.Width)
		}
	case TypeSeparator:
		if d.Width < 0 {
			return fmt.Errorf("separator has negative width %v", d.Width)
		}
	default:
		return fmt.Errorf("unknown key type %q", d.Type)
	}
	return nil
}

type keyDefObject struct {
	Type  KeyType `yaml:"type,omitempty" json:"type,omitempty"`
	Label string  `yaml:"label,omitempty" json:"label,omitempty"`
	Width float64 `yaml:"width,omitempty" json:"width,omitempty"`
}

func (d *KeyDef) fromObject(obj keyDefObject) error {
	switch obj.Type {
	case "", TypeKey:
		*d = KeyDef{Type: TypeKey, Label: obj.Label, Width: obj.Width}
	case TypeSeparator:
		*d = KeyDef{Type: TypeSeparator, Width: obj.Width}
	default:
		return fmt.Errorf("unknown key type %q", obj.Type)
	}
	return nil
}

func (d KeyDef) toAny() any {
	if d.Type == TypeSeparator {
		return keyDefObject{Type: TypeSeparator, Width: d.Width}
	}
	if d.Width == 0 {
		return d.Label
	}
	return keyDefObject{Label: d.Label, Width: d.Width}
}

func (d *KeyDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*d = KeyDef{Type: TypeKey, Label: node.Value}
		return nil
	}
	var obj keyDefObject
	err := node.Decode(&obj)
	if err != nil {
		return err
	}
	return d.fromObject(obj)
}

func (d KeyDef) MarshalYAML() (any, error) {
	return d.toAny(), nil
}

func (d *KeyDef) UnmarshalJSON(data []byte) error {
	var label string
	if json.Unmarshal(data, &label) == nil {
		*d = KeyDef{Type: TypeKey, Label: label}
		return nil
	}
	var obj keyDefObject
	err := json.Unmarshal(data, &obj)
	if err != nil {
		return err
	}
	return d.fromObject(obj)
}

func (d KeyDef) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.toAny())
}

// ConvertedKey is a key definition with all defaults applied.
type ConvertedKey struct {
	Type  KeyType
	Label string
	Width float64
	Index int
}

// Convert applies the defaults to a key definition at position index of its row.
func Convert(def KeyDef, index int) ConvertedKey {
	width := def.Width
	if width == 0 {
		width = defaultWidth
	}
	if def.Type == TypeSeparator {
		return ConvertedKey{
			Type:  TypeSeparator,
			Width: width,
			Index: index,
		}
	}
	return ConvertedKey{
		Type:  TypeKey,
		Label: def.Label,
		Width: width,
		Index: index,
	}
}

// ConvertRow converts a whole row.
func ConvertRow(row []KeyDef) []ConvertedKey {
	ret := make([]ConvertedKey, 0, len(row))
	for i, def := range row {
		ret = append(ret, Convert(def, i))
	}
	return ret
}

func keys(labels ...string) []KeyDef {
	ret := make([]KeyDef, 0, len(labels))
	for _, l := range labels {
		ret = append(ret, KeyDef{Type: TypeKey, Label: l})
	}
	return ret
}

// DefaultKeys returns a fresh copy of the reference QWERTY layout.
func DefaultKeys() [][]KeyDef {
	return [][]KeyDef{
		slices.Concat(
			keys("Esc"),
			[]KeyDef{Separator(1.15)},
			keys("F1", "F2", "F3", "F4"),
			[]KeyDef{Separator(0.35)},
			keys("F5", "F6", "F7", "F8"),
			[]KeyDef{Separator(0.35)},
			keys("F9", "F10", "F11", "F12"),
			[]KeyDef{Separator(0.35)},
		),
		slices.Concat(
			keys("`", "1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "-", "="),
			[]KeyDef{Key("Backspace", 1.7)},
		),
		slices.Concat(
			[]KeyDef{Key("Tab", 1.5)},
			keys("q", "w", "e", "r", "t", "y", "u", "i", "o", "p", "[", "]"),
			[]KeyDef{Key("\\", 1.2)},
		),
		slices.Concat(
			[]KeyDef{Key("Caps Lock", 1.9)},
			keys("a", "s", "d", "f", "g", "h", "j", "k", "l", ";", "'"),
			[]KeyDef{Key("Enter", 2)},
		),
		slices.Concat(
			[]KeyDef{Key("Shift", 2.525)},
			keys("z", "x", "c", "v", "b", "n", "m", ",", ".", "/"),
			[]KeyDef{Key("Shift", 2.525)},
		),
		{
			Key("Ctrl", 1.2),
			Key("OS", 1.2),
			Key("Alt", 1.2),
			Key("Space", 7),
			Key("Alt", 1.2),
			Key("OS", 1.2),
			Key("", 0),
			Key("Ctrl", 1.7),
		},
	}
}
