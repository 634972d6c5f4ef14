package keyboard

import (
	"fmt"
)

// Modifier is a key modifier that can change the label shown on a key.
type Modifier string

const (
	Alt     Modifier = "Alt"
	Control Modifier = "Control"
	Shift   Modifier = "Shift"
)

// Modifiers lists all supported modifiers in canonical order.
// Lock, meta and system modifiers (CapsLock, Meta, AltGraph, Fn, ...) are not supported.
var Modifiers = []Modifier{Alt, Control, Shift}

func ParseModifier(s string) (Modifier, error) {
	for _, m := range Modifiers {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unsupported modifier %q", s)
}

func (m *Modifier) UnmarshalText(text []byte) error {
	parsed, err := ParseModifier(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Modifier) MarshalText() ([]byte, error) {
	return []byte(m), nil
}

// ModifierSet is a membership map of modifiers.
type ModifierSet map[Modifier]bool

func NewModifierSet(events []Modifier) ModifierSet {
	set := make(ModifierSet, len(events))
	for _, e := range events {
		set[e] = true
	}
	return set
}

// Equal compares the sets, ignoring entries that are false.
func (s ModifierSet) Equal(other ModifierSet) bool {
	for _, m := range Modifiers {
		if s[m] != other[m] {
			return false
		}
	}
	return true
}

// List returns the members in canonical order.
func (s ModifierSet) List() []Modifier {
	var ret []Modifier
	for _, m := range Modifiers {
		if s[m] {
			ret = append(ret, m)
		}
	}
	return ret
}
