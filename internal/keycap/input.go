package keycap

import (
	"github.com/divVerent/vkeyboard/internal/keyboard"
)

var modifierKeys = map[string]keyboard.Modifier{
	"Shift":   keyboard.Shift,
	"Ctrl":    keyboard.Control,
	"Control": keyboard.Control,
	"Alt":     keyboard.Alt,
}

// ModifierOf returns the modifier a key label stands for.
func ModifierOf(key string) (keyboard.Modifier, bool) {
	m, found := modifierKeys[key]
	return m, found
}

// Latch tracks modifiers toggled by clicking their keys.
// Latched modifiers apply to the next key only.
type Latch struct {
	latched keyboard.ModifierSet
}

// Press handles a click on a key and reports whether it was a modifier.
func (l *Latch) Press(key string) bool {
	m, found := ModifierOf(key)
	if !found {
		l.latched = nil
		return false
	}
	if l.latched == nil {
		l.latched = keyboard.ModifierSet{}
	}
	l.latched[m] = !l.latched[m]
	return true
}

// Held combines the latched modifiers with physically held ones.
func (l *Latch) Held(physical keyboard.ModifierSet) keyboard.ModifierSet {
	ret := keyboard.ModifierSet{}
	for m, on := range physical {
		if on {
			ret[m] = true
		}
	}
	for m, on := range l.latched {
		if on {
			ret[m] = true
		}
	}
	return ret
}

// Apply returns text after clicking a key showing label.
// Keys whose label is a name rather than a character do not type.
func Apply(text string, c Cap) string {
	if c.Separator {
		return text
	}
	switch c.Key {
	case "Backspace":
		r := []rune(text)
		if len(r) == 0 {
			return ""
		}
		return string(r[:len(r)-1])
	case "Space":
		return text + " "
	case "Tab":
		return text + "\t"
	case "Enter":
		return text + "\n"
	}
	if len([]rune(c.Label)) != 1 {
		return text
	}
	return text + c.Label
}
