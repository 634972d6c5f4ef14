package keycap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divVerent/vkeyboard/internal/keyboard"
)

func testOptions() *keyboard.Options {
	var base, shift keyboard.Layer
	base.Set("a", []keyboard.KeyVariant{
		{Label: "a"},
		{Label: "A", Events: []keyboard.Modifier{keyboard.Shift}},
	})
	base.Set(" ", []keyboard.KeyVariant{{Label: "␣"}})
	shift.Set("a", []keyboard.KeyVariant{{Label: "Ä", Events: []keyboard.Modifier{keyboard.Shift}}})
	var states keyboard.States
	states.Set("default_base", base)
	states.Set("default_shift", shift)
	return keyboard.Define(keyboard.DefineOptions{
		DefaultState: "default_base",
		States:       states,
		Keys: [][]keyboard.KeyDef{
			{keyboard.Key("a", 0), keyboard.Separator(0.5), keyboard.Key("Space", 2), keyboard.Key("Shift", 1.5)},
		},
		AliasMap: keyboard.AliasMap{"Space": " "},
	})
}

func TestRows(t *testing.T) {
	o := testOptions()
	rows := Rows(o, "default_base", nil)
	require.Len(t, rows, 1)
	row := rows[0]
	require.Len(t, row, 4)

	assert.Equal(t, "a", row[0].Label)
	assert.True(t, row[0].Found)
	assert.Equal(t, 1.0, row[0].Width)
	want, err := ParseColor("#e0e0e0")
	require.NoError(t, err)
	assert.Equal(t, want, row[0].Color)

	assert.True(t, row[1].Separator)
	assert.Equal(t, 0.5, row[1].Width)

	assert.Equal(t, "␣", row[2].Label)
	assert.Equal(t, "Space", row[2].Key)
	assert.Equal(t, 2, row[2].Index)

	assert.False(t, row[3].Found)
	assert.Equal(t, "Shift", row[3].Label)
	assert.Equal(t, Blank, row[3].Color)

	assert.Equal(t, 5.0, RowWidth(row))
	assert.Equal(t, 5.0, MaxRowWidth(rows))
}

func TestRowsWithModifiers(t *testing.T) {
	o := testOptions()
	row := Rows(o, "default_base", keyboard.ModifierSet{keyboard.Shift: true})[0]
	assert.Equal(t, "A", row[0].Label)
	want, err := ParseColor("#a8c8f0")
	require.NoError(t, err)
	assert.Equal(t, want, row[0].Color)

	// Without an exact match the unmodified variant is shown.
	row = Rows(o, "default_base", keyboard.ModifierSet{keyboard.Alt: true})[0]
	assert.Equal(t, "a", row[0].Label)

	// No variant without modifiers either.
	row = Rows(o, "default_shift", nil)[0]
	assert.False(t, row[0].Found)
	assert.Equal(t, "a", row[0].Label)
}

func TestLatch(t *testing.T) {
	var l Latch
	assert.True(t, l.Press("Shift"))
	assert.Equal(t, keyboard.ModifierSet{keyboard.Shift: true}, l.Held(nil))
	assert.Equal(t, keyboard.ModifierSet{keyboard.Shift: true, keyboard.Alt: true}, l.Held(keyboard.ModifierSet{keyboard.Alt: true, keyboard.Control: false}))
	assert.True(t, l.Press("Ctrl"))
	assert.True(t, l.Press("Shift"))
	assert.Equal(t, keyboard.ModifierSet{keyboard.Control: true}, l.Held(nil))
	assert.False(t, l.Press("a"))
	assert.Equal(t, keyboard.ModifierSet{}, l.Held(nil))
}

func TestApply(t *testing.T) {
	tests := []struct {
		text string
		c    Cap
		want string
	}{
		{"ab", Cap{Key: "c", Label: "C"}, "abC"},
		{"ab", Cap{Key: "Backspace", Label: "⌫"}, "a"},
		{"", Cap{Key: "Backspace", Label: "⌫"}, ""},
		{"äö", Cap{Key: "Backspace"}, "ä"},
		{"a", Cap{Key: "Space", Label: "␣"}, "a "},
		{"a", Cap{Key: "Enter", Label: "Enter"}, "a\n"},
		{"a", Cap{Key: "Esc", Label: "Esc"}, "a"},
		{"a", Cap{Separator: true, Width: 1}, "a"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Apply(tc.text, tc.c), "%+v", tc.c)
	}
}
