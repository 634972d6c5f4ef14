package file

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divVerent/vkeyboard/internal/keyboard"
)

const yamlKeyboard = `
state: default_base
states:
  default_base:
    z: [{label: z}]
    a: [{label: a}]
  default_shift:
    z: [{label: Z, events: [Shift]}]
    a: [{label: A, events: [Shift]}]
keys:
  - [z, {type: seperator, width: 0.5}, {label: a, width: 2}]
aliasMap:
  Space: " "
reactive: [click]
`

const tomlKeyboard = `
state = "default_shift"

[states.default_shift]
a = [{ label = "A", events = ["Shift"] }]
b = [{ label = "B", events = ["Shift"] }]

[states.default_base]
b = [{ label = "b" }]
a = [{ label = "a" }]
`

const jsonKeyboard = `{
  "defaultState": "en/base",
  "stateCombineChar": "/",
  "statesByFunction": {
    "en/base": {"a": "a", "A": ["a", {"Shift": true}]},
    "en/alt": {"å": ["a", {"Alt": true}]}
  },
  "reactive": false
}`

func TestReadKeyboardYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"kbd/en/default.yml": {Data: []byte(yamlKeyboard)},
	}
	o, err := ReadKeyboard(fsys, "kbd/en/default.yml")
	require.NoError(t, err)

	assert.Equal(t, "default_base", o.State)
	assert.Equal(t, []string{"default_base", "default_shift"}, o.States.Keys())
	base, _ := o.States.Get("default_base")
	assert.Equal(t, []string{"z", "a"}, base.Keys())
	shiftZ := o.Lookup("default_shift", "z")
	assert.Equal(t, []keyboard.KeyVariant{{Label: "Z", Events: []keyboard.Modifier{keyboard.Shift}}}, shiftZ)
	assert.Equal(t, [][]keyboard.KeyDef{
		{keyboard.Key("z", 0), keyboard.Separator(0.5), keyboard.Key("a", 2)},
	}, o.Keys)
	assert.Equal(t, keyboard.AliasMap{"Space": " "}, o.AliasMap)
	assert.Equal(t, keyboard.Reactivity{Click: true}, o.Reactivity())
	assert.Equal(t, "_", o.CombineChar)
	assert.Equal(t, keyboard.DefaultColors(), o.Colors)
}

func TestReadKeyboardTOML(t *testing.T) {
	o, err := DecodeKeyboard("default.toml", []byte(tomlKeyboard))
	require.NoError(t, err)
	assert.Equal(t, "default_shift", o.State)
	assert.Equal(t, []string{"default_shift", "default_base"}, o.States.Keys())
	base, _ := o.States.Get("default_base")
	assert.Equal(t, []string{"b", "a"}, base.Keys())
	assert.Equal(t, []keyboard.KeyVariant{{Label: "B", Events: []keyboard.Modifier{keyboard.Shift}}}, o.Lookup("default_shift", "b"))
	assert.Equal(t, keyboard.DefaultKeys(), o.Keys)
}

func TestReadKeyboardJSONByFunction(t *testing.T) {
	o, err := DecodeKeyboard("default.json", []byte(jsonKeyboard))
	require.NoError(t, err)
	assert.Equal(t, "en/base", o.State)
	assert.Equal(t, "/", o.CombineChar)
	assert.Equal(t, []string{"en/base", "en/alt"}, o.States.Keys())
	assert.Equal(t, []keyboard.KeyVariant{
		{Label: "a"},
		{Label: "A", Events: []keyboard.Modifier{keyboard.Shift}},
	}, o.Lookup("en/base", "a"))
	assert.Equal(t, keyboard.Reactivity{}, o.Reactivity())
}

func TestDetectFormat(t *testing.T) {
	for name, data := range map[string]string{
		"yaml": yamlKeyboard,
		"toml": tomlKeyboard,
		"json": jsonKeyboard,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeKeyboard("keyboard.def", []byte(data))
			assert.NoError(t, err)
		})
	}
	_, err := DecodeKeyboard("keyboard.def", []byte("- just\n- a list\n"))
	assert.Error(t, err)
}

func TestDecodeKeyboardErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "unsupported modifier",
			doc:  "state: a\nstates: {a: {x: [{label: x, events: [Meta]}]}}",
			want: "schema validation failed",
		},
		{
			name: "both state kinds",
			doc:  "state: a\nstates: {a: {}}\nstatesByFunction: {a: {}}",
			want: "schema validation failed",
		},
		{
			name: "no states",
			doc:  "state: a",
			want: "schema validation failed",
		},
		{
			name: "no default state",
			doc:  "states: {a: {}}",
			want: "schema validation failed",
		},
		{
			name: "unknown field",
			doc:  "state: a\nstates: {a: {}}\ncolours: {}",
			want: "schema validation failed",
		},
		{
			name: "bad width",
			doc:  "state: a\nstates: {a: {}}\nkeys: [[{label: x, width: 1.3}]]",
			want: "schema validation failed",
		},
		{
			name: "bad reactivity",
			doc:  "state: a\nstates: {a: {}}\nreactive: [hover]",
			want: "schema validation failed",
		},
		{
			name: "default state missing",
			doc:  "state: b\nstates: {a: {}}",
			want: "invalid keyboard",
		},
		{
			name: "not yaml",
			doc:  "state: [",
			want: "could not decode",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeKeyboard("test.yml", []byte(tc.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestReadKeyboardMissing(t *testing.T) {
	_, err := ReadKeyboard(fstest.MapFS{}, "missing.yml")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteKeyboardRoundTrip(t *testing.T) {
	o, err := DecodeKeyboard("in.yml", []byte(yamlKeyboard))
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range []string{"out.yml", "out.json"} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, WriteKeyboard(filepath.Join(dir, name), o))
			back, err := ReadKeyboard(os.DirFS(dir), name)
			require.NoError(t, err)
			assert.Equal(t, o, back)
		})
	}

	assert.Error(t, WriteKeyboard(filepath.Join(dir, "out.toml"), o))
}

func TestFindKeyboard(t *testing.T) {
	fsys := fstest.MapFS{
		"keyboards/de/default.yml": {Data: []byte(yamlKeyboard)},
		"keyboards/default.yml":    {Data: []byte(yamlKeyboard)},
		"keyboards/fr/default.yml": {Mode: os.ModeDir},
	}
	tests := []struct {
		subdirs []string
		want    string
	}{
		{[]string{"de-CH", "de", "en"}, "keyboards/de/default.yml"},
		{[]string{"fr", "en"}, "keyboards/default.yml"},
		{nil, "keyboards/default.yml"},
	}
	for _, tc := range tests {
		got, err := FindKeyboard(fsys, "keyboards", tc.subdirs, "default.yml")
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
	_, err := FindKeyboard(fsys, "keyboards", []string{"de"}, "other.yml")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPrefs(t *testing.T) {
	dir := t.TempDir()
	want := &Prefs{Keyboard: "keyboards/de/default.yml", State: "default_shift"}
	require.NoError(t, WritePrefs(filepath.Join(dir, "vkeyboard.yml"), want))
	got, err := ReadPrefs(os.DirFS(dir), "vkeyboard.yml")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSchema(t *testing.T) {
	assert.Contains(t, string(Schema()), `"statesByFunction"`)
}
