package file

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/divVerent/vkeyboard/internal/keyboard"
)

type Format int

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatTOML
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "YAML"
	case FormatTOML:
		return "TOML"
	case FormatJSON:
		return "JSON"
	default:
		return "unknown"
	}
}

// FormatOf picks the file format from the file name extension.
func FormatOf(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".yml", ".yaml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	default:
		return FormatUnknown
	}
}

// document is the serialized form of a keyboard.
type document struct {
	State            string                   `yaml:"state,omitempty" json:"state,omitempty"`
	DefaultState     string                   `yaml:"defaultState,omitempty" json:"defaultState,omitempty"`
	States           *keyboard.States         `yaml:"states,omitempty" json:"states,omitempty"`
	StatesByFunction *keyboard.FunctionStates `yaml:"statesByFunction,omitempty" json:"statesByFunction,omitempty"`
	Colors           *keyboard.Colors         `yaml:"colors,omitempty" json:"colors,omitempty"`
	Keys             [][]keyboard.KeyDef      `yaml:"keys,omitempty" json:"keys,omitempty"`
	AliasMap         keyboard.AliasMap        `yaml:"aliasMap,omitempty" json:"aliasMap,omitempty"`
	Reactive         *keyboard.Reactivity     `yaml:"reactive,omitempty" json:"reactive,omitempty"`
	StateCombineChar string                   `yaml:"stateCombineChar,omitempty" json:"stateCombineChar,omitempty"`
}

func (d *document) options() (*keyboard.Options, error) {
	state := d.State
	if state == "" {
		state = d.DefaultState
	}
	var states keyboard.States
	switch {
	case d.States != nil && d.StatesByFunction != nil:
		return nil, errors.New("both states and statesByFunction given")
	case d.States != nil:
		states = *d.States
	case d.StatesByFunction != nil:
		states = keyboard.DefineStatesByFunction(*d.StatesByFunction)
	default:
		return nil, errors.New("no states given")
	}
	o := keyboard.Define(keyboard.DefineOptions{
		DefaultState: state,
		States:       states,
		Colors:       d.Colors,
		Keys:         d.Keys,
		AliasMap:     d.AliasMap,
		Reactive:     d.Reactive,
		CombineChar:  d.StateCombineChar,
	})
	err := o.Validate()
	if err != nil {
		return nil, err
	}
	return o, nil
}

func documentFor(o *keyboard.Options) *document {
	d := &document{
		State:    o.State,
		States:   &o.States,
		Colors:   &o.Colors,
		Keys:     o.Keys,
		Reactive: o.Reactive,
	}
	if len(o.AliasMap) != 0 {
		d.AliasMap = o.AliasMap
	}
	if o.CombineChar != keyboard.DefaultCombineChar {
		d.StateCombineChar = o.CombineChar
	}
	return d
}

// tomlKeyOrder returns the keys directly below prefix in definition order.
func tomlKeyOrder(keys []toml.Key, prefix ...string) []string {
	var ret []string
	for _, k := range keys {
		if len(k) != len(prefix)+1 {
			continue
		}
		if !slices.Equal([]string(k[:len(prefix)]), prefix) {
			continue
		}
		ret = append(ret, k[len(prefix)])
	}
	return ret
}

// reorderTOML restores definition order, which decoding TOML through a map loses.
func (d *document) reorderTOML(keys []toml.Key) {
	if d.States != nil {
		d.States.Reorder(tomlKeyOrder(keys, "states"))
		for _, name := range d.States.Keys() {
			layer, _ := d.States.Get(name)
			layer.Reorder(tomlKeyOrder(keys, "states", name))
			d.States.Set(name, layer)
		}
	}
	if d.StatesByFunction != nil {
		d.StatesByFunction.Reorder(tomlKeyOrder(keys, "statesByFunction"))
		for _, name := range d.StatesByFunction.Keys() {
			fs, _ := d.StatesByFunction.Get(name)
			fs.Reorder(tomlKeyOrder(keys, "statesByFunction", name))
			d.StatesByFunction.Set(name, fs)
		}
	}
	if d.Colors != nil {
		d.Colors.Reorder(tomlKeyOrder(keys, "colors"))
	}
}

// normalize turns YAML's non-string-keyed maps into JSON compatible ones.
func normalize(v any) any {
	switch v := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[fmt.Sprint(k)] = normalize(e)
		}
		return m
	case map[string]any:
		for k, e := range v {
			v[k] = normalize(e)
		}
		return v
	case []any:
		for i, e := range v {
			v[i] = normalize(e)
		}
		return v
	default:
		return v
	}
}

// decodeGeneric decodes into plain maps and slices, as the schema validator needs.
func decodeGeneric(format Format, data []byte) (any, []toml.Key, error) {
	var v any
	var keys []toml.Key
	switch format {
	case FormatYAML:
		err := yaml.Unmarshal(data, &v)
		if err != nil {
			return nil, nil, err
		}
		v = normalize(v)
	case FormatTOML:
		var m map[string]any
		md, err := toml.Decode(string(data), &m)
		if err != nil {
			return nil, nil, err
		}
		v, keys = m, md.Keys()
	case FormatJSON:
		err := json.Unmarshal(data, &v)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("unsupported format %v", format)
	}
	// Round trip so all numbers are float64 like JSON ones.
	j, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	var out any
	err = json.Unmarshal(j, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, keys, nil
}

// detectFormat tries all formats in turn; the first one giving a mapping wins.
func detectFormat(data []byte) (Format, error) {
	for _, f := range []Format{FormatYAML, FormatTOML, FormatJSON} {
		v, _, err := decodeGeneric(f, data)
		if err != nil {
			continue
		}
		if _, ok := v.(map[string]any); ok {
			return f, nil
		}
	}
	return FormatUnknown, errors.New("not a YAML, TOML or JSON document")
}

// DecodeKeyboard decodes and validates a keyboard. The format is taken from the name.
func DecodeKeyboard(name string, data []byte) (*keyboard.Options, error) {
	format := FormatOf(name)
	if format == FormatUnknown {
		var err error
		format, err = detectFormat(data)
		if err != nil {
			return nil, fmt.Errorf("could not detect format of %v: %w", name, err)
		}
	}
	generic, keys, err := decodeGeneric(format, data)
	if err != nil {
		return nil, fmt.Errorf("could not decode %v as %v: %w", name, format, err)
	}
	err = validateSchema(generic)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed for %v: %w", name, err)
	}
	var doc document
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatTOML:
		var j []byte
		j, err = json.Marshal(generic)
		if err == nil {
			err = json.Unmarshal(j, &doc)
		}
		doc.reorderTOML(keys)
	}
	if err != nil {
		return nil, fmt.Errorf("could not decode %v: %w", name, err)
	}
	o, err := doc.options()
	if err != nil {
		return nil, fmt.Errorf("invalid keyboard %v: %w", name, err)
	}
	return o, nil
}

// ReadKeyboard reads a keyboard definition file.
func ReadKeyboard(fsys fs.FS, name string) (*keyboard.Options, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("could not open %v: %w", name, err)
	}
	return DecodeKeyboard(name, data)
}

// EncodeKeyboard writes a keyboard as YAML or JSON.
func EncodeKeyboard(w io.Writer, format Format, o *keyboard.Options) error {
	doc := documentFor(o)
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2) // Match yq.
		err := enc.Encode(doc)
		if err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("cannot write %v", format)
	}
}

// WriteKeyboard writes a keyboard definition file; the format is taken from the name.
func WriteKeyboard(name string, o *keyboard.Options) (err error) {
	format := FormatOf(name)
	var buf bytes.Buffer
	err = EncodeKeyboard(&buf, format, o)
	if err != nil {
		return fmt.Errorf("could not encode %v: %w", name, err)
	}
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("could not recreate %v: %w", name, err)
	}
	defer func() {
		closeErr := f.Close()
		if closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	_, err = f.Write(buf.Bytes())
	return err
}
