package keyboard

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultCombineChar joins the parts of a composite state name.
const DefaultCombineChar = "_"

// DefaultColors returns one color per modifier combination.
func DefaultColors() Colors {
	var c Colors
	c.Set("#e0e0e0", []Modifier{})
	c.Set("#a8c8f0", []Modifier{Shift})
	c.Set("#f0c8a8", []Modifier{Control})
	c.Set("#c8f0a8", []Modifier{Alt})
	c.Set("#d0a8f0", []Modifier{Control, Shift})
	c.Set("#f0e0a0", []Modifier{Control, Alt})
	c.Set("#a8f0e0", []Modifier{Shift, Alt})
	c.Set("#f0a8c8", []Modifier{Control, Shift, Alt})
	return c
}

type DefineOptions struct {
	DefaultState string
	States       States
	Colors       *Colors
	Keys         [][]KeyDef
	AliasMap     AliasMap
	Reactive     *Reactivity
	CombineChar  string
}

// Define builds keyboard options, filling in default colors, keys and combine char.
func Define(opts DefineOptions) *Options {
	o := &Options{
		State:       opts.DefaultState,
		States:      opts.States,
		Keys:        opts.Keys,
		AliasMap:    opts.AliasMap,
		Reactive:    opts.Reactive,
		CombineChar: opts.CombineChar,
	}
	if opts.Colors != nil {
		o.Colors = *opts.Colors
	} else {
		o.Colors = DefaultColors()
	}
	if o.Keys == nil {
		o.Keys = DefaultKeys()
	}
	if o.AliasMap == nil {
		o.AliasMap = AliasMap{}
	}
	if o.CombineChar == "" {
		o.CombineChar = DefaultCombineChar
	}
	return o
}

// FunctionKey says which raw key produces a label, and with which modifiers.
// In files it is "key", ["key"] or ["key", {Shift: true}].
type FunctionKey struct {
	Key       string
	Modifiers ModifierSet
}

func (k *FunctionKey) fromList(items []any) error {
	if len(items) < 1 || len(items) > 2 {
		return fmt.Errorf("expected 1 or 2 items, got %d", len(items))
	}
	key, ok := items[0].(string)
	if !ok {
		return fmt.Errorf("key must be a string, got %T", items[0])
	}
	*k = FunctionKey{Key: key, Modifiers: ModifierSet{}}
	if len(items) == 1 {
		return nil
	}
	mods, ok := items[1].(map[string]any)
	if !ok {
		return fmt.Errorf("modifiers must be a mapping, got %T", items[1])
	}
	for name, value := range mods {
		m, err := ParseModifier(name)
		if err != nil {
			return err
		}
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("modifier %v must be a bool, got %T", name, value)
		}
		k.Modifiers[m] = b
	}
	return nil
}

func (k FunctionKey) toAny() any {
	mods := k.Modifiers.List()
	if len(mods) == 0 {
		return k.Key
	}
	flags := make(map[string]bool, len(mods))
	for _, m := range mods {
		flags[string(m)] = true
	}
	return []any{k.Key, flags}
}

func (k *FunctionKey) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*k = FunctionKey{Key: node.Value, Modifiers: ModifierSet{}}
		return nil
	}
	var items []any
	err := node.Decode(&items)
	if err != nil {
		return err
	}
	return k.fromList(items)
}

func (k FunctionKey) MarshalYAML() (any, error) {
	return k.toAny(), nil
}

func (k *FunctionKey) UnmarshalJSON(data []byte) error {
	var key string
	if json.Unmarshal(data, &key) == nil {
		*k = FunctionKey{Key: key, Modifiers: ModifierSet{}}
		return nil
	}
	var items []any
	err := json.Unmarshal(data, &items)
	if err != nil {
		return err
	}
	return k.fromList(items)
}

func (k FunctionKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.toAny())
}

// FunctionState maps display labels to the raw key producing them.
type FunctionState = OrderedMap[FunctionKey]

type FunctionStates = OrderedMap[FunctionState]

// DefineStatesByFunction turns label-centric state definitions into key-centric ones.
// Each label becomes a variant of its raw key, in definition order.
func DefineStatesByFunction(states FunctionStates) States {
	var ret States
	for _, name := range states.Keys() {
		fs, _ := states.Get(name)
		var layer Layer
		for _, label := range fs.Keys() {
			fk, _ := fs.Get(label)
			variants, _ := layer.Get(fk.Key)
			variants = append(variants, KeyVariant{
				Label:  label,
				Events: fk.Modifiers.List(),
			})
			layer.Set(fk.Key, variants)
		}
		ret.Set(name, layer)
	}
	return ret
}

// ActiveVariant picks the variant matching the held modifiers.
// Without an exact match, the first variant without modifiers is used.
func ActiveVariant(variants []KeyVariant, pressed ModifierSet) (KeyVariant, bool) {
	for _, v := range variants {
		if NewModifierSet(v.Events).Equal(pressed) {
			return v, true
		}
	}
	for _, v := range variants {
		if len(v.Events) == 0 {
			return v, true
		}
	}
	return KeyVariant{}, false
}
