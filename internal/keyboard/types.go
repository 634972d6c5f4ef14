// Package keyboard defines virtual keyboard definitions: key rows, states and colors.
package keyboard

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// KeyVariant is what a key shows in one state, and which modifiers produce it.
type KeyVariant struct {
	Label  string     `yaml:"label" json:"label"`
	Events []Modifier `yaml:"events,omitempty" json:"events,omitempty"`
}

// Layer maps raw input labels to the variants shown on that key.
type Layer = OrderedMap[[]KeyVariant]

// States maps composite state names to their key layers.
type States = OrderedMap[Layer]

// Colors maps a color to the exact modifier combination it marks.
type Colors = OrderedMap[[]Modifier]

// ColorFor returns the first color whose modifier combination equals events.
func ColorFor(colors Colors, events []Modifier) (string, bool) {
	want := NewModifierSet(events)
	for _, c := range colors.Keys() {
		mods, _ := colors.Get(c)
		if NewModifierSet(mods).Equal(want) {
			return c, true
		}
	}
	return "", false
}

// AliasMap maps labels of keys in the rows to keys of the layers.
type AliasMap map[string]string

func (a AliasMap) Resolve(label string) string {
	if alias, found := a[label]; found {
		return alias
	}
	return label
}

// Reactivity selects which interactions a key reacts to.
// In files it is either a bool or a list of "click" and "type".
type Reactivity struct {
	Click bool
	Type  bool
}

func (r *Reactivity) fromList(list []string) error {
	*r = Reactivity{}
	for _, item := range list {
		switch item {
		case "click":
			r.Click = true
		case "type":
			r.Type = true
		default:
			return fmt.Errorf("unknown reactivity %q", item)
		}
	}
	return nil
}

func (r Reactivity) toAny() any {
	if r.Click == r.Type {
		return r.Click
	}
	if r.Click {
		return []string{"click"}
	}
	return []string{"type"}
}

func (r *Reactivity) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var b bool
		err := node.Decode(&b)
		if err != nil {
			return err
		}
		*r = Reactivity{Click: b, Type: b}
		return nil
	}
	var list []string
	err := node.Decode(&list)
	if err != nil {
		return err
	}
	return r.fromList(list)
}

func (r Reactivity) MarshalYAML() (any, error) {
	return r.toAny(), nil
}

func (r *Reactivity) UnmarshalJSON(data []byte) error {
	var b bool
	if json.Unmarshal(data, &b) == nil {
		*r = Reactivity{Click: b, Type: b}
		return nil
	}
	var list []string
	err := json.Unmarshal(data, &list)
	if err != nil {
		return fmt.Errorf("reactive must be a bool or a list: %w", err)
	}
	return r.fromList(list)
}

func (r Reactivity) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.toAny())
}

// Options is a complete keyboard: the states the store switches between,
// plus the presentation data renderers need.
type Options struct {
	State       string
	States      States
	Colors      Colors
	Keys        [][]KeyDef
	AliasMap    AliasMap
	Reactive    *Reactivity
	CombineChar string
}

// Reactivity returns the effective reactivity of keys. Keys react to everything by default.
func (o *Options) Reactivity() Reactivity {
	if o.Reactive == nil {
		return Reactivity{Click: true, Type: true}
	}
	return *o.Reactive
}

// Lookup returns the variants for a key label in the given state, applying the alias map.
func (o *Options) Lookup(state, label string) []KeyVariant {
	layer, found := o.States.Get(state)
	if !found {
		return nil
	}
	variants, _ := layer.Get(o.AliasMap.Resolve(label))
	return variants
}

// Validate checks the parts of the options that file schemas cannot express.
func (o *Options) Validate() error {
	if o.CombineChar == "" {
		return fmt.Errorf("empty state combine char")
	}
	if o.States.Len() == 0 {
		return fmt.Errorf("no states defined")
	}
	if !o.States.Has(o.State) {
		return fmt.Errorf("default state %q is not one of the states", o.State)
	}
	for i, row := range o.Keys {
		for j, def := range row {
			err := def.Validate()
			if err != nil {
				return fmt.Errorf("row %d key %d: %w", i, j, err)
			}
		}
	}
	return nil
}
