package keyboard

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// OrderedMap is a string keyed map that remembers insertion order.
// Decoding from YAML or JSON keeps the order of the document.
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

// Set adds or replaces an entry. Replacing keeps the original position.
func (m *OrderedMap[V]) Set(key string, value V) {
	if m.values == nil {
		m.values = map[string]V{}
	}
	if _, found := m.values[key]; !found {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m OrderedMap[V]) Get(key string) (V, bool) {
	v, found := m.values[key]
	return v, found
}

func (m OrderedMap[V]) Has(key string) bool {
	_, found := m.values[key]
	return found
}

func (m OrderedMap[V]) Len() int {
	return len(m.keys)
}

// Keys returns a copy of the keys in order.
func (m OrderedMap[V]) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Values returns the values in key order.
func (m OrderedMap[V]) Values() []V {
	ret := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		ret = append(ret, m.values[k])
	}
	return ret
}

// Clone returns a copy that shares no storage with m. Values are copied shallowly.
func (m OrderedMap[V]) Clone() OrderedMap[V] {
	c := OrderedMap[V]{
		keys: append([]string(nil), m.keys...),
	}
	if m.values != nil {
		c.values = make(map[string]V, len(m.values))
		for k, v := range m.values {
			c.values[k] = v
		}
	}
	return c
}

// Reorder moves the given keys to the front in the given order.
// Unknown and repeated keys are ignored; other keys keep their relative order.
func (m *OrderedMap[V]) Reorder(order []string) {
	seen := make(map[string]bool, len(m.keys))
	keys := make([]string, 0, len(m.keys))
	for _, k := range order {
		if seen[k] || !m.Has(k) {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	for _, k := range m.keys {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	m.keys = keys
}

func (m *OrderedMap[V]) UnmarshalYAML(node *yaml.Node) error {
	for node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	*m = OrderedMap[V]{}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		key := keyNode.Value
		if m.Has(key) {
			return fmt.Errorf("line %d: duplicate key %q", keyNode.Line, key)
		}
		var v V
		err := valueNode.Decode(&v)
		if err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		m.Set(key, v)
	}
	return nil
}

func (m OrderedMap[V]) MarshalYAML() (any, error) {
	node := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}
	for _, k := range m.keys {
		var valueNode yaml.Node
		err := valueNode.Encode(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: k,
		}, &valueNode)
	}
	return node, nil
}

func (m *OrderedMap[V]) UnmarshalJSON(data []byte) error {
	*m = OrderedMap[V]{}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected an object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string) // Object keys are always strings.
		if m.Has(key) {
			return fmt.Errorf("duplicate key %q", key)
		}
		var v V
		err = dec.Decode(&v)
		if err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		m.Set(key, v)
	}
	_, err = dec.Token()
	return err
}

func (m OrderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
