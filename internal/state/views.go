package state

import (
	"fmt"

	"github.com/divVerent/vkeyboard/internal/keyboard"
)

// KeyLabel is a label to display and the modifiers it needs.
type KeyLabel struct {
	Label     string
	Modifiers keyboard.ModifierSet
}

func (s *Store) CurrentState() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentState
}

func (s *Store) CurrentStateParts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.splitState(s.currentState)
}

// States returns the states table. It must not be modified.
func (s *Store) States() keyboard.States {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states
}

// CurrentLayer returns the key layer of the current state.
func (s *Store) CurrentLayer() keyboard.Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	layer, _ := s.states.Get(s.currentState)
	return layer
}

// ModifiersUsed returns every modifier any key of any state uses, in canonical order.
func (s *Store) ModifiersUsed() []keyboard.Modifier {
	s.mu.Lock()
	defer s.mu.Unlock()
	used := keyboard.ModifierSet{}
	for _, layer := range s.states.Values() {
		for _, variants := range layer.Values() {
			for _, v := range variants {
				for _, e := range v.Events {
					used[e] = true
				}
			}
		}
	}
	return used.List()
}

func layerLabels(layer keyboard.Layer) []KeyLabel {
	var ret []KeyLabel
	for _, variants := range layer.Values() {
		for _, v := range variants {
			ret = append(ret, KeyLabel{
				Label:     v.Label,
				Modifiers: keyboard.NewModifierSet(v.Events),
			})
		}
	}
	return ret
}

// KeyLabels returns all labels of all states.
func (s *Store) KeyLabels() []KeyLabel {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ret []KeyLabel
	for _, layer := range s.states.Values() {
		ret = append(ret, layerLabels(layer)...)
	}
	return ret
}

// CurrentStateKeyLabels returns all labels of the current state.
func (s *Store) CurrentStateKeyLabels() []KeyLabel {
	s.mu.Lock()
	defer s.mu.Unlock()
	layer, _ := s.states.Get(s.currentState)
	return layerLabels(layer)
}

// StateLabelLength returns the number of parts each state name has.
// This is checked on every call, as the states table is not validated when set.
func (s *Store) StateLabelLength() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	length := 0
	for i, name := range s.states.Keys() {
		n := len(s.splitState(name))
		if i > 0 && n != length {
			return 0, fmt.Errorf("%w: all states must be equal in length", InconsistentConfigurationError)
		}
		length = n
	}
	return length, nil
}
