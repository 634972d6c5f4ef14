// Package state tracks which composite state of a virtual keyboard is selected.
//
// A composite state name is made of parts joined by a combine char, e.g.
// "default_shift" is the parts "default" and "shift". Only names present in
// the keyboard's states table may be selected.
package state

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/divVerent/vkeyboard/internal/keyboard"
)

var (
	// InvalidStateError is returned when selecting a state not in the states table.
	InvalidStateError = errors.New("invalid state")

	// InconsistentConfigurationError is returned when state names differ in their number of parts.
	InconsistentConfigurationError = errors.New("inconsistent configuration")
)

// Store is the keyboard state store.
// All fields are guarded by one mutex, so reloads from other goroutines
// never mix the states of two keyboards.
type Store struct {
	mu           sync.Mutex
	currentState string
	states       keyboard.States
	combineChar  string
	onChange     []func()
}

func NewStore() *Store {
	return &Store{
		currentState: "default",
		combineChar:  keyboard.DefaultCombineChar,
	}
}

// NewStoreFor returns a store with the given keyboard active.
func NewStoreFor(opts *keyboard.Options) (*Store, error) {
	s := NewStore()
	err := s.SetActiveKeyboard(opts)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// OnChange registers a function to call after the current state or keyboard changed.
func (s *Store) OnChange(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, f)
}

func (s *Store) notify() {
	s.mu.Lock()
	callbacks := slices.Clone(s.onChange)
	s.mu.Unlock()
	for _, f := range callbacks {
		f()
	}
}

func (s *Store) CombineChar() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.combineChar
}

func (s *Store) SetCombineChar(c string) error {
	if c == "" {
		return errors.New("combine char must not be empty")
	}
	s.mu.Lock()
	s.combineChar = c
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Store) splitState(state string) []string {
	return strings.Split(state, s.combineChar)
}

func (s *Store) createState(parts []string) string {
	return strings.Join(parts, s.combineChar)
}

// SplitState splits a composite state name into its parts.
func (s *Store) SplitState(state string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.splitState(state)
}

// CreateState joins parts into a composite state name.
// Parts must not contain the combine char.
func (s *Store) CreateState(parts []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createState(parts)
}

func (s *Store) isValidState(state string) bool {
	return s.states.Has(state)
}

func (s *Store) IsValidState(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isValidState(state)
}

// SetCurrentState selects the state made of the given parts.
// The current state is left unchanged if no such state exists.
func (s *Store) SetCurrentState(parts []string) error {
	s.mu.Lock()
	newState := s.createState(parts)
	if !s.isValidState(newState) {
		s.mu.Unlock()
		return fmt.Errorf("%w: no state with: %s", InvalidStateError, newState)
	}
	s.currentState = newState
	s.mu.Unlock()
	s.notify()
	return nil
}

// CombineToState is the old name of SetCurrentState.
//
// Deprecated: use SetCurrentState.
func (s *Store) CombineToState(parts []string) error {
	return s.SetCurrentState(parts)
}

// SetActiveKeyboard replaces the states, the current state and the combine
// char with the given keyboard's; an empty combine char selects the default.
// It fails, changing nothing, if the keyboard's state is not one of its states.
// The store keeps its own copy of the states table.
func (s *Store) SetActiveKeyboard(opts *keyboard.Options) error {
	if opts == nil {
		return fmt.Errorf("%w: no keyboard", InvalidStateError)
	}
	if !opts.States.Has(opts.State) {
		return fmt.Errorf("%w: no state with: %s", InvalidStateError, opts.State)
	}
	combineChar := opts.CombineChar
	if combineChar == "" {
		combineChar = keyboard.DefaultCombineChar
	}
	states := opts.States.Clone()
	s.mu.Lock()
	s.currentState = opts.State
	s.states = states
	s.combineChar = combineChar
	s.mu.Unlock()
	s.notify()
	return nil
}

// SwitchToKeyboard is the old name of SetActiveKeyboard.
//
// Deprecated: use SetActiveKeyboard.
func (s *Store) SwitchToKeyboard(opts *keyboard.Options) error {
	return s.SetActiveKeyboard(opts)
}
