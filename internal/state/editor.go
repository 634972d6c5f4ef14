package state

import (
	"fmt"
	"slices"
)

// LabelRef holds the value of one part of a composite state while it is being edited.
type LabelRef struct {
	value    string
	onChange []func(string)
}

func NewLabelRef(value string) *LabelRef {
	return &LabelRef{value: value}
}

func (r *LabelRef) Value() string {
	return r.value
}

// Set changes the value and notifies OnChange callbacks if it differs.
func (r *LabelRef) Set(value string) {
	if value == r.value {
		return
	}
	r.value = value
	for _, f := range r.onChange {
		f(value)
	}
}

func (r *LabelRef) OnChange(f func(string)) {
	r.onChange = append(r.onChange, f)
}

func refValues(refs []*LabelRef) []string {
	ret := make([]string, len(refs))
	for i, r := range refs {
		ret[i] = r.value
	}
	return ret
}

// Filter lists the values that may be selected for one part.
type Filter struct {
	Ref     string
	Index   int
	Options []string
}

// CreateLabelRefs returns one ref per part of the current state.
func (s *Store) CreateLabelRefs() []*LabelRef {
	var refs []*LabelRef
	for _, part := range s.CurrentStateParts() {
		refs = append(refs, NewLabelRef(part))
	}
	return refs
}

// CreateRefLabelGetter returns the selectable values for each ref.
// The first part may take any value that starts a state; later parts are
// narrowed down by the values of all parts before them.
func (s *Store) CreateRefLabelGetter(refs []*LabelRef) []Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := refValues(refs)
	ret := make([]Filter, 0, len(refs))
	for index, ref := range refs {
		var options []string
		if index == 0 {
			for _, name := range s.states.Keys() {
				first := s.splitState(name)[0]
				if !slices.Contains(options, first) {
					options = append(options, first)
				}
			}
		} else {
			options = s.findStateFilterParts(values, index)
		}
		ret = append(ret, Filter{
			Ref:     ref.value,
			Index:   index,
			Options: options,
		})
	}
	return ret
}

// findStateFilterParts returns part index of all states starting with the first index parts.
func (s *Store) findStateFilterParts(parts []string, index int) []string {
	prefix := s.createState(parts[:index])
	var ret []string
	for _, name := range s.states.Keys() {
		stateParts := s.splitState(name)
		if len(stateParts) <= index {
			continue
		}
		if s.createState(stateParts[:index]) != prefix {
			continue
		}
		ret = append(ret, stateParts[index])
	}
	return ret
}

// findNewStatePart finds a value for part index that, with all other parts kept, forms a valid state.
func (s *Store) findNewStatePart(parts []string, index int) (string, bool) {
	candidate := slices.Clone(parts)
	for _, name := range s.states.Keys() {
		stateParts := s.splitState(name)
		if len(stateParts) <= index {
			continue
		}
		candidate[index] = stateParts[index]
		if s.isValidState(s.createState(candidate)) {
			return stateParts[index], true
		}
	}
	return "", false
}

// UpdateRef sets refs[index] to value. If that forms no valid state, the
// first other part (in ascending order) that can be changed to make the
// state valid again is changed.
//
// It returns whether the refs now form a valid state; if no single part
// could repair it, the refs are left as they are. An index outside refs
// changes nothing and returns false.
func (s *Store) UpdateRef(value string, refs []*LabelRef, index int) bool {
	if index < 0 || index >= len(refs) {
		return false
	}
	refs[index].Set(value)

	s.mu.Lock()
	values := refValues(refs)
	if s.isValidState(s.createState(values)) {
		s.mu.Unlock()
		return true
	}
	repairIndex, repairValue := -1, ""
	for i := range refs {
		if i == index {
			continue
		}
		part, found := s.findNewStatePart(values, i)
		if found {
			repairIndex, repairValue = i, part
			break
		}
	}
	s.mu.Unlock()

	if repairIndex < 0 {
		return false
	}
	// Callbacks may call back into the store, so set outside the lock.
	refs[repairIndex].Set(repairValue)
	return true
}

// ApplyRefs selects the state the refs currently form.
func (s *Store) ApplyRefs(refs []*LabelRef) error {
	return s.SetCurrentState(refValues(refs))
}

// Editor edits the current state of a store one part at a time.
type Editor struct {
	store *Store
	refs  []*LabelRef
}

func NewEditor(s *Store) *Editor {
	return &Editor{
		store: s,
		refs:  s.CreateLabelRefs(),
	}
}

// Reset drops all pending edits and starts over from the current state.
func (e *Editor) Reset() {
	e.refs = e.store.CreateLabelRefs()
}

func (e *Editor) Refs() []*LabelRef {
	return e.refs
}

func (e *Editor) Values() []string {
	return refValues(e.refs)
}

func (e *Editor) Filters() []Filter {
	return e.store.CreateRefLabelGetter(e.refs)
}

// Select changes part index and, if the parts then form a valid state, selects it.
func (e *Editor) Select(index int, value string) (bool, error) {
	if index < 0 || index >= len(e.refs) {
		return false, fmt.Errorf("%w: no part %d in %q", InvalidStateError, index, e.store.CurrentState())
	}
	if !e.store.UpdateRef(value, e.refs, index) {
		return false, nil
	}
	err := e.store.ApplyRefs(e.refs)
	if err != nil {
		return false, err
	}
	return true, nil
}
