package state

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refsOf(values ...string) []*LabelRef {
	var refs []*LabelRef
	for _, v := range values {
		refs = append(refs, NewLabelRef(v))
	}
	return refs
}

func TestCreateLabelRefs(t *testing.T) {
	s := storeWith(t, "shift_lower", statesOf("default_lower", "default_upper", "shift_lower"))
	refs := s.CreateLabelRefs()
	assert.Equal(t, []string{"shift", "lower"}, refValues(refs))

	// Refs are independent of each other and of the store.
	refs[0].Set("default")
	assert.Equal(t, "lower", refs[1].Value())
	assert.Equal(t, "shift_lower", s.CurrentState())
}

func TestCreateRefLabelGetter(t *testing.T) {
	s := storeWith(t, "default_lower", statesOf("default_lower", "default_upper", "shift_lower"))

	tests := []struct {
		name string
		refs []string
		want []Filter
	}{
		{
			name: "default",
			refs: []string{"default", "lower"},
			want: []Filter{
				{Ref: "default", Index: 0, Options: []string{"default", "shift"}},
				{Ref: "lower", Index: 1, Options: []string{"lower", "upper"}},
			},
		},
		{
			name: "shift",
			refs: []string{"shift", "lower"},
			want: []Filter{
				{Ref: "shift", Index: 0, Options: []string{"default", "shift"}},
				{Ref: "lower", Index: 1, Options: []string{"lower"}},
			},
		},
		{
			name: "unknown prefix",
			refs: []string{"alt", "lower"},
			want: []Filter{
				{Ref: "alt", Index: 0, Options: []string{"default", "shift"}},
				{Ref: "lower", Index: 1, Options: nil},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := s.CreateRefLabelGetter(refsOf(tc.refs...))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("CreateRefLabelGetter(%v) mismatch (-want +got):\n%s", tc.refs, diff)
			}
		})
	}
}

func TestCreateRefLabelGetterNarrowsLeftToRight(t *testing.T) {
	s := storeWith(t, "de_base_plain", statesOf("de_base_plain", "de_shift_plain", "de_shift_bold", "en_base_plain"))
	got := s.CreateRefLabelGetter(refsOf("de", "shift", "plain"))
	want := []Filter{
		{Ref: "de", Index: 0, Options: []string{"de", "en"}},
		{Ref: "shift", Index: 1, Options: []string{"base", "shift", "shift"}},
		{Ref: "plain", Index: 2, Options: []string{"plain", "bold"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CreateRefLabelGetter mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateRef(t *testing.T) {
	s := storeWith(t, "default_lower", statesOf("default_lower", "default_upper", "shift_lower"))

	t.Run("valid", func(t *testing.T) {
		refs := refsOf("default", "lower")
		assert.True(t, s.UpdateRef("upper", refs, 1))
		assert.Equal(t, []string{"default", "upper"}, refValues(refs))
	})

	t.Run("repair", func(t *testing.T) {
		refs := refsOf("shift", "upper")
		assert.True(t, s.UpdateRef("shift", refs, 0))
		assert.Equal(t, []string{"shift", "lower"}, refValues(refs))
	})

	t.Run("repair after change", func(t *testing.T) {
		refs := refsOf("default", "upper")
		var changed []string
		refs[1].OnChange(func(v string) { changed = append(changed, v) })
		assert.True(t, s.UpdateRef("shift", refs, 0))
		assert.Equal(t, []string{"shift", "lower"}, refValues(refs))
		assert.Equal(t, []string{"lower"}, changed)
		require.NoError(t, s.ApplyRefs(refs))
		assert.Equal(t, "shift_lower", s.CurrentState())
	})

	t.Run("unrepairable", func(t *testing.T) {
		refs := refsOf("default", "lower")
		assert.False(t, s.UpdateRef("alt", refs, 0))
		assert.Equal(t, []string{"alt", "lower"}, refValues(refs))
		assert.ErrorIs(t, s.ApplyRefs(refs), InvalidStateError)
	})
}

func TestUpdateRefRepairsLowestIndexFirst(t *testing.T) {
	s := storeWith(t, "a_x_1", statesOf("a_x_1", "b_y_2", "a_y_2", "b_x_2"))
	// "a_y_1" is invalid. Index 0 cannot be repaired ("b_y_1" is absent),
	// index 2 can ("a_y_2").
	refs := refsOf("a", "x", "1")
	assert.True(t, s.UpdateRef("y", refs, 1))
	assert.Equal(t, []string{"a", "y", "2"}, refValues(refs))

	// "b_x_1" cannot be repaired at index 1; index 2 finds "2" through "b_y_2".
	refs = refsOf("a", "x", "1")
	assert.True(t, s.UpdateRef("b", refs, 0))
	assert.Equal(t, []string{"b", "x", "2"}, refValues(refs))
}

func TestUpdateRefIndexOutOfRange(t *testing.T) {
	s := storeWith(t, "default_lower", statesOf("default_lower", "default_upper", "shift_lower"))
	refs := refsOf("default", "lower")
	assert.False(t, s.UpdateRef("upper", refs, 2))
	assert.False(t, s.UpdateRef("upper", refs, -1))
	assert.Equal(t, []string{"default", "lower"}, refValues(refs))
}

func TestLabelRefOnChange(t *testing.T) {
	r := NewLabelRef("a")
	var got []string
	r.OnChange(func(v string) { got = append(got, v) })
	r.Set("a")
	r.Set("b")
	r.Set("c")
	assert.Equal(t, []string{"b", "c"}, got)
	assert.Equal(t, "c", r.Value())
}

func TestEditor(t *testing.T) {
	s := storeWith(t, "default_lower", statesOf("default_lower", "default_upper", "shift_lower"))
	e := NewEditor(s)
	assert.Equal(t, []string{"default", "lower"}, e.Values())

	ok, err := e.Select(0, "shift")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "shift_lower", s.CurrentState())

	if diff := cmp.Diff([]Filter{
		{Ref: "shift", Index: 0, Options: []string{"default", "shift"}},
		{Ref: "lower", Index: 1, Options: []string{"lower"}},
	}, e.Filters()); diff != "" {
		t.Errorf("Filters() mismatch (-want +got):\n%s", diff)
	}

	ok, err = e.Select(0, "alt")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "shift_lower", s.CurrentState())

	e.Reset()
	assert.Equal(t, []string{"shift", "lower"}, e.Values())

	_, err = e.Select(2, "x")
	assert.ErrorIs(t, err, InvalidStateError)
}
