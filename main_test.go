package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divVerent/vkeyboard/internal/state"
)

func TestCheck(t *testing.T) {
	var out bytes.Buffer
	err := check(&out, "ok.yml", []byte(`
state: default_base
states:
  default_base: {a: [{label: a}]}
  default_shift: {a: [{label: A, events: [Shift]}, {label: Å, events: [Shift, Alt]}]}
`))
	require.NoError(t, err)
	assert.Equal(t, `Keyboard: ok.yml
Default state: default_base
States:
  default base
  default shift
State parts: 2
Modifiers used: Alt Shift
`, out.String())
}

func TestCheckInconsistent(t *testing.T) {
	var out bytes.Buffer
	err := check(&out, "bad.yml", []byte(`
state: default_base
states:
  default_base: {}
  plain: {}
`))
	assert.ErrorIs(t, err, state.InconsistentConfigurationError)
}
