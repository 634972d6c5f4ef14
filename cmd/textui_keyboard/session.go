package main

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/divVerent/vkeyboard/internal/keyboard"
	"github.com/divVerent/vkeyboard/internal/keycap"
	"github.com/divVerent/vkeyboard/internal/state"
)

// QuitError ends the text UI.
var QuitError = errors.New("quit")

type session struct {
	opts    *keyboard.Options
	store   *state.Store
	editor  *state.Editor
	latch   keycap.Latch
	typed   string
	message string
	pending []byte
}

func newSession(opts *keyboard.Options) (*session, error) {
	store, err := state.NewStoreFor(opts)
	if err != nil {
		return nil, err
	}
	s := &session{
		opts:   opts,
		store:  store,
		editor: state.NewEditor(store),
	}
	store.OnChange(s.editor.Reset)
	return s, nil
}

func (s *session) reload(opts *keyboard.Options) error {
	err := s.store.SetActiveKeyboard(opts)
	if err != nil {
		return err
	}
	s.opts = opts
	return nil
}

func (s *session) caps() [][]keycap.Cap {
	return keycap.Rows(s.opts, s.store.CurrentState(), s.latch.Held(nil))
}

// press clicks the key with the given row label.
func (s *session) press(key string) error {
	if !s.opts.Reactivity().Click {
		return errors.New("keys do not react to clicks")
	}
	for _, row := range s.caps() {
		for _, c := range row {
			if c.Separator || c.Key != key {
				continue
			}
			if !s.latch.Press(c.Key) {
				s.typed = keycap.Apply(s.typed, c)
			}
			return nil
		}
	}
	return fmt.Errorf("no key %q", key)
}

// typeChar handles a byte typed on the real keyboard.
// Multi-byte characters are collected until they are complete.
func (s *session) typeChar(ch byte) {
	if !s.opts.Reactivity().Type {
		return
	}
	if len(s.pending) != 0 || ch >= utf8.RuneSelf {
		s.pending = append(s.pending, ch)
		if !utf8.FullRune(s.pending) {
			return
		}
		r, _ := utf8.DecodeRune(s.pending)
		s.pending = s.pending[:0]
		if r != utf8.RuneError {
			s.typed += string(r)
		}
		return
	}
	switch ch {
	case 0x08, 0x7F:
		s.typed = keycap.Apply(s.typed, keycap.Cap{Key: "Backspace"})
	case 0x0A, 0x0D:
		s.typed = keycap.Apply(s.typed, keycap.Cap{Key: "Enter"})
	default:
		if ch >= 0x20 {
			s.typed += string(rune(ch))
		}
	}
}

var (
	stateRE     = regexp.MustCompile(`^state((?: \S+)+)$`)
	setRE       = regexp.MustCompile(`^set (\d+) (\S+)$`)
	pressRE     = regexp.MustCompile(`^press (.+)$`)
	modifiersRE = regexp.MustCompile(`^mod(?:i(?:f(?:i(?:e(?:rs?)?)?)?)?)?$`)
	labelsRE    = regexp.MustCompile(`^l(?:a(?:b(?:e(?:ls?)?)?)?)?$`)
	clearRE     = regexp.MustCompile(`^clear$`)
	quitRE      = regexp.MustCompile(`^q(?:u(?:it?)?)?$`)
)

func labelsStr(labels []state.KeyLabel) string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		mods := l.Modifiers.List()
		if len(mods) == 0 {
			out = append(out, l.Label)
			continue
		}
		names := make([]string, 0, len(mods))
		for _, m := range mods {
			names = append(names, string(m))
		}
		out = append(out, fmt.Sprintf("%s(%s)", l.Label, strings.Join(names, "+")))
	}
	return strings.Join(out, " ")
}

func processCommand(s *session, cmd []byte) error {
	s.message = ""
	if sub := stateRE.FindSubmatch(cmd); sub != nil {
		return s.store.SetCurrentState(strings.Fields(string(sub[1])))
	}
	if sub := setRE.FindSubmatch(cmd); sub != nil {
		index, err := strconv.Atoi(string(sub[1]))
		if err != nil {
			return errors.New("failed to parse command: index is not an integer")
		}
		ok, err := s.editor.Select(index, string(sub[2]))
		if err != nil {
			return err
		}
		if !ok {
			s.message = fmt.Sprintf("no state with: %s", s.store.CreateState(s.editor.Values()))
		}
		return nil
	}
	if sub := pressRE.FindSubmatch(cmd); sub != nil {
		return s.press(string(sub[1]))
	}
	if modifiersRE.Match(cmd) {
		mods := s.store.ModifiersUsed()
		names := make([]string, 0, len(mods))
		for _, m := range mods {
			names = append(names, string(m))
		}
		s.message = fmt.Sprintf("modifiers used: %s", strings.Join(names, " "))
		return nil
	}
	if labelsRE.Match(cmd) {
		s.message = fmt.Sprintf("labels: %s", labelsStr(s.store.CurrentStateKeyLabels()))
		return nil
	}
	if clearRE.Match(cmd) {
		s.typed = ""
		return nil
	}
	if quitRE.Match(cmd) {
		return QuitError
	}
	return errors.New("unknown command")
}
