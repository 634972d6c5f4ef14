package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/divVerent/vkeyboard/internal/keycap"
	"github.com/divVerent/vkeyboard/internal/state"
)

// cell renders a key cap into exactly width columns.
func cell(c keycap.Cap, width int) string {
	if width <= 0 {
		return ""
	}
	if c.Separator {
		return strings.Repeat(" ", width)
	}
	label := c.Label
	if utf8.RuneCountInString(label) > width-1 {
		label = string([]rune(label)[:max(0, width-1)])
	}
	pad := width - utf8.RuneCountInString(label)
	left := pad / 2
	text := strings.Repeat(" ", left) + label + strings.Repeat(" ", pad-left)
	if !c.Found {
		return fmt.Sprintf("\033[2m%s\033[m", text)
	}
	r, g, b := c.Color.RGB255()
	return fmt.Sprintf("\033[30;48;2;%d;%d;%dm%s\033[m", r, g, b, text)
}

// renderRows scales the key rows to the given terminal width.
func renderRows(rows [][]keycap.Cap, width int) []string {
	maxWidth := keycap.MaxRowWidth(rows)
	if maxWidth <= 0 {
		return nil
	}
	unit := float64(width) / maxWidth
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var line strings.Builder
		pos := 0.0
		for _, c := range row {
			// Round the edges, not the widths, so rows line up.
			begin := int(pos*unit + 0.5)
			pos += c.Width
			end := int(pos*unit + 0.5)
			line.WriteString(cell(c, end-begin))
		}
		lines = append(lines, line.String())
	}
	return lines
}

func renderParts(filters []state.Filter) string {
	var out []string
	for _, f := range filters {
		var opts []string
		seen := map[string]bool{}
		for _, o := range f.Options {
			if seen[o] {
				continue
			}
			seen[o] = true
			if o == f.Ref {
				opts = append(opts, fmt.Sprintf("\033[1m[%s]\033[m", o))
			} else {
				opts = append(opts, o)
			}
		}
		if !seen[f.Ref] {
			opts = append(opts, fmt.Sprintf("\033[1;31m[%s]\033[m", f.Ref))
		}
		out = append(out, fmt.Sprintf("%d: %s", f.Index, strings.Join(opts, " ")))
	}
	return strings.Join(out, " | ")
}

func ifLine(b bool, s string) string {
	if !b {
		return ""
	}
	return s
}

func render(s *session, width int, inputMode bool, inputCommand []byte, commandErr error) []string {
	lines := []string{
		"\033[m\033[2J\033[H\033[1;34mVirtual Keyboard - text mode\033[m",
		"",
		fmt.Sprintf("\033[1mState:\033[m %s", s.store.CurrentState()),
		renderParts(s.editor.Filters()),
		"",
	}
	lines = append(lines, renderRows(s.caps(), width)...)
	lines = append(lines,
		"",
		fmt.Sprintf("\033[1mTyped:\033[m %q", s.typed),
		ifLine(s.message != "", fmt.Sprintf("\033[1;33m%s\033[m", s.message)),
		ifLine(commandErr != nil, fmt.Sprintf("\033[1;31mCommand Error:\033[0;31m %v\033[m", commandErr)),
		ifLine(inputMode, fmt.Sprintf("\033[1m:\033[m%s", inputCommand)),
	)
	return lines
}
