package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/divVerent/vkeyboard/internal/file"
	"github.com/divVerent/vkeyboard/internal/state"
)

var (
	k = flag.String("k", "default.yml", "keyboard definition file to check")
)

// check prints a summary of a keyboard definition and fails if its states are inconsistent.
func check(w io.Writer, name string, data []byte) error {
	options, err := file.DecodeKeyboard(name, data)
	if err != nil {
		return err
	}
	s, err := state.NewStoreFor(options)
	if err != nil {
		return fmt.Errorf("invalid keyboard %v: %w", name, err)
	}

	fmt.Fprintf(w, "Keyboard: %s\n", name)
	fmt.Fprintf(w, "Default state: %s\n", s.CurrentState())
	fmt.Fprintf(w, "States:\n")
	for _, st := range s.States().Keys() {
		fmt.Fprintf(w, "  %s\n", strings.Join(s.SplitState(st), " "))
	}

	length, err := s.StateLabelLength()
	if err != nil {
		return fmt.Errorf("invalid keyboard %v: %w", name, err)
	}
	fmt.Fprintf(w, "State parts: %d\n", length)

	var mods []string
	for _, m := range s.ModifiersUsed() {
		mods = append(mods, string(m))
	}
	fmt.Fprintf(w, "Modifiers used: %s\n", strings.Join(mods, " "))
	return nil
}

func Main() error {
	data, err := os.ReadFile(*k)
	if err != nil {
		return fmt.Errorf("failed to read %v: %v", *k, err)
	}
	return check(os.Stdout, *k, data)
}

func main() {
	flag.Parse()
	err := Main()
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
