package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/divVerent/vkeyboard/internal/file"
)

var (
	i = flag.String("i", "", "input keyboard definition (YAML, TOML or JSON)")
	o = flag.String("o", "", "output keyboard definition (YAML or JSON, by extension)")
)

func Main() error {
	if *i == "" || *o == "" {
		return fmt.Errorf("both -i and -o are required")
	}

	data, err := os.ReadFile(*i)
	if err != nil {
		return fmt.Errorf("failed to read %v: %v", *i, err)
	}

	options, err := file.DecodeKeyboard(*i, data)
	if err != nil {
		return err
	}

	err = file.WriteKeyboard(*o, options)
	if err != nil {
		return fmt.Errorf("failed to write %v: %v", *o, err)
	}

	return nil
}

func main() {
	flag.Parse()
	err := Main()
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
