package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/divVerent/vkeyboard/internal/file"
	"github.com/divVerent/vkeyboard/internal/keyboard"
	"github.com/divVerent/vkeyboard/internal/locale"
)

var (
	k        = flag.String("k", "default.yml", "keyboard definition file name")
	dir      = flag.String("dir", "keyboards", "directory to search keyboard definitions in")
	localeIn = flag.String("locale", "", "subdirectory of -dir to try before the system locales")
	watch    = flag.Bool("watch", false, "reload the keyboard definition when it changes")
)

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

func textModeUI(s *session, watcher *file.Watcher) error {
	stdinFD := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(stdinFD)
	if err != nil {
		return fmt.Errorf("cannot make terminal raw: %v", err)
	}
	defer term.Restore(stdinFD, oldState)

	stdin := make(chan byte)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				log.Printf("Error reading stdin: %v.", err)
				close(stdin)
				return
			}
			if n == 0 {
				continue
			}
			stdin <- buf[0]
		}
	}()

	var reloads <-chan *keyboard.Options
	var reloadErrs <-chan error
	if watcher != nil {
		reloads = watcher.Options()
		reloadErrs = watcher.Errors()
	}

	inputMode := false
	var inputCommand []byte
	var commandErr error

	for {
		lines := render(s, terminalWidth(), inputMode, inputCommand, commandErr)
		os.Stderr.Write([]byte(strings.Join(lines, "\r\n")))

		select {
		case o := <-reloads:
			err := s.reload(o)
			if err != nil {
				commandErr = fmt.Errorf("could not reload: %w", err)
			} else {
				s.message = "reloaded"
			}
		case err := <-reloadErrs:
			commandErr = fmt.Errorf("could not reload: %w", err)
		case ch, ok := <-stdin:
			if !ok {
				return nil
			}
			if inputMode {
				switch ch {
				case 0x08, 0x7F:
					if len(inputCommand) > 0 {
						inputCommand = inputCommand[:len(inputCommand)-1]
					}
				case 0x0A, 0x0D:
					if len(inputCommand) > 0 {
						err := processCommand(s, inputCommand)
						if errors.Is(err, QuitError) {
							return nil
						}
						if err != nil {
							commandErr = fmt.Errorf("could not run command %q: %w", inputCommand, err)
						}
					}
					inputCommand = inputCommand[:0]
					inputMode = false
				case 0x03:
					// Ctrl-C. Quit right away.
					return nil
				case 0x1B:
					inputMode = false
				default:
					inputCommand = append(inputCommand, ch)
				}
			} else {
				switch ch {
				case 0x03:
					// Ctrl-C. Quit right away.
					return nil
				case 0x1B:
					commandErr = nil
					s.message = ""
				case ':':
					commandErr = nil
					inputMode = true
				default:
					s.typeChar(ch)
				}
			}
		case <-time.After(250 * time.Millisecond):
			// Pick up terminal resizes.
		}
	}
}

func Main() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %v", err)
	}
	fsys := os.DirFS(cwd)

	name, err := file.FindKeyboard(fsys, *dir, locale.Candidates(*localeIn), *k)
	if err != nil {
		return err
	}
	opts, err := file.ReadKeyboard(fsys, name)
	if err != nil {
		return err
	}
	s, err := newSession(opts)
	if err != nil {
		return fmt.Errorf("invalid keyboard %v: %w", name, err)
	}

	var watcher *file.Watcher
	if *watch {
		watcher, err = file.Watch(filepath.Join(cwd, filepath.FromSlash(name)))
		if err != nil {
			log.Printf("Could not watch %v - reloading disabled: %v.", name, err)
		} else {
			defer watcher.Close()
		}
	}

	return textModeUI(s, watcher)
}

func main() {
	flag.Parse()
	err := Main()
	if err != nil {
		log.Printf("Exiting due to: %v.", err)
		os.Exit(1)
	}
}
