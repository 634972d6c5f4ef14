package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/divVerent/vkeyboard/internal/ebikbd"
)

var (
	prefs    = flag.String("prefs", "vkeyboard.yml", "preferences file name (YAML)")
	k        = flag.String("k", "", "keyboard definition file name; default: the one last used, or default.yml")
	dir      = flag.String("dir", "keyboards", "directory to search keyboard definitions in")
	localeIn = flag.String("locale", "", "subdirectory of -dir to try before the system locales")
	watch    = flag.Bool("watch", false, "reload the keyboard definition when it changes")
)

func Main() error {
	var p ebikbd.UI
	err := p.Init(960, 480, ebikbd.Config{
		PrefsFile: *prefs,
		Dir:       *dir,
		Keyboard:  *k,
		Locale:    *localeIn,
		Watch:     *watch,
	})
	if err != nil {
		return err
	}

	defer p.Shutdown()
	return ebiten.RunGame(&p)
}

func main() {
	flag.Parse()
	err := Main()
	if err != nil && !errors.Is(err, ebikbd.QuitError) {
		log.Printf("Exiting due to: %v.", err)
		os.Exit(1)
	}
}
