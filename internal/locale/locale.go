// Package locale picks keyboard directories matching the user's languages.
package locale

import (
	"log"
	"slices"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
)

// Fallback is tried after all system locales.
const Fallback = "en"

var getLocales = locale.GetLocales

// Candidates returns the subdirectories to search for keyboards, best first:
// the preferred one, each system locale followed by its parents, then Fallback.
func Candidates(preferred string) []string {
	locs, err := getLocales()
	if err != nil {
		log.Printf("Could not detect locales - working without: %v.", err)
	}
	return expand(preferred, locs)
}

func expand(preferred string, locs []string) []string {
	var ret []string
	add := func(s string) {
		if s != "" && !slices.Contains(ret, s) {
			ret = append(ret, s)
		}
	}
	add(preferred)
	for _, loc := range locs {
		lang, err := language.Parse(loc)
		if err != nil {
			add(loc)
			continue
		}
		for lang != language.Und {
			add(lang.String())
			lang = lang.Parent()
		}
	}
	add(Fallback)
	return ret
}
