package file

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Prefs are the settings the graphical keyboard remembers between runs.
type Prefs struct {
	Keyboard     string `yaml:"keyboard,omitempty"`
	State        string `yaml:"state,omitempty"`
	DataPassword string `yaml:"data_password,omitempty"`
}

func ReadPrefs(fsys fs.FS, prefsFile string) (*Prefs, error) {
	f, err := fsys.Open(prefsFile)
	if err != nil {
		return nil, fmt.Errorf("could not open %v: %w", prefsFile, err)
	}
	defer f.Close()
	var prefs Prefs
	err = yaml.NewDecoder(f).Decode(&prefs)
	if err != nil {
		return nil, fmt.Errorf("could not decode %v: %w", prefsFile, err)
	}
	return &prefs, nil
}

func WritePrefs(prefsFile string, prefs *Prefs) (err error) {
	f, err := os.Create(prefsFile)
	if err != nil {
		return fmt.Errorf("could not recreate %v: %w", prefsFile, err)
	}
	defer func() {
		closeErr := f.Close()
		if closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2) // Match yq.
	return enc.Encode(prefs)
}
