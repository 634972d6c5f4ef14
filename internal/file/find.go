package file

import (
	"fmt"
	"io/fs"
	"path"
)

// FindKeyboard returns the path of the first dir/subdir/name that exists, or dir/name.
func FindKeyboard(fsys fs.FS, dir string, subdirs []string, name string) (string, error) {
	candidates := make([]string, 0, len(subdirs)+1)
	for _, sub := range subdirs {
		candidates = append(candidates, path.Join(dir, sub, name))
	}
	candidates = append(candidates, path.Join(dir, name))
	for _, c := range candidates {
		info, err := fs.Stat(fsys, c)
		if err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("could not find %v in %v: %w", name, candidates, fs.ErrNotExist)
}
