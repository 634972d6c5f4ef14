//go:build embed && !age

package file

import (
	"archive/zip"
	"bytes"
	_ "embed"
	"io/fs"
)

//go:embed vfs.zip
var vfs []byte

func OpenFS(pw string) (fs.FS, error) {
	return zip.NewReader(bytes.NewReader(vfs), int64(len(vfs)))
}
