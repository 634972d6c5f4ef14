//go:build embed && age

package file

import (
	"archive/zip"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"io/fs"

	"filippo.io/age"
)

//go:embed vfs.zip.age
var vfsCiphertext []byte

// OpenFS decrypts the embedded keyboard bundle with the given passphrase.
func OpenFS(pw string) (fs.FS, error) {
	id, err := age.NewScryptIdentity(pw)
	if err != nil {
		return nil, fmt.Errorf("could not build scrypt identity: %w", err)
	}
	r, err := age.Decrypt(bytes.NewReader(vfsCiphertext), id)
	if err != nil {
		return nil, fmt.Errorf("could not start decrypting: %w", err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not finish decrypting: %w", err)
	}
	return zip.NewReader(bytes.NewReader(plaintext), int64(len(plaintext)))
}
