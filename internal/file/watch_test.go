package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keyboard.yml")
	require.NoError(t, os.WriteFile(path, []byte(yamlKeyboard), 0o644))

	w, err := Watch(path)
	require.NoError(t, err)
	defer w.Close()

	changed := strings.Replace(yamlKeyboard, "state: default_base", "state: default_shift", 1)
	require.NoError(t, os.WriteFile(path, []byte(changed), 0o644))

	select {
	case o := <-w.Options():
		assert.Equal(t, "default_shift", o.State)
	case err := <-w.Errors():
		t.Fatalf("unexpected watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("keyboard was not reloaded")
	}
}

func TestWatcherReportsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keyboard.yml")
	require.NoError(t, os.WriteFile(path, []byte(yamlKeyboard), 0o644))

	w, err := Watch(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("state: nowhere\nstates: {a: {}}\n"), 0o644))

	select {
	case o := <-w.Options():
		t.Fatalf("unexpected reload: %+v", o)
	case err := <-w.Errors():
		assert.Contains(t, err.Error(), "invalid keyboard")
	case <-time.After(5 * time.Second):
		t.Fatal("no error reported")
	}
}
