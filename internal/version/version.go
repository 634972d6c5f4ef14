// Package version reports the version of the keyboard tools.
package version

import (
	"bytes"
	_ "embed"
	"runtime/debug"
)

//go:embed version.txt
var versionBytes []byte

// Version returns the version of this code.
// Without an embedded version, the module version of the build is used.
func Version() string {
	v := string(bytes.TrimSpace(versionBytes))
	if v != "" {
		return v
	}
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}
	return info.Main.Version
}
