// Package core provides the platform-facing primitives the review loop
// depends on: delete operations and privilege probing.
package core

import (
	"os"
	"runtime"
)

// IsElevated reports whether the process runs with privileges that make
// deletes unlikely to fail on permission grounds. On Unix this means an
// effective UID of 0. On Windows there is no euid; assume elevated and let
// individual deletes surface their own errors.
func IsElevated() bool {
	if runtime.GOOS == "windows" {
		return true
	}
	return os.Geteuid() == 0
}
