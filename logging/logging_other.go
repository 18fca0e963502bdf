//go:build !linux && !openbsd && !freebsd && !darwin

package logging

import "os"

// stderr can't be redirected here; panics still reach the terminal.
func stderrToLogfile(*os.File) {}
