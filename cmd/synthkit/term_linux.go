//go:build linux

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// stderrIsTTY reports whether stderr is a terminal, which selects the pretty
// log format under --log-format=auto.
func stderrIsTTY() bool {
	_, err := unix.IoctlGetTermios(int(os.Stderr.Fd()), unix.TCGETS)
	return err == nil
}
