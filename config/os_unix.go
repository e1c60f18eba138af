//go:build !windows

package config

import (
	"os"

	"golang.org/x/term"
)

// ansiConsole reports if stream is a terminal, which on this platform always
// understands escape sequences.
func ansiConsole(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
