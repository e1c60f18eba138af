//go:build windows

package config

import (
	"os"

	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

// ansiConsole reports if stream is a console able to interpret escape
// sequences, switching virtual terminal processing on when needed. Consoles
// before Windows 10 cannot do that.
func ansiConsole(stream *os.File) bool {
	if !term.IsTerminal(int(stream.Fd())) {
		return false
	}
	if windows.RtlGetVersion().MajorVersion < 10 {
		return false
	}

	h := windows.Handle(stream.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 {
		return true
	}
	return windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}
