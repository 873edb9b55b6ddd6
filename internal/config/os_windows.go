//go:build windows

package config

import (
	"os"

	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

// EnableColorOutput checks if colorized output is possible and enables VT100
// escape sequence processing on the Windows console, which Kitty-protocol
// terminals such as WezTerm rely on even when hosted inside a classic console.
func EnableColorOutput(stream *os.File) bool {
	if !term.IsTerminal(int(stream.Fd())) {
		return false
	}
	var mode uint32
	h := windows.Handle(stream.Fd())
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	const enableVirtualTerminalProcessing = 0x4
	mode |= enableVirtualTerminalProcessing
	return windows.SetConsoleMode(h, mode) == nil
}
