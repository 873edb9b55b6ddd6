//go:build !windows

package terminal

import (
	"os"

	"golang.org/x/sys/unix"
)

// getPixelSize reads TIOCGWINSZ's xpixel/ypixel fields, which term.GetSize
// does not expose.
func getPixelSize(f *os.File) (widthPx, heightPx int, err error) {
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Xpixel), int(ws.Ypixel), nil
}
