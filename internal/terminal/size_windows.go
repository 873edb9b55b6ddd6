//go:build windows

package terminal

import (
	"errors"
	"os"
)

// getPixelSize has no portable equivalent on the Windows console; callers
// fall back to Size.CellHeightPx's default. The Kitty Graphics Protocol
// this package targets is not supported by the stock Windows console
// anyway (it requires a terminal emulator such as WezTerm or mintty).
func getPixelSize(f *os.File) (widthPx, heightPx int, err error) {
	return 0, 0, errors.New("terminal: pixel size not available on windows")
}
