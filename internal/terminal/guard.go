package terminal

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	altScreenEnter = "\x1b[?1049h"
	altScreenExit  = "\x1b[?1049l"
	cursorHide     = "\x1b[?25l"
	cursorShow     = "\x1b[?25h"
)

// Guard enters raw input mode and the alternate screen on construction and
// reverses both, in the opposite order, on Close — guaranteed on every
// exit path including panics via the caller's `defer guard.Close()`. It
// also issues a delete-all-images command on Close so a crashed session
// never leaves stray Kitty placements behind; this is the one invariant
// SPEC_FULL treats as load-bearing above all others.
type Guard struct {
	fd    int
	state *term.State
	w     io.Writer
}

// NewGuard enters raw mode on f (typically os.Stdin) and writes the
// alt-screen-enter/cursor-hide sequence to out (typically os.Stdout).
func NewGuard(f *os.File, out io.Writer) (*Guard, error) {
	fd := int(f.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("terminal: enter raw mode: %w", err)
	}
	if _, err := io.WriteString(out, altScreenEnter+cursorHide); err != nil {
		_ = term.Restore(fd, state)
		return nil, err
	}
	return &Guard{fd: fd, state: state, w: out}, nil
}

// Close reverses construction: deletes all resident images, shows the
// cursor, exits the alternate screen, then restores the original raw-mode
// state. Safe to call once; callers typically wrap it in a sync.Once or
// rely on a single defer.
func (g *Guard) Close() error {
	_ = DeleteAllImages(g.w)
	_, _ = io.WriteString(g.w, cursorShow+altScreenExit)
	return term.Restore(g.fd, g.state)
}

// Size returns the terminal's size in character cells and, where the
// terminal reports it, pixels — needed to convert a rendered tile's pixel
// height into a Kitty `r=` row count.
type Size struct {
	Cols, Rows     int
	WidthPx, HeightPx int
}

// GetSize queries the terminal attached to f for its cell and pixel
// dimensions.
func GetSize(f *os.File) (Size, error) {
	cols, rows, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return Size{}, fmt.Errorf("terminal: get size: %w", err)
	}
	wpx, hpx, err := getPixelSize(f)
	if err != nil {
		// Pixel size isn't reported by every terminal; cell-only callers
		// (CellsForHeight's caller, status bar width) still work.
		return Size{Cols: cols, Rows: rows}, nil
	}
	return Size{Cols: cols, Rows: rows, WidthPx: wpx, HeightPx: hpx}, nil
}

// CellHeightPx estimates the pixel height of one terminal cell from the
// reported window pixel/cell geometry, falling back to a conservative
// default when the terminal doesn't report pixel size (common over some
// multiplexers).
func (s Size) CellHeightPx() int {
	if s.Rows > 0 && s.HeightPx > 0 {
		return s.HeightPx / s.Rows
	}
	return 20
}

func (s Size) CellWidthPx() int {
	if s.Cols > 0 && s.WidthPx > 0 {
		return s.WidthPx / s.Cols
	}
	return 10
}

// WriteClipboard sets the system clipboard via OSC 52. Best-effort: not
// every terminal honors it, and this program does not verify success.
func WriteClipboard(w io.Writer, text string) error {
	enc := base64.StdEncoding.EncodeToString([]byte(text))
	_, err := fmt.Fprintf(w, "\x1b]52;c;%s\x07", enc)
	return err
}
