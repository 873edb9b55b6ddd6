package terminal

import (
	"fmt"
	"io"
	"strings"
)

const (
	inverseOn  = "\x1b[7m"
	inverseOff = "\x1b[27m"
	colorRed   = "\x1b[31m"
	colorReset = "\x1b[0m"
)

// StatusKind selects the status bar's content for the current viewer
// state.
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusAccumulating
	StatusFlash
	StatusError
)

// Status is the single-row status bar's rendered content, one terminal
// row high, inverse-video styled.
type Status struct {
	Kind StatusKind

	// StatusIdle
	Filename    string
	ScrollPct   int
	KeyHints    string

	// StatusAccumulating
	Digits string

	// StatusFlash / StatusError
	Message string
}

// Render draws the status bar on the terminal's last row, cols wide. The
// cursor is restored afterward via a save/restore pair so this can be
// called from the middle of a redraw without disturbing tile placement.
func Render(w io.Writer, row, cols int, s Status) error {
	text := statusText(s, cols)
	style := inverseOn
	reset := inverseOff
	if s.Kind == StatusError {
		style = inverseOn + colorRed
		reset = colorReset + inverseOff
	}
	_, err := fmt.Fprintf(w, "\x1b7\x1b[%d;1H%s%s%s\x1b8", row, style, text, reset)
	return err
}

func statusText(s Status, cols int) string {
	var text string
	switch s.Kind {
	case StatusAccumulating:
		text = ":" + s.Digits + "_"
	case StatusFlash, StatusError:
		text = s.Message
	default:
		text = fmt.Sprintf("%s  %d%%  %s", s.Filename, s.ScrollPct, s.KeyHints)
	}
	if cols <= 0 {
		return text
	}
	if len(text) > cols {
		return text[:cols]
	}
	return text + strings.Repeat(" ", cols-len(text))
}
