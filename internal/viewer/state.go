package viewer

import "mlux/internal/visualline"

// maxCount is the numeric-prefix accumulator's ceiling; further digits are
// ignored once reached, per SPEC_FULL §4.K.
const maxCount = 999999

// Key is one input event. Name identifies a non-printable key ("Esc",
// "Enter", "Backspace", "Up", "Down", "Ctrl+C"); for a plain printable
// character Name is empty and Rune holds it.
type Key struct {
	Name string
	Rune rune
}

// State is the viewer's full mutable state, owned by the apply loop and
// passed by pointer into each handler. Handlers mutate it directly (the
// "pure function" framing in SPEC_FULL describes the I/O boundary, not a
// literal immutable-state discipline — mirroring how the teacher's own
// command handlers mutate a shared config/report struct rather than
// threading return values everywhere).
type State struct {
	Mode Mode

	Count    int
	HasCount bool

	SearchQuery    string
	SearchMatches  []int
	SearchSelected int
	LastSearch     *SearchState

	CommandBuf string

	URLPickerList     []URLMatch
	URLPickerSelected int
}

// Context bundles the read-only document data a key handler needs.
type Context struct {
	Markdown     string
	VisualLines  []visualline.VisualLine
	ScrollY      float64
	ViewportHPx  float64
	MaxScrollPx  float64
	ScrollStepPx float64
}

// takeCount returns the pending accumulator value (defaulting to 1) and
// resets it, as every letter command does on firing.
func (s *State) takeCount() int {
	n := 1
	if s.HasCount {
		n = s.Count
	}
	s.Count = 0
	s.HasCount = false
	return n
}

func (s *State) accumulateDigit(d int) {
	if s.Count > maxCount/10 {
		return // would overflow on the next shift; ignore further digits
	}
	s.Count = s.Count*10 + d
	if s.Count > maxCount {
		s.Count = maxCount
	}
	s.HasCount = true
}

func (s *State) resetCount() {
	s.Count = 0
	s.HasCount = false
}

// HandleKey is the top-level dispatcher: it routes to the mode-specific
// handler based on s.Mode.
func HandleKey(s *State, key Key, ctx Context) []Effect {
	switch s.Mode {
	case ModeSearch:
		return HandleSearchInput(s, ctx.Markdown, ctx.VisualLines, key)
	case ModeCommand:
		return HandleCommandInput(s, key)
	case ModeURLPicker:
		return HandleURLPickerInput(s, key)
	default:
		return HandleNormalKey(s, key, ctx)
	}
}
