// Package viewer implements the viewer's pure state machine: mode
// dispatch, the vim-style numeric-prefix key grammar, search, command
// mode, and the URL picker. Every handler here is a pure function from
// (key, state, context) to a list of Effects — the apply loop owns all
// I/O, per SPEC_FULL §4.K.
package viewer

// Mode is the viewer's current input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeCommand
	ModeURLPicker
)

// ExitReason distinguishes why the inner viewer loop is ending, so the
// outer rebuild loop (component L) knows whether to reload the document,
// resize, reload the config, or quit entirely.
type ExitReason int

const (
	ExitQuit ExitReason = iota
	ExitResize
	ExitReload
	ExitConfigReload
)

// EffectKind enumerates every side effect a key handler can request.
type EffectKind int

const (
	EffScrollTo EffectKind = iota
	EffMarkDirty
	EffFlash
	EffRedrawStatusBar
	EffYank
	EffSetMode
	EffSetLastSearch
	EffDeletePlacements
	EffOpenUrl
	EffRedrawUrlPicker
	EffExit
)

// Effect is one requested side effect. Only the fields relevant to Kind
// are meaningful.
type Effect struct {
	Kind       EffectKind
	ScrollY    float64
	Message    string
	IsError    bool // EffFlash only: render the status bar in StatusError styling
	YankText   string
	Mode       Mode
	LastSearch *SearchState
	URL        string
	Reason     ExitReason
}

func scrollTo(y float64) Effect       { return Effect{Kind: EffScrollTo, ScrollY: y} }
func markDirty() Effect               { return Effect{Kind: EffMarkDirty} }
func flash(msg string) Effect         { return Effect{Kind: EffFlash, Message: msg} }
func flashError(msg string) Effect    { return Effect{Kind: EffFlash, Message: msg, IsError: true} }
func redrawStatusBar() Effect         { return Effect{Kind: EffRedrawStatusBar} }
func yank(text string) Effect         { return Effect{Kind: EffYank, YankText: text} }
func setMode(m Mode) Effect           { return Effect{Kind: EffSetMode, Mode: m} }
func setLastSearch(ls *SearchState) Effect {
	return Effect{Kind: EffSetLastSearch, LastSearch: ls}
}
func deletePlacements() Effect  { return Effect{Kind: EffDeletePlacements} }
func openURL(url string) Effect { return Effect{Kind: EffOpenUrl, URL: url} }
func redrawURLPicker() Effect   { return Effect{Kind: EffRedrawUrlPicker} }
func exit(reason ExitReason) Effect {
	return Effect{Kind: EffExit, Reason: reason}
}
