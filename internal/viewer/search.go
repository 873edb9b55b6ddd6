package viewer

import (
	"fmt"
	"regexp"
	"strings"

	"mlux/internal/visualline"
)

// SearchState is everything persisted about the most recent search so
// `n`/`N` can repeat it after leaving search mode.
type SearchState struct {
	Query   string
	Matches []int // visual-line indices, in document order
}

// compileSearch builds a case-insensitive regex when query is entirely
// lowercase ("smartcase" — any uppercase letter in the query opts into a
// case-sensitive match).
func compileSearch(query string) (*regexp.Regexp, error) {
	pattern := query
	if query == strings.ToLower(query) {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

// runSearch greps every Markdown source line against re, maps each
// matching line number to the first visual line whose Src range contains
// it, and returns the resulting visual-line indices in document order,
// deduplicated.
func runSearch(re *regexp.Regexp, markdown string, vlines []visualline.VisualLine) []int {
	lines := strings.Split(markdown, "\n")
	var result []int
	seen := make(map[int]bool)
	for lineNo := 1; lineNo <= len(lines); lineNo++ {
		if !re.MatchString(lines[lineNo-1]) {
			continue
		}
		if idx, ok := visualLineForSourceLine(vlines, lineNo); ok && !seen[idx] {
			seen[idx] = true
			result = append(result, idx)
		}
	}
	return result
}

func visualLineForSourceLine(vlines []visualline.VisualLine, lineNo int) (int, bool) {
	for i, vl := range vlines {
		if vl.Src == nil {
			continue
		}
		if lineNo >= vl.Src.Start && lineNo <= vl.Src.End {
			return i, true
		}
	}
	return 0, false
}

// recomputeMatches re-greps the current query against the document and
// refreshes st.SearchMatches/SearchSelected, the same "live list updates
// on every keystroke" behavior the URL picker's list already has by
// construction. An invalid or empty query just clears the match list —
// live retyping shouldn't flash an error on every incomplete regex.
func recomputeMatches(st *State, markdown string, vlines []visualline.VisualLine) {
	re, err := compileSearch(st.SearchQuery)
	if err != nil || st.SearchQuery == "" {
		st.SearchMatches = nil
		st.SearchSelected = 0
		return
	}
	st.SearchMatches = runSearch(re, markdown, vlines)
	if st.SearchSelected >= len(st.SearchMatches) {
		st.SearchSelected = len(st.SearchMatches) - 1
	}
	if st.SearchSelected < 0 {
		st.SearchSelected = 0
	}
}

// HandleSearchInput processes one character of search-query input. The
// match list is kept live: every keystroke that changes the query
// re-greps the document, exactly like the URL picker's list is always
// live. The Down/Up arrows move the selection within that list (typed
// letters, j and k included, arrive as Runes and extend the query); Enter jumps to the
// selected match and persists LastSearch; Esc cancels back to normal
// mode without side effects. An invalid regex at confirm time produces
// an error-flavored flash (flashError), which the apply loop renders as
// StatusError.
func HandleSearchInput(st *State, markdown string, vlines []visualline.VisualLine, key Key) []Effect {
	switch {
	case key.Name == "Esc":
		st.SearchQuery = ""
		st.SearchMatches = nil
		return []Effect{setMode(ModeNormal), redrawStatusBar()}

	case key.Name == "Enter":
		re, err := compileSearch(st.SearchQuery)
		if err != nil {
			return []Effect{flashError(fmt.Sprintf("invalid regex: %v", err))}
		}
		matches := runSearch(re, markdown, vlines)
		if len(matches) == 0 {
			st.SearchMatches = nil
			return []Effect{flash("no matches"), setMode(ModeNormal)}
		}
		st.SearchMatches = matches
		if st.SearchSelected < 0 || st.SearchSelected >= len(matches) {
			st.SearchSelected = 0
		}
		ls := &SearchState{Query: st.SearchQuery, Matches: matches}
		y := float64(vlines[matches[st.SearchSelected]].YPx)
		return []Effect{
			setLastSearch(ls),
			setMode(ModeNormal),
			scrollTo(y),
			redrawStatusBar(),
		}

	case key.Name == "Backspace":
		if len(st.SearchQuery) > 0 {
			st.SearchQuery = st.SearchQuery[:len(st.SearchQuery)-1]
		}
		recomputeMatches(st, markdown, vlines)
		return []Effect{redrawStatusBar()}

	case key.Name == "j" || key.Name == "Down":
		if st.SearchSelected < len(st.SearchMatches)-1 {
			st.SearchSelected++
		}
		return []Effect{redrawStatusBar()}

	case key.Name == "k" || key.Name == "Up":
		if st.SearchSelected > 0 {
			st.SearchSelected--
		}
		return []Effect{redrawStatusBar()}

	case key.Rune != 0:
		st.SearchQuery += string(key.Rune)
		recomputeMatches(st, markdown, vlines)
		return []Effect{redrawStatusBar()}
	}
	return nil
}

// NextSearchMatch implements `n`/`N`: step to the next/previous match,
// wrapping, and scroll there.
func NextSearchMatch(ls *SearchState, vlines []visualline.VisualLine, current int, forward bool) []Effect {
	if ls == nil || len(ls.Matches) == 0 {
		return []Effect{flash("no previous search")}
	}
	pos := -1
	if forward {
		for i, idx := range ls.Matches {
			if idx > current {
				pos = i
				break
			}
		}
		if pos < 0 {
			pos = 0
		}
	} else {
		for i := len(ls.Matches) - 1; i >= 0; i-- {
			if ls.Matches[i] < current {
				pos = i
				break
			}
		}
		if pos < 0 {
			pos = len(ls.Matches) - 1
		}
	}
	idx := ls.Matches[pos]
	y := float64(vlines[idx].YPx)
	return []Effect{scrollTo(y), flash(fmt.Sprintf("match %d/%d", pos+1, len(ls.Matches)))}
}
