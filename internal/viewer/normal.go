package viewer

import "strings"

func clamp(y, max float64) float64 {
	if y < 0 {
		return 0
	}
	if y > max {
		return max
	}
	return y
}

// HandleNormalKey implements SPEC_FULL §4.K's normal-mode key grammar:
// count?{action}. Digits accumulate into s.Count; any recognized action
// letter consumes the pending count (defaulting to 1) and fires.
// Unrecognized keys reset the accumulator, matching "digits without a
// trailing command reset the status display".
func HandleNormalKey(s *State, key Key, ctx Context) []Effect {
	if key.Name == "Esc" {
		s.resetCount()
		return []Effect{redrawStatusBar()}
	}
	if key.Name == "Ctrl+C" {
		return []Effect{exit(ExitQuit)}
	}
	if key.Rune >= '0' && key.Rune <= '9' {
		s.accumulateDigit(int(key.Rune - '0'))
		return []Effect{redrawStatusBar()}
	}

	switch {
	case key.Name == "Down" || key.Rune == 'j':
		n := s.takeCount()
		return []Effect{scrollTo(clamp(ctx.ScrollY+float64(n)*ctx.ScrollStepPx, ctx.MaxScrollPx))}

	case key.Name == "Up" || key.Rune == 'k':
		n := s.takeCount()
		return []Effect{scrollTo(clamp(ctx.ScrollY-float64(n)*ctx.ScrollStepPx, ctx.MaxScrollPx))}

	case key.Rune == 'd':
		s.takeCount()
		return []Effect{scrollTo(clamp(ctx.ScrollY+ctx.ViewportHPx/2, ctx.MaxScrollPx))}

	case key.Rune == 'u':
		s.takeCount()
		return []Effect{scrollTo(clamp(ctx.ScrollY-ctx.ViewportHPx/2, ctx.MaxScrollPx))}

	case key.Rune == 'g':
		if s.HasCount {
			n := s.takeCount()
			return jumpToVisualLine(ctx, n)
		}
		return []Effect{scrollTo(0)}

	case key.Rune == 'G':
		if s.HasCount {
			n := s.takeCount()
			return jumpToVisualLine(ctx, n)
		}
		return []Effect{scrollTo(ctx.MaxScrollPx)}

	case key.Rune == 'y':
		if !s.HasCount {
			return nil
		}
		n := s.takeCount()
		return yankAt(ctx, n, true)

	case key.Rune == 'Y':
		if !s.HasCount {
			return nil
		}
		n := s.takeCount()
		return yankAt(ctx, n, false)

	case key.Rune == 'o':
		if !s.HasCount {
			return nil
		}
		n := s.takeCount()
		return openAt(s, ctx, n)

	case key.Rune == '/':
		s.resetCount()
		s.SearchQuery = ""
		return []Effect{setMode(ModeSearch), redrawStatusBar()}

	case key.Rune == ':':
		s.resetCount()
		s.CommandBuf = ""
		return []Effect{setMode(ModeCommand), redrawStatusBar()}

	case key.Rune == 'n':
		s.resetCount()
		return NextSearchMatch(s.LastSearch, ctx.VisualLines, currentVisualLine(ctx), true)

	case key.Rune == 'N':
		s.resetCount()
		return NextSearchMatch(s.LastSearch, ctx.VisualLines, currentVisualLine(ctx), false)

	case key.Rune == 'q':
		return []Effect{exit(ExitQuit)}
	}

	s.resetCount()
	return []Effect{redrawStatusBar()}
}

func currentVisualLine(ctx Context) int {
	for i, vl := range ctx.VisualLines {
		if float64(vl.YPx) >= ctx.ScrollY {
			return i
		}
	}
	return len(ctx.VisualLines) - 1
}

func jumpToVisualLine(ctx Context, n int) []Effect {
	if n < 1 || n > len(ctx.VisualLines) {
		return []Effect{flash("no such line")}
	}
	return []Effect{scrollTo(clamp(float64(ctx.VisualLines[n-1].YPx), ctx.MaxScrollPx))}
}

func sourceLines(markdown string) []string {
	return strings.Split(markdown, "\n")
}

// blockText returns the Markdown text for a 1-based inclusive line range.
func blockText(markdown string, start, end int) string {
	lines := sourceLines(markdown)
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}

func yankAt(ctx Context, n int, precise bool) []Effect {
	if n < 1 || n > len(ctx.VisualLines) {
		return []Effect{flash("no such line")}
	}
	vl := ctx.VisualLines[n-1]
	if vl.Src == nil {
		return []Effect{flash("nothing to yank")}
	}
	if precise && vl.Exact != nil {
		lines := sourceLines(ctx.Markdown)
		if *vl.Exact >= 1 && *vl.Exact <= len(lines) {
			text := lines[*vl.Exact-1]
			return []Effect{yank(text), flash(flashYankMsg(*vl.Exact, *vl.Exact))}
		}
	}
	text := blockText(ctx.Markdown, vl.Src.Start, vl.Src.End)
	return []Effect{yank(text), flash(flashYankMsg(vl.Src.Start, vl.Src.End))}
}

func flashYankMsg(start, end int) string {
	if start == end {
		return "yanked L" + itoa(start) + " (1 line)"
	}
	return "yanked L" + itoa(start) + " (" + itoa(end-start+1) + " lines)"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func openAt(s *State, ctx Context, n int) []Effect {
	if n < 1 || n > len(ctx.VisualLines) {
		return []Effect{flash("no such line")}
	}
	vl := ctx.VisualLines[n-1]
	if vl.Src == nil {
		return []Effect{flash("no link here")}
	}
	substring := blockText(ctx.Markdown, vl.Src.Start, vl.Src.End)
	urls := ExtractURLs(substring)
	if len(urls) == 1 {
		return []Effect{openURL(urls[0].URL)}
	}
	all := BuildDocumentURLs(ctx)
	s.URLPickerList = all
	s.URLPickerSelected = 0
	return []Effect{setMode(ModeURLPicker), redrawURLPicker()}
}

// BuildDocumentURLs scans every distinct source-line range referenced by
// the document's visual lines (SPEC_FULL §4.K's URL-picker contract:
// "scans the entire document's source-map ranges, deduplicating by
// range") and runs the same extraction pass over each, deduplicating the
// combined result by URL string.
func BuildDocumentURLs(ctx Context) []URLMatch {
	type rng struct{ start, end int }
	seenRange := make(map[rng]bool)
	seenURL := make(map[string]bool)
	var all []URLMatch

	for _, vl := range ctx.VisualLines {
		if vl.Src == nil {
			continue
		}
		r := rng{vl.Src.Start, vl.Src.End}
		if seenRange[r] {
			continue
		}
		seenRange[r] = true
		substring := blockText(ctx.Markdown, r.start, r.end)
		for _, m := range ExtractURLs(substring) {
			if seenURL[m.URL] {
				continue
			}
			seenURL[m.URL] = true
			all = append(all, m)
		}
	}
	return all
}
