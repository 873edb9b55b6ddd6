// Package visualline walks a compiled document frame into an ordered list
// of visible text rows ("visual lines"), each resolved back to the
// Markdown source line(s) that produced it via the block-level source map.
package visualline

import (
	"strings"

	"mlux/internal/mdconv"
	"mlux/internal/typeset"
)

// LineMergeTolerancePt is the Y-distance below which two frame text items
// are considered the same rendered row. Chosen empirically (SPEC_FULL §5
// Open Question): the minimum inter-line gap between a heading and the
// body text that follows it is comfortably above 15pt, so 5pt safely
// separates distinct lines without merging text items that share a
// baseline only because they carry different font sizes (e.g. an inline
// code run mixed with body text).
const LineMergeTolerancePt = 5.0

// LineRange is a 1-based inclusive Markdown line span.
type LineRange struct {
	Start int
	End   int
}

// VisualLine is one visible text row, immutable once created.
type VisualLine struct {
	YPt   float64
	YPx   int
	Src   *LineRange // the enclosing block's Markdown line span, if resolved
	Exact *int       // 1-based Markdown line of a row inside a code block, if applicable
}

type candidate struct {
	y    float64
	span typeset.Span
}

// Extract walks frame depth-first (recursing into groups, whose own
// position offsets their children's) collecting one candidate per text
// item, merges candidates within LineMergeTolerancePt of each other into a
// single VisualLine, and resolves each line to source Markdown lines using
// sm and the original Markdown text md. contentOffset is unused directly
// here: typeset.Item.Span.Offset is already relative to the converted
// content string sm was built over (see internal/typeset World docs), so
// no offset translation is required at this layer — but it is accepted to
// keep the call site symmetrical with the spec's component boundary and to
// remain forward-compatible with a future World that injects
// theme-prefix-only items.
func Extract(frame *typeset.Frame, sm *mdconv.SourceMap, md, content string, contentOffset int, ppiScale float64) []VisualLine {
	var all []candidate
	collect(frame.Items, 0, 0, &all)

	if len(all) == 0 {
		return nil
	}
	sortByY(all)

	lineStarts := newLineIndex(md)

	var lines []VisualLine
	i := 0
	for i < len(all) {
		j := i + 1
		for j < len(all) && all[j].y-all[i].y <= LineMergeTolerancePt {
			j++
		}
		cluster := all[i:j]
		lines = append(lines, resolve(cluster, sm, md, content, lineStarts, ppiScale))
		i = j
	}
	return lines
}

func collect(items []typeset.Item, offX, offY float64, out *[]candidate) {
	for _, it := range items {
		absY := it.Y + offY
		switch it.Kind {
		case typeset.ItemText:
			*out = append(*out, candidate{y: absY, span: it.Span})
		case typeset.ItemGroup:
			collect(it.Children, it.X+offX, absY, out)
		}
	}
}

func sortByY(c []candidate) {
	for i := 1; i < len(c); i++ {
		for j := i; j > 0 && c[j].y < c[j-1].y; j-- {
			c[j], c[j-1] = c[j-1], c[j]
		}
	}
}

func resolve(cluster []candidate, sm *mdconv.SourceMap, md, content string, lineStarts []int, ppiScale float64) VisualLine {
	vl := VisualLine{YPt: cluster[0].y, YPx: int(cluster[0].y*ppiScale + 0.5)}

	for _, cand := range cluster {
		if cand.span.Detached {
			continue
		}
		bm, ok := sm.FindByOutputOffset(cand.span.Offset)
		if !ok {
			continue
		}
		start := lineNumberAt(lineStarts, bm.SrcRange.Start)
		end := lineNumberAt(lineStarts, max0(bm.SrcRange.End-1, bm.SrcRange.Start))
		vl.Src = &LineRange{Start: start, End: end}

		if isCodeFenceStart(md, bm.SrcRange.Start) {
			exact := start - 1 + exactCodeLine(content, bm, cand.span.Offset)
			vl.Exact = &exact
		}
		return vl
	}
	return vl
}

func isCodeFenceStart(md string, offset int) bool {
	if offset >= len(md) {
		return false
	}
	rest := strings.TrimLeft(md[offset:], " ")
	return strings.HasPrefix(rest, "```") || strings.HasPrefix(rest, "~~~")
}

// exactCodeLine counts newlines in the typeset content between the
// resolved block's output start and the candidate span's offset, bounded
// to the block's own line count, since §4.A preserves one typeset line per
// Markdown line inside code blocks (blank lines filled with a space).
func exactCodeLine(content string, bm mdconv.BlockMapping, spanOffset int) int {
	if spanOffset < bm.OutRange.Start {
		spanOffset = bm.OutRange.Start
	}
	if spanOffset > bm.OutRange.End {
		spanOffset = bm.OutRange.End
	}
	line := 1 + strings.Count(content[bm.OutRange.Start:spanOffset], "\n")
	maxLine := 1 + strings.Count(content[bm.OutRange.Start:bm.OutRange.End], "\n")
	if line > maxLine {
		line = maxLine
	}
	return line
}

func max0(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// newLineIndex returns the byte offset of the start of every line in s,
// enabling an O(log n) offset-to-line-number lookup.
func newLineIndex(s string) []int {
	starts := []int{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineNumberAt(starts []int, offset int) int {
	lo, hi := 0, len(starts)
	for lo < hi {
		mid := (lo + hi) / 2
		if starts[mid] <= offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo // 1-based: starts[0]=0 corresponds to line 1, so lo (the count of starts <= offset) is the line number
}
