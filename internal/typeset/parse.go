package typeset

import (
	"strconv"
	"strings"
)

// blockKind mirrors the shape of markup mdconv emits; this parser re-derives
// block boundaries from the flat content string (it has no access to
// mdconv's own block tree — by the time it runs, World only holds text).
type blockKind int

const (
	blkHeading blockKind = iota
	blkParagraph
	blkCode
	blkQuote
	blkList
	blkTable
	blkRule
)

type parsedBlock struct {
	kind    blockKind
	level   int
	lang    string
	offset  int // byte offset of this block's first content byte, within World.Content
	text    string
	lines   []string // code block lines, or one raw line per list item
	lineOffsets []int // per-entry offset of lines[i], within World.Content
	nested  []parsedBlock
	cols    int
	cells   [][]string
}

// splitBlocks breaks content into top-level chunks on blank-line boundaries,
// the same convention internal/mdconv now emits between sibling blocks.
func splitBlocks(content string) []parsedBlock {
	var blocks []parsedBlock
	i := 0
	for i < len(content) {
		for i < len(content) && content[i] == '\n' {
			i++
		}
		if i >= len(content) {
			break
		}
		j := strings.Index(content[i:], "\n\n")
		var chunk string
		var next int
		if j < 0 {
			chunk = content[i:]
			next = len(content)
		} else {
			chunk = content[i : i+j+1]
			next = i + j + 2
		}
		blocks = append(blocks, parseOneBlock(chunk, i))
		i = next
	}
	return blocks
}

func parseOneBlock(chunk string, offset int) parsedBlock {
	trimmed := strings.TrimRight(chunk, "\n")
	switch {
	case strings.HasPrefix(trimmed, "#quote(block: true)["):
		inner := strings.TrimPrefix(trimmed, "#quote(block: true)[")
		inner = strings.TrimSuffix(inner, "]")
		inner = strings.TrimPrefix(inner, "\n")
		return parsedBlock{kind: blkQuote, offset: offset, nested: splitBlocks(inner)}

	case strings.HasPrefix(trimmed, "#table(columns: "):
		return parseTableBlock(trimmed, offset)

	case trimmed == "#line(length: 100%)":
		return parsedBlock{kind: blkRule, offset: offset}

	case isFenceLine(trimmed):
		return parseCodeBlock(trimmed, offset)

	case strings.HasPrefix(trimmed, "#"):
		level := 0
		for level < len(trimmed) && trimmed[level] == '#' {
			level++
		}
		if level >= 1 && level <= 6 && level < len(trimmed) && trimmed[level] == ' ' {
			return parsedBlock{kind: blkHeading, level: level, offset: offset, text: trimmed[level+1:]}
		}
		return parsedBlock{kind: blkParagraph, offset: offset, text: trimmed}

	case looksLikeList(trimmed):
		return parseListBlock(trimmed, offset)

	default:
		return parsedBlock{kind: blkParagraph, offset: offset, text: trimmed}
	}
}

func isFenceLine(s string) bool {
	lines := strings.Split(s, "\n")
	if len(lines) == 0 {
		return false
	}
	first := lines[0]
	return strings.HasPrefix(first, "```") || strings.HasPrefix(first, "~~~")
}

func parseCodeBlock(trimmed string, offset int) parsedBlock {
	lines := strings.Split(trimmed, "\n")
	fenceLine := lines[0]
	var fence byte = '`'
	if strings.HasPrefix(fenceLine, "~~~") {
		fence = '~'
	}
	n := 0
	for n < len(fenceLine) && fenceLine[n] == fence {
		n++
	}
	lang := fenceLine[n:]
	end := len(lines) - 1
	for end > 0 && !isClosing(lines[end], fence, n) {
		end--
	}
	if end <= 0 {
		end = len(lines)
	}

	pos := offset + len(fenceLine) + 1
	var inner []string
	var offsets []int
	for _, l := range lines[1:end] {
		inner = append(inner, l)
		offsets = append(offsets, pos)
		pos += len(l) + 1
	}
	return parsedBlock{kind: blkCode, lang: lang, offset: offset, lines: inner, lineOffsets: offsets}
}

func isClosing(s string, fence byte, n int) bool {
	if len(s) < n {
		return false
	}
	for i := 0; i < n; i++ {
		if s[i] != fence {
			return false
		}
	}
	return strings.TrimSpace(s[n:]) == ""
}

func looksLikeList(s string) bool {
	first := strings.SplitN(s, "\n", 2)[0]
	if strings.HasPrefix(first, "- ") {
		return true
	}
	// ordered: digits followed by ". "
	i := 0
	for i < len(first) && first[i] >= '0' && first[i] <= '9' {
		i++
	}
	return i > 0 && strings.HasPrefix(first[i:], ". ")
}

func parseListBlock(trimmed string, offset int) parsedBlock {
	lines := strings.Split(trimmed, "\n")
	var items []string
	var offsets []int
	pos := offset
	for _, l := range lines {
		items = append(items, l)
		offsets = append(offsets, pos)
		pos += len(l) + 1
	}
	return parsedBlock{kind: blkList, offset: offset, lines: items, lineOffsets: offsets}
}

func parseTableBlock(trimmed string, offset int) parsedBlock {
	rest := strings.TrimPrefix(trimmed, "#table(columns: ")
	commaIdx := strings.Index(rest, ",")
	cols := 0
	if commaIdx > 0 {
		cols, _ = strconv.Atoi(strings.TrimSpace(rest[:commaIdx]))
	}
	body := rest
	if commaIdx >= 0 {
		body = rest[commaIdx+1:]
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), ")")

	var flatCells []string
	i := 0
	for i < len(body) {
		if body[i] == '[' {
			content, next := readBalanced(body, i, '[', ']')
			flatCells = append(flatCells, content)
			i = next
			continue
		}
		i++
	}
	var rows [][]string
	if cols <= 0 {
		cols = 1
	}
	for i := 0; i < len(flatCells); i += cols {
		end := i + cols
		if end > len(flatCells) {
			end = len(flatCells)
		}
		rows = append(rows, flatCells[i:end])
	}
	return parsedBlock{kind: blkTable, offset: offset, cols: cols, cells: rows}
}

// readBalanced returns the text strictly between the bracket at s[i] and its
// matching close, plus the index just past the close.
func readBalanced(s string, i int, open, close byte) (string, int) {
	depth := 0
	start := i + 1
	for j := i; j < len(s); j++ {
		switch s[j] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start:j], j + 1
			}
		}
	}
	return s[start:], len(s)
}

// run is one styled span of inline text, produced by parseRuns.
type run struct {
	text    string
	style   Style
	linkURL string
	offset  int // byte offset within the text passed to parseRuns' top call
}

// parseRuns interprets mdconv's function-call inline markup
// (#strong[...], #emph[...], #strike[...], #link("url")[...], #raw("..."),
// backtick code, and backslash escapes) into a flat run sequence, each
// carrying the offset of its first byte relative to the original block text
// so Span tracking survives arbitrarily nested styling.
func parseRuns(s string, base Style) []run {
	var runs []run
	var plain strings.Builder
	plainStart := -1

	flush := func(end int) {
		if plain.Len() == 0 {
			return
		}
		runs = append(runs, run{text: plain.String(), style: base, offset: plainStart})
		plain.Reset()
		plainStart = -1
	}

	i := 0
	for i < len(s) {
		switch {
		case strings.HasPrefix(s[i:], "#strong["):
			flush(i)
			inner, next := readBalanced(s, i+len("#strong[")-1, '[', ']')
			sub := parseRuns(inner, withStyle(base, func(st *Style) { st.Bold = true }))
			offsetRuns(sub, i+len("#strong["))
			runs = append(runs, sub...)
			i = next

		case strings.HasPrefix(s[i:], "#emph["):
			flush(i)
			inner, next := readBalanced(s, i+len("#emph[")-1, '[', ']')
			sub := parseRuns(inner, withStyle(base, func(st *Style) { st.Italic = true }))
			offsetRuns(sub, i+len("#emph["))
			runs = append(runs, sub...)
			i = next

		case strings.HasPrefix(s[i:], "#strike["):
			flush(i)
			inner, next := readBalanced(s, i+len("#strike[")-1, '[', ']')
			sub := parseRuns(inner, withStyle(base, func(st *Style) { st.Strike = true }))
			offsetRuns(sub, i+len("#strike["))
			runs = append(runs, sub...)
			i = next

		case strings.HasPrefix(s[i:], "#link(\""):
			flush(i)
			qStart := i + len(`#link("`)
			url, qNext := readQuoted(s, qStart)
			rest := s[qNext:]
			if strings.HasPrefix(rest, ")[") {
				inner, next := readBalanced(s, qNext+1, '[', ']')
				sub := parseRuns(inner, base)
				offsetRuns(sub, qNext+2)
				for k := range sub {
					sub[k].linkURL = url
				}
				runs = append(runs, sub...)
				i = next
			} else {
				i = qNext
			}

		case strings.HasPrefix(s[i:], "#raw(\""):
			flush(i)
			qStart := i + len(`#raw("`)
			lit, qNext := readQuoted(s, qStart)
			runs = append(runs, run{text: unescapeLiteral(lit), style: withStyle(base, func(st *Style) { st.Mono = true }), offset: i})
			i = qNext

		case s[i] == '`':
			flush(i)
			end := strings.IndexByte(s[i+1:], '`')
			if end < 0 {
				plain.WriteByte('`')
				plainStart = i
				i++
				continue
			}
			code := s[i+1 : i+1+end]
			runs = append(runs, run{text: code, style: withStyle(base, func(st *Style) { st.Mono = true }), offset: i})
			i = i + 1 + end + 1

		case s[i] == '\\' && i+1 < len(s):
			if plainStart < 0 {
				plainStart = i
			}
			plain.WriteByte(s[i+1])
			i += 2

		default:
			if plainStart < 0 {
				plainStart = i
			}
			plain.WriteByte(s[i])
			i++
		}
	}
	flush(len(s))
	return runs
}

func withStyle(base Style, mutate func(*Style)) Style {
	st := base
	mutate(&st)
	return st
}

func offsetRuns(runs []run, base int) {
	for i := range runs {
		runs[i].offset += base
	}
}

func readQuoted(s string, i int) (string, int) {
	var sb strings.Builder
	for i < len(s) {
		if s[i] == '\\' && i+1 < len(s) {
			sb.WriteByte(s[i+1])
			i += 2
			continue
		}
		if s[i] == '"' {
			return sb.String(), i + 1
		}
		sb.WriteByte(s[i])
		i++
	}
	return sb.String(), i
}

func unescapeLiteral(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}
