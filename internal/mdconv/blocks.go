package mdconv

import (
	"regexp"
	"strings"
)

type blockKind int

const (
	blockParagraph blockKind = iota
	blockHeading
	blockCode
	blockQuote
	blockList
	blockListItem
	blockTable
	blockThematicBreak
)

// block is one node of the hand-rolled top-level scanner. Unlike
// blackfriday's AST, every block carries the exact byte range of the source
// text it was scanned from, which is the whole reason this scanner exists:
// blackfriday/v2 throws that information away during parsing.
type block struct {
	kind  blockKind
	level int    // heading level, 1-6
	lang  string // code fence info string
	text  string // raw inline text for paragraph/heading/listItem-lead
	lines []string // raw inner lines for a code block

	ordered  bool
	items    []block // list items, or blockquote/list-item nested blocks
	rows     [][]string

	srcStart, srcEnd int
}

var (
	atxHeadingRe  = regexp.MustCompile(`^(#{1,6})(\s+(.*?))?\s*#*\s*$`)
	fenceOpenRe   = regexp.MustCompile("^(`{3,}|~{3,})[ \t]*(.*)$")
	bulletRe      = regexp.MustCompile(`^([-*+])[ \t]+(.*)$`)
	orderedRe     = regexp.MustCompile(`^(\d{1,9})[.)][ \t]+(.*)$`)
	thematicRe    = regexp.MustCompile(`^(?:-[ \t]*){3,}$|^(?:\*[ \t]*){3,}$|^(?:_[ \t]*){3,}$`)
	tableSepRe    = regexp.MustCompile(`^\|?\s*:?-+:?\s*(\|\s*:?-+:?\s*)*\|?$`)
)

// parseBlocks scans lines[start:end) into a flat sequence of top-level
// blocks, recursing into container blocks (quote, list item) for their
// nested content.
func parseBlocks(lines []line, start, end int) []block {
	var blocks []block
	i := start
	for i < end {
		if isBlank(lines[i].text) {
			i++
			continue
		}
		trimmed := strings.TrimLeft(lines[i].text, " ")
		indent := leadingSpaces(lines[i].text)

		switch {
		case indent < 4 && fenceOpenRe.MatchString(trimmed):
			b, next := scanCodeBlock(lines, i, end)
			blocks = append(blocks, b)
			i = next

		case indent < 4 && atxHeadingRe.MatchString(trimmed):
			m := atxHeadingRe.FindStringSubmatch(trimmed)
			blocks = append(blocks, block{
				kind:     blockHeading,
				level:    len(m[1]),
				text:     strings.TrimSpace(m[3]),
				srcStart: lines[i].start,
				srcEnd:   lines[i].end,
			})
			i++

		case indent < 4 && thematicRe.MatchString(trimmed) && !bulletRe.MatchString(trimmed):
			blocks = append(blocks, block{
				kind:     blockThematicBreak,
				srcStart: lines[i].start,
				srcEnd:   lines[i].end,
			})
			i++

		case indent < 4 && strings.HasPrefix(trimmed, ">"):
			b, next := scanBlockQuote(lines, i, end)
			blocks = append(blocks, b)
			i = next

		case indent < 4 && (bulletRe.MatchString(trimmed) || orderedRe.MatchString(trimmed)):
			b, next := scanList(lines, i, end)
			blocks = append(blocks, b)
			i = next

		case isTableStart(lines, i, end):
			b, next := scanTable(lines, i, end)
			blocks = append(blocks, b)
			i = next

		default:
			b, next := scanParagraph(lines, i, end)
			blocks = append(blocks, b)
			i = next
		}
	}
	return blocks
}

func scanCodeBlock(lines []line, i, end int) (block, int) {
	trimmed := strings.TrimLeft(lines[i].text, " ")
	m := fenceOpenRe.FindStringSubmatch(trimmed)
	fenceChar := m[1][0]
	fenceLen := len(m[1])
	lang := strings.TrimSpace(m[2])

	srcStart := lines[i].start
	var inner []string
	j := i + 1
	for j < end {
		t := strings.TrimLeft(lines[j].text, " ")
		if isClosingFence(t, fenceChar, fenceLen) {
			j++
			break
		}
		inner = append(inner, lines[j].text)
		j++
	}
	// j now points past the closing fence (or past EOF if unterminated); the
	// block's range always ends at the last line actually consumed.
	srcEnd := lines[j-1].end
	return block{
		kind:     blockCode,
		lang:     lang,
		lines:    inner,
		srcStart: srcStart,
		srcEnd:   srcEnd,
	}, j
}

func isClosingFence(t string, fenceChar byte, fenceLen int) bool {
	if len(t) < fenceLen {
		return false
	}
	for k := 0; k < fenceLen; k++ {
		if t[k] != fenceChar {
			return false
		}
	}
	return isBlank(t[fenceLen:])
}

func scanBlockQuote(lines []line, i, end int) (block, int) {
	srcStart := lines[i].start
	j := i
	var inner []line
	for j < end {
		t := lines[j].text
		lt := strings.TrimLeft(t, " ")
		if strings.HasPrefix(lt, ">") {
			stripped := strings.TrimPrefix(lt, ">")
			stripped = strings.TrimPrefix(stripped, " ")
			inner = append(inner, line{text: stripped, start: lines[j].start, end: lines[j].end})
			j++
			continue
		}
		if isBlank(t) {
			// a quote absorbs a blank line only if quote content follows
			if j+1 < end && strings.HasPrefix(strings.TrimLeft(lines[j+1].text, " "), ">") {
				inner = append(inner, line{text: "", start: lines[j].start, end: lines[j].end})
				j++
				continue
			}
			break
		}
		// lazy continuation: a non-blank, non-'>' line right after quote content
		// extends the quote's last paragraph
		if j > i {
			inner = append(inner, line{text: t, start: lines[j].start, end: lines[j].end})
			j++
			continue
		}
		break
	}
	srcEnd := lines[j-1].end
	nested := parseBlocks(inner, 0, len(inner))
	return block{
		kind:     blockQuote,
		items:    nested,
		srcStart: srcStart,
		srcEnd:   srcEnd,
	}, j
}

func scanList(lines []line, i, end int) (block, int) {
	trimmed := strings.TrimLeft(lines[i].text, " ")
	ordered := orderedRe.MatchString(trimmed)
	srcStart := lines[i].start
	j := i
	var items []block

	matchesMarker := func(s string) (contentCol int, rest string, ok bool) {
		indent := leadingSpaces(s)
		t := s[indent:]
		if ordered {
			if m := orderedRe.FindStringSubmatch(t); m != nil {
				return indent + len(t) - len(m[2]), m[2], true
			}
			return 0, "", false
		}
		if m := bulletRe.FindStringSubmatch(t); m != nil {
			return indent + len(t) - len(m[2]), m[2], true
		}
		return 0, "", false
	}

	for j < end {
		if isBlank(lines[j].text) {
			// a single blank line may separate list items; two in a row ends the list
			if j+1 >= end || isBlank(lines[j+1].text) {
				break
			}
			j++
			continue
		}
		contentCol, rest, ok := matchesMarker(lines[j].text)
		if !ok {
			break
		}
		itemStart := lines[j].start
		var itemLines []line
		itemLines = append(itemLines, line{text: rest, start: lines[j].start, end: lines[j].end})
		k := j + 1
		for k < end {
			if isBlank(lines[k].text) {
				if k+1 < end && (leadingSpaces(lines[k+1].text) >= contentCol || isBlank(lines[k+1].text)) {
					itemLines = append(itemLines, line{text: "", start: lines[k].start, end: lines[k].end})
					k++
					continue
				}
				break
			}
			if leadingSpaces(lines[k].text) >= contentCol {
				itemLines = append(itemLines, line{text: lines[k].text[min(contentCol, leadingSpaces(lines[k].text)):], start: lines[k].start, end: lines[k].end})
				k++
				continue
			}
			if _, _, ok := matchesMarker(lines[k].text); ok {
				break
			}
			break
		}
		nested := parseBlocks(itemLines, 0, len(itemLines))
		items = append(items, block{
			kind:     blockListItem,
			items:    nested,
			srcStart: itemStart,
			srcEnd:   lines[k-1].end,
		})
		j = k
	}
	srcEnd := lines[j-1].end
	return block{
		kind:     blockList,
		ordered:  ordered,
		items:    items,
		srcStart: srcStart,
		srcEnd:   srcEnd,
	}, j
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func isTableStart(lines []line, i, end int) bool {
	if i+1 >= end {
		return false
	}
	if !strings.Contains(lines[i].text, "|") {
		return false
	}
	sep := strings.TrimSpace(lines[i+1].text)
	return sep != "" && tableSepRe.MatchString(sep) && strings.Contains(sep, "-")
}

func scanTable(lines []line, i, end int) (block, int) {
	srcStart := lines[i].start
	header := splitTableRow(lines[i].text)
	j := i + 2
	rows := [][]string{header}
	for j < end && !isBlank(lines[j].text) && strings.Contains(lines[j].text, "|") {
		rows = append(rows, splitTableRow(lines[j].text))
		j++
	}
	srcEnd := lines[j-1].end
	return block{
		kind:     blockTable,
		rows:     rows,
		srcStart: srcStart,
		srcEnd:   srcEnd,
	}, j
}

func splitTableRow(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "|")
	s = strings.TrimSuffix(s, "|")
	var cells []string
	var cur strings.Builder
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			cur.WriteRune(r)
			escaped = true
		case r == '|':
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return cells
}

func scanParagraph(lines []line, i, end int) (block, int) {
	srcStart := lines[i].start
	var texts []string
	j := i
	for j < end {
		if isBlank(lines[j].text) {
			break
		}
		t := strings.TrimLeft(lines[j].text, " ")
		indent := leadingSpaces(lines[j].text)
		if j > i && indent < 4 && (atxHeadingRe.MatchString(t) ||
			fenceOpenRe.MatchString(t) ||
			strings.HasPrefix(t, ">") ||
			bulletRe.MatchString(t) || orderedRe.MatchString(t) ||
			(thematicRe.MatchString(t) && !bulletRe.MatchString(t))) {
			break
		}
		texts = append(texts, lines[j].text)
		j++
	}
	srcEnd := lines[j-1].end
	return block{
		kind:     blockParagraph,
		text:     strings.Join(texts, "\n"),
		srcStart: srcStart,
		srcEnd:   srcEnd,
	}, j
}
