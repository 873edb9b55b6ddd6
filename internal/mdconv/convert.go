package mdconv

import (
	"fmt"
	"strconv"
	"strings"
)

// maxQuoteDepth caps nested #quote(...) wrapper emission; deeper content is
// still emitted, just without further wrapping, rather than being dropped.
const maxQuoteDepth = 10

// Result is the output of Convert: the typeset markup and the source map
// needed to translate a byte offset in that markup back to the Markdown
// source span that produced it.
type Result struct {
	Output string
	Map    *SourceMap
}

// Convert turns Markdown source into mlux's typeset markup. It never
// fails: malformed input degrades to an escaped plain-text rendering rather
// than an error, matching the teacher's convert/run.go policy of preferring
// a degraded document over no document.
func Convert(md string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = plainFallback(md)
		}
	}()
	c := &converter{}
	lines := splitLines(md)
	blocks := parseBlocks(lines, 0, len(lines))
	c.emitTop(blocks)
	return Result{Output: c.out.String(), Map: &c.sm}
}

func plainFallback(md string) Result {
	out := escapeText(md)
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	sm := &SourceMap{Blocks: []BlockMapping{{
		OutRange: Range{0, len(out)},
		SrcRange: Range{0, len(md)},
	}}}
	return Result{Output: out, Map: sm}
}

type converter struct {
	out strings.Builder
	sm  SourceMap
}

// emitTop walks top-level blocks only, recording one BlockMapping per block
// that spans everything emitted for it, nested content included.
func (c *converter) emitTop(blocks []block) {
	for idx, b := range blocks {
		start := c.out.Len()
		c.emitBlock(b, 0)
		c.sm.add(BlockMapping{
			OutRange: Range{start, c.out.Len()},
			SrcRange: Range{b.srcStart, b.srcEnd},
		})
		// Every top-level block already ends with a single newline; adding
		// one more turns the boundary into a blank line, which is how
		// internal/typeset's parser splits the flat markup string back into
		// blocks once it no longer has access to this block tree.
		if idx != len(blocks)-1 {
			c.out.WriteByte('\n')
		}
	}
}

// emitNested walks blocks found inside a container (blockquote, list item)
// without recording mappings of their own: the ancestor's BlockMapping,
// recorded by emitTop, already covers their span.
func (c *converter) emitNested(blocks []block, quoteDepth int) {
	for _, b := range blocks {
		c.emitBlock(b, quoteDepth)
	}
}

func (c *converter) emitBlock(b block, quoteDepth int) {
	switch b.kind {
	case blockHeading:
		c.out.WriteString(strings.Repeat("#", max(b.level, 1)))
		c.out.WriteByte(' ')
		c.out.WriteString(emitInline(b.text))
		c.out.WriteByte('\n')

	case blockParagraph:
		c.out.WriteString(emitInline(b.text))
		c.out.WriteByte('\n')

	case blockCode:
		c.emitCode(b)

	case blockThematicBreak:
		c.out.WriteString("#line(length: 100%)\n")

	case blockQuote:
		if quoteDepth < maxQuoteDepth {
			c.out.WriteString("#quote(block: true)[\n")
			c.emitNested(b.items, quoteDepth+1)
			c.out.WriteString("]\n")
		} else {
			c.emitNested(b.items, quoteDepth+1)
		}

	case blockList:
		c.emitList(b, quoteDepth)

	case blockTable:
		c.emitTable(b)
	}
}

func (c *converter) emitCode(b block) {
	longest := 0
	for _, l := range b.lines {
		run := 0
		for i := 0; i < len(l); i++ {
			if l[i] == '`' {
				run++
				if run > longest {
					longest = run
				}
			} else {
				run = 0
			}
		}
	}
	fenceLen := longest + 1
	if fenceLen < 3 {
		fenceLen = 3
	}
	fence := strings.Repeat("`", fenceLen)

	c.out.WriteString(fence)
	c.out.WriteString(b.lang)
	c.out.WriteByte('\n')
	for _, l := range b.lines {
		if l == "" {
			c.out.WriteByte(' ')
		} else {
			c.out.WriteString(l)
		}
		c.out.WriteByte('\n')
	}
	c.out.WriteString(fence)
	c.out.WriteByte('\n')
}

func (c *converter) emitList(b block, quoteDepth int) {
	for i, item := range b.items {
		if b.ordered {
			c.out.WriteString(strconv.Itoa(i+1) + ". ")
		} else {
			c.out.WriteString("- ")
		}
		c.emitNested(item.items, quoteDepth)
		if c.out.Len() == 0 || c.out.String()[c.out.Len()-1] != '\n' {
			c.out.WriteByte('\n')
		}
	}
}

func (c *converter) emitTable(b block) {
	if len(b.rows) == 0 {
		return
	}
	cols := len(b.rows[0])
	c.out.WriteString(fmt.Sprintf("#table(columns: %d,\n", cols))
	for _, row := range b.rows {
		for _, cell := range row {
			c.out.WriteString("  [" + emitInline(cell) + "],\n")
		}
	}
	c.out.WriteString(")\n")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
