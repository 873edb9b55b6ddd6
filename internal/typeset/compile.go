package typeset

import (
	"strings"

	"golang.org/x/image/font"
)

// indentStep is the per-level left margin applied to blockquote and list
// content, in points.
const indentStep = 16.0

// Compile lays the World's converted content out into a single tall
// document frame. It produces no diagnostics of its own: the returned
// warnings slice and error are always nil (font-scan warnings are
// reported by ScanFonts, not here).
func Compile(world *World) (*Document, []string, error) {
	fonts := world.Fonts
	bodyFace, monoFace := fonts.Body, fonts.Mono
	lineH := float64(bodyFace.Metrics().Height.Ceil())
	if lineH <= 0 {
		lineH = 16
	}

	blocks := splitBlocks(world.Content)
	c := &compiler{
		bodyFace: bodyFace,
		monoFace: monoFace,
		lineH:    lineH,
		maxW:     world.PageWidthPt,
	}
	c.emit(blocks, 0)

	frame := Frame{Items: c.items, WidthPt: world.PageWidthPt, HeightPt: c.y}
	return &Document{Frame: frame}, nil, nil
}

type compiler struct {
	bodyFace, monoFace font.Face
	lineH              float64
	maxW               float64
	items              []Item
	y                  float64
}

func (c *compiler) emit(blocks []parsedBlock, indent float64) {
	for _, b := range blocks {
		switch b.kind {
		case blkHeading:
			runs := parseRuns(b.text, Style{Bold: true})
			offsetRuns(runs, b.offset+b.level+1)
			c.layoutRuns(runs, indent)
			c.y += c.lineH * 0.5

		case blkParagraph:
			runs := parseRuns(b.text, Style{})
			offsetRuns(runs, b.offset)
			c.layoutRuns(runs, indent)

		case blkCode:
			for i, l := range b.lines {
				off := b.offset
				if i < len(b.lineOffsets) {
					off = b.lineOffsets[i]
				}
				w := float64(font.MeasureString(c.monoFace, l).Ceil())
				c.items = append(c.items, Item{
					Kind: ItemText, X: indent, Y: c.y, W: w, H: c.lineH,
					Text: l, Style: Style{Mono: true}, Span: Span{Offset: off},
				})
				c.y += c.lineH
			}

		case blkQuote:
			c.emit(b.nested, indent+indentStep)

		case blkList:
			for i, l := range b.lines {
				marker, rest := splitListMarker(l)
				off := b.offset
				if i < len(b.lineOffsets) {
					off = b.lineOffsets[i] + len(marker)
				}
				runs := parseRuns(rest, Style{})
				offsetRuns(runs, off)
				c.layoutRunsWithPrefix(runs, indent+indentStep, marker)
			}

		case blkTable:
			c.layoutTable(b, indent)

		case blkRule:
			c.items = append(c.items, Item{
				Kind: ItemShape, X: indent, Y: c.y, W: c.maxW - indent, H: 1,
			})
			c.y += c.lineH
		}
	}
}

func splitListMarker(l string) (marker, rest string) {
	if strings.HasPrefix(l, "- ") {
		return l[:2], l[2:]
	}
	i := 0
	for i < len(l) && l[i] >= '0' && l[i] <= '9' {
		i++
	}
	if i > 0 && i+1 < len(l) && l[i] == '.' && l[i+1] == ' ' {
		return l[:i+2], l[i+2:]
	}
	return "", l
}

func (c *compiler) layoutRuns(runs []run, indent float64) {
	c.layoutRunsWithPrefix(runs, indent, "")
}

func (c *compiler) layoutRunsWithPrefix(runs []run, indent float64, prefix string) {
	words := toWords(runs)
	lines := wrapWords(words, c.maxW-indent, c.bodyFace, c.monoFace)
	for i, ln := range lines {
		text := ln.text
		if i == 0 && prefix != "" {
			text = prefix + text
		}
		c.items = append(c.items, Item{
			Kind: ItemText, X: indent, Y: c.y, W: ln.width, H: c.lineH,
			Text: text, Style: ln.style, LinkURL: ln.linkURL,
			Span: Span{Offset: ln.firstOffset},
		})
		c.y += c.lineH
	}
	if len(lines) == 0 && prefix != "" {
		c.items = append(c.items, Item{
			Kind: ItemText, X: indent, Y: c.y, W: float64(len(prefix)) * 7, H: c.lineH,
			Text: prefix, Span: Span{Detached: true},
		})
		c.y += c.lineH
	}
}

func (c *compiler) layoutTable(b parsedBlock, indent float64) {
	for _, row := range b.cells {
		var combined []run
		for ci, cell := range row {
			if ci > 0 {
				combined = append(combined, run{text: " | ", offset: b.offset})
			}
			cr := parseRuns(cell, Style{})
			offsetRuns(cr, b.offset)
			combined = append(combined, cr...)
		}
		c.layoutRuns(combined, indent)
	}
}
