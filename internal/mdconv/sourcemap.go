// Package mdconv converts Markdown into mlux's typeset markup while
// building a bidirectional block-level source map, mirroring the teacher's
// habit of keeping a parse stage and a bookkeeping structure (fbc's
// convert/content.go) cleanly separated from rendering.
package mdconv

import "sort"

// Range is a half-open byte range [Start, End).
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int { return r.End - r.Start }

// BlockMapping links one span of converted output to the Markdown source
// span that produced it.
type BlockMapping struct {
	OutRange Range
	SrcRange Range
}

// SourceMap is an ordered, non-overlapping sequence of BlockMappings,
// ordered by OutRange.Start.
type SourceMap struct {
	Blocks []BlockMapping
}

// FindByOutputOffset returns the BlockMapping whose OutRange covers offset,
// via binary search since Blocks is maintained in increasing, non-overlapping
// order.
func (m *SourceMap) FindByOutputOffset(offset int) (BlockMapping, bool) {
	if m == nil {
		return BlockMapping{}, false
	}
	blocks := m.Blocks
	idx := sort.Search(len(blocks), func(i int) bool {
		return blocks[i].OutRange.End > offset
	})
	if idx >= len(blocks) {
		return BlockMapping{}, false
	}
	b := blocks[idx]
	if offset < b.OutRange.Start || offset >= b.OutRange.End {
		return BlockMapping{}, false
	}
	return b, true
}

// add appends a mapping, preserving the invariant that Blocks stays sorted
// and non-overlapping as long as callers append in output order (true for
// every call site in this package: blocks are emitted strictly in the order
// they appear in the document).
func (m *SourceMap) add(bm BlockMapping) {
	m.Blocks = append(m.Blocks, bm)
}
