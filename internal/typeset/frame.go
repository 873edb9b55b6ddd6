package typeset

// ItemKind is the closed set of frame-item variants the rest of the
// pipeline (visual-line extraction, tile splitting) pattern-matches over.
type ItemKind int

const (
	ItemText ItemKind = iota
	ItemGroup
	ItemShape
	ItemImage
	ItemLink
)

// Style carries the handful of inline attributes the converter's markup can
// express. basicfont.Face7x13 has no bold/italic variant, and scanned
// OpenType fonts are loaded as a single face per role (body/mono) rather
// than a full family, so Bold is rendered by double-striking the glyph one
// pixel right (the classic terminal "fake bold") and Italic is tracked for
// completeness but not visually distinguished — see DESIGN.md.
type Style struct {
	Bold   bool
	Italic bool
	Strike bool
	Mono   bool
}

// Span is the representative source-position of a frame item: the byte
// offset of its first glyph within the World's converted content (not the
// full synthesized main source — World.ContentOffset() bridges the two).
type Span struct {
	Offset   int
	Detached bool
}

// Item is one node of a document frame.
type Item struct {
	Kind ItemKind

	X, Y float64 // position in points, relative to the enclosing frame/group
	W, H float64

	Text  string
	Style Style
	Span  Span

	LinkURL string

	Children []Item // only meaningful for ItemGroup
}

// Frame is an axis-aligned rectangle of items in frame-local coordinates.
type Frame struct {
	Items   []Item
	WidthPt float64
	HeightPt float64
}

// Document is the compiled result: a single frame tall enough to hold the
// whole page (tiling happens downstream, in internal/tile).
type Document struct {
	Frame Frame
}
