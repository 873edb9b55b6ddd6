// Package tile partitions a compiled document frame into fixed-height
// tiles (the unit of lazy rendering) and answers viewport visibility
// queries against the resulting TiledDocument.
package tile

import (
	"math"

	"mlux/internal/typeset"
)

// Tile is one fixed-height horizontal slice of a document frame, in
// tile-local coordinates (Y=0 at the tile's own top edge).
type Tile struct {
	Frame typeset.Frame
}

// Split deterministically partitions frame into ceil(H/tileHeightPt) tiles.
// Items whose [y, y+h) span overlaps more than one tile boundary are
// duplicated into every tile they overlap, each copy repositioned to that
// tile's local Y — the rasterizer's image bounds checks silently clip
// whatever falls outside a tile's own rectangle.
func Split(frame *typeset.Frame, tileHeightPt float64) []Tile {
	if tileHeightPt <= 0 {
		tileHeightPt = 1
	}
	n := int(math.Ceil(frame.HeightPt / tileHeightPt))
	if n < 1 {
		n = 1
	}
	tiles := make([]Tile, n)
	for i := range tiles {
		h := tileHeightPt
		remaining := frame.HeightPt - float64(i)*tileHeightPt
		if remaining < h {
			h = remaining
		}
		if h < 0 {
			h = 0
		}
		tiles[i] = Tile{Frame: typeset.Frame{WidthPt: frame.WidthPt, HeightPt: h}}
	}

	for _, it := range frame.Items {
		startTile := int(it.Y / tileHeightPt)
		endTile := startTile
		if it.H > 0 {
			// [Y, Y+H) is half-open: an item ending exactly on a boundary
			// does not overlap the tile that starts there.
			endTile = int(math.Ceil((it.Y+it.H)/tileHeightPt)) - 1
		}
		if startTile < 0 {
			startTile = 0
		}
		if endTile >= n {
			endTile = n - 1
		}
		for i := startTile; i <= endTile; i++ {
			clone := it
			clone.Y = it.Y - float64(i)*tileHeightPt
			tiles[i].Frame.Items = append(tiles[i].Frame.Items, clone)
		}
	}
	return tiles
}
