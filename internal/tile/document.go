package tile

import "mlux/internal/visualline"

// TiledDocument bundles content and sidebar tiles (split on identical
// boundaries, so content tile i and sidebar tile i cover the same Y range)
// with pre-extracted visual lines. It is built once per outer-loop
// iteration and is immutable until the next rebuild — safe to share with
// the prefetch worker via a read-only reference.
type TiledDocument struct {
	ContentTiles []Tile
	SidebarTiles []Tile
	VisualLines  []visualline.VisualLine

	TileHPx  float64
	TotalHPx float64
	ppiScale float64
}

// NewTiledDocument bundles content and sidebar tiles that the caller has
// already split on the same tileHeightPt boundaries, converting tile and
// total heights to pixels at the given ppi.
func NewTiledDocument(contentTiles, sidebarTiles []Tile, tileHeightPt, ppi float64, totalHeightPt float64, vlines []visualline.VisualLine) *TiledDocument {
	scale := ppi / 72.0
	return &TiledDocument{
		ContentTiles: contentTiles,
		SidebarTiles: sidebarTiles,
		VisualLines:  vlines,
		TileHPx:      tileHeightPt * scale,
		TotalHPx:     totalHeightPt * scale,
		ppiScale:     scale,
	}
}

func (d *TiledDocument) TileCount() int { return len(d.ContentTiles) }

func (d *TiledDocument) actualHeightPx(idx int) float64 {
	if idx < 0 || idx >= len(d.ContentTiles) {
		return 0
	}
	return d.ContentTiles[idx].Frame.HeightPt * d.ppiScale
}

// Visible describes which tile(s) cover a viewport, either a Single tile
// (the common case) or a Split across two consecutive tiles when the
// viewport straddles a tile boundary.
type Visible struct {
	Split bool

	// Single
	Idx  int
	SrcY float64
	SrcH float64

	// Split
	TopIdx   int
	TopSrcY  float64
	TopSrcH  float64
	BotIdx   int
	BotSrcH  float64
}

// VisibleTiles answers "which tile(s) are visible at this scroll offset",
// per SPEC_FULL §4.F.
func (d *TiledDocument) VisibleTiles(yOffsetPx, vpHPx float64) Visible {
	n := len(d.ContentTiles)
	if n == 0 || d.TileHPx <= 0 {
		return Visible{Idx: 0, SrcY: 0, SrcH: 0}
	}
	topIdx := int(yOffsetPx / d.TileHPx)
	if topIdx < 0 {
		topIdx = 0
	}
	if topIdx >= n {
		topIdx = n - 1
	}
	srcY := yOffsetPx - float64(topIdx)*d.TileHPx
	remaining := d.actualHeightPx(topIdx) - srcY
	if remaining < 0 {
		remaining = 0
	}

	if remaining >= vpHPx || topIdx == n-1 {
		srcH := vpHPx
		if remaining < srcH {
			srcH = remaining
		}
		return Visible{Idx: topIdx, SrcY: srcY, SrcH: srcH}
	}

	botIdx := topIdx + 1
	botSrcH := vpHPx - remaining
	if maxH := d.actualHeightPx(botIdx); botSrcH > maxH {
		botSrcH = maxH
	}
	return Visible{
		Split: true, TopIdx: topIdx, TopSrcY: srcY, TopSrcH: remaining,
		BotIdx: botIdx, BotSrcH: botSrcH,
	}
}

// MaxScroll is the largest valid y-offset for a viewport of height vpHPx.
func (d *TiledDocument) MaxScroll(vpHPx float64) float64 {
	m := d.TotalHPx - vpHPx
	if m < 0 {
		m = 0
	}
	return m
}

// SnapToLine returns the y_px of the visual line nearest yPx, used for
// vim-style `Ng` jumps.
func (d *TiledDocument) SnapToLine(yPx float64) float64 {
	if len(d.VisualLines) == 0 {
		return yPx
	}
	best := d.VisualLines[0]
	bestDelta := absf(float64(best.YPx) - yPx)
	for _, l := range d.VisualLines[1:] {
		delta := absf(float64(l.YPx) - yPx)
		if delta < bestDelta {
			best, bestDelta = l, delta
		}
	}
	return float64(best.YPx)
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
