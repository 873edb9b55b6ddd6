package outer

import (
	"fmt"
	"strings"
)

// DumpGeometry renders a human-readable per-tile geometry report: each
// tile's content/sidebar pixel dimensions and how many visual lines fall
// within it. This is the batch `--dump` debug artifact SPEC_FULL §4
// supplements from the original program's `dump_document`/`dump_frame`
// habit of printing per-item pixel positions to stderr, scaled down here
// to per-tile summaries since mlux's frames don't carry the original's
// full item tree.
func (d *Document) DumpGeometry() string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %d tile(s), %d visual line(s) total ===\n", len(d.ContentTiles), len(d.VisualLines))

	ppiScale := d.ppi / 72.0
	tileHPx := d.Tiled.TileHPx

	for i, ct := range d.ContentTiles {
		st := d.SidebarTiles[i]
		contentWPx := ct.Frame.WidthPt * ppiScale
		contentHPx := ct.Frame.HeightPt * ppiScale
		sidebarWPx := st.Frame.WidthPt * ppiScale
		sidebarHPx := st.Frame.HeightPt * ppiScale

		top := float64(i) * tileHPx
		bottom := top + contentHPx
		lines := 0
		for _, vl := range d.VisualLines {
			y := float64(vl.YPx)
			if y >= top && y < bottom {
				lines++
			}
		}

		fmt.Fprintf(&b, "Tile %d: content=%.1fx%.1fpx  sidebar=%.1fx%.1fpx  visual_lines=%d\n",
			i, contentWPx, contentHPx, sidebarWPx, sidebarHPx, lines)
	}
	return b.String()
}
