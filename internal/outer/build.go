// Package outer wraps the inner viewer loop: it owns document (re)builds,
// the exit-reason dispatch table (Quit/Resize/Reload/ConfigReload), and
// scroll-offset preservation across a rebuild, per SPEC_FULL §4.L.
package outer

import (
	"fmt"
	"image/color"

	"mlux/internal/config"
	"mlux/internal/mdconv"
	"mlux/internal/tile"
	"mlux/internal/tilecache"
	"mlux/internal/typeset"
	"mlux/internal/visualline"
)

// backgroundColor is the page fill used when rasterizing every tile.
// fb2c's own themes default to a plain light background; this program has
// no theme-driven palette (Open Question, resolved in DESIGN.md), so a
// single neutral value is used everywhere.
var backgroundColor = color.White

// Document is everything one rebuild produces: the tiled frames for both
// columns and the extracted visual-line index used for navigation,
// search, and yank. It is read-only for the lifetime of the inner loop —
// the prefetch worker holds a reference to it for exactly as long as that
// loop runs, mirroring the "scoped worker, read-only reference" lifetime
// SPEC_FULL §5 describes.
type Document struct {
	Markdown string
	Content  string // mdconv.Convert(Markdown).Output
	SrcMap   *mdconv.SourceMap

	ContentTiles []tile.Tile
	SidebarTiles []tile.Tile
	VisualLines  []visualline.VisualLine
	Tiled        *tile.TiledDocument

	fonts *typeset.FontCatalog
	ppi   float64
}

// Build runs the full A→F pipeline once: convert, compile, extract
// visual lines, build the sidebar, split both frames into tiles.
func Build(markdown, themePrefix string, cfg *config.Config, fonts *typeset.FontCatalog) (*Document, []string, error) {
	conv := mdconv.Convert(markdown)

	world := typeset.NewWorld(themePrefix, conv.Output, cfg.Width, fonts)
	doc, warnings, err := typeset.Compile(world)
	if err != nil {
		return nil, warnings, fmt.Errorf("[BUG] typeset compile failed: %w", err)
	}

	ppiScale := cfg.PPI / 72.0
	vlines := visualline.Extract(&doc.Frame, conv.Map, markdown, conv.Output, world.ContentOffset(), ppiScale)

	sidebarWidthPt := float64(cfg.Viewer.SidebarCols) * 7.0 // basicfont.Face7x13 cell width, the conservative default
	sidebar := buildSidebarFrame(vlines, sidebarWidthPt, doc.Frame.HeightPt, fonts.Mono)

	contentTiles := tile.Split(&doc.Frame, cfg.Viewer.TileHeight)
	sidebarTiles := tile.Split(sidebar, cfg.Viewer.TileHeight)

	tiled := tile.NewTiledDocument(contentTiles, sidebarTiles, cfg.Viewer.TileHeight, cfg.PPI, doc.Frame.HeightPt, vlines)

	return &Document{
		Markdown:     markdown,
		Content:      conv.Output,
		SrcMap:       conv.Map,
		ContentTiles: contentTiles,
		SidebarTiles: sidebarTiles,
		VisualLines:  vlines,
		Tiled:        tiled,
		fonts:        fonts,
		ppi:          cfg.PPI,
	}, warnings, nil
}

// Render rasterizes tile idx's content and sidebar frames to PNG. This is
// the RenderFunc both internal/tilecache.GetOrRender and
// internal/prefetch's worker close over.
func (d *Document) Render(idx int) (tilecache.TilePngs, error) {
	if idx < 0 || idx >= len(d.ContentTiles) {
		return tilecache.TilePngs{}, fmt.Errorf("[BUG] tile index %d out of range (have %d)", idx, len(d.ContentTiles))
	}
	content, err := typeset.Rasterize(&d.ContentTiles[idx].Frame, backgroundColor, d.ppi, d.fonts.Body, d.fonts.Mono)
	if err != nil {
		return tilecache.TilePngs{}, fmt.Errorf("[BUG] rasterize content tile %d: %w", idx, err)
	}
	sidebar, err := typeset.Rasterize(&d.SidebarTiles[idx].Frame, backgroundColor, d.ppi, d.fonts.Body, d.fonts.Mono)
	if err != nil {
		return tilecache.TilePngs{}, fmt.Errorf("[BUG] rasterize sidebar tile %d: %w", idx, err)
	}
	return tilecache.TilePngs{Content: content, Sidebar: sidebar}, nil
}
