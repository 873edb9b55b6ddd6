package tile

import (
	"testing"

	"mlux/internal/typeset"
)

func TestSplitCoversWholeHeight(t *testing.T) {
	frame := &typeset.Frame{WidthPt: 400, HeightPt: 250}
	tiles := Split(frame, 100)
	if len(tiles) != 3 {
		t.Fatalf("got %d tiles, want 3 for 250pt / 100pt tiles", len(tiles))
	}
	var sum float64
	for _, tl := range tiles {
		sum += tl.Frame.HeightPt
	}
	if sum != 250 {
		t.Errorf("sum of tile heights = %v, want 250", sum)
	}
}

func TestSplitDuplicatesBoundarySpanningItems(t *testing.T) {
	frame := &typeset.Frame{
		WidthPt: 400, HeightPt: 200,
		Items: []typeset.Item{
			{Kind: typeset.ItemText, Y: 95, H: 10, Text: "straddles"},
		},
	}
	tiles := Split(frame, 100)
	count := 0
	for _, tl := range tiles {
		count += len(tl.Frame.Items)
	}
	if count != 2 {
		t.Errorf("got %d item copies for a boundary-spanning item, want 2", count)
	}
}

func TestVisibleTilesSingle(t *testing.T) {
	content := Split(&typeset.Frame{WidthPt: 400, HeightPt: 500}, 100)
	sidebar := Split(&typeset.Frame{WidthPt: 40, HeightPt: 500}, 100)
	doc := NewTiledDocument(content, sidebar, 100, 72, 500, nil)
	v := doc.VisibleTiles(0, 50)
	if v.Split {
		t.Fatal("expected a Single visible-tile result")
	}
	if v.Idx != 0 || v.SrcY != 0 {
		t.Errorf("got %+v, want idx=0 srcY=0", v)
	}
}

func TestVisibleTilesSplit(t *testing.T) {
	content := Split(&typeset.Frame{WidthPt: 400, HeightPt: 500}, 100)
	sidebar := Split(&typeset.Frame{WidthPt: 40, HeightPt: 500}, 100)
	doc := NewTiledDocument(content, sidebar, 100, 72, 500, nil)
	v := doc.VisibleTiles(90, 50)
	if !v.Split {
		t.Fatalf("expected a Split result for a viewport straddling a tile boundary, got %+v", v)
	}
	if v.TopIdx != 0 || v.BotIdx != 1 {
		t.Errorf("got TopIdx=%d BotIdx=%d, want 0 and 1", v.TopIdx, v.BotIdx)
	}
}

func TestMaxScroll(t *testing.T) {
	content := Split(&typeset.Frame{WidthPt: 400, HeightPt: 500}, 100)
	sidebar := Split(&typeset.Frame{WidthPt: 40, HeightPt: 500}, 100)
	doc := NewTiledDocument(content, sidebar, 100, 72, 500, nil)
	if got := doc.MaxScroll(600); got != 0 {
		t.Errorf("MaxScroll(600) = %v, want 0 (viewport taller than document)", got)
	}
	if got := doc.MaxScroll(100); got != 400 {
		t.Errorf("MaxScroll(100) = %v, want 400", got)
	}
}
