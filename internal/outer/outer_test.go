package outer

import (
	"testing"

	"mlux/internal/config"
	"mlux/internal/typeset"
)

func TestDecodeKeyPlainRune(t *testing.T) {
	k, n := decodeKey([]byte("j"))
	if n != 1 || k.Rune != 'j' {
		t.Errorf("got %+v,%d want rune j, consumed 1", k, n)
	}
}

func TestDecodeKeyArrowDown(t *testing.T) {
	k, n := decodeKey([]byte{0x1b, '[', 'B'})
	if n != 3 || k.Name != "Down" {
		t.Errorf("got %+v,%d want Down, consumed 3", k, n)
	}
}

func TestDecodeKeyEscAlone(t *testing.T) {
	k, n := decodeKey([]byte{0x1b, 'x'})
	if n != 1 || k.Name != "Esc" {
		t.Errorf("got %+v,%d want Esc, consumed 1", k, n)
	}
}

func TestDecodeKeyIncompleteEscapeWaitsForMore(t *testing.T) {
	k, n := decodeKey([]byte{0x1b})
	if n != 0 {
		t.Errorf("a lone ESC byte should wait for more input, got consumed=%d key=%+v", n, k)
	}
	k, n = decodeKey([]byte{0x1b, '['})
	if n != 0 {
		t.Errorf("an incomplete CSI sequence should wait for more input, got consumed=%d key=%+v", n, k)
	}
}

func TestDecodeKeyCtrlC(t *testing.T) {
	k, n := decodeKey([]byte{0x03})
	if n != 1 || k.Name != "Ctrl+C" {
		t.Errorf("got %+v,%d want Ctrl+C", k, n)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Theme: "",
		Width: 400,
		PPI:   72,
		Viewer: config.ViewerConfig{
			ScrollStep:      3,
			FrameBudgetMs:   32,
			TileHeight:      200,
			SidebarCols:     6,
			EvictDistance:   4,
			WatchIntervalMs: 200,
		},
	}
}

func TestBuildProducesTilesAndVisualLines(t *testing.T) {
	fonts, _ := typeset.ScanFonts(nil, 11)
	md := "# Title\n\nSome paragraph text here.\n\n```go\nfunc main() {}\n```\n"
	doc, _, err := Build(md, "", testConfig(), fonts)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Tiled.TileCount() == 0 {
		t.Fatal("expected at least one tile")
	}
	if len(doc.VisualLines) == 0 {
		t.Fatal("expected at least one visual line")
	}
	if len(doc.ContentTiles) != len(doc.SidebarTiles) {
		t.Errorf("content/sidebar tile counts differ: %d vs %d", len(doc.ContentTiles), len(doc.SidebarTiles))
	}
}

func TestRenderProducesPNGsForEveryTile(t *testing.T) {
	fonts, _ := typeset.ScanFonts(nil, 11)
	md := "# Title\n\nBody text.\n"
	doc, _, err := Build(md, "", testConfig(), fonts)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < doc.Tiled.TileCount(); i++ {
		pngs, err := doc.Render(i)
		if err != nil {
			t.Fatalf("Render(%d): %v", i, err)
		}
		if len(pngs.Content) == 0 || len(pngs.Sidebar) == 0 {
			t.Errorf("tile %d produced empty PNG data", i)
		}
	}
}

func TestRenderOutOfRangeIsBug(t *testing.T) {
	fonts, _ := typeset.ScanFonts(nil, 11)
	doc, _, err := Build("hello\n", "", testConfig(), fonts)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := doc.Render(999); err == nil {
		t.Error("expected an error for an out-of-range tile index")
	}
}

func TestClampF(t *testing.T) {
	if got := clampF(-5, 0, 10); got != 0 {
		t.Errorf("clampF(-5,0,10) = %v, want 0", got)
	}
	if got := clampF(50, 0, 10); got != 10 {
		t.Errorf("clampF(50,0,10) = %v, want 10", got)
	}
}

func TestScrollPercent(t *testing.T) {
	if got := scrollPercent(5, 0); got != 100 {
		t.Errorf("scrollPercent with max=0 should be 100, got %d", got)
	}
	if got := scrollPercent(5, 10); got != 50 {
		t.Errorf("scrollPercent(5,10) = %d, want 50", got)
	}
}
