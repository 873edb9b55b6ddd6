package typeset

import (
	"image/color"
	"testing"

	"golang.org/x/image/font/basicfont"
)

func testCatalog() *FontCatalog {
	return &FontCatalog{Body: basicfont.Face7x13, Mono: basicfont.Face7x13}
}

func TestCompileEmptyContent(t *testing.T) {
	w := NewWorld("", "", 400, testCatalog())
	doc, _, err := Compile(w)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(doc.Frame.Items) != 0 {
		t.Errorf("Items = %v, want none for empty content", doc.Frame.Items)
	}
}

func TestCompileParagraphProducesTextItem(t *testing.T) {
	w := NewWorld("", "Hello, world!\n", 400, testCatalog())
	doc, _, err := Compile(w)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(doc.Frame.Items) == 0 {
		t.Fatal("expected at least one item")
	}
	if doc.Frame.Items[0].Kind != ItemText {
		t.Errorf("Items[0].Kind = %v, want ItemText", doc.Frame.Items[0].Kind)
	}
}

func TestCompileHeadingIsBold(t *testing.T) {
	w := NewWorld("", "## Title\n", 400, testCatalog())
	doc, _, err := Compile(w)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(doc.Frame.Items) == 0 || !doc.Frame.Items[0].Style.Bold {
		t.Errorf("expected heading item styled Bold, got %+v", doc.Frame.Items)
	}
}

func TestCompileCodeBlockOneItemPerLine(t *testing.T) {
	w := NewWorld("", "```\nfirst\nsecond\n```\n", 400, testCatalog())
	doc, _, err := Compile(w)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	count := 0
	for _, it := range doc.Frame.Items {
		if it.Style.Mono {
			count++
		}
	}
	if count != 2 {
		t.Errorf("got %d mono items, want 2 (one per code line)", count)
	}
}

func TestParseRunsStrongAndLink(t *testing.T) {
	runs := parseRuns(`plain #strong[bold] #link("http://x")[click]`, Style{})
	var sawBold, sawLink bool
	for _, r := range runs {
		if r.style.Bold {
			sawBold = true
		}
		if r.linkURL == "http://x" {
			sawLink = true
		}
	}
	if !sawBold {
		t.Error("expected a bold run")
	}
	if !sawLink {
		t.Error("expected a link run with the parsed URL")
	}
}

func TestRasterizeProducesPNG(t *testing.T) {
	w := NewWorld("", "Hello\n", 200, testCatalog())
	doc, _, err := Compile(w)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	doc.Frame.HeightPt = 20
	png, err := Rasterize(&doc.Frame, color.White, 144, testCatalog().Body, testCatalog().Mono)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if len(png) == 0 {
		t.Error("expected non-empty PNG bytes")
	}
	if string(png[:4]) != "\x89PNG" {
		t.Errorf("missing PNG magic header, got %x", png[:4])
	}
}

func TestWorldContentOffset(t *testing.T) {
	w := NewWorld("prefix", "content", 400, testCatalog())
	if got, want := w.ContentOffset(), len("prefix")+1; got != want {
		t.Errorf("ContentOffset() = %d, want %d", got, want)
	}
	if got := w.MainSource(); got != "prefix\ncontent\n" {
		t.Errorf("MainSource() = %q", got)
	}
}
