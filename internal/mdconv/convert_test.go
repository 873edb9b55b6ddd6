package mdconv

import (
	"strings"
	"testing"
)

func TestConvertEmptyInput(t *testing.T) {
	res := Convert("")
	if res.Output != "" {
		t.Errorf("Output = %q, want empty", res.Output)
	}
	if len(res.Map.Blocks) != 0 {
		t.Errorf("Map.Blocks = %v, want empty", res.Map.Blocks)
	}
}

func TestConvertPlainParagraph(t *testing.T) {
	res := Convert("hello world\n")
	if !strings.Contains(res.Output, "hello world") {
		t.Errorf("Output = %q, want to contain %q", res.Output, "hello world")
	}
	if len(res.Map.Blocks) != 1 {
		t.Fatalf("Map.Blocks = %v, want 1 entry", res.Map.Blocks)
	}
	bm := res.Map.Blocks[0]
	if bm.SrcRange.Start != 0 {
		t.Errorf("SrcRange.Start = %d, want 0", bm.SrcRange.Start)
	}
}

func TestConvertHeading(t *testing.T) {
	res := Convert("## Title\n")
	if !strings.HasPrefix(res.Output, "## Title") {
		t.Errorf("Output = %q, want heading prefix", res.Output)
	}
}

func TestConvertCodeBlockWithBackticks(t *testing.T) {
	src := "```\ncontains ``` inside\n```\n"
	res := Convert(src)
	if !strings.HasPrefix(res.Output, "````") {
		t.Errorf("Output = %q, want fence longer than embedded run", res.Output)
	}
}

func TestConvertCodeBlockBlankLineFilled(t *testing.T) {
	src := "```\nfirst\n\nsecond\n```\n"
	res := Convert(src)
	lines := strings.Split(res.Output, "\n")
	found := false
	for _, l := range lines {
		if l == " " {
			found = true
		}
	}
	if !found {
		t.Errorf("Output = %q, want a blank code line replaced with a single space", res.Output)
	}
}

func TestConvertBlockquoteDeepNesting(t *testing.T) {
	var sb strings.Builder
	depth := 15
	for i := 0; i < depth; i++ {
		sb.WriteString(strings.Repeat(">", i+1))
		sb.WriteString(" level\n")
	}
	res := Convert(sb.String())
	opens := strings.Count(res.Output, "#quote(block: true)[")
	if opens > maxQuoteDepth {
		t.Errorf("got %d nested quote wrappers, want at most %d", opens, maxQuoteDepth)
	}
	if !strings.Contains(res.Output, "level") {
		t.Errorf("Output = %q, want innermost content preserved", res.Output)
	}
}

func TestConvertSourceMapCoversWholeDocument(t *testing.T) {
	src := "# Title\n\nSome paragraph text.\n\n- item one\n- item two\n"
	res := Convert(src)
	if len(res.Map.Blocks) == 0 {
		t.Fatal("expected at least one block mapping")
	}
	for _, bm := range res.Map.Blocks {
		if bm.SrcRange.Start < 0 || bm.SrcRange.End > len(src) {
			t.Errorf("mapping %+v out of bounds for source length %d", bm, len(src))
		}
		if bm.OutRange.Start < 0 || bm.OutRange.End > len(res.Output) {
			t.Errorf("mapping %+v out of bounds for output length %d", bm, len(res.Output))
		}
	}
}

func TestConvertBoldItalicStrike(t *testing.T) {
	res := Convert("**bold** *italic* ~~struck~~\n")
	for _, want := range []string{"#strong[bold]", "#emph[italic]", "#strike[struck]"} {
		if !strings.Contains(res.Output, want) {
			t.Errorf("Output = %q, want to contain %q", res.Output, want)
		}
	}
}

func TestConvertLink(t *testing.T) {
	res := Convert("[text](https://example.com)\n")
	if !strings.Contains(res.Output, `#link("https://example.com")[text]`) {
		t.Errorf("Output = %q, want a link call", res.Output)
	}
}

func TestConvertTable(t *testing.T) {
	src := "| a | b |\n| - | - |\n| 1 | 2 |\n"
	res := Convert(src)
	if !strings.Contains(res.Output, "#table(columns: 2,") {
		t.Errorf("Output = %q, want a #table call", res.Output)
	}
}

func TestFindByOutputOffset(t *testing.T) {
	res := Convert("# Title\n\nbody text\n")
	bm, ok := res.Map.FindByOutputOffset(0)
	if !ok {
		t.Fatal("expected a mapping at offset 0")
	}
	if bm.SrcRange.Start != 0 {
		t.Errorf("SrcRange.Start = %d, want 0", bm.SrcRange.Start)
	}
	if _, ok := res.Map.FindByOutputOffset(len(res.Output) + 1000); ok {
		t.Error("expected no mapping far past the end of the output")
	}
}

func TestEscapeTextEscapesSpecialCharacters(t *testing.T) {
	got := escapeText("a#b*c_d")
	want := `a\#b\*c\_d`
	if got != want {
		t.Errorf("escapeText = %q, want %q", got, want)
	}
}
