package viewer

import (
	"testing"

	"mlux/internal/visualline"
)

func lr(a, b int) *visualline.LineRange { return &visualline.LineRange{Start: a, End: b} }

func testVLines() []visualline.VisualLine {
	return []visualline.VisualLine{
		{YPt: 0, YPx: 0, Src: lr(1, 1)},
		{YPt: 20, YPx: 20, Src: lr(2, 4)},
		{YPt: 40, YPx: 40, Src: lr(5, 5)},
	}
}

func baseCtx() Context {
	return Context{
		Markdown:     "# Heading\nfirst\nsecond\nthird\n[x](http://example.com)",
		VisualLines:  testVLines(),
		ScrollY:      0,
		ViewportHPx:  30,
		MaxScrollPx:  100,
		ScrollStepPx: 10,
	}
}

func findEffect(effs []Effect, kind EffectKind) (Effect, bool) {
	for _, e := range effs {
		if e.Kind == kind {
			return e, true
		}
	}
	return Effect{}, false
}

func TestAccumulatorBuildsAndOverflows(t *testing.T) {
	s := &State{}
	for _, d := range "9999999999" {
		s.accumulateDigit(int(d - '0'))
	}
	if s.Count != maxCount {
		t.Errorf("Count = %d, want capped at %d", s.Count, maxCount)
	}
}

func TestJScrollsDownByCountTimesStep(t *testing.T) {
	s := &State{}
	ctx := baseCtx()
	s.accumulateDigit(3)
	effs := HandleNormalKey(s, Key{Rune: 'j'}, ctx)
	e, ok := findEffect(effs, EffScrollTo)
	if !ok {
		t.Fatal("expected a ScrollTo effect")
	}
	if e.ScrollY != 30 {
		t.Errorf("ScrollY = %v, want 30 (3 * step 10)", e.ScrollY)
	}
	if s.HasCount {
		t.Error("count should be consumed after firing")
	}
}

func TestScrollClampsToMax(t *testing.T) {
	s := &State{}
	ctx := baseCtx()
	s.accumulateDigit(9)
	s.accumulateDigit(9)
	effs := HandleNormalKey(s, Key{Rune: 'j'}, ctx)
	e, _ := findEffect(effs, EffScrollTo)
	if e.ScrollY != ctx.MaxScrollPx {
		t.Errorf("ScrollY = %v, want clamped to %v", e.ScrollY, ctx.MaxScrollPx)
	}
}

func TestGAloneJumpsTop(t *testing.T) {
	s := &State{}
	ctx := baseCtx()
	ctx.ScrollY = 50
	effs := HandleNormalKey(s, Key{Rune: 'g'}, ctx)
	e, _ := findEffect(effs, EffScrollTo)
	if e.ScrollY != 0 {
		t.Errorf("bare 'g' should jump to 0, got %v", e.ScrollY)
	}
}

func TestNgJumpsToVisualLine(t *testing.T) {
	s := &State{}
	ctx := baseCtx()
	s.accumulateDigit(2)
	effs := HandleNormalKey(s, Key{Rune: 'g'}, ctx)
	e, ok := findEffect(effs, EffScrollTo)
	if !ok {
		t.Fatal("expected ScrollTo")
	}
	if e.ScrollY != 20 {
		t.Errorf("2g should jump to vlines[1].YPx=20, got %v", e.ScrollY)
	}
}

func TestNYYanksEnclosingBlock(t *testing.T) {
	s := &State{}
	ctx := baseCtx()
	s.accumulateDigit(2)
	effs := HandleNormalKey(s, Key{Rune: 'Y'}, ctx)
	e, ok := findEffect(effs, EffYank)
	if !ok {
		t.Fatal("expected Yank effect")
	}
	want := "first\nsecond\nthird"
	if e.YankText != want {
		t.Errorf("YankText = %q, want %q", e.YankText, want)
	}
}

func TestYWithoutCountIsNoop(t *testing.T) {
	s := &State{}
	ctx := baseCtx()
	effs := HandleNormalKey(s, Key{Rune: 'y'}, ctx)
	if effs != nil {
		t.Errorf("expected no effects for bare 'y', got %v", effs)
	}
}

func TestQExits(t *testing.T) {
	s := &State{}
	effs := HandleNormalKey(s, Key{Rune: 'q'}, baseCtx())
	e, ok := findEffect(effs, EffExit)
	if !ok || e.Reason != ExitQuit {
		t.Errorf("expected Exit(Quit), got %v", effs)
	}
}

func TestSlashEntersSearchMode(t *testing.T) {
	s := &State{}
	effs := HandleNormalKey(s, Key{Rune: '/'}, baseCtx())
	e, ok := findEffect(effs, EffSetMode)
	if !ok || e.Mode != ModeSearch {
		t.Errorf("expected SetMode(Search), got %v", effs)
	}
}

func TestSearchFlowFindsMatchAndScrolls(t *testing.T) {
	s := &State{Mode: ModeSearch}
	ctx := baseCtx()
	for _, r := range "second" {
		HandleSearchInput(s, ctx.Markdown, ctx.VisualLines, Key{Rune: r})
	}
	effs := HandleSearchInput(s, ctx.Markdown, ctx.VisualLines, Key{Name: "Enter"})
	e, ok := findEffect(effs, EffScrollTo)
	if !ok {
		t.Fatalf("expected ScrollTo on successful search, got %v", effs)
	}
	if e.ScrollY != 20 {
		t.Errorf("ScrollTo = %v, want 20 (the line containing 'second')", e.ScrollY)
	}
	ls, ok := findEffect(effs, EffSetLastSearch)
	if !ok || ls.LastSearch == nil || ls.LastSearch.Query != "second" {
		t.Errorf("expected LastSearch to persist the query, got %v", effs)
	}
}

func TestSearchInvalidRegexFlashes(t *testing.T) {
	s := &State{Mode: ModeSearch, SearchQuery: "("}
	ctx := baseCtx()
	effs := HandleSearchInput(s, ctx.Markdown, ctx.VisualLines, Key{Name: "Enter"})
	e, ok := findEffect(effs, EffFlash)
	if !ok {
		t.Fatalf("expected a Flash effect for invalid regex, got %v", effs)
	}
	if !e.IsError {
		t.Errorf("invalid-regex flash should be error-styled, got IsError=false")
	}
}

func TestSearchMatchesUpdateLiveWhileTyping(t *testing.T) {
	s := &State{Mode: ModeSearch}
	ctx := baseCtx()
	for _, r := range "second" {
		HandleSearchInput(s, ctx.Markdown, ctx.VisualLines, Key{Rune: r})
	}
	if len(s.SearchMatches) == 0 {
		t.Fatalf("expected SearchMatches to populate while typing, got none")
	}
	effs := HandleSearchInput(s, ctx.Markdown, ctx.VisualLines, Key{Name: "j"})
	if _, ok := findEffect(effs, EffRedrawStatusBar); !ok {
		t.Errorf("expected j to redraw the status bar during search, got %v", effs)
	}
}

func TestSearchEnterJumpsToSelectedMatchNotFirst(t *testing.T) {
	s := &State{Mode: ModeSearch, SearchQuery: "[a-z]+", SearchMatches: []int{0, 1, 2}, SearchSelected: 2}
	ctx := baseCtx()
	effs := HandleSearchInput(s, ctx.Markdown, ctx.VisualLines, Key{Name: "Enter"})
	e, ok := findEffect(effs, EffScrollTo)
	if !ok {
		t.Fatalf("expected ScrollTo, got %v", effs)
	}
	want := float64(ctx.VisualLines[2].YPx)
	if e.ScrollY != want {
		t.Errorf("ScrollTo = %v, want %v (the selected match, not the first)", e.ScrollY, want)
	}
}

func TestCommandModeReload(t *testing.T) {
	s := &State{Mode: ModeCommand, CommandBuf: "reload"}
	effs := HandleCommandInput(s, Key{Name: "Enter"})
	e, ok := findEffect(effs, EffExit)
	if !ok || e.Reason != ExitConfigReload {
		t.Errorf("expected Exit(ConfigReload), got %v", effs)
	}
}

func TestCommandModeUnknownFlashes(t *testing.T) {
	s := &State{Mode: ModeCommand, CommandBuf: "bogus"}
	effs := HandleCommandInput(s, Key{Name: "Enter"})
	if _, ok := findEffect(effs, EffFlash); !ok {
		t.Errorf("expected Flash for unknown command, got %v", effs)
	}
}

func TestURLPickerNavigatesAndOpens(t *testing.T) {
	s := &State{Mode: ModeURLPicker, URLPickerList: []URLMatch{{URL: "http://a"}, {URL: "http://b"}}}
	HandleURLPickerInput(s, Key{Rune: 'j'})
	if s.URLPickerSelected != 1 {
		t.Fatalf("selected = %d, want 1", s.URLPickerSelected)
	}
	effs := HandleURLPickerInput(s, Key{Name: "Enter"})
	e, ok := findEffect(effs, EffOpenUrl)
	if !ok || e.URL != "http://b" {
		t.Errorf("expected OpenUrl(http://b), got %v", effs)
	}
}

func TestExtractURLsDedupesLinkOverBareURL(t *testing.T) {
	md := "see [here](http://example.com) or http://example.com directly"
	urls := ExtractURLs(md)
	if len(urls) != 1 {
		t.Fatalf("got %d urls, want 1 deduped entry: %+v", len(urls), urls)
	}
	if urls[0].URL != "http://example.com" {
		t.Errorf("url = %q, want http://example.com", urls[0].URL)
	}
}

func TestOAtSingleLinkOpensDirectly(t *testing.T) {
	s := &State{}
	ctx := baseCtx()
	s.accumulateDigit(3) // vlines[2] covers line 5, the only line with a link
	effs := HandleNormalKey(s, Key{Rune: 'o'}, ctx)
	e, ok := findEffect(effs, EffOpenUrl)
	if !ok {
		t.Fatalf("expected OpenUrl, got %v", effs)
	}
	if e.URL != "http://example.com" {
		t.Errorf("URL = %q, want http://example.com", e.URL)
	}
}
