package terminal

import (
	"bytes"
	"strings"
	"testing"
)

func TestTransferChunksSplitsLargePayloads(t *testing.T) {
	png := bytes.Repeat([]byte{0xAB}, 10000) // base64 expansion pushes this past one 4096-byte chunk
	var buf bytes.Buffer
	if err := Transfer(&buf, 7, png); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Count(out, "\x1b_G") < 2 {
		t.Fatalf("expected at least 2 chunk commands, got: %q", out)
	}
	if !strings.Contains(out, "m=1") {
		t.Error("expected a non-final chunk with m=1 (more data follows)")
	}
	if !strings.HasSuffix(out, "\x1b\\") {
		t.Error("expected output to end with the APC terminator")
	}
}

func TestTransferSingleChunkHasNoMoreFlag(t *testing.T) {
	var buf bytes.Buffer
	if err := Transfer(&buf, 1, []byte("small")); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "m=1") {
		t.Error("a payload fitting in one chunk must not set m=1")
	}
}

func TestPlaceIncludesNoCursorMoveFlag(t *testing.T) {
	var buf bytes.Buffer
	if err := Place(&buf, 100, 640, 480, 80, 20); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"a=p", "i=100", "C=1", "q=2", "r=20", "c=80"} {
		if !strings.Contains(out, want) {
			t.Errorf("Place output missing %q: %s", want, out)
		}
	}
}

func TestPlaceCroppedSetsSourceYAndHeight(t *testing.T) {
	var buf bytes.Buffer
	if err := PlaceCropped(&buf, 100, 640, 50, 200, 80, 10); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"y=50", "h=200", "w=640"} {
		if !strings.Contains(out, want) {
			t.Errorf("PlaceCropped output missing %q: %s", want, out)
		}
	}
}

func TestDeletePlacementVsDeleteImage(t *testing.T) {
	var buf bytes.Buffer
	DeletePlacement(&buf, 5)
	if !strings.Contains(buf.String(), "d=i") {
		t.Error("DeletePlacement must use d=i (placement-only)")
	}
	buf.Reset()
	DeleteImage(&buf, 5)
	if !strings.Contains(buf.String(), "d=I") {
		t.Error("DeleteImage must use d=I (data + placement)")
	}
}

func TestDeleteAllImages(t *testing.T) {
	var buf bytes.Buffer
	DeleteAllImages(&buf)
	if !strings.Contains(buf.String(), "d=A") {
		t.Error("DeleteAllImages must use d=A")
	}
}

func TestCellsForHeight(t *testing.T) {
	cases := []struct{ hpx, cellH, want int }{
		{100, 20, 5},
		{101, 20, 6},
		{0, 20, 0},
		{50, 0, 0},
	}
	for _, c := range cases {
		if got := CellsForHeight(c.hpx, c.cellH); got != c.want {
			t.Errorf("CellsForHeight(%d,%d) = %d, want %d", c.hpx, c.cellH, got, c.want)
		}
	}
}

func TestWriteClipboardEncodesBase64(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteClipboard(&buf, "hello"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "\x1b]52;c;") || !strings.HasSuffix(out, "\x07") {
		t.Errorf("unexpected OSC 52 framing: %q", out)
	}
}

func TestStatusTextPadsAndTruncates(t *testing.T) {
	s := Status{Kind: StatusIdle, Filename: "a.md", ScrollPct: 10, KeyHints: "q:quit"}
	got := statusText(s, 30)
	if len(got) != 30 {
		t.Fatalf("statusText length = %d, want 30 (padded): %q", len(got), got)
	}

	long := Status{Kind: StatusFlash, Message: strings.Repeat("x", 20)}
	got = statusText(long, 5)
	if len(got) != 5 {
		t.Fatalf("statusText should truncate to width, got %q", got)
	}
}

func TestStatusTextAccumulatingFormat(t *testing.T) {
	got := statusText(Status{Kind: StatusAccumulating, Digits: "56"}, 0)
	if got != ":56_" {
		t.Errorf("accumulating status = %q, want \":56_\"", got)
	}
}
