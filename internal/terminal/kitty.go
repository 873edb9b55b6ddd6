// Package terminal talks directly to the terminal emulator: the Kitty
// Graphics Protocol for placing rendered tiles, raw-mode/alt-screen setup
// and teardown, the status bar, and OSC 52 clipboard writes.
package terminal

import (
	"encoding/base64"
	"fmt"
	"io"
)

// chunkSize is the Kitty protocol's per-chunk base64 payload limit.
const chunkSize = 4096

// transferChunks writes one `a=t` transfer command per base64 chunk of
// png, setting `m=1` on every chunk but the last. q=2 on every command
// suppresses terminal responses: this program never reads stdin for
// protocol replies, so a leaked response would otherwise be misread as a
// stray key event and cause phantom scrolling.
func transferChunks(w io.Writer, id int, png []byte) error {
	enc := base64.StdEncoding.EncodeToString(png)
	for i := 0; i < len(enc); i += chunkSize {
		end := i + chunkSize
		if end > len(enc) {
			end = len(enc)
		}
		more := 0
		if end < len(enc) {
			more = 1
		}
		var header string
		if i == 0 {
			header = fmt.Sprintf("a=t,f=100,t=d,i=%d,q=2,m=%d", id, more)
		} else {
			header = fmt.Sprintf("i=%d,q=2,m=%d", id, more)
		}
		if _, err := fmt.Fprintf(w, "\x1b_G%s;%s\x1b\\", header, enc[i:end]); err != nil {
			return err
		}
	}
	return nil
}

// Transfer sends PNG image data to the terminal under image ID id,
// without placing it on screen.
func Transfer(w io.Writer, id int, png []byte) error {
	return transferChunks(w, id, png)
}

// Place paints a previously transferred image at the current cursor
// position. rows is computed by the caller as ceil(heightPx / cellHeightPx);
// a tile shorter than the viewport places fewer rows, letting the
// background show through below it. C=1 keeps the cursor from moving so
// successive places don't fight over cursor position.
func Place(w io.Writer, id, widthPx, heightPx, cols, rows int) error {
	_, err := fmt.Fprintf(w, "\x1b_Ga=p,i=%d,x=0,y=0,w=%d,h=%d,c=%d,r=%d,C=1,q=2\x1b\\",
		id, widthPx, heightPx, cols, rows)
	return err
}

// PlaceCropped is Place, but crops the source image to the vertical band
// [cropY, cropY+cropH) before placing it — used when a viewport straddles
// two tiles and only the tail of the top tile or the head of the bottom
// tile should be shown.
func PlaceCropped(w io.Writer, id, widthPx, cropY, cropH, cols, rows int) error {
	_, err := fmt.Fprintf(w, "\x1b_Ga=p,i=%d,x=0,y=%d,w=%d,h=%d,c=%d,r=%d,C=1,q=2\x1b\\",
		id, cropY, widthPx, cropH, cols, rows)
	return err
}

// DeletePlacement removes the visible instance of image id but keeps its
// data resident, so a later Place can redisplay it without re-transferring.
func DeletePlacement(w io.Writer, id int) error {
	_, err := fmt.Fprintf(w, "\x1b_Ga=d,d=i,i=%d,q=2\x1b\\", id)
	return err
}

// DeleteImage removes both the placement and the underlying image data
// for id.
func DeleteImage(w io.Writer, id int) error {
	_, err := fmt.Fprintf(w, "\x1b_Ga=d,d=I,i=%d,q=2\x1b\\", id)
	return err
}

// DeleteAllImages removes every placement and every image this program
// has transferred. Issued unconditionally on raw-mode teardown so a
// crashed or killed session never leaves stray images on screen.
func DeleteAllImages(w io.Writer) error {
	_, err := fmt.Fprintf(w, "\x1b_Ga=d,d=A,q=2\x1b\\")
	return err
}

// CellsForHeight computes the row count for Place: the ceiling of
// heightPx / cellHeightPx, so a partial row still reserves a full cell.
func CellsForHeight(heightPx, cellHeightPx int) int {
	if cellHeightPx <= 0 {
		return 0
	}
	return (heightPx + cellHeightPx - 1) / cellHeightPx
}
