package outer

import (
	"strconv"

	"golang.org/x/image/font"

	"mlux/internal/typeset"
	"mlux/internal/visualline"
)

// buildSidebarFrame renders one line-number item per visual line, aligned
// to the same Y coordinates as the content frame, so a sidebar tile split
// on identical boundaries (internal/tile.NewTiledDocument's requirement)
// lines up exactly with its content counterpart. Code-block lines show
// their exact source line number when known; everything else shows the
// first line of its enclosing block.
func buildSidebarFrame(vlines []visualline.VisualLine, widthPt, heightPt float64, mono font.Face) *typeset.Frame {
	items := make([]typeset.Item, 0, len(vlines))
	for _, vl := range vlines {
		n := 0
		switch {
		case vl.Exact != nil:
			n = *vl.Exact
		case vl.Src != nil:
			n = vl.Src.Start
		default:
			continue
		}
		items = append(items, typeset.Item{
			Kind:  typeset.ItemText,
			X:     0,
			Y:     vl.YPt,
			Text:  strconv.Itoa(n),
			Style: typeset.Style{Mono: true},
		})
	}
	return &typeset.Frame{Items: items, WidthPt: widthPt, HeightPt: heightPt}
}
