package typeset

import (
	"strings"

	"golang.org/x/image/font"
)

type word struct {
	text    string
	style   Style
	offset  int
	linkURL string
}

// toWords splits a run sequence on spaces into words, carrying each word's
// style and the source offset of its first byte.
func toWords(runs []run) []word {
	var words []word
	for _, r := range runs {
		start := 0
		for i := 0; i <= len(r.text); i++ {
			if i == len(r.text) || r.text[i] == ' ' {
				if i > start {
					words = append(words, word{
						text:    r.text[start:i],
						style:   r.style,
						offset:  r.offset + start,
						linkURL: r.linkURL,
					})
				}
				start = i + 1
			}
		}
	}
	return words
}

type wrappedLine struct {
	text        string
	width       float64
	style       Style
	linkURL     string
	firstOffset int
}

// wrapWords greedily packs words into lines no wider than maxWidthPt,
// measuring with the body face for plain/styled text and the mono face for
// inline code/raw runs. A visual line's Style and LinkURL are taken from its
// first word — mixing, e.g., plain and bold text on one physical line loses
// the finer-grained styling of later words, a deliberate simplification
// given golang.org/x/image has no italic/bold variant of a single face.
func wrapWords(words []word, maxWidthPt float64, bodyFace, monoFace font.Face) []wrappedLine {
	if len(words) == 0 {
		return nil
	}
	if maxWidthPt <= 0 {
		maxWidthPt = 1 << 20
	}
	faceFor := func(w word) font.Face {
		if w.style.Mono {
			return monoFace
		}
		return bodyFace
	}
	measure := func(f font.Face, s string) float64 {
		return float64(font.MeasureString(f, s).Ceil())
	}
	spaceW := measure(bodyFace, " ")

	var lines []wrappedLine
	var cur []word
	curWidth := 0.0

	flush := func() {
		if len(cur) == 0 {
			return
		}
		var sb strings.Builder
		for i, w := range cur {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(w.text)
		}
		lines = append(lines, wrappedLine{
			text: sb.String(), width: curWidth, style: cur[0].style,
			linkURL: cur[0].linkURL, firstOffset: cur[0].offset,
		})
		cur = nil
		curWidth = 0
	}

	for _, w := range words {
		wWidth := measure(faceFor(w), w.text)
		add := wWidth
		if len(cur) > 0 {
			add += spaceW
		}
		if len(cur) > 0 && curWidth+add > maxWidthPt {
			flush()
			add = wWidth
		}
		cur = append(cur, w)
		curWidth += add
	}
	flush()
	return lines
}
