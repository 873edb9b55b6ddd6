package typeset

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Rasterize renders a frame to PNG at ppi/72 pixels per point, the same
// ratio SPEC_FULL §4.C specifies. It is pure and holds no shared mutable
// state, so it is safe to call concurrently from the prefetch worker.
func Rasterize(frame *Frame, fill color.Color, ppi float64, bodyFace, monoFace font.Face) ([]byte, error) {
	scale := ppi / 72.0
	wPx := int(frame.WidthPt*scale + 0.5)
	hPx := int(frame.HeightPt*scale + 0.5)
	if wPx <= 0 {
		wPx = 1
	}
	if hPx <= 0 {
		hPx = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, wPx, hPx))
	draw(img, image.Rect(0, 0, wPx, hPx), fill)

	for _, it := range frame.Items {
		drawItem(img, it, scale, bodyFace, monoFace)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func draw(img *image.RGBA, r image.Rectangle, c color.Color) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

func drawItem(img *image.RGBA, it Item, scale float64, bodyFace, monoFace font.Face) {
	switch it.Kind {
	case ItemShape:
		r := image.Rect(
			int(it.X*scale), int(it.Y*scale),
			int((it.X+it.W)*scale), int((it.Y+it.H)*scale),
		)
		draw(img, r.Intersect(img.Bounds()), color.Gray{Y: 128})

	case ItemText:
		face := bodyFace
		if it.Style.Mono {
			face = monoFace
		}
		fg := color.Gray16{Y: 0x1111}
		if it.LinkURL != "" {
			fg = color.RGBA{R: 0x33, G: 0x66, B: 0xcc, A: 0xff}
		}
		metrics := face.Metrics()
		baseline := int(it.Y*scale) + metrics.Ascent.Ceil()
		x := int(it.X * scale)

		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(fg),
			Face: face,
			Dot:  fixed.P(x, baseline),
		}
		d.DrawString(it.Text)
		if it.Style.Bold {
			// fake-bold: double-strike one pixel to the right, the same
			// technique terminal screenshot renderers use for faces with no
			// dedicated bold variant.
			d.Dot = fixed.P(x+1, baseline)
			d.DrawString(it.Text)
		}
		if it.Style.Strike || it.LinkURL != "" {
			strikeY := baseline - metrics.Ascent.Ceil()/3
			for px := x; px < x+d.MeasureString(it.Text).Ceil(); px++ {
				if px >= 0 && px < img.Bounds().Dx() && strikeY >= 0 && strikeY < img.Bounds().Dy() {
					img.Set(px, strikeY, fg)
				}
			}
		}

	case ItemGroup:
		for _, child := range it.Children {
			shifted := child
			shifted.X += it.X
			shifted.Y += it.Y
			drawItem(img, shifted, scale, bodyFace, monoFace)
		}
	}
}
