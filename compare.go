package upscale

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/nfnt/resize"
)

// CompareDivider is the width in pixels of the bar separating the two halves of Compare.
const CompareDivider = 4

var dividerColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Compare renders before and after side by side. The before image is scaled to the
// dimensions of after with interp, so both halves show the same field of view.
func Compare(before, after *PixelBuffer, interp resize.InterpolationFunction) (*image.NRGBA, error) {
	if err := before.Validate(); err != nil {
		return nil, err
	}
	if err := after.Validate(); err != nil {
		return nil, err
	}

	w, h := after.Width, after.Height
	scaled := resize.Resize(uint(w), uint(h), before.ToNRGBA(), interp)

	canvas := image.NewNRGBA(image.Rect(0, 0, 2*w+CompareDivider, h))
	draw.Draw(canvas, image.Rect(0, 0, w, h), scaled, scaled.Bounds().Min, draw.Src)
	draw.Draw(canvas, image.Rect(w, 0, w+CompareDivider, h), image.NewUniform(dividerColor), image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(w+CompareDivider, 0, 2*w+CompareDivider, h), after.ToNRGBA(), image.Point{}, draw.Src)
	return canvas, nil
}

// Thumbnail fits b into maxW×maxH preserving the aspect ratio.
func Thumbnail(b *PixelBuffer, maxW, maxH uint, interp resize.InterpolationFunction) *PixelBuffer {
	return FromImage(resize.Thumbnail(maxW, maxH, b.ToNRGBA(), interp))
}
