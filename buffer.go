package upscale

import (
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// PixelBuffer is a non-premultiplied RGBA8 raster, row-major with top-left origin.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8 // R,G,B,A per pixel, len == Width*Height*4
}

// NewPixelBuffer allocates a zeroed buffer.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// Validate checks the length invariant.
func (b *PixelBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidBuffer)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidBuffer, b.Width, b.Height)
	}
	if len(b.Pix) != b.Width*b.Height*4 {
		return fmt.Errorf("%w: %d samples for %dx%d", ErrInvalidBuffer, len(b.Pix), b.Width, b.Height)
	}
	return nil
}

// Clone returns a deep copy.
func (b *PixelBuffer) Clone() *PixelBuffer {
	out := &PixelBuffer{Width: b.Width, Height: b.Height, Pix: make([]uint8, len(b.Pix))}
	copy(out.Pix, b.Pix)
	return out
}

func (b *PixelBuffer) offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// At returns the pixel at x, y. Coordinates are clamped to the image.
func (b *PixelBuffer) At(x, y int) color.NRGBA {
	x = clampInt(x, 0, b.Width-1)
	y = clampInt(y, 0, b.Height-1)
	i := b.offset(x, y)
	return color.NRGBA{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: b.Pix[i+3]}
}

// Fill sets every pixel to c.
func (b *PixelBuffer) Fill(c color.NRGBA) {
	for i := 0; i < len(b.Pix); i += 4 {
		b.Pix[i] = c.R
		b.Pix[i+1] = c.G
		b.Pix[i+2] = c.B
		b.Pix[i+3] = c.A
	}
}

// FromImage copies any image into a new buffer.
func FromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if src, ok := img.(*image.NRGBA); ok && src.Stride == w*4 && bounds.Min == (image.Point{}) {
		out := NewPixelBuffer(w, h)
		copy(out.Pix, src.Pix)
		return out
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), img, bounds.Min, xdraw.Src)
	return &PixelBuffer{Width: w, Height: h, Pix: dst.Pix}
}

// ToNRGBA wraps the samples in an *image.NRGBA without copying.
func (b *PixelBuffer) ToNRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// scaledSize mirrors round(w*scale) x round(h*scale); each dimension is at least 1.
func scaledSize(w, h int, scale float64) (int, int) {
	dw := roundInt(float64(w) * scale)
	dh := roundInt(float64(h) * scale)
	return max(dw, 1), max(dh, 1)
}
