package upscale

import (
	"image/color"
	"math/rand"
	"testing"
)

// newBuffer fills a w×h buffer from fn.
func newBuffer(w, h int, fn func(x, y int) color.NRGBA) *PixelBuffer {
	b := NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := fn(x, y)
			o := b.offset(x, y)
			b.Pix[o], b.Pix[o+1], b.Pix[o+2], b.Pix[o+3] = c.R, c.G, c.B, c.A
		}
	}
	return b
}

func flatBuffer(w, h int, c color.NRGBA) *PixelBuffer {
	return newBuffer(w, h, func(int, int) color.NRGBA { return c })
}

func gray(v uint8) color.NRGBA { return color.NRGBA{R: v, G: v, B: v, A: 255} }

// verticalEdge is black left of column edgeX and white from it on.
func verticalEdge(w, h, edgeX int) *PixelBuffer {
	return newBuffer(w, h, func(x, _ int) color.NRGBA {
		if x < edgeX {
			return gray(0)
		}
		return gray(255)
	})
}

func noisyGray(w, h int, base, amp int, seed int64) *PixelBuffer {
	rng := rand.New(rand.NewSource(seed))
	return newBuffer(w, h, func(int, int) color.NRGBA {
		v := base + rng.Intn(2*amp+1) - amp
		return gray(uint8(clampInt(v, 0, 255)))
	})
}

func gradientBuffer(w, h int) *PixelBuffer {
	return newBuffer(w, h, func(x, y int) color.NRGBA {
		return color.NRGBA{
			R: uint8(x * 255 / max(w-1, 1)),
			G: uint8(y * 255 / max(h-1, 1)),
			B: uint8((x + y) * 127 / max(w+h-2, 1)),
			A: uint8(128 + x*127/max(w-1, 1)),
		}
	})
}

// assertClose fails when any sample differs by more than tol.
func assertClose(t *testing.T, got, want *PixelBuffer, tol int) {
	t.Helper()
	if got.Width != want.Width || got.Height != want.Height {
		t.Fatalf("dims mismatch: got %dx%d want %dx%d", got.Width, got.Height, want.Width, want.Height)
	}
	for i := range want.Pix {
		d := int(got.Pix[i]) - int(want.Pix[i])
		if d < -tol || d > tol {
			p := i / 4
			t.Fatalf("sample %d (x=%d y=%d c=%d): got %d want %d (tol %d)",
				i, p%want.Width, p/want.Width, i%4, got.Pix[i], want.Pix[i], tol)
		}
	}
}

func assertValid(t *testing.T, b *PixelBuffer) {
	t.Helper()
	if err := b.Validate(); err != nil {
		t.Fatalf("invalid buffer: %v", err)
	}
}

func variance(b *PixelBuffer, c int) float64 {
	n := float64(b.Width * b.Height)
	var sum, sq float64
	for i := c; i < len(b.Pix); i += 4 {
		v := float64(b.Pix[i])
		sum += v
		sq += v * v
	}
	mean := sum / n
	return sq/n - mean*mean
}
