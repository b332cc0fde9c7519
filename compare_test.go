package upscale

import (
	"errors"
	"image/color"
	"testing"

	"github.com/nfnt/resize"
)

func TestCompare(t *testing.T) {
	before := flatBuffer(2, 2, gray(30))
	after := noisyGray(4, 4, 120, 60, 3)

	img, err := Compare(before, after, resize.NearestNeighbor)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 4 {
		t.Fatalf("canvas %v, want 12x4", b)
	}
	if c := img.NRGBAAt(5, 0); c != dividerColor {
		t.Fatalf("divider pixel %v", c)
	}
	if c := img.NRGBAAt(1, 2); c != gray(30) {
		t.Fatalf("left half %v", c)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got, want := img.NRGBAAt(x+4+CompareDivider, y), after.At(x, y); got != want {
				t.Fatalf("right half (%d,%d): got %v want %v", x, y, got, want)
			}
		}
	}

	if _, err := Compare(&PixelBuffer{Width: 1}, after, resize.Bilinear); !errors.Is(err, ErrInvalidBuffer) {
		t.Fatalf("expected ErrInvalidBuffer, got %v", err)
	}
}

func TestThumbnail(t *testing.T) {
	src := flatBuffer(40, 20, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	th := Thumbnail(src, 10, 10, resize.Bilinear)
	assertValid(t, th)
	if th.Width != 10 || th.Height != 5 {
		t.Fatalf("thumbnail %dx%d, want 10x5", th.Width, th.Height)
	}

	small := Thumbnail(gradientBuffer(3, 3), 10, 10, resize.Bilinear)
	if small.Width != 3 || small.Height != 3 {
		t.Fatalf("small image must keep its size, got %dx%d", small.Width, small.Height)
	}
}
