package upscale

import (
	"image/color"
	"testing"
)

func TestBilateralWithHugeColorRadiusIsGaussian(t *testing.T) {
	src := noisyGray(12, 10, 128, 40, 7)
	for _, r := range []float64{1, 1.5, 2} {
		got := BilateralFilter(src, r, 1e7)
		want := GaussianBlur(src, r)
		assertClose(t, got, want, 1)
	}
}

func TestBilateralPreservesHardEdge(t *testing.T) {
	src := verticalEdge(8, 6, 4)
	out := BilateralFilter(src, 2, 10)
	assertClose(t, out, src, 0)
}

func TestBilateralKeepsAlpha(t *testing.T) {
	src := newBuffer(5, 5, func(x, y int) color.NRGBA {
		return color.NRGBA{R: uint8(x * 40), G: 0, B: 0, A: uint8(y * 50)}
	})
	out := BilateralFilter(src, 1, 50)
	for i := 3; i < len(src.Pix); i += 4 {
		if out.Pix[i] != src.Pix[i] {
			t.Fatalf("alpha changed at %d", i)
		}
	}
}

func TestNonLocalMeans(t *testing.T) {
	flat := flatBuffer(6, 6, color.NRGBA{R: 40, G: 50, B: 60, A: 70})
	assertClose(t, NonLocalMeans(flat, 3, 5, 10), flat, 0)

	noisy := noisyGray(12, 12, 128, 30, 11)
	out := NonLocalMeans(noisy, 3, 7, 20)
	if variance(out, 0) >= variance(noisy, 0) {
		t.Fatalf("NLM did not reduce noise: %v >= %v", variance(out, 0), variance(noisy, 0))
	}
	for i := 3; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 255 {
			t.Fatalf("alpha changed at %d", i)
		}
	}
}

func TestMorphology(t *testing.T) {
	dot := newBuffer(7, 7, func(x, y int) color.NRGBA {
		if x == 3 && y == 3 {
			return color.NRGBA{R: 255, G: 255, B: 255, A: 9}
		}
		return color.NRGBA{A: 9}
	})

	dilated := Dilate(dot, 1)
	for y := 0; y < 7; y++ {
		for x := 0; x < 7; x++ {
			inside := x >= 2 && x <= 4 && y >= 2 && y <= 4
			if c := dilated.At(x, y); (c.R == 255) != inside || c.A != 9 {
				t.Fatalf("dilate (%d,%d) = %v", x, y, c)
			}
		}
	}

	assertClose(t, Erode(dot, 1), flatBuffer(7, 7, color.NRGBA{A: 9}), 0)
	assertClose(t, MorphOpen(dot, 1), flatBuffer(7, 7, color.NRGBA{A: 9}), 0)

	hole := newBuffer(7, 7, func(x, y int) color.NRGBA {
		if x == 3 && y == 3 {
			return color.NRGBA{A: 255}
		}
		return gray(200)
	})
	assertClose(t, MorphClose(hole, 1), flatBuffer(7, 7, gray(200)), 0)
}

func BenchmarkNonLocalMeans(b *testing.B) {
	src := noisyGray(32, 32, 128, 20, 1)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = NonLocalMeans(src, nlmPatchSize, nlmSearchArea, 10)
	}
}
