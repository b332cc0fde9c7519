package upscale

import (
	"errors"
	"image/color"
	"math"
	"testing"
)

func TestGaussianKernel(t *testing.T) {
	for _, r := range []float64{0.4, 0.7, 1, 1.5, 3} {
		k := GaussianKernel(r)
		if want := 2*int(math.Ceil(r)) + 1; len(k) != want {
			t.Fatalf("radius %v: %d taps, want %d", r, len(k), want)
		}
		var sum float64
		for i, v := range k {
			sum += v
			if v != k[len(k)-1-i] {
				t.Fatalf("radius %v: kernel not symmetric", r)
			}
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Fatalf("radius %v: sum %v", r, sum)
		}
	}
	if k := GaussianKernel(0); len(k) != 1 || k[0] != 1 {
		t.Fatalf("zero radius kernel: %v", k)
	}
}

func TestGaussianBlurFlatIsIdentity(t *testing.T) {
	src := flatBuffer(7, 5, color.NRGBA{R: 30, G: 140, B: 220, A: 200})
	assertClose(t, GaussianBlur(src, 2.5), src, 0)
}

func TestGaussianBlurIsIsotropic(t *testing.T) {
	src := noisyGray(9, 9, 120, 60, 1)
	transposed := newBuffer(9, 9, func(x, y int) color.NRGBA { return src.At(y, x) })

	a := GaussianBlur(src, 1.5)
	b := GaussianBlur(transposed, 1.5)
	back := newBuffer(9, 9, func(x, y int) color.NRGBA { return b.At(y, x) })
	assertClose(t, back, a, 1)
}

func TestGaussianBlurDoesNotMutateInput(t *testing.T) {
	src := noisyGray(6, 6, 100, 50, 2)
	orig := src.Clone()
	_ = GaussianBlur(src, 1)
	_ = HorizontalBlur(src, 1)
	assertClose(t, src, orig, 0)
}

func TestHorizontalBlurLeavesRowConstantImage(t *testing.T) {
	src := newBuffer(6, 5, func(_, y int) color.NRGBA { return gray(uint8(y * 50)) })
	assertClose(t, HorizontalBlur(src, 2), src, 0)
}

func TestConvolve2DIdentityKernel(t *testing.T) {
	src := gradientBuffer(5, 4)
	k := []float64{0, 0, 0, 0, 1, 0, 0, 0, 0}
	assertClose(t, convolve2D(src, k, 3), src, 0)
}

func TestSpectralLowPass(t *testing.T) {
	flat := flatBuffer(6, 4, gray(90))
	out, err := SpectralLowPass(flat, 0.3)
	if err != nil {
		t.Fatalf("low pass: %v", err)
	}
	assertClose(t, out, flat, 1)

	noisy := noisyGray(16, 16, 128, 60, 3)
	smooth, err := SpectralLowPass(noisy, 0.2)
	if err != nil {
		t.Fatalf("low pass: %v", err)
	}
	if variance(smooth, 0) >= variance(noisy, 0) {
		t.Fatalf("low pass did not reduce variance: %v >= %v", variance(smooth, 0), variance(noisy, 0))
	}

	if _, err := SpectralLowPass(flat, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}

func BenchmarkGaussianBlur(b *testing.B) {
	src := noisyGray(256, 256, 128, 40, 1)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = GaussianBlur(src, 2)
	}
}
