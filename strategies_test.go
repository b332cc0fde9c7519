package upscale

import (
	"image/color"
	"math"
	"testing"
)

func TestStrategiesOutputDims(t *testing.T) {
	src := gradientBuffer(5, 3)
	for _, m := range Methods() {
		for _, scale := range []float64{1, 1.5, 2, 3, 4} {
			o := DefaultOptions(m)
			out := strategies[m](src, scale, &o)
			assertValid(t, out)
			dw, dh := int(math.Floor(5*scale+0.5)), int(math.Floor(3*scale+0.5))
			if out.Width != dw || out.Height != dh {
				t.Fatalf("%s x%v: got %dx%d want %dx%d", m, scale, out.Width, out.Height, dw, dh)
			}
		}
	}
}

func TestStrategiesDoNotMutateInput(t *testing.T) {
	src := gradientBuffer(6, 4)
	orig := src.Clone()
	for _, m := range Methods() {
		o := DefaultOptions(m)
		_ = strategies[m](src, 2, &o)
		assertClose(t, src, orig, 0)
	}
}

func TestResolveStrategyFallback(t *testing.T) {
	if _, ok := resolveStrategy(MethodChroma); !ok {
		t.Fatalf("chroma must resolve")
	}
	fn, ok := resolveStrategy(Method(42))
	if ok {
		t.Fatalf("unknown method must not resolve")
	}
	src := gradientBuffer(4, 4)
	o := DefaultOptions(MethodBicubic)
	assertClose(t, fn(src, 2, &o), BicubicUpscale(src, 2), 0)
}

func TestBicubicHighPassComposition(t *testing.T) {
	src := stepImage()
	o := DefaultOptions(MethodBicubicHighPass)
	up := BicubicUpscale(src, 2)
	want := BlendHighPass(up, HighPass(up, o.SharpnessRadius, 0.5), 0.5)
	assertClose(t, bicubicHighPassStrategy(src, 2, &o), want, 0)
}

func TestEdgeAwareSwitchesKernelPerPixel(t *testing.T) {
	src := verticalEdge(4, 4, 2)

	// Destination (5,5) at scale 4 maps to source (1.25, 1.25), inside the edge band.
	cubic := edgeCubicSample(src, 1.25, 1.25, 0)
	linear := bilinearSample(src.Pix, 4, 4, 4, 0, 1.25, 1.25)
	if clampByte(cubic) == clampByte(linear) {
		t.Fatalf("branches must differ on the edge: cubic %v, bilinear %v", cubic, linear)
	}
	if clampByte(cubic) != 183 || clampByte(linear) != 64 {
		t.Fatalf("cubic %v (want 182.75), bilinear %v (want 63.75)", cubic, linear)
	}

	out := EdgeAwareUpscale(src, 4, 50)
	if got := out.At(5, 5).R; got != clampByte(cubic) {
		t.Fatalf("edge pixel used bilinear branch: got %d want %d", got, clampByte(cubic))
	}

	// The bottom-right 2×2 window only sees border pixels, whose edge strength is zero.
	bilinear := BilinearResize(src, 4)
	for y := 12; y < 16; y++ {
		for x := 12; x < 16; x++ {
			if out.At(x, y) != bilinear.At(x, y) {
				t.Fatalf("uniform pixel (%d,%d) did not use bilinear branch", x, y)
			}
		}
	}

	// A threshold of 255 can never be exceeded, so the whole output is bilinear.
	assertClose(t, EdgeAwareUpscale(src, 4, 255), bilinear, 0)
}

func TestEdgeAwareFlatInput(t *testing.T) {
	src := flatBuffer(5, 5, color.NRGBA{R: 11, G: 22, B: 33, A: 44})
	assertClose(t, EdgeAwareUpscale(src, 2, 0), flatBuffer(10, 10, color.NRGBA{R: 11, G: 22, B: 33, A: 44}), 0)
}

func TestFrequencyAndFractalAlpha(t *testing.T) {
	src := flatBuffer(4, 4, color.NRGBA{R: 90, G: 90, B: 90, A: 100})
	for name, fn := range map[string]func(bool) *PixelBuffer{
		"frequency": func(keep bool) *PixelBuffer { return FrequencyUpscale(src, 2, 1.5, keep) },
		"fractal":   func(keep bool) *PixelBuffer { return FractalUpscale(src, 2, 0.4, 1.2, keep) },
	} {
		opaque := fn(false)
		kept := fn(true)
		for i := 3; i < len(opaque.Pix); i += 4 {
			if opaque.Pix[i] != 255 {
				t.Fatalf("%s: alpha %d at %d, want 255", name, opaque.Pix[i], i)
			}
			if kept.Pix[i] != 100 {
				t.Fatalf("%s: preserved alpha %d at %d, want 100", name, kept.Pix[i], i)
			}
		}
	}
}

func TestFrequencyFlatIsPreserved(t *testing.T) {
	src := flatBuffer(6, 6, gray(77))
	out := FrequencyUpscale(src, 2, 1.5, false)
	assertClose(t, out, flatBuffer(12, 12, gray(77)), 0)
}

func TestOverlay(t *testing.T) {
	cases := []struct{ b, o, want float64 }{
		{0, 0.7, 0},
		{0.25, 0.5, 0.25},
		{0.5, 0.5, 0.5},
		{1, 0.2, 1},
		{0.75, 0.5, 0.75},
	}
	for _, tc := range cases {
		if got := overlay(tc.b, tc.o); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("overlay(%v,%v) = %v, want %v", tc.b, tc.o, got, tc.want)
		}
	}
}

func TestFractalContrastCurve(t *testing.T) {
	dark := FractalUpscale(flatBuffer(3, 3, gray(40)), 2, 0.4, 1, false)
	boosted := FractalUpscale(flatBuffer(3, 3, gray(40)), 2, 0.4, 1.5, false)
	// overlay(40/255, 40/255)·255 rounds to 13; the curve moves it away from 128.
	if got := dark.At(1, 1).R; got != 13 {
		t.Fatalf("overlay result %d, want 13", got)
	}
	if got := boosted.At(1, 1).R; got != 0 {
		t.Fatalf("boosted result %d, want 0", got)
	}
}

func TestChromaAlphaIsNearest(t *testing.T) {
	src := newBuffer(2, 1, func(x, _ int) color.NRGBA {
		return color.NRGBA{R: 100, G: 100, B: 100, A: uint8(x * 200)}
	})
	out := ChromaUpscale(src, 2)
	want := []uint8{0, 0, 200, 200}
	for x, a := range want {
		if got := out.At(x, 0).A; got != a {
			t.Fatalf("alpha at %d: got %d want %d", x, got, a)
		}
	}
}
