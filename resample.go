package upscale

import (
	"math"
)

// CubicKernel is the cubic convolution kernel with a = -1.
func CubicKernel(x float64) float64 {
	x = math.Abs(x)
	if x <= 1 {
		return 1 - 2*x*x + x*x*x
	}
	if x < 2 {
		return -4 + 8*x - 5*x*x + x*x*x
	}
	return 0
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// LanczosKernel is sinc(x)·sinc(x/a) on |x| < a and zero elsewhere.
func LanczosKernel(x, a float64) float64 {
	x = math.Abs(x)
	if x == 0 {
		return 1
	}
	if x >= a {
		return 0
	}
	return sinc(x) * sinc(x/a)
}

// kernelDef describes a separable sampling kernel evaluated on taps floor(s)+lo..floor(s)+hi.
type kernelDef struct {
	lo, hi int
	kernel func(float64) float64
}

func bicubicDef() kernelDef {
	return kernelDef{lo: -1, hi: 2, kernel: CubicKernel}
}

func lanczosDef(a int) kernelDef {
	fa := float64(a)
	return kernelDef{lo: -a + 1, hi: a, kernel: func(x float64) float64 { return LanczosKernel(x, fa) }}
}

// axisTaps holds clamped source indices and their kernel weights for one destination coordinate.
type axisTaps struct {
	idx []int
	w   []float64
	sum float64
}

func buildAxisTaps(srcLen, dstLen int, scale float64, def kernelDef) []axisTaps {
	n := def.hi - def.lo + 1
	taps := make([]axisTaps, dstLen)
	idx := make([]int, dstLen*n)
	wts := make([]float64, dstLen*n)
	for d := 0; d < dstLen; d++ {
		s := float64(d) / scale
		si := math.Floor(s)
		f := s - si
		t := axisTaps{idx: idx[d*n : (d+1)*n], w: wts[d*n : (d+1)*n]}
		for i := 0; i < n; i++ {
			off := def.lo + i
			t.idx[i] = clampInt(int(si)+off, 0, srcLen-1)
			t.w[i] = def.kernel(f - float64(off))
			t.sum += t.w[i]
		}
		taps[d] = t
	}
	return taps
}

// resampleKernel maps destination (x, y) to source (x/scale, y/scale) and takes a
// weighted mean of the clamped neighborhood, normalized by the weights actually used.
func resampleKernel(src *PixelBuffer, scale float64, def kernelDef) *PixelBuffer {
	dw, dh := scaledSize(src.Width, src.Height, scale)
	tx := buildAxisTaps(src.Width, dw, scale, def)
	ty := buildAxisTaps(src.Height, dh, scale, def)
	dst := NewPixelBuffer(dw, dh)

	parallelFor(dh, func(start, end int) {
		for y := start; y < end; y++ {
			wy := ty[y]
			for x := 0; x < dw; x++ {
				wx := tx[x]
				weight := wx.sum * wy.sum
				var acc [4]float64
				for j, sy := range wy.idx {
					row := sy * src.Width
					var racc [4]float64
					for i, sx := range wx.idx {
						k := wx.w[i]
						off := (row + sx) * 4
						racc[0] += float64(src.Pix[off]) * k
						racc[1] += float64(src.Pix[off+1]) * k
						racc[2] += float64(src.Pix[off+2]) * k
						racc[3] += float64(src.Pix[off+3]) * k
					}
					k := wy.w[j]
					for c := range acc {
						acc[c] += racc[c] * k
					}
				}
				o := dst.offset(x, y)
				for c := range acc {
					if weight == 0 {
						dst.Pix[o+c] = 0
						continue
					}
					dst.Pix[o+c] = clampByte(acc[c] / weight)
				}
			}
		}
	})
	return dst
}

// BicubicUpscale resamples all four channels with the 4×4 cubic kernel.
func BicubicUpscale(src *PixelBuffer, scale float64) *PixelBuffer {
	return resampleKernel(src, scale, bicubicDef())
}

// LanczosUpscale resamples all four channels with a Lanczos kernel of support a.
func LanczosUpscale(src *PixelBuffer, scale float64, a int) *PixelBuffer {
	if a <= 0 {
		a = defaultLanczosA
	}
	return resampleKernel(src, scale, lanczosDef(a))
}

// bilinearSample interpolates channel c of a w×h interleaved plane with stride 4 at (sx, sy).
func bilinearSample(pix []uint8, w, h, stride, c int, sx, sy float64) float64 {
	xi, yi := math.Floor(sx), math.Floor(sy)
	fx, fy := sx-xi, sy-yi
	x0 := min(int(xi), w-1)
	x1 := min(int(xi)+1, w-1)
	y0 := min(int(yi), h-1)
	y1 := min(int(yi)+1, h-1)
	p00 := float64(pix[(y0*w+x0)*stride+c])
	p10 := float64(pix[(y0*w+x1)*stride+c])
	p01 := float64(pix[(y1*w+x0)*stride+c])
	p11 := float64(pix[(y1*w+x1)*stride+c])
	top := p00*(1-fx) + p10*fx
	bottom := p01*(1-fx) + p11*fx
	return top*(1-fy) + bottom*fy
}

// BilinearResize is the shared bilinear resampler used by the frequency and fractal strategies.
func BilinearResize(src *PixelBuffer, scale float64) *PixelBuffer {
	dw, dh := scaledSize(src.Width, src.Height, scale)
	dst := NewPixelBuffer(dw, dh)
	parallelFor(dh, func(start, end int) {
		for y := start; y < end; y++ {
			sy := float64(y) / scale
			for x := 0; x < dw; x++ {
				sx := float64(x) / scale
				o := dst.offset(x, y)
				for c := 0; c < 4; c++ {
					dst.Pix[o+c] = clampByte(bilinearSample(src.Pix, src.Width, src.Height, 4, c, sx, sy))
				}
			}
		}
	})
	return dst
}

// NearestResize picks source pixel (floor(x/scale), floor(y/scale)).
func NearestResize(src *PixelBuffer, scale float64) *PixelBuffer {
	dw, dh := scaledSize(src.Width, src.Height, scale)
	dst := NewPixelBuffer(dw, dh)
	parallelFor(dh, func(start, end int) {
		for y := start; y < end; y++ {
			sy := min(int(float64(y)/scale), src.Height-1)
			for x := 0; x < dw; x++ {
				sx := min(int(float64(x)/scale), src.Width-1)
				copy(dst.Pix[dst.offset(x, y):dst.offset(x, y)+4], src.Pix[src.offset(sx, sy):])
			}
		}
	})
	return dst
}
