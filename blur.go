package upscale

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// GaussianKernel builds a normalized 1-D kernel of half-width ceil(radius)
// with tap i weighted exp(-i²/(2·radius²)). For radius <= 0 it returns the identity kernel.
func GaussianKernel(radius float64) []float64 {
	if radius <= 0 {
		return []float64{1}
	}
	half := int(math.Ceil(radius))
	kernel := make([]float64, 2*half+1)
	twoSigmaSq := 2 * radius * radius
	var sum float64
	for i := -half; i <= half; i++ {
		v := math.Exp(-float64(i*i) / twoSigmaSq)
		kernel[i+half] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// GaussianBlur applies the kernel horizontally then vertically with replicate padding.
// All four channels are filtered; values are rounded once after the second pass.
func GaussianBlur(src *PixelBuffer, radius float64) *PixelBuffer {
	if radius <= 0 {
		return src.Clone()
	}
	kernel := GaussianKernel(radius)
	half := len(kernel) / 2
	w, h := src.Width, src.Height

	temp := getScratch(w * h * 4)
	defer putScratch(temp)

	parallelFor(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := src.Pix[y*w*4:]
			out := temp[y*w*4:]
			for x := 0; x < w; x++ {
				var r, g, b, a float64
				for k, wt := range kernel {
					xi := clampInt(x+k-half, 0, w-1) * 4
					r += float64(row[xi]) * wt
					g += float64(row[xi+1]) * wt
					b += float64(row[xi+2]) * wt
					a += float64(row[xi+3]) * wt
				}
				o := x * 4
				out[o] = float32(r)
				out[o+1] = float32(g)
				out[o+2] = float32(b)
				out[o+3] = float32(a)
			}
		}
	})

	dst := NewPixelBuffer(w, h)
	parallelFor(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				var r, g, b, a float64
				for k, wt := range kernel {
					off := (clampInt(y+k-half, 0, h-1)*w + x) * 4
					r += float64(temp[off]) * wt
					g += float64(temp[off+1]) * wt
					b += float64(temp[off+2]) * wt
					a += float64(temp[off+3]) * wt
				}
				o := dst.offset(x, y)
				dst.Pix[o] = clampByte(r)
				dst.Pix[o+1] = clampByte(g)
				dst.Pix[o+2] = clampByte(b)
				dst.Pix[o+3] = clampByte(a)
			}
		}
	})
	return dst
}

// HorizontalBlur applies a single horizontal Gaussian pass and rounds the result.
func HorizontalBlur(src *PixelBuffer, radius float64) *PixelBuffer {
	if radius <= 0 {
		return src.Clone()
	}
	kernel := GaussianKernel(radius)
	half := len(kernel) / 2
	w := src.Width
	dst := NewPixelBuffer(w, src.Height)
	parallelFor(src.Height, func(start, end int) {
		for y := start; y < end; y++ {
			row := src.Pix[y*w*4:]
			out := dst.Pix[y*w*4:]
			for x := 0; x < w; x++ {
				for c := 0; c < 4; c++ {
					var v float64
					for k, wt := range kernel {
						v += float64(row[clampInt(x+k-half, 0, w-1)*4+c]) * wt
					}
					out[x*4+c] = clampByte(v)
				}
			}
		}
	})
	return dst
}

// convolve2D convolves the color channels with a square size×size kernel.
// Out-of-range taps replicate the edge and alpha is copied.
func convolve2D(src *PixelBuffer, kernel []float64, size int) *PixelBuffer {
	w, h := src.Width, src.Height
	center := size / 2
	dst := NewPixelBuffer(w, h)
	parallelFor(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				var r, g, b float64
				for ky := 0; ky < size; ky++ {
					py := clampInt(y+ky-center, 0, h-1)
					for kx := 0; kx < size; kx++ {
						wt := kernel[ky*size+kx]
						if wt == 0 {
							continue
						}
						off := src.offset(clampInt(x+kx-center, 0, w-1), py)
						r += float64(src.Pix[off]) * wt
						g += float64(src.Pix[off+1]) * wt
						b += float64(src.Pix[off+2]) * wt
					}
				}
				o := dst.offset(x, y)
				dst.Pix[o] = clampByte(r)
				dst.Pix[o+1] = clampByte(g)
				dst.Pix[o+2] = clampByte(b)
				dst.Pix[o+3] = src.Pix[o+3]
			}
		}
	})
	return dst
}

// SpectralLowPass filters the color channels in the frequency domain with a Gaussian
// mask whose radius is cutoff·max(w,h)/2 frequency bins. Alpha is copied.
func SpectralLowPass(src *PixelBuffer, cutoff float64) (*PixelBuffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if !(cutoff > 0) || !isFinite(cutoff) {
		return nil, fmt.Errorf("%w: cutoff %v", ErrInvalidParameter, cutoff)
	}
	w, h := src.Width, src.Height
	radius := cutoff * float64(max(w, h)) / 2
	r2 := radius * radius

	dst := src.Clone()
	for c := 0; c < 3; c++ {
		plane := channelPlane(src, c)
		freq := fft.FFT2Real(plane)
		for y := 0; y < h; y++ {
			dy := float64(y)
			if y > h/2 {
				dy = float64(y - h)
			}
			for x := 0; x < w; x++ {
				dx := float64(x)
				if x > w/2 {
					dx = float64(x - w)
				}
				freq[y][x] *= complex(math.Exp(-(dx*dx+dy*dy)/(2*r2)), 0)
			}
		}
		spatial := fft.IFFT2(freq)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.Pix[dst.offset(x, y)+c] = clampByte(real(spatial[y][x]))
			}
		}
	}
	return dst, nil
}

// channelPlane extracts channel c as rows of float64.
func channelPlane(src *PixelBuffer, c int) [][]float64 {
	plane := make([][]float64, src.Height)
	for y := range plane {
		row := make([]float64, src.Width)
		for x := range row {
			row[x] = float64(src.Pix[src.offset(x, y)+c])
		}
		plane[y] = row
	}
	return plane
}
