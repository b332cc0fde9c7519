package upscale

import (
	"fmt"
	"math"
)

var (
	sobelX = [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY = [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}
)

// Sobel returns per-channel gradient magnitudes, saturated at 255.
// Border pixels (outside the 3×3 interior) stay zero and alpha is copied for interior pixels.
func Sobel(src *PixelBuffer) *PixelBuffer {
	w, h := src.Width, src.Height
	dst := NewPixelBuffer(w, h)
	if w < 3 || h < 3 {
		return dst
	}
	parallelFor(h-2, func(start, end int) {
		for y := start + 1; y < end+1; y++ {
			for x := 1; x < w-1; x++ {
				o := dst.offset(x, y)
				for c := 0; c < 3; c++ {
					var gx, gy float64
					for dy := -1; dy <= 1; dy++ {
						for dx := -1; dx <= 1; dx++ {
							p := float64(src.Pix[src.offset(x+dx, y+dy)+c])
							gx += p * sobelX[dy+1][dx+1]
							gy += p * sobelY[dy+1][dx+1]
						}
					}
					dst.Pix[o+c] = clampByte(math.Min(255, math.Sqrt(gx*gx+gy*gy)))
				}
				dst.Pix[o+3] = src.Pix[o+3]
			}
		}
	})
	return dst
}

// EdgeMask maps the mean RGB Sobel magnitude to a multiplier in [1, 2].
func EdgeMask(src *PixelBuffer) []float32 {
	edges := Sobel(src)
	mask := make([]float32, src.Width*src.Height)
	for i := range mask {
		o := i * 4
		avg := (float64(edges.Pix[o]) + float64(edges.Pix[o+1]) + float64(edges.Pix[o+2])) / 3
		mask[i] = float32(1 + math.Min(1, avg/255))
	}
	return mask
}

// LuminanceEdgeMap returns the luminance Sobel magnitude divided by 1024 for interior pixels.
func LuminanceEdgeMap(src *PixelBuffer) []float32 {
	w, h := src.Width, src.Height
	edges := make([]float32, w*h)
	if w < 3 || h < 3 {
		return edges
	}
	lum := luminancePlane(src)
	parallelFor(h-2, func(start, end int) {
		for y := start + 1; y < end+1; y++ {
			for x := 1; x < w-1; x++ {
				var gx, gy float64
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						p := lum[(y+dy)*w+x+dx]
						gx += p * sobelX[dy+1][dx+1]
						gy += p * sobelY[dy+1][dx+1]
					}
				}
				edges[y*w+x] = float32(math.Sqrt(gx*gx+gy*gy) / 1024)
			}
		}
	})
	return edges
}

func luminancePlane(src *PixelBuffer) []float64 {
	lum := make([]float64, src.Width*src.Height)
	for i := range lum {
		o := i * 4
		lum[i] = luminance(src.Pix[o], src.Pix[o+1], src.Pix[o+2])
	}
	return lum
}

// EdgeDirection computes the luminance Sobel gradient at (x, y) with clamped neighbors.
// The angle is atan2(gy, gx) in radians.
func EdgeDirection(src *PixelBuffer, x, y int) (angle, magnitude float64) {
	var gx, gy float64
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c := src.At(x+dx, y+dy)
			v := luminance(c.R, c.G, c.B)
			gx += v * sobelX[dy+1][dx+1]
			gy += v * sobelY[dy+1][dx+1]
		}
	}
	return math.Atan2(gy, gx), math.Sqrt(gx*gx + gy*gy)
}

// directionalKernels are line kernels for 0°, 45°, ..., 315°.
var directionalKernels = [8][3][3]float64{
	{{0, 0, 0}, {1, 1, 1}, {0, 0, 0}},
	{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}},
	{{0, 0, 1}, {0, 1, 0}, {1, 0, 0}},
	{{0, 0, 0}, {1, 1, 1}, {0, 0, 0}},
	{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}},
	{{0, 0, 1}, {0, 1, 0}, {1, 0, 0}},
}

// directionBin quantizes an atan2 angle into one of 8 bins.
func directionBin(angle float64) int {
	n := (angle + math.Pi) / (2 * math.Pi) * 8
	return roundInt(n) % 8
}

// DirectionalFilter smooths along the quantized gradient direction with a Gaussian
// spatial weight. Pixels whose gradient magnitude is below 10 are copied unchanged.
// The radius must be positive.
func DirectionalFilter(src *PixelBuffer, radius float64) (*PixelBuffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if !isFinite(radius) || radius <= 0 {
		return nil, fmt.Errorf("%w: directional radius %v", ErrInvalidParameter, radius)
	}
	return directionalFilter(src, radius), nil
}

func directionalFilter(src *PixelBuffer, radius float64) *PixelBuffer {
	w, h := src.Width, src.Height
	dst := NewPixelBuffer(w, h)
	twoSigmaSq := 2 * radius * radius
	parallelFor(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				o := src.offset(x, y)
				angle, mag := EdgeDirection(src, x, y)
				if mag < directionalMinMag {
					copy(dst.Pix[o:o+4], src.Pix[o:o+4])
					continue
				}
				kernel := &directionalKernels[directionBin(angle)]
				var sum, weight float64
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						k := kernel[dy+1][dx+1]
						if k == 0 {
							continue
						}
						tw := k * math.Exp(-float64(dx*dx+dy*dy)/twoSigmaSq)
						// Only the red sample drives the directional average.
						sum += float64(src.At(x+dx, y+dy).R) * tw
						weight += tw
					}
				}
				for c := 0; c < 3; c++ {
					if weight > 0 {
						dst.Pix[o+c] = clampByte(sum / weight)
					} else {
						dst.Pix[o+c] = src.Pix[o+c]
					}
				}
				dst.Pix[o+3] = src.Pix[o+3]
			}
		}
	})
	return dst
}

// EnhanceEdges blends the directional filter result into the original by strength in [0,1].
func EnhanceEdges(src *PixelBuffer, strength float64) *PixelBuffer {
	filtered := directionalFilter(src, 1.5)
	dst := NewPixelBuffer(src.Width, src.Height)
	for i := 0; i < len(src.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			dst.Pix[i+c] = clampByte(float64(src.Pix[i+c])*(1-strength) + float64(filtered.Pix[i+c])*strength)
		}
		dst.Pix[i+3] = src.Pix[i+3]
	}
	return dst
}
