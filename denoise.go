package upscale

import (
	"math"
)

// BilateralFilter averages each color channel over a ±ceil(spatialRadius) window weighted
// by spatial proximity and intensity similarity. Alpha is copied.
func BilateralFilter(src *PixelBuffer, spatialRadius, colorRadius float64) *PixelBuffer {
	w, h := src.Width, src.Height
	r := int(math.Ceil(spatialRadius))
	size := 2*r + 1

	spatial := make([]float64, size*size)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d2 := float64(dx*dx + dy*dy)
			spatial[(dy+r)*size+dx+r] = math.Exp(-d2 / (2 * spatialRadius * spatialRadius))
		}
	}
	// Color weight only depends on |center-neighbor| in 0..255.
	var colorLUT [256]float64
	for d := range colorLUT {
		fd := float64(d)
		colorLUT[d] = math.Exp(-(fd * fd) / (2 * colorRadius * colorRadius))
	}

	dst := NewPixelBuffer(w, h)
	parallelFor(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				o := src.offset(x, y)
				for c := 0; c < 3; c++ {
					center := int(src.Pix[o+c])
					var sum, weightSum float64
					for dy := -r; dy <= r; dy++ {
						py := clampInt(y+dy, 0, h-1)
						for dx := -r; dx <= r; dx++ {
							px := clampInt(x+dx, 0, w-1)
							v := int(src.Pix[src.offset(px, py)+c])
							d := center - v
							if d < 0 {
								d = -d
							}
							wt := spatial[(dy+r)*size+dx+r] * colorLUT[d]
							sum += float64(v) * wt
							weightSum += wt
						}
					}
					if weightSum > 0 {
						dst.Pix[o+c] = clampByte(sum / weightSum)
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

// NonLocalMeans replaces each color sample by the mean of the search window centers,
// weighted by exp(-SSD/patchLength/h²) between the surrounding patches.
// Cost is O(W·H·searchArea²·patchSize²); callers must bound the input size.
func NonLocalMeans(src *PixelBuffer, patchSize, searchArea int, h float64) *PixelBuffer {
	w, ht := src.Width, src.Height
	ps := patchSize / 2
	sa := searchArea / 2
	patchLen := float64((2*ps + 1) * (2*ps + 1))
	hh := h * h

	clampX := func(v int) int { return clampInt(v, 0, w-1) }
	clampY := func(v int) int { return clampInt(v, 0, ht-1) }

	dst := NewPixelBuffer(w, ht)
	parallelFor(ht, func(start, end int) {
		patch := make([]float64, int(patchLen))
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				o := src.offset(x, y)
				for c := 0; c < 3; c++ {
					i := 0
					for py := -ps; py <= ps; py++ {
						for px := -ps; px <= ps; px++ {
							patch[i] = float64(src.Pix[src.offset(clampX(x+px), clampY(y+py))+c])
							i++
						}
					}

					var sum, weightSum float64
					for sy := -sa; sy <= sa; sy++ {
						cy := clampY(y + sy)
						for sx := -sa; sx <= sa; sx++ {
							cx := clampX(x + sx)
							var dist float64
							i := 0
							for py := -ps; py <= ps; py++ {
								row := clampY(cy+py) * w
								for px := -ps; px <= ps; px++ {
									d := patch[i] - float64(src.Pix[(row+clampX(cx+px))*4+c])
									dist += d * d
									i++
								}
							}
							wt := math.Exp(-(dist / patchLen) / hh)
							sum += float64(src.Pix[(cy*w+cx)*4+c]) * wt
							weightSum += wt
						}
					}
					if weightSum > 0 {
						dst.Pix[o+c] = clampByte(sum / weightSum)
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

func morphology(src *PixelBuffer, radius int, dilate bool) *PixelBuffer {
	w, h := src.Width, src.Height
	dst := NewPixelBuffer(w, h)
	parallelFor(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				o := src.offset(x, y)
				for c := 0; c < 3; c++ {
					best := uint8(255)
					if dilate {
						best = 0
					}
					for dy := -radius; dy <= radius; dy++ {
						py := clampInt(y+dy, 0, h-1)
						for dx := -radius; dx <= radius; dx++ {
							v := src.Pix[src.offset(clampInt(x+dx, 0, w-1), py)+c]
							if dilate && v > best || !dilate && v < best {
								best = v
							}
						}
					}
					dst.Pix[o+c] = best
				}
				dst.Pix[o+3] = src.Pix[o+3]
			}
		}
	})
	return dst
}

// Dilate is a max filter over a (2r+1)² square; alpha is passed through.
func Dilate(src *PixelBuffer, radius int) *PixelBuffer { return morphology(src, radius, true) }

// Erode is a min filter over a (2r+1)² square; alpha is passed through.
func Erode(src *PixelBuffer, radius int) *PixelBuffer { return morphology(src, radius, false) }

// MorphOpen is erosion followed by dilation.
func MorphOpen(src *PixelBuffer, radius int) *PixelBuffer {
	return Dilate(Erode(src, radius), radius)
}

// MorphClose is dilation followed by erosion.
func MorphClose(src *PixelBuffer, radius int) *PixelBuffer {
	return Erode(Dilate(src, radius), radius)
}
