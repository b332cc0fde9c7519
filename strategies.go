package upscale

import "math"

// strategyFunc upscales src by scale. It must not modify src.
type strategyFunc func(src *PixelBuffer, scale float64, o *Options) *PixelBuffer

var strategies = map[Method]strategyFunc{
	MethodBicubic:         bicubicStrategy,
	MethodLanczos:         lanczosStrategy,
	MethodBicubicUnsharp:  bicubicUnsharpStrategy,
	MethodBicubicHighPass: bicubicHighPassStrategy,
	MethodLanczosAdaptive: lanczosAdaptiveStrategy,
	MethodEdgeAware:       edgeAwareStrategy,
	MethodFrequency:       frequencyStrategy,
	MethodFractal:         fractalStrategy,
	MethodChroma:          chromaStrategy,
}

// resolveStrategy returns the strategy for m, or bicubic with ok == false for unknown values.
func resolveStrategy(m Method) (fn strategyFunc, ok bool) {
	if fn, ok := strategies[m]; ok {
		return fn, true
	}
	return bicubicStrategy, false
}

func bicubicStrategy(src *PixelBuffer, scale float64, _ *Options) *PixelBuffer {
	return BicubicUpscale(src, scale)
}

func lanczosStrategy(src *PixelBuffer, scale float64, _ *Options) *PixelBuffer {
	return LanczosUpscale(src, scale, defaultLanczosA)
}

func bicubicUnsharpStrategy(src *PixelBuffer, scale float64, o *Options) *PixelBuffer {
	up := BicubicUpscale(src, scale)
	return UnsharpMask(up, o.SharpnessAmount, o.SharpnessRadius, o.SharpnessThreshold)
}

func bicubicHighPassStrategy(src *PixelBuffer, scale float64, o *Options) *PixelBuffer {
	up := BicubicUpscale(src, scale)
	hp := HighPass(up, o.SharpnessRadius, highPassStrength)
	return BlendHighPass(up, hp, highPassBlend)
}

func lanczosAdaptiveStrategy(src *PixelBuffer, scale float64, o *Options) *PixelBuffer {
	up := LanczosUpscale(src, scale, defaultLanczosA)
	return AdaptiveUnsharpMask(up, o.SharpnessAmount, o.SharpnessRadius, o.SharpnessThreshold)
}

func edgeAwareStrategy(src *PixelBuffer, scale float64, o *Options) *PixelBuffer {
	return EdgeAwareUpscale(src, scale, o.EdgeThreshold)
}

// edgeWeight is the smooth cubic falloff 1 - t²(3 - 2t) used on edge pixels.
// It is non-negative on the [0, 2] tap range.
func edgeWeight(t float64) float64 {
	if t < 0 {
		t = -t
	}
	return 1 - t*t*(3-2*t)
}

// edgeCubicSample takes the normalized 4×4 edgeWeight average of channel c around (sx, sy).
func edgeCubicSample(src *PixelBuffer, sx, sy float64, c int) float64 {
	xi, yi := int(math.Floor(sx)), int(math.Floor(sy))
	fx, fy := sx-float64(xi), sy-float64(yi)
	var value, weight float64
	for dy := -1; dy <= 2; dy++ {
		py := clampInt(yi+dy, 0, src.Height-1)
		ky := edgeWeight(fy - float64(dy))
		for dx := -1; dx <= 2; dx++ {
			px := clampInt(xi+dx, 0, src.Width-1)
			k := edgeWeight(fx-float64(dx)) * ky
			value += float64(src.Pix[src.offset(px, py)+c]) * k
			weight += k
		}
	}
	if weight == 0 {
		return float64(src.Pix[src.offset(clampInt(xi, 0, src.Width-1), clampInt(yi, 0, src.Height-1))+c])
	}
	return value / weight
}

// EdgeAwareUpscale switches the interpolation kernel per destination pixel. When the mean
// luminance edge strength of the 2×2 source neighborhood exceeds edgeThreshold/255 the
// cubic branch is used, otherwise bilinear. All four channels are resampled.
func EdgeAwareUpscale(src *PixelBuffer, scale, edgeThreshold float64) *PixelBuffer {
	edges := LuminanceEdgeMap(src)
	limit := edgeThreshold / 255
	w, h := src.Width, src.Height
	dw, dh := scaledSize(w, h, scale)
	dst := NewPixelBuffer(dw, dh)

	parallelFor(dh, func(start, end int) {
		for y := start; y < end; y++ {
			sy := float64(y) / scale
			yi := int(math.Floor(sy))
			for x := 0; x < dw; x++ {
				sx := float64(x) / scale
				xi := int(math.Floor(sx))

				var strength float64
				for dy := 0; dy <= 1; dy++ {
					py := min(yi+dy, h-1)
					for dx := 0; dx <= 1; dx++ {
						strength += float64(edges[py*w+min(xi+dx, w-1)])
					}
				}
				isEdge := strength/4 > limit

				o := dst.offset(x, y)
				for c := 0; c < 4; c++ {
					if isEdge {
						dst.Pix[o+c] = clampByte(edgeCubicSample(src, sx, sy, c))
					} else {
						dst.Pix[o+c] = clampByte(bilinearSample(src.Pix, w, h, 4, c, sx, sy))
					}
				}
			}
		}
	})
	return dst
}

// FrequencyUpscale splits src into a low band (Gaussian radius 3) and a high band
// (original - low + 128), upscales both bilinearly and recombines them as
// low + (high - 128)·detail. The output is opaque unless preserveAlpha is set,
// in which case the source alpha is resampled bilinearly.
func FrequencyUpscale(src *PixelBuffer, scale, detail float64, preserveAlpha bool) *PixelBuffer {
	low := GaussianBlur(src, frequencyLowRadius)
	high := NewPixelBuffer(src.Width, src.Height)
	for i, v := range src.Pix {
		high.Pix[i] = clampByte(float64(v) - float64(low.Pix[i]) + 128)
	}

	lowUp := BilinearResize(low, scale)
	highUp := BilinearResize(high, scale)
	var alpha *PixelBuffer
	if preserveAlpha {
		alpha = BilinearResize(src, scale)
	}

	dst := NewPixelBuffer(lowUp.Width, lowUp.Height)
	parallelFor(dst.Height, func(start, end int) {
		for i := start * dst.Width * 4; i < end*dst.Width*4; i += 4 {
			for c := 0; c < 3; c++ {
				dst.Pix[i+c] = clampByte(float64(lowUp.Pix[i+c]) + (float64(highUp.Pix[i+c])-128)*detail)
			}
			dst.Pix[i+3] = 255
			if alpha != nil {
				dst.Pix[i+3] = alpha.Pix[i+3]
			}
		}
	})
	return dst
}

func frequencyStrategy(src *PixelBuffer, scale float64, o *Options) *PixelBuffer {
	return FrequencyUpscale(src, scale, o.SharpnessAmount, o.PreserveAlpha)
}

// overlay is the Overlay blend mode on normalized values, b being the base layer.
func overlay(b, o float64) float64 {
	if b < 0.5 {
		return 2 * b * o
	}
	return 1 - 2*(1-b)*(1-o)
}

// FractalUpscale upscales bilinearly, overlays a Gaussian-blurred copy (the base layer)
// with the sharp copy, then pushes values away from mid-gray by contrast.
// The output is opaque unless preserveAlpha is set.
func FractalUpscale(src *PixelBuffer, scale, blurRadius, contrast float64, preserveAlpha bool) *PixelBuffer {
	sharp := BilinearResize(src, scale)
	blurred := GaussianBlur(sharp, blurRadius)

	dst := NewPixelBuffer(sharp.Width, sharp.Height)
	parallelFor(dst.Height, func(start, end int) {
		for i := start * dst.Width * 4; i < end*dst.Width*4; i += 4 {
			for c := 0; c < 3; c++ {
				v := overlay(float64(blurred.Pix[i+c])/255, float64(sharp.Pix[i+c])/255)
				blended := float64(roundInt(v * 255))
				dst.Pix[i+c] = clampByte(128 + (blended-128)*contrast)
			}
			dst.Pix[i+3] = 255
			if preserveAlpha {
				dst.Pix[i+3] = sharp.Pix[i+3]
			}
		}
	})
	return dst
}

func fractalStrategy(src *PixelBuffer, scale float64, o *Options) *PixelBuffer {
	return FractalUpscale(src, scale, o.SharpnessRadius, o.ContrastBoost, o.PreserveAlpha)
}

// ChromaUpscale upscales luminance with the Lanczos kernel while chroma is subsampled
// by chromaFactor and upsampled bilinearly. Alpha is resized nearest-neighbor.
func ChromaUpscale(src *PixelBuffer, scale float64) *PixelBuffer {
	planes := RGBToYCbCr(src)
	dw, dh := scaledSize(src.Width, src.Height, scale)

	yUp := LanczosUpscale(planeToBuffer(planes.Y, src.Width, src.Height), scale, defaultLanczosA)
	subCb, subCr, subW, subH := ChromaSubsample(planes.Cb, planes.Cr, src.Width, src.Height, chromaFactor)
	cb, cr := ChromaUpsample(subCb, subCr, subW, subH, dw, dh)

	return YCbCrToRGB(Planes{
		Width:  dw,
		Height: dh,
		Y:      bufferChannel(yUp, 0),
		Cb:     cb,
		Cr:     cr,
		A:      nearestPlane(planes.A, src.Width, src.Height, dw, dh, scale),
	})
}

func chromaStrategy(src *PixelBuffer, scale float64, _ *Options) *PixelBuffer {
	return ChromaUpscale(src, scale)
}
