package upscale

import "math"

// UnsharpMask adds (original - blur)·amount to every channel where the difference
// exceeds threshold. Samples at or below the threshold pass through unchanged.
func UnsharpMask(src *PixelBuffer, amount, radius, threshold float64) *PixelBuffer {
	blurred := GaussianBlur(src, radius)
	dst := NewPixelBuffer(src.Width, src.Height)
	parallelFor(src.Height, func(start, end int) {
		for i := start * src.Width * 4; i < end*src.Width*4; i++ {
			orig := float64(src.Pix[i])
			diff := orig - float64(blurred.Pix[i])
			if math.Abs(diff) > threshold {
				dst.Pix[i] = clampByte(orig + diff*amount)
			} else {
				dst.Pix[i] = src.Pix[i]
			}
		}
	})
	return dst
}

// HighPass returns 128 + (original - blur)·strength per channel, so flat regions map to mid-gray.
func HighPass(src *PixelBuffer, radius, strength float64) *PixelBuffer {
	blurred := GaussianBlur(src, radius)
	dst := NewPixelBuffer(src.Width, src.Height)
	parallelFor(src.Height, func(start, end int) {
		for i := start * src.Width * 4; i < end*src.Width*4; i++ {
			dst.Pix[i] = clampByte(128 + (float64(src.Pix[i])-float64(blurred.Pix[i]))*strength)
		}
	})
	return dst
}

// AdaptiveUnsharpMask is UnsharpMask with the amount scaled by EdgeMask, so edges
// get up to twice the base sharpening. Only color channels are sharpened.
func AdaptiveUnsharpMask(src *PixelBuffer, amount, radius, threshold float64) *PixelBuffer {
	blurred := GaussianBlur(src, radius)
	mask := EdgeMask(src)
	return maskedSharpen(src, blurred, mask, func(orig, blur, m float64) float64 {
		diff := orig - blur
		if math.Abs(diff) <= threshold {
			return orig
		}
		return orig + diff*amount*m
	})
}

// AdaptiveHighPass is HighPass with strength scaled by EdgeMask on the color channels.
func AdaptiveHighPass(src *PixelBuffer, radius, strength float64) *PixelBuffer {
	blurred := GaussianBlur(src, radius)
	mask := EdgeMask(src)
	return maskedSharpen(src, blurred, mask, func(orig, blur, m float64) float64 {
		return 128 + (orig-blur)*strength*m
	})
}

func maskedSharpen(src, blurred *PixelBuffer, mask []float32, fn func(orig, blur, m float64) float64) *PixelBuffer {
	w := src.Width
	dst := NewPixelBuffer(w, src.Height)
	parallelFor(src.Height, func(start, end int) {
		for p := start * w; p < end*w; p++ {
			o := p * 4
			m := float64(mask[p])
			for c := 0; c < 3; c++ {
				dst.Pix[o+c] = clampByte(fn(float64(src.Pix[o+c]), float64(blurred.Pix[o+c]), m))
			}
			dst.Pix[o+3] = src.Pix[o+3]
		}
	})
	return dst
}

// BlendHighPass adds (hp - 128)·strength to the color channels of base. Alpha comes from base.
// Both buffers must have the same dimensions.
func BlendHighPass(base, hp *PixelBuffer, strength float64) *PixelBuffer {
	dst := NewPixelBuffer(base.Width, base.Height)
	for i := 0; i < len(base.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			dst.Pix[i+c] = clampByte(float64(base.Pix[i+c]) + (float64(hp.Pix[i+c])-128)*strength)
		}
		dst.Pix[i+3] = base.Pix[i+3]
	}
	return dst
}
