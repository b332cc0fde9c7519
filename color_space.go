package upscale

import "math"

// Planes holds a planar BT.601 YCbCr image with its alpha channel.
type Planes struct {
	Width, Height int
	Y, Cb, Cr, A  []uint8
}

func rgbToYCbCr(r, g, b uint8) (uint8, uint8, uint8) {
	fr, fg, fb := float64(r), float64(g), float64(b)
	y := 0.299*fr + 0.587*fg + 0.114*fb
	cb := -0.169*fr - 0.331*fg + 0.5*fb + 128
	cr := 0.5*fr - 0.419*fg - 0.081*fb + 128
	return clampByte(y), clampByte(cb), clampByte(cr)
}

func ycbcrToRGB(y, cb, cr uint8) (uint8, uint8, uint8) {
	fy := float64(y)
	fcb := float64(cb) - 128
	fcr := float64(cr) - 128
	r := fy + 1.402*fcr
	g := fy - 0.344*fcb - 0.714*fcr
	b := fy + 1.772*fcb
	return clampByte(r), clampByte(g), clampByte(b)
}

// RGBToYCbCr converts a buffer to planar YCbCr using BT.601 coefficients.
func RGBToYCbCr(src *PixelBuffer) Planes {
	n := src.Width * src.Height
	p := Planes{
		Width: src.Width, Height: src.Height,
		Y: make([]uint8, n), Cb: make([]uint8, n), Cr: make([]uint8, n), A: make([]uint8, n),
	}
	for i := 0; i < n; i++ {
		o := i * 4
		p.Y[i], p.Cb[i], p.Cr[i] = rgbToYCbCr(src.Pix[o], src.Pix[o+1], src.Pix[o+2])
		p.A[i] = src.Pix[o+3]
	}
	return p
}

// YCbCrToRGB converts planes back to an interleaved buffer.
func YCbCrToRGB(p Planes) *PixelBuffer {
	dst := NewPixelBuffer(p.Width, p.Height)
	for i := 0; i < p.Width*p.Height; i++ {
		o := i * 4
		dst.Pix[o], dst.Pix[o+1], dst.Pix[o+2] = ycbcrToRGB(p.Y[i], p.Cb[i], p.Cr[i])
		dst.Pix[o+3] = p.A[i]
	}
	return dst
}

// ChromaSubsample averages non-overlapping factor×factor blocks of both chroma planes.
// Blocks crossing the image boundary replicate the last row or column.
func ChromaSubsample(cb, cr []uint8, width, height, factor int) (subCb, subCr []uint8, subW, subH int) {
	if factor < 1 {
		factor = 1
	}
	subW = (width + factor - 1) / factor
	subH = (height + factor - 1) / factor
	subCb = make([]uint8, subW*subH)
	subCr = make([]uint8, subW*subH)
	count := float64(factor * factor)
	for y := 0; y < subH; y++ {
		for x := 0; x < subW; x++ {
			var sumCb, sumCr float64
			for dy := 0; dy < factor; dy++ {
				py := min(y*factor+dy, height-1)
				for dx := 0; dx < factor; dx++ {
					px := min(x*factor+dx, width-1)
					sumCb += float64(cb[py*width+px])
					sumCr += float64(cr[py*width+px])
				}
			}
			subCb[y*subW+x] = clampByte(sumCb / count)
			subCr[y*subW+x] = clampByte(sumCr / count)
		}
	}
	return subCb, subCr, subW, subH
}

// ChromaUpsample bilinearly resamples the subsampled chroma grid to targetW×targetH.
func ChromaUpsample(cb, cr []uint8, subW, subH, targetW, targetH int) (upCb, upCr []uint8) {
	upCb = make([]uint8, targetW*targetH)
	upCr = make([]uint8, targetW*targetH)
	scaleX := float64(subW) / float64(targetW)
	scaleY := float64(subH) / float64(targetH)
	parallelFor(targetH, func(start, end int) {
		for y := start; y < end; y++ {
			sy := float64(y) * scaleY
			for x := 0; x < targetW; x++ {
				sx := float64(x) * scaleX
				i := y*targetW + x
				upCb[i] = clampByte(bilinearSample(cb, subW, subH, 1, 0, sx, sy))
				upCr[i] = clampByte(bilinearSample(cr, subW, subH, 1, 0, sx, sy))
			}
		}
	})
	return upCb, upCr
}

// planeToBuffer spreads a single plane into all four channels, ready for the RGBA resamplers.
func planeToBuffer(plane []uint8, w, h int) *PixelBuffer {
	b := NewPixelBuffer(w, h)
	for i, v := range plane {
		o := i * 4
		b.Pix[o], b.Pix[o+1], b.Pix[o+2], b.Pix[o+3] = v, v, v, v
	}
	return b
}

func bufferChannel(b *PixelBuffer, c int) []uint8 {
	out := make([]uint8, b.Width*b.Height)
	for i := range out {
		out[i] = b.Pix[i*4+c]
	}
	return out
}

// nearestPlane upsamples a single plane with floor(x/scale) mapping.
func nearestPlane(plane []uint8, w, h, dw, dh int, scale float64) []uint8 {
	out := make([]uint8, dw*dh)
	for y := 0; y < dh; y++ {
		sy := min(int(math.Floor(float64(y)/scale)), h-1)
		for x := 0; x < dw; x++ {
			sx := min(int(math.Floor(float64(x)/scale)), w-1)
			out[y*dw+x] = plane[sy*w+sx]
		}
	}
	return out
}
