package upscale

import "math"

// tileHistogram is the clipped luminance histogram of one CLAHE tile.
type tileHistogram struct {
	bins   [256]int
	limit  int
	excess int
	lut    [256]uint8
}

// clipHistogram builds the clipped histogram and equalization LUT for the tile [x0,x1)×[y0,y1).
// Clipped counts are spread back as floor(excess/256) per bin, so no bin ends above
// limit + floor(excess/256).
func clipHistogram(lum []uint8, width, x0, y0, x1, y1 int, clipLimit float64) tileHistogram {
	var t tileHistogram
	for y := y0; y < y1; y++ {
		for _, v := range lum[y*width+x0 : y*width+x1] {
			t.bins[v]++
		}
	}
	area := (x1 - x0) * (y1 - y0)
	t.limit = max(1, roundInt(clipLimit*float64(area)/256))
	for i, n := range t.bins {
		if n > t.limit {
			t.excess += n - t.limit
			t.bins[i] = t.limit
		}
	}
	if inc := t.excess / 256; inc > 0 {
		for i := range t.bins {
			t.bins[i] += inc
		}
	}

	scale := 255 / float64(area)
	sum := 0
	for i, n := range t.bins {
		sum += n
		t.lut[i] = clampByte(float64(sum) * scale)
	}
	return t
}

// CLAHE equalizes luminance per tile of a gridSize×gridSize grid and bilinearly blends
// the four nearest tile LUTs around each pixel. Each color channel moves by half of the
// luminance change. Alpha is copied.
func CLAHE(src *PixelBuffer, clipLimit float64, gridSize int) *PixelBuffer {
	w, h := src.Width, src.Height
	if gridSize <= 0 {
		gridSize = defaultCLAHEGrid
	}
	gridX := min(gridSize, w)
	gridY := min(gridSize, h)
	cellW := w / gridX
	cellH := h / gridY

	lum := make([]uint8, w*h)
	for i := range lum {
		o := i * 4
		lum[i] = clampByte(luminance(src.Pix[o], src.Pix[o+1], src.Pix[o+2]))
	}

	luts := make([][256]uint8, gridX*gridY)
	parallelFor(gridY, func(start, end int) {
		for gy := start; gy < end; gy++ {
			y0, y1 := gy*cellH, min((gy+1)*cellH, h)
			for gx := 0; gx < gridX; gx++ {
				x0, x1 := gx*cellW, min((gx+1)*cellW, w)
				luts[gy*gridX+gx] = clipHistogram(lum, w, x0, y0, x1, y1, clipLimit).lut
			}
		}
	})

	dst := NewPixelBuffer(w, h)
	parallelFor(h, func(start, end int) {
		for y := start; y < end; y++ {
			// Tile-center coordinates: tile g is centered at (g+0.5)·cell.
			cy := (float64(y)+0.5)/float64(cellH) - 0.5
			gy := math.Floor(cy)
			fy := cy - gy
			gy1 := clampInt(int(gy), 0, gridY-1)
			gy2 := clampInt(int(gy)+1, 0, gridY-1)
			for x := 0; x < w; x++ {
				cx := (float64(x)+0.5)/float64(cellW) - 0.5
				gx := math.Floor(cx)
				fx := cx - gx
				gx1 := clampInt(int(gx), 0, gridX-1)
				gx2 := clampInt(int(gx)+1, 0, gridX-1)

				i := y*w + x
				v := lum[i]
				top := float64(luts[gy1*gridX+gx1][v])*(1-fx) + float64(luts[gy1*gridX+gx2][v])*fx
				bottom := float64(luts[gy2*gridX+gx1][v])*(1-fx) + float64(luts[gy2*gridX+gx2][v])*fx
				shift := float64(roundInt(top*(1-fy)+bottom*fy)) - float64(v)

				o := i * 4
				for c := 0; c < 3; c++ {
					dst.Pix[o+c] = clampByte(float64(src.Pix[o+c]) + shift*0.5)
				}
				dst.Pix[o+3] = src.Pix[o+3]
			}
		}
	})
	return dst
}

// ACESTonemap linearizes with gamma 2.2, scales by exposure, applies the ACES filmic
// curve and re-encodes. Alpha is copied.
func ACESTonemap(src *PixelBuffer, exposure float64) *PixelBuffer {
	var lut [256]uint8
	for v := range lut {
		x := math.Pow(float64(v)/255, 2.2) * exposure
		mapped := (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
		lut[v] = clampByte(math.Pow(clamp01(mapped), 1/2.2) * 255)
	}
	dst := NewPixelBuffer(src.Width, src.Height)
	for i := 0; i < len(src.Pix); i += 4 {
		dst.Pix[i] = lut[src.Pix[i]]
		dst.Pix[i+1] = lut[src.Pix[i+1]]
		dst.Pix[i+2] = lut[src.Pix[i+2]]
		dst.Pix[i+3] = src.Pix[i+3]
	}
	return dst
}
