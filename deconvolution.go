package upscale

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// Kernel is a square, row-major convolution kernel.
type Kernel struct {
	Size    int
	Weights []float64
}

func (k Kernel) reflect() Kernel {
	n := len(k.Weights)
	out := Kernel{Size: k.Size, Weights: make([]float64, n)}
	for i, v := range k.Weights {
		out.Weights[n-1-i] = v
	}
	return out
}

func (k Kernel) sum() float64 {
	var sum float64
	for _, v := range k.Weights {
		sum += v
	}
	return sum
}

func (k Kernel) normalize() {
	sum := k.sum()
	if sum == 0 {
		return
	}
	for i := range k.Weights {
		k.Weights[i] /= sum
	}
}

// GaussianPSF builds a (ceil(2r)+1)² Gaussian point-spread function with
// standard deviation radius·strength, normalized to sum 1.
func GaussianPSF(radius, strength float64) Kernel {
	size := int(math.Ceil(radius*2)) + 1
	center := size / 2
	k := Kernel{Size: size, Weights: make([]float64, size*size)}
	denom := 2 * radius * radius * strength * strength
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x-center), float64(y-center)
			k.Weights[y*size+x] = math.Exp(-(dx*dx + dy*dy) / denom)
		}
	}
	k.normalize()
	return k
}

// MotionKernel rasterizes a line of length pixels at angle radians from the kernel
// center into a (ceil(2·length)+1)² kernel, normalized to sum 1.
func MotionKernel(length, angle float64) Kernel {
	size := int(math.Ceil(length*2)) + 1
	center := size / 2
	k := Kernel{Size: size, Weights: make([]float64, size*size)}
	dx, dy := math.Cos(angle), math.Sin(angle)
	for i := 0; float64(i) < length; i++ {
		kx := roundInt(float64(i)*dx) + center
		ky := roundInt(float64(i)*dy) + center
		if kx >= 0 && kx < size && ky >= 0 && ky < size {
			k.Weights[ky*size+kx] = 1
		}
	}
	k.normalize()
	return k
}

// RichardsonLucy restores src blurred by psf. Each iteration convolves the estimate
// with psf, forms the 8-bit ratio image observed/(convolved+ε)·255, convolves it with
// the reflected psf and multiplies it into the estimate. Alpha is copied.
func RichardsonLucy(src *PixelBuffer, psf Kernel, iterations int) (*PixelBuffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if psf.Size <= 0 || len(psf.Weights) != psf.Size*psf.Size {
		return nil, fmt.Errorf("%w: kernel of size %d with %d weights", ErrInvalidParameter, psf.Size, len(psf.Weights))
	}
	if sum := psf.sum(); sum == 0 || !isFinite(sum) {
		return nil, fmt.Errorf("%w: kernel weights sum to %v", ErrInvalidParameter, sum)
	}
	if iterations < 0 {
		return nil, fmt.Errorf("%w: iterations %d", ErrInvalidParameter, iterations)
	}

	reflected := psf.reflect()
	estimate := src.Clone()
	ratio := NewPixelBuffer(src.Width, src.Height)
	for iter := 0; iter < iterations; iter++ {
		convolved := convolve2D(estimate, psf.Weights, psf.Size)
		for i := 0; i < len(src.Pix); i += 4 {
			for c := 0; c < 3; c++ {
				conv := float64(convolved.Pix[i+c])
				if conv > 0 {
					ratio.Pix[i+c] = clampByte(float64(src.Pix[i+c]) / (conv + deconvEpsilon) * 255)
				} else {
					ratio.Pix[i+c] = 255
				}
			}
			ratio.Pix[i+3] = estimate.Pix[i+3]
		}

		correction := convolve2D(ratio, reflected.Weights, reflected.Size)
		for i := 0; i < len(estimate.Pix); i += 4 {
			for c := 0; c < 3; c++ {
				estimate.Pix[i+c] = clampByte(float64(estimate.Pix[i+c]) * float64(correction.Pix[i+c]) / 255)
			}
		}
	}
	return estimate, nil
}

// Deblur runs Richardson–Lucy with a Gaussian PSF. Zero iterations or radius select
// the defaults of 5 and 1.5.
func Deblur(src *PixelBuffer, iterations int, radius float64) (*PixelBuffer, error) {
	if iterations == 0 {
		iterations = generalDeconvIters
	}
	if radius == 0 {
		radius = 1.5
	}
	if !(radius > 0) || !isFinite(radius) {
		return nil, fmt.Errorf("%w: deblur radius %v", ErrInvalidParameter, radius)
	}
	return RichardsonLucy(src, GaussianPSF(radius, 1), iterations)
}

// MotionDeblur runs Richardson–Lucy with a linear motion kernel. Zero length or
// iterations select the defaults of 5 pixels and 3 iterations.
func MotionDeblur(src *PixelBuffer, length, angle float64, iterations int) (*PixelBuffer, error) {
	if length == 0 {
		length = 5
	}
	if iterations == 0 {
		iterations = motionDeconvIters
	}
	if !(length >= 1) || !isFinite(length) || !isFinite(angle) {
		return nil, fmt.Errorf("%w: motion length %v, angle %v", ErrInvalidParameter, length, angle)
	}
	return RichardsonLucy(src, MotionKernel(length, angle), iterations)
}

// DetectBlur measures the variance of the 4-neighbor Laplacian of luminance over
// interior pixels. Images without interior pixels report zero variance.
func DetectBlur(src *PixelBuffer) (BlurReport, error) {
	if err := src.Validate(); err != nil {
		return BlurReport{}, err
	}
	w, h := src.Width, src.Height
	lum := luminancePlane(src)

	var sum float64
	count := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			l := lum[i+1] + lum[i-1] + lum[i+w] + lum[i-w] - 4*lum[i]
			sum += l * l
			count++
		}
	}

	var r BlurReport
	if count > 0 {
		r.Variance = sum / float64(count)
	}
	r.IsBlurred = r.Variance < BlurVarianceThreshold
	r.Severity = clamp01((BlurVarianceThreshold - r.Variance) / BlurVarianceThreshold)
	r.HighFrequencyRatio = highFrequencyRatio(lum, w, h)
	return r, nil
}

// highFrequencyRatio is the share of non-DC spectral energy whose normalized radius
// exceeds a quarter cycle per pixel.
func highFrequencyRatio(lum []float64, w, h int) float64 {
	plane := make([][]float64, h)
	for y := range plane {
		plane[y] = lum[y*w : (y+1)*w]
	}
	freq := fft.FFT2Real(plane)

	dc := real(freq[0][0])*real(freq[0][0]) + imag(freq[0][0])*imag(freq[0][0])
	var total, high float64
	for y := 0; y < h; y++ {
		fy := float64(y) / float64(h)
		if y > h/2 {
			fy = float64(y-h) / float64(h)
		}
		for x := 0; x < w; x++ {
			if x == 0 && y == 0 {
				continue
			}
			fx := float64(x) / float64(w)
			if x > w/2 {
				fx = float64(x-w) / float64(w)
			}
			v := freq[y][x]
			e := real(v)*real(v) + imag(v)*imag(v)
			total += e
			if math.Hypot(fx, fy) > 0.25 {
				high += e
			}
		}
	}
	// Rounding noise of the transform on flat images.
	if total <= 1e-12*math.Max(dc, 1) {
		return 0
	}
	return high / total
}
