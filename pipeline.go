package upscale

import (
	"log/slog"
	"math"
	"time"
)

// PassCount returns the number of 2× passes, ceil(log2(scale)), used for multi-pass upscaling.
func PassCount(scale float64) int {
	if scale <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(scale) - 1e-9))
}

// passScales splits scale into PassCount(scale) factors. All but the last are 2,
// the last takes the remainder so the product equals scale.
func passScales(scale float64) []float64 {
	n := PassCount(scale)
	scales := make([]float64, n)
	for i := range scales {
		scales[i] = 2
	}
	scales[n-1] = scale / math.Pow(2, float64(n-1))
	return scales
}

// Upscale runs the pipeline: optional pre-denoise, the selected strategy (split into
// 2× passes when multi-pass applies) and optional CLAHE at the final resolution.
// The input buffer is never modified.
func Upscale(src *PixelBuffer, opts Options, mods ...func(o *Options)) (*PixelBuffer, error) {
	for _, mod := range mods {
		mod(&opts)
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger := Logger()
	strategy, ok := resolveStrategy(opts.Method)
	if !ok {
		logger.Warn("unknown upscale method, falling back to bicubic", slog.Int("method", int(opts.Method)))
	}

	result := src
	if opts.Denoise {
		result = stage(logger, "denoise", opts, result, func(b *PixelBuffer) *PixelBuffer {
			return denoise(b, opts.DenoiseMethod, opts.DenoiseStrength)
		})
	}

	scales := []float64{opts.Scale}
	if opts.EnableMultiPass && opts.Scale >= MaxSinglePassScale {
		scales = passScales(opts.Scale)
	}
	for i, s := range scales {
		result = stage(logger, "upscale", opts, result, func(b *PixelBuffer) *PixelBuffer {
			return strategy(b, s, &opts)
		}, slog.Int("pass", i+1), slog.Int("passes", len(scales)), slog.Float64("passScale", s))
	}

	if opts.EnableCLAHE {
		result = stage(logger, "clahe", opts, result, func(b *PixelBuffer) *PixelBuffer {
			return CLAHE(b, opts.CLAHEClipLimit, defaultCLAHEGrid)
		})
	}

	if result == src {
		result = src.Clone()
	}
	return result, nil
}

func stage(logger *slog.Logger, name string, opts Options, in *PixelBuffer, fn func(*PixelBuffer) *PixelBuffer, attrs ...any) *PixelBuffer {
	started := time.Now()
	out := fn(in)
	logger.Debug("pipeline stage",
		append([]any{
			slog.String("stage", name),
			slog.String("method", opts.Method.String()),
			slog.Float64("scale", opts.Scale),
			slog.Int("width", out.Width),
			slog.Int("height", out.Height),
			slog.Duration("elapsed", time.Since(started)),
		}, attrs...)...)
	return out
}

// denoise applies the pre-upscale filter. Bilateral uses spatial radius 2·strength;
// non-local means uses 5×5 patches in a 21×21 window with h = 10·strength.
func denoise(src *PixelBuffer, method DenoiseMethod, strength float64) *PixelBuffer {
	if method == DenoiseNLM {
		return NonLocalMeans(src, nlmPatchSize, nlmSearchArea, 10*strength)
	}
	return BilateralFilter(src, 2*strength, bilateralColorSigma)
}
