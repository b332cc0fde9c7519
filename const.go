package upscale

const (
	// MaxSinglePassScale is the largest scale handled without multi-pass.
	MaxSinglePassScale = 4.0

	defaultScale           = 2.0
	defaultEdgeThreshold   = 50.0
	defaultContrastBoost   = 1.2
	defaultDenoiseStrength = 1.0
	defaultCLAHEClipLimit  = 2.0
	defaultCLAHEGrid       = 8
	defaultLanczosA        = 3

	highPassStrength    = 0.5
	highPassBlend       = 0.5
	frequencyLowRadius  = 3.0
	chromaFactor        = 2
	directionalMinMag   = 10.0
	bilateralColorSigma = 50.0
	nlmPatchSize        = 5
	nlmSearchArea       = 21
	deconvEpsilon       = 1e-6
	generalDeconvIters  = 5
	motionDeconvIters   = 3
)

// BlurVarianceThreshold is the Laplacian variance below which DetectBlur reports a blurred image.
var BlurVarianceThreshold = 100.0
