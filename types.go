package upscale

import (
	"fmt"
	"strings"
)

// Method identifies an upscaling strategy.
type Method int

const (
	MethodBicubic Method = iota
	MethodLanczos
	MethodBicubicUnsharp
	MethodBicubicHighPass
	MethodLanczosAdaptive
	MethodEdgeAware
	MethodFrequency
	MethodFractal
	MethodChroma
)

var methodNames = [...]string{
	MethodBicubic:         "bicubic",
	MethodLanczos:         "lanczos",
	MethodBicubicUnsharp:  "bicubic+unsharp",
	MethodBicubicHighPass: "bicubic+highpass",
	MethodLanczosAdaptive: "lanczos+adaptive",
	MethodEdgeAware:       "edgeaware",
	MethodFrequency:       "frequency",
	MethodFractal:         "fractal",
	MethodChroma:          "chroma",
}

var methodDescriptions = [...]string{
	MethodBicubic:         "Bicubic interpolation over 16 neighboring pixels",
	MethodLanczos:         "Lanczos resampling with a sinc window, sharper than bicubic",
	MethodBicubicUnsharp:  "Bicubic followed by a thresholded unsharp mask",
	MethodBicubicHighPass: "Bicubic with a blended high-pass layer for edge definition",
	MethodLanczosAdaptive: "Lanczos with sharpening scaled by local edge strength",
	MethodEdgeAware:       "Cubic weights on edges, bilinear on smooth areas",
	MethodFrequency:       "Low and high frequency layers upscaled separately",
	MethodFractal:         "Blurred overlay with contrast recovery",
	MethodChroma:          "Luma and chroma processed separately for cleaner color",
}

// Methods returns all strategies in declaration order.
func Methods() []Method {
	out := make([]Method, len(methodNames))
	for i := range methodNames {
		out[i] = Method(i)
	}
	return out
}

func (m Method) valid() bool {
	return m >= 0 && int(m) < len(methodNames)
}

func (m Method) String() string {
	if !m.valid() {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// Description is a one-line human readable summary of the strategy.
func (m Method) Description() string {
	if !m.valid() {
		return ""
	}
	return methodDescriptions[m]
}

// ParseMethod resolves a strategy name such as "lanczos+adaptive".
func ParseMethod(s string) (Method, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range methodNames {
		if name == s {
			return Method(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMethod, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	v, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// DenoiseMethod selects the pre-upscale noise filter.
type DenoiseMethod int

const (
	DenoiseBilateral DenoiseMethod = iota
	DenoiseNLM
)

func (d DenoiseMethod) String() string {
	switch d {
	case DenoiseBilateral:
		return "bilateral"
	case DenoiseNLM:
		return "nlm"
	default:
		return fmt.Sprintf("DenoiseMethod(%d)", int(d))
	}
}

// ParseDenoiseMethod resolves "bilateral" or "nlm" (also "non-local-means").
func ParseDenoiseMethod(s string) (DenoiseMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bilateral", "":
		return DenoiseBilateral, nil
	case "nlm", "non-local-means":
		return DenoiseNLM, nil
	default:
		return 0, fmt.Errorf("%w: denoise method %q", ErrInvalidParameter, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d DenoiseMethod) MarshalText() ([]byte, error) {
	if d != DenoiseBilateral && d != DenoiseNLM {
		return nil, fmt.Errorf("%w: denoise method %d", ErrInvalidParameter, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DenoiseMethod) UnmarshalText(text []byte) error {
	v, err := ParseDenoiseMethod(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Options controls a single pipeline invocation.
type Options struct {
	Method             Method        `json:"method"`
	Scale              float64       `json:"scale"`
	SharpnessAmount    float64       `json:"sharpnessAmount"`
	SharpnessRadius    float64       `json:"sharpnessRadius"`
	SharpnessThreshold float64       `json:"sharpnessThreshold"`
	EdgeThreshold      float64       `json:"edgeThreshold"` // 0-255
	ContrastBoost      float64       `json:"contrastBoost"`
	Denoise            bool          `json:"denoise"`
	DenoiseMethod      DenoiseMethod `json:"denoiseMethod"`
	DenoiseStrength    float64       `json:"denoiseStrength"`
	EnableCLAHE        bool          `json:"enableCLAHE"`
	CLAHEClipLimit     float64       `json:"claheClipLimit"`
	EnableMultiPass    bool          `json:"enableMultiPass"`
	// PreserveAlpha makes the frequency and fractal strategies resample source alpha
	// instead of forcing the output opaque.
	PreserveAlpha bool `json:"preserveAlpha"`
}

// BlurReport is the result of DetectBlur.
type BlurReport struct {
	Variance  float64 `json:"variance"`
	IsBlurred bool    `json:"isBlurred"`
	Severity  float64 `json:"severity"`
	// HighFrequencyRatio is the share of non-DC spectral energy above half the Nyquist
	// radius, in [0,1]. Sharp images score higher.
	HighFrequencyRatio float64 `json:"highFrequencyRatio"`
}
