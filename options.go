package upscale

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// DefaultOptions returns the canonical parameters for a strategy.
// Unknown methods get the bicubic defaults with the method value kept as is.
func DefaultOptions(m Method) Options {
	o := Options{
		Method:             m,
		Scale:              defaultScale,
		SharpnessAmount:    1.3,
		SharpnessRadius:    0.7,
		SharpnessThreshold: 2,
		EdgeThreshold:      defaultEdgeThreshold,
		ContrastBoost:      defaultContrastBoost,
		DenoiseMethod:      DenoiseBilateral,
		DenoiseStrength:    defaultDenoiseStrength,
		CLAHEClipLimit:     defaultCLAHEClipLimit,
	}
	switch m {
	case MethodLanczosAdaptive:
		o.SharpnessAmount = 1.5
	case MethodBicubicHighPass:
		o.SharpnessRadius = 1.5
	case MethodFrequency:
		o.SharpnessAmount = 1.5
	case MethodFractal:
		o.SharpnessRadius = 0.4
	case MethodChroma:
		o.SharpnessAmount = 1.2
		o.SharpnessRadius = 0.8
	}
	return o
}

// presets mirror the quick presets of the interactive UI.
var presets = map[string]func() Options{
	"photo": func() Options {
		o := DefaultOptions(MethodLanczosAdaptive)
		o.SharpnessAmount = 1.5
		o.SharpnessRadius = 0.7
		o.Denoise = true
		o.DenoiseStrength = 1
		o.EnableCLAHE = true
		return o
	},
	"text": func() Options {
		o := DefaultOptions(MethodLanczosAdaptive)
		o.Scale = 4
		o.SharpnessAmount = 2
		o.SharpnessRadius = 0.5
		o.EnableMultiPass = true
		return o
	},
	"screenshot": func() Options {
		o := DefaultOptions(MethodLanczosAdaptive)
		o.SharpnessAmount = 1.8
		o.SharpnessRadius = 0.6
		o.Denoise = true
		o.DenoiseStrength = 0.5
		o.EnableCLAHE = true
		return o
	},
	"art": func() Options {
		o := DefaultOptions(MethodChroma)
		o.SharpnessAmount = 1.2
		o.SharpnessRadius = 0.8
		o.EnableCLAHE = true
		return o
	},
}

// Preset returns named options: photo, text, screenshot or art.
func Preset(name string) (Options, error) {
	p, ok := presets[name]
	if !ok {
		return Options{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidParameter, name)
	}
	return p(), nil
}

// PresetNames lists the available presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate rejects degenerate parameters that would otherwise propagate NaNs.
func (o Options) Validate() error {
	if !isFinite(o.Scale) || o.Scale <= 0 {
		return fmt.Errorf("%w: scale %v", ErrInvalidParameter, o.Scale)
	}
	if o.Scale > MaxSinglePassScale && !o.EnableMultiPass {
		return fmt.Errorf("%w: scale %v exceeds %v without multi-pass", ErrInvalidParameter, o.Scale, MaxSinglePassScale)
	}
	if !isFinite(o.SharpnessRadius) || o.SharpnessRadius <= 0 {
		return fmt.Errorf("%w: sharpness radius %v", ErrInvalidParameter, o.SharpnessRadius)
	}
	if !isFinite(o.SharpnessAmount) || o.SharpnessAmount < 0 {
		return fmt.Errorf("%w: sharpness amount %v", ErrInvalidParameter, o.SharpnessAmount)
	}
	if !isFinite(o.SharpnessThreshold) || o.SharpnessThreshold < 0 {
		return fmt.Errorf("%w: sharpness threshold %v", ErrInvalidParameter, o.SharpnessThreshold)
	}
	if !isFinite(o.EdgeThreshold) || o.EdgeThreshold < 0 || o.EdgeThreshold > 255 {
		return fmt.Errorf("%w: edge threshold %v", ErrInvalidParameter, o.EdgeThreshold)
	}
	if !isFinite(o.ContrastBoost) || o.ContrastBoost < 0 {
		return fmt.Errorf("%w: contrast boost %v", ErrInvalidParameter, o.ContrastBoost)
	}
	if !isFinite(o.CLAHEClipLimit) || o.CLAHEClipLimit <= 0 {
		return fmt.Errorf("%w: CLAHE clip limit %v", ErrInvalidParameter, o.CLAHEClipLimit)
	}
	if o.Denoise {
		if !isFinite(o.DenoiseStrength) || o.DenoiseStrength <= 0 {
			return fmt.Errorf("%w: denoise strength %v", ErrInvalidParameter, o.DenoiseStrength)
		}
		if o.DenoiseMethod != DenoiseBilateral && o.DenoiseMethod != DenoiseNLM {
			return fmt.Errorf("%w: denoise method %d", ErrInvalidParameter, int(o.DenoiseMethod))
		}
	}
	return nil
}

// ReadOptions decodes JSON options on top of the defaults of the method named in the document.
// The method key is required, other absent fields keep their defaults.
func ReadOptions(r io.Reader) (Options, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Options{}, err
	}
	var head struct {
		Method *Method `json:"method"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Options{}, fmt.Errorf("decode options: %w", err)
	}
	if head.Method == nil {
		return Options{}, fmt.Errorf("decode options: %w: method is required", ErrUnsupportedMethod)
	}
	o := DefaultOptions(*head.Method)
	if err := json.Unmarshal(data, &o); err != nil {
		return Options{}, fmt.Errorf("decode options: %w", err)
	}
	return o, nil
}

// ReadOptionsFile loads options from a JSON file.
func ReadOptionsFile(path string) (Options, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Options{}, err
	}
	defer f.Close()
	return ReadOptions(f)
}
