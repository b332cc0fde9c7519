package upscale

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParseMethodRoundTrip(t *testing.T) {
	for _, m := range Methods() {
		got, err := ParseMethod(m.String())
		if err != nil {
			t.Fatalf("parse %q: %v", m, err)
		}
		if got != m {
			t.Fatalf("parse %q = %v", m, got)
		}
	}
	if got, err := ParseMethod("  Lanczos+Adaptive "); err != nil || got != MethodLanczosAdaptive {
		t.Fatalf("case-insensitive parse: %v, %v", got, err)
	}
	if _, err := ParseMethod("waifu2x"); !errors.Is(err, ErrUnsupportedMethod) {
		t.Fatalf("expected ErrUnsupportedMethod, got %v", err)
	}
	if s := Method(99).String(); s != "Method(99)" {
		t.Fatalf("unknown method string %q", s)
	}
}

func TestMethodDescription(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Methods() {
		d := m.Description()
		if d == "" || seen[d] {
			t.Fatalf("%s: missing or duplicate description %q", m, d)
		}
		seen[d] = true
	}
	if d := Method(42).Description(); d != "" {
		t.Fatalf("unknown method description %q", d)
	}
}

func TestMethodJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		M Method `json:"m"`
	}{MethodLanczosAdaptive})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"m":"lanczos+adaptive"}` {
		t.Fatalf("marshal = %s", data)
	}
	if _, err := json.Marshal(Method(-1)); err == nil {
		t.Fatalf("expected error marshaling invalid method")
	}
}

func TestParseDenoiseMethod(t *testing.T) {
	cases := map[string]DenoiseMethod{
		"":                DenoiseBilateral,
		"bilateral":       DenoiseBilateral,
		"NLM":             DenoiseNLM,
		"non-local-means": DenoiseNLM,
	}
	for in, want := range cases {
		got, err := ParseDenoiseMethod(in)
		if err != nil || got != want {
			t.Fatalf("ParseDenoiseMethod(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseDenoiseMethod("median"); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestDefaultOptionsAreValid(t *testing.T) {
	for _, m := range Methods() {
		o := DefaultOptions(m)
		if o.Method != m {
			t.Fatalf("%s: method %v", m, o.Method)
		}
		if err := o.Validate(); err != nil {
			t.Fatalf("%s: %v", m, err)
		}
		o.Denoise = true
		o.DenoiseMethod = DenoiseNLM
		if err := o.Validate(); err != nil {
			t.Fatalf("%s with nlm: %v", m, err)
		}
	}
	if r := DefaultOptions(MethodFractal).SharpnessRadius; r != 0.4 {
		t.Fatalf("fractal radius %v", r)
	}
	if a := DefaultOptions(MethodLanczosAdaptive).SharpnessAmount; a != 1.5 {
		t.Fatalf("lanczos+adaptive amount %v", a)
	}
}

func TestValidateRejects(t *testing.T) {
	for name, mod := range map[string]func(o *Options){
		"negative scale":   func(o *Options) { o.Scale = -2 },
		"infinite scale":   func(o *Options) { o.Scale = 1 / zero() },
		"scale above four": func(o *Options) { o.Scale = 4.5 },
		"negative radius":  func(o *Options) { o.SharpnessRadius = -0.1 },
		"threshold":        func(o *Options) { o.SharpnessThreshold = -1 },
		"edge threshold":   func(o *Options) { o.EdgeThreshold = -1 },
		"contrast":         func(o *Options) { o.ContrastBoost = -0.5 },
		"zero clip":        func(o *Options) { o.CLAHEClipLimit = 0 },
		"denoise method": func(o *Options) {
			o.Denoise = true
			o.DenoiseMethod = DenoiseMethod(5)
		},
	} {
		o := DefaultOptions(MethodBicubic)
		mod(&o)
		if err := o.Validate(); !errors.Is(err, ErrInvalidParameter) {
			t.Fatalf("%s: expected ErrInvalidParameter, got %v", name, err)
		}
	}

	o := DefaultOptions(MethodBicubic)
	o.Scale = 16
	o.EnableMultiPass = true
	if err := o.Validate(); err != nil {
		t.Fatalf("multi-pass x16: %v", err)
	}
	o.Denoise = false
	o.DenoiseStrength = 0
	if err := o.Validate(); err != nil {
		t.Fatalf("denoise strength must be ignored when denoise is off: %v", err)
	}
}

func zero() float64 { return 0 }

func TestReadOptions(t *testing.T) {
	o, err := ReadOptions(strings.NewReader(`{"method":"fractal","scale":3}`))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := DefaultOptions(MethodFractal)
	want.Scale = 3
	if !reflect.DeepEqual(o, want) {
		t.Fatalf("got %+v, want %+v", o, want)
	}

	o, err = ReadOptions(strings.NewReader(`{"method":"bicubic","denoise":true,"denoiseMethod":"nlm"}`))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if o.Method != MethodBicubic || !o.Denoise || o.DenoiseMethod != DenoiseNLM {
		t.Fatalf("unexpected options %+v", o)
	}

	for _, doc := range []string{`{}`, `{"scale":3}`, `{"method":null}`} {
		if _, err := ReadOptions(strings.NewReader(doc)); !errors.Is(err, ErrUnsupportedMethod) {
			t.Fatalf("%s: expected ErrUnsupportedMethod, got %v", doc, err)
		}
	}

	if _, err := ReadOptions(strings.NewReader(`{"method":"magic"}`)); !errors.Is(err, ErrUnsupportedMethod) {
		t.Fatalf("expected ErrUnsupportedMethod, got %v", err)
	}
	if _, err := ReadOptions(strings.NewReader(`{`)); err == nil {
		t.Fatalf("expected error on truncated document")
	}
}

func TestReadOptionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.json")
	if err := os.WriteFile(path, []byte(`{"method":"chroma","enableCLAHE":true}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	o, err := ReadOptionsFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if o.Method != MethodChroma || !o.EnableCLAHE || o.SharpnessRadius != 0.8 {
		t.Fatalf("unexpected options %+v", o)
	}
	if _, err := ReadOptionsFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestPresets(t *testing.T) {
	names := PresetNames()
	if !reflect.DeepEqual(names, []string{"art", "photo", "screenshot", "text"}) {
		t.Fatalf("presets %v", names)
	}
	for _, name := range names {
		o, err := Preset(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if err := o.Validate(); err != nil {
			t.Fatalf("%s invalid: %v", name, err)
		}
	}
	text, _ := Preset("text")
	if text.Scale != 4 || !text.EnableMultiPass {
		t.Fatalf("text preset %+v", text)
	}
	if _, err := Preset("cinema"); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}
