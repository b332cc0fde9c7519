package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/nfnt/resize"
	"github.com/vearutop/upscale"
	"github.com/vearutop/upscale/internal/imgcodec"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "upscale":
		err = runUpscale(os.Args[2:])
	case "deblur":
		err = runDeblur(os.Args[2:])
	case "detect-blur":
		err = runDetectBlur(os.Args[2:])
	case "compare":
		err = runCompare(os.Args[2:])
	case "presets":
		err = runPresets(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fail(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: upscaletool <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  upscale     -in input.png -out output.png [-method lanczos+adaptive] [-scale 2] [-preset photo] [-config opts.json] [-v]")
	fmt.Fprintln(os.Stderr, "  deblur      -in input.png -out output.png [-iterations 5] [-radius 1.5] [-motion-length 0 -motion-angle 0]")
	fmt.Fprintln(os.Stderr, "  detect-blur -in input.png")
	fmt.Fprintln(os.Stderr, "  compare     -before small.png -after large.png -out compare.png [-fit 0]")
	fmt.Fprintln(os.Stderr, "  presets")
}

func runUpscale(args []string) error {
	fs := flag.NewFlagSet("upscale", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	outPath := fs.String("out", "", "output image (png, jpg, bmp, tif)")
	quality := fs.Int("q", imgcodec.DefaultJPEGQuality, "JPEG quality")
	preset := fs.String("preset", "", "start from a named preset")
	configPath := fs.String("config", "", "JSON options file applied before flags")
	method := fs.String("method", "lanczos+adaptive", "upscale method")
	scale := fs.Float64("scale", 0, "scale factor")
	amount := fs.Float64("amount", 0, "sharpness amount")
	radius := fs.Float64("radius", 0, "sharpness radius")
	threshold := fs.Float64("threshold", -1, "sharpness threshold")
	edgeThreshold := fs.Float64("edge-threshold", -1, "edge threshold (0-255)")
	contrast := fs.Float64("contrast", 0, "contrast boost")
	denoise := fs.Bool("denoise", false, "denoise before upscaling")
	denoiseMethod := fs.String("denoise-method", "", "bilateral or nlm")
	denoiseStrength := fs.Float64("denoise-strength", 0, "denoise strength")
	clahe := fs.Bool("clahe", false, "apply CLAHE after upscaling")
	clipLimit := fs.Float64("clip-limit", 0, "CLAHE clip limit")
	multiPass := fs.Bool("multipass", false, "split scales >= 4 into 2x passes")
	preserveAlpha := fs.Bool("preserve-alpha", false, "keep alpha in frequency and fractal methods")
	verbose := fs.Bool("v", false, "debug logging")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}
	setupLogger(*verbose)

	opts, err := baseOptions(fs, *preset, *configPath, *method)
	if err != nil {
		return err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["scale"] {
		opts.Scale = *scale
	}
	if set["amount"] {
		opts.SharpnessAmount = *amount
	}
	if set["radius"] {
		opts.SharpnessRadius = *radius
	}
	if set["threshold"] {
		opts.SharpnessThreshold = *threshold
	}
	if set["edge-threshold"] {
		opts.EdgeThreshold = *edgeThreshold
	}
	if set["contrast"] {
		opts.ContrastBoost = *contrast
	}
	if set["denoise"] {
		opts.Denoise = *denoise
	}
	if set["denoise-method"] {
		if opts.DenoiseMethod, err = upscale.ParseDenoiseMethod(*denoiseMethod); err != nil {
			return err
		}
	}
	if set["denoise-strength"] {
		opts.DenoiseStrength = *denoiseStrength
	}
	if set["clahe"] {
		opts.EnableCLAHE = *clahe
	}
	if set["clip-limit"] {
		opts.CLAHEClipLimit = *clipLimit
	}
	if set["multipass"] {
		opts.EnableMultiPass = *multiPass
	}
	if set["preserve-alpha"] {
		opts.PreserveAlpha = *preserveAlpha
	}

	src, err := readBuffer(*inPath)
	if err != nil {
		return err
	}
	out, err := upscale.Upscale(src, opts)
	if err != nil {
		return err
	}
	return writeImage(*outPath, out.ToNRGBA(), *quality)
}

// baseOptions resolves the starting options from a config file, a preset or the
// method defaults, in that order. An explicit -method still overrides the first two.
func baseOptions(fs *flag.FlagSet, preset, configPath, method string) (upscale.Options, error) {
	m, err := upscale.ParseMethod(method)
	if err != nil {
		return upscale.Options{}, err
	}
	var opts upscale.Options
	switch {
	case configPath != "":
		opts, err = upscale.ReadOptionsFile(configPath)
	case preset != "":
		opts, err = upscale.Preset(preset)
	default:
		return upscale.DefaultOptions(m), nil
	}
	if err != nil {
		return upscale.Options{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "method" {
			opts.Method = m
		}
	})
	return opts, nil
}

func runDeblur(args []string) error {
	fs := flag.NewFlagSet("deblur", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	outPath := fs.String("out", "", "output image")
	quality := fs.Int("q", imgcodec.DefaultJPEGQuality, "JPEG quality")
	iterations := fs.Int("iterations", 0, "Richardson-Lucy iterations (0 for default)")
	radius := fs.Float64("radius", 0, "Gaussian PSF radius (0 for default)")
	motionLength := fs.Float64("motion-length", 0, "motion blur length in pixels, enables motion deblur")
	motionAngle := fs.Float64("motion-angle", 0, "motion blur angle in degrees")
	auto := fs.Bool("auto", false, "skip images that are not detected as blurred")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}
	src, err := readBuffer(*inPath)
	if err != nil {
		return err
	}
	if *auto {
		report, err := upscale.DetectBlur(src)
		if err != nil {
			return err
		}
		if !report.IsBlurred {
			return writeImage(*outPath, src.ToNRGBA(), *quality)
		}
	}

	var out *upscale.PixelBuffer
	if *motionLength > 0 {
		out, err = upscale.MotionDeblur(src, *motionLength, *motionAngle*math.Pi/180, *iterations)
	} else {
		out, err = upscale.Deblur(src, *iterations, *radius)
	}
	if err != nil {
		return err
	}
	return writeImage(*outPath, out.ToNRGBA(), *quality)
}

func runDetectBlur(args []string) error {
	fs := flag.NewFlagSet("detect-blur", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("missing required arguments")
	}
	src, err := readBuffer(*inPath)
	if err != nil {
		return err
	}
	report, err := upscale.DetectBlur(src)
	if err != nil {
		return err
	}
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(payload))
	return nil
}

func runCompare(args []string) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	beforePath := fs.String("before", "", "original image")
	afterPath := fs.String("after", "", "upscaled image")
	outPath := fs.String("out", "", "output image")
	quality := fs.Int("q", imgcodec.DefaultJPEGQuality, "JPEG quality")
	fit := fs.Uint("fit", 0, "fit the comparison into a square of this size, 0 keeps full size")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *beforePath == "" || *afterPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}
	before, err := readBuffer(*beforePath)
	if err != nil {
		return err
	}
	after, err := readBuffer(*afterPath)
	if err != nil {
		return err
	}
	canvas, err := upscale.Compare(before, after, resize.NearestNeighbor)
	if err != nil {
		return err
	}
	var img image.Image = canvas
	if *fit > 0 {
		img = upscale.Thumbnail(upscale.FromImage(canvas), *fit, *fit, resize.Lanczos3).ToNRGBA()
	}
	return writeImage(*outPath, img, *quality)
}

func runPresets(args []string) error {
	fs := flag.NewFlagSet("presets", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	type methodInfo struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	var all struct {
		Methods []methodInfo               `json:"methods"`
		Presets map[string]upscale.Options `json:"presets"`
	}
	for _, m := range upscale.Methods() {
		all.Methods = append(all.Methods, methodInfo{Name: m.String(), Description: m.Description()})
	}
	all.Presets = make(map[string]upscale.Options)
	for _, name := range upscale.PresetNames() {
		p, err := upscale.Preset(name)
		if err != nil {
			return err
		}
		all.Presets[name] = p
	}
	payload, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(payload))
	return nil
}

func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	upscale.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func readBuffer(path string) (*upscale.PixelBuffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := imgcodec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return upscale.FromImage(img), nil
}

func writeImage(path string, img image.Image, quality int) error {
	format, err := imgcodec.FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	if err := imgcodec.Encode(f, img, format, quality); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
