package upscale_test

import (
	"fmt"
	"image"
	"image/color"

	"github.com/vearutop/upscale"
)

func ExampleUpscale() {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 9))
	for y := 0; y < 9; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 28), B: 80, A: 255})
		}
	}

	opts := upscale.DefaultOptions(upscale.MethodLanczosAdaptive)
	out, err := upscale.Upscale(upscale.FromImage(img), opts, func(o *upscale.Options) {
		o.Scale = 3
		o.EnableCLAHE = true
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(out.Width, out.Height)
	// Output: 48 27
}

func ExampleParseMethod() {
	m, err := upscale.ParseMethod("bicubic+highpass")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(m, upscale.DefaultOptions(m).SharpnessRadius)
	// Output: bicubic+highpass 1.5
}

func ExampleDetectBlur() {
	report, err := upscale.DetectBlur(upscale.NewPixelBuffer(8, 8))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(report.IsBlurred)
	// Output: true
}
