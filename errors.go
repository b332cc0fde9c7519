package upscale

import "errors"

var (
	// ErrInvalidBuffer is returned when a buffer is empty or its sample count does not match width*height*4.
	ErrInvalidBuffer = errors.New("invalid pixel buffer")
	// ErrInvalidParameter is returned for degenerate option or operator arguments.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrUnsupportedMethod is returned when a strategy name is not recognized.
	ErrUnsupportedMethod = errors.New("unsupported method")
)
