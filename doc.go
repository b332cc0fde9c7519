// Package upscale implements a deterministic, classical image upscaling engine.
//
// It enlarges RGBA8 pixel buffers through a configurable pipeline of resampling kernels
// (bicubic, Lanczos), edge-aware and frequency-domain decompositions, denoise filters,
// contrast enhancement and Richardson-Lucy deconvolution. No learned models are involved.
//
// Image container decoding and encoding are left to the caller, see FromImage and
// PixelBuffer.ToNRGBA for the bridge to the standard image package.
package upscale
