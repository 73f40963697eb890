// ABOUTME: Package documentation for PCM conversion
// ABOUTME: Describes channel mapping and linear resampling behavior
// Package convert adapts interleaved float32 PCM between channel counts
// and sample rates.
//
// Channel conversion always runs before rate conversion. Rate conversion
// uses linear interpolation only, which is cheap but aliases when
// downsampling.
//
// Example:
//
//	stereo := convert.Convert(mono, 44100, 1, 48000, 2)
package convert
