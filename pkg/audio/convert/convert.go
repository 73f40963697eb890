// ABOUTME: PCM channel and sample-rate conversion
// ABOUTME: Adapts decoded audio to output device formats via linear interpolation
package convert

// Convert adapts interleaved PCM between channel layouts and sample rates.
// Channel mapping runs first, then rate conversion. Rate conversion is
// linear interpolation, not a band-limited resampler; downsampling aliases.
func Convert(samples []float32, srcRate, srcChannels, dstRate, dstChannels int) []float32 {
	out := mapChannels(samples, srcChannels, dstChannels)
	return resampleLinear(out, dstChannels, srcRate, dstRate)
}

// mapChannels converts interleaved samples between channel counts.
func mapChannels(samples []float32, src, dst int) []float32 {
	switch {
	case src == dst:
		return samples

	case src == 1 && dst == 2:
		// Mono to stereo: duplicate each sample into both channels.
		out := make([]float32, len(samples)*2)
		for i, s := range samples {
			out[i*2] = s
			out[i*2+1] = s
		}
		return out

	case src == 2 && dst == 1:
		// Stereo to mono: average each pair. A trailing odd sample has
		// no partner and passes through unaveraged.
		out := make([]float32, 0, (len(samples)+1)/2)
		i := 0
		for ; i+1 < len(samples); i += 2 {
			out = append(out, (samples[i]+samples[i+1])/2)
		}
		if i < len(samples) {
			out = append(out, samples[i])
		}
		return out

	default:
		// General mapping: frame by frame, replicating the highest source
		// channel when the destination wants more channels than exist.
		frames := len(samples) / src
		out := make([]float32, frames*dst)
		for f := 0; f < frames; f++ {
			for c := 0; c < dst; c++ {
				sc := c
				if sc >= src {
					sc = src - 1
				}
				out[f*dst+c] = samples[f*src+sc]
			}
		}
		return out
	}
}

// resampleLinear converts interleaved samples from srcRate to dstRate.
// Each output frame i reads the fractional source position i*(srcRate/dstRate)
// and blends the two neighboring frames; the final source frame is clamped
// so no read ever lands past the input.
func resampleLinear(samples []float32, channels, srcRate, dstRate int) []float32 {
	if srcRate == dstRate || channels <= 0 {
		return samples
	}

	frames := len(samples) / channels
	if frames == 0 {
		return nil
	}

	ratio := float64(srcRate) / float64(dstRate)
	outFrames := int(float64(frames) * float64(dstRate) / float64(srcRate))
	if outFrames == 0 {
		outFrames = 1
	}

	out := make([]float32, outFrames*channels)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx > frames-1 {
			idx = frames - 1
		}
		next := idx + 1
		if next > frames-1 {
			next = frames - 1
		}
		frac := float32(pos - float64(idx))

		for c := 0; c < channels; c++ {
			a := samples[idx*channels+c]
			b := samples[next*channels+c]
			out[i*channels+c] = a*(1-frac) + b*frac
		}
	}

	return out
}
