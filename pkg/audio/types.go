// ABOUTME: Audio type definitions
// ABOUTME: Defines PCM formats, decoded buffers and sample helpers
package audio

const (
	// 16-bit sample range, used when feeding integer-PCM outputs
	MaxInt16 = 32767
	MinInt16 = -32768
)

// Format describes an interleaved PCM stream.
type Format struct {
	SampleRate int
	Channels   int
}

// Frames returns the number of frames n interleaved samples represent.
func (f Format) Frames(n int) int {
	if f.Channels <= 0 {
		return 0
	}
	return n / f.Channels
}

// PCM is decoded audio: interleaved float32 samples in [-1, 1].
type PCM struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// Format returns the stream format of the decoded audio.
func (p *PCM) Format() Format {
	return Format{SampleRate: p.SampleRate, Channels: p.Channels}
}

// SampleToInt16 converts a float32 sample to int16 with clamping.
func SampleToInt16(s float32) int16 {
	scaled := int32(s * 32768)
	if scaled > MaxInt16 {
		scaled = MaxInt16
	} else if scaled < MinInt16 {
		scaled = MinInt16
	}
	return int16(scaled)
}

// SampleFromInt16 converts an int16 sample to float32 in [-1, 1).
func SampleFromInt16(v int16) float32 {
	return float32(v) / 32768
}
