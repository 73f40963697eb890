// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 payloads to float32 PCM using go-mp3
package decode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/polyplay-audio/polyplay-go/pkg/audio"
)

// MP3 decodes a complete MP3 payload into float32 PCM.
// go-mp3 always renders 16-bit little-endian stereo at the stream rate.
func MP3(data []byte) (*audio.PCM, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode error: %w", err)
	}

	numSamples := len(raw) / 2
	samples := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		s := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		samples[i] = audio.SampleFromInt16(s)
	}

	return &audio.PCM{
		Samples:    samples,
		SampleRate: dec.SampleRate(),
		Channels:   2,
	}, nil
}
