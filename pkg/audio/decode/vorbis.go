// ABOUTME: Ogg Vorbis audio decoder
// ABOUTME: Decodes Vorbis payloads to float32 PCM using oggvorbis
package decode

import (
	"bytes"
	"fmt"

	"github.com/jfreymuth/oggvorbis"

	"github.com/polyplay-audio/polyplay-go/pkg/audio"
)

// Vorbis decodes a complete Ogg Vorbis payload into float32 PCM.
func Vorbis(data []byte) (*audio.PCM, error) {
	samples, format, err := oggvorbis.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("vorbis decode error: %w", err)
	}

	return &audio.PCM{
		Samples:    samples,
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
	}, nil
}
