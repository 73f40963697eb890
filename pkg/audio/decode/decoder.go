// ABOUTME: Compressed-asset decoder entry point
// ABOUTME: Sniffs payloads and dispatches to the MP3 or Vorbis decoder
package decode

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/polyplay-audio/polyplay-go/pkg/audio"
)

// Func decodes a compressed payload into interleaved float32 PCM.
// The name is a display name (usually a file name) used for format hints.
type Func func(name string, data []byte) (*audio.PCM, error)

var oggMagic = []byte("OggS")

// Decode sniffs the payload and dispatches to a codec decoder.
// Ogg containers are recognized by their capture pattern or file
// extension; everything else is treated as MP3.
func Decode(name string, data []byte) (*audio.PCM, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio payload")
	}

	if bytes.HasPrefix(data, oggMagic) || isOggName(name) {
		return Vorbis(data)
	}

	return MP3(data)
}

func isOggName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ogg", ".oga":
		return true
	}
	return false
}
