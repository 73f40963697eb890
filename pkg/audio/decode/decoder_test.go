// ABOUTME: Tests for the decoder dispatch and codec error paths
// ABOUTME: Verifies payload sniffing and malformed-input handling
package decode

import "testing"

func TestDecodeEmptyPayload(t *testing.T) {
	if _, err := Decode("x.mp3", nil); err == nil {
		t.Fatal("expected error for empty payload, got nil")
	}
}

func TestDecodeGarbageMP3(t *testing.T) {
	// Random bytes with no sync word must fail, not panic.
	data := []byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02, 0x03, 0x04}
	if _, err := Decode("x.mp3", data); err == nil {
		t.Fatal("expected decode error for garbage payload, got nil")
	}
}

func TestDecodeGarbageVorbis(t *testing.T) {
	// Ogg capture pattern followed by garbage routes to the Vorbis
	// decoder and fails there.
	data := append([]byte("OggS"), 0x00, 0x01, 0x02, 0x03)
	if _, err := Decode("x.ogg", data); err == nil {
		t.Fatal("expected vorbis decode error, got nil")
	}
}

func TestIsOggName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"track.ogg", true},
		{"track.OGG", true},
		{"track.oga", true},
		{"track.mp3", false},
		{"", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := isOggName(tt.name); got != tt.want {
			t.Errorf("isOggName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestVorbisRejectsNonOgg(t *testing.T) {
	if _, err := Vorbis([]byte("not an ogg container")); err == nil {
		t.Fatal("expected error, got nil")
	}
}
