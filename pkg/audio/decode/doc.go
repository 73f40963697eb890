// ABOUTME: Package documentation for asset decoding
// ABOUTME: Describes supported codecs and the dispatch rules
// Package decode turns compressed audio payloads into interleaved
// float32 PCM.
//
// Supported codecs: MP3 (hajimehoshi/go-mp3) and Ogg Vorbis
// (jfreymuth/oggvorbis). Decode sniffs the payload and picks the codec;
// the engine treats the result as an opaque (samples, rate, channels)
// triple.
package decode
