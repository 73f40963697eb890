// ABOUTME: Audio output package for rendering PCM to devices
// ABOUTME: Provides Backend/Sink interfaces with malgo, oto and null variants
// Package output abstracts audio playback devices behind two models.
//
// The malgo backend is push-model: miniaudio invokes a render callback on
// a hardware thread, which drains a SharedBuffer or emits silence. The oto
// backend is pull-model: oto drains a per-sink queue through an io.Reader.
// The null backend is headless, for tests and machines without audio.
//
// Example:
//
//	backend := output.NewMalgo(44100, 2)
//	sink, err := backend.Open(output.DefaultDeviceID)
//	sink.Append(samples)
//	sink.Play()
package output
