// ABOUTME: Audio output backend abstraction
// ABOUTME: Common interfaces for pull (oto), push (malgo) and null backends
package output

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/polyplay-audio/polyplay-go/pkg/audio"
)

// DefaultDeviceID selects the platform default output device.
const DefaultDeviceID = "default"

// Common errors for Backend implementations
var (
	ErrUnknownDevice = errors.New("output device not found")
	ErrClosed        = errors.New("output backend is closed")
)

// Device describes one playback device.
type Device struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Sink is the per-player output resource. Exactly one player owns a sink;
// the engine goroutine is the only caller of its methods.
type Sink interface {
	// Format reports the device format appended samples must match.
	Format() audio.Format

	// Append queues interleaved samples for playback. Never blocks.
	Append(samples []float32)

	// Play resumes rendering of queued samples.
	Play()

	// Pause mutes rendering without stopping the device, so resume has
	// no reopen latency. Queued samples stay valid.
	Pause()

	// Paused reports whether the sink is paused.
	Paused() bool

	// Empty reports whether no queued samples remain.
	Empty() bool

	// Clear drops all queued samples.
	Clear()

	// Close stops the device before releasing its buffers.
	Close() error
}

// Backend resolves device identifiers and opens sinks on them.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string

	// Devices enumerates playback devices. The synthetic "default" entry
	// is always first, so the list is never empty.
	Devices() ([]Device, error)

	// Open resolves deviceID and opens a sink on it.
	Open(deviceID string) (Sink, error)

	// Close releases backend-wide resources. All sinks must already be
	// closed.
	Close() error
}

// resolveIndex parses a non-default device id as a base-10 index into an
// enumerated device list of length n.
func resolveIndex(deviceID string, n int) (int, error) {
	index, err := strconv.Atoi(deviceID)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid device id %q", ErrUnknownDevice, deviceID)
	}
	if index < 0 || index >= n {
		return 0, fmt.Errorf("%w: index %d", ErrUnknownDevice, index)
	}
	return index, nil
}
