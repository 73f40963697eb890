// ABOUTME: Headless output backend for tests and audio-less hosts
// ABOUTME: Sinks queue into a SharedBuffer that callers drain manually
package output

import (
	"strconv"
	"sync"

	"github.com/polyplay-audio/polyplay-go/pkg/audio"
)

// Null is a headless backend. It renders nothing: sinks queue samples in
// a SharedBuffer that tests (or nobody) drain. The synthetic device list
// makes index-based device resolution exercisable without hardware.
type Null struct {
	mu      sync.Mutex
	format  audio.Format
	devices []string
	sinks   []*NullSink
	closed  bool
}

// NewNull creates a null backend with the given synthetic device names.
func NewNull(deviceNames ...string) *Null {
	return &Null{
		format:  audio.Format{SampleRate: 44100, Channels: 2},
		devices: deviceNames,
	}
}

// Name identifies the backend in logs.
func (n *Null) Name() string { return "null" }

// Devices lists the synthetic default plus any configured device names.
func (n *Null) Devices() ([]Device, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil, ErrClosed
	}

	devices := []Device{{ID: DefaultDeviceID, Name: "Null Default"}}
	for i, name := range n.devices {
		devices = append(devices, Device{ID: strconv.Itoa(i), Name: name})
	}
	return devices, nil
}

// Open resolves deviceID against the synthetic list and returns a sink
// draining nowhere.
func (n *Null) Open(deviceID string) (Sink, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil, ErrClosed
	}

	if deviceID != DefaultDeviceID {
		if _, err := resolveIndex(deviceID, len(n.devices)); err != nil {
			return nil, err
		}
	}

	s := &NullSink{
		format: n.format,
		buf:    NewSharedBuffer(n.format.SampleRate * n.format.Channels / 2),
	}
	n.sinks = append(n.sinks, s)
	return s, nil
}

// Close marks the backend closed.
func (n *Null) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	return nil
}

// Sinks returns every sink this backend has opened, in open order.
func (n *Null) Sinks() []*NullSink {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*NullSink(nil), n.sinks...)
}

// NullSink queues samples without a consumer. Drain stands in for the
// hardware side in tests.
type NullSink struct {
	format audio.Format
	buf    *SharedBuffer
	closed bool
}

func (s *NullSink) Format() audio.Format { return s.format }

func (s *NullSink) Append(samples []float32) { s.buf.Append(samples) }

func (s *NullSink) Play() { s.buf.SetPaused(false) }

func (s *NullSink) Pause() { s.buf.SetPaused(true) }

func (s *NullSink) Paused() bool { return s.buf.Paused() }

func (s *NullSink) Empty() bool { return s.buf.Len() == 0 }

func (s *NullSink) Clear() { s.buf.Clear() }

func (s *NullSink) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close has run, so tests can assert teardown.
func (s *NullSink) Closed() bool { return s.closed }

// Drain consumes up to n samples the way a render callback would,
// honoring the pause flag (paused sinks deliver silence, not queue data).
func (s *NullSink) Drain(n int) []float32 {
	dst := make([]float32, n)
	if s.buf.Paused() {
		return dst
	}
	s.buf.Read(dst)
	return dst
}

// Queued returns the number of undrained samples.
func (s *NullSink) Queued() int { return s.buf.Len() }
