// ABOUTME: Malgo-based push-model output backend
// ABOUTME: Hardware render callback drains a SharedBuffer via miniaudio
package output

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/polyplay-audio/polyplay-go/pkg/audio"
)

// Malgo is a push-model backend: miniaudio invokes a render callback on a
// hardware deadline thread, and each sink feeds it from a SharedBuffer.
type Malgo struct {
	mu     sync.Mutex
	ctx    *malgo.AllocatedContext
	format audio.Format
	closed bool
}

// NewMalgo creates a malgo backend. Sinks open at the given format;
// decoded audio is converted to it before appending.
func NewMalgo(sampleRate, channels int) *Malgo {
	return &Malgo{format: audio.Format{SampleRate: sampleRate, Channels: channels}}
}

// Name identifies the backend in logs.
func (m *Malgo) Name() string { return "malgo" }

// Devices enumerates playback devices, prepending the synthetic default.
func (m *Malgo) Devices() ([]Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureContext(); err != nil {
		return nil, err
	}

	devices := []Device{{ID: DefaultDeviceID, Name: "System Default"}}

	infos, err := m.ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate playback devices: %w", err)
	}
	for i, info := range infos {
		name := info.Name()
		if name == "" {
			name = fmt.Sprintf("Output Device %d", i)
		}
		devices = append(devices, Device{ID: fmt.Sprintf("%d", i), Name: name})
	}

	return devices, nil
}

// Open resolves deviceID and opens a started playback device on it. The
// device keeps running across pause, which only mutes the callback.
func (m *Malgo) Open(deviceID string) (Sink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureContext(); err != nil {
		return nil, err
	}

	var id *malgo.DeviceID
	if deviceID != DefaultDeviceID {
		infos, err := m.ctx.Devices(malgo.Playback)
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate playback devices: %w", err)
		}
		index, err := resolveIndex(deviceID, len(infos))
		if err != nil {
			return nil, err
		}
		id = &infos[index].ID
	}

	// Half a second of headroom before the first grow.
	buffer := NewSharedBuffer(m.format.SampleRate * m.format.Channels / 2)

	s := &malgoSink{
		format: m.format,
		buf:    buffer,
	}

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatF32
	config.Playback.Channels = uint32(m.format.Channels)
	config.SampleRate = uint32(m.format.SampleRate)
	config.Alsa.NoMMap = 1
	if id != nil {
		config.Playback.DeviceID = id.Pointer()
	}

	callbacks := malgo.DeviceCallbacks{
		Data: func(pOutput, pInput []byte, frameCount uint32) {
			s.render(pOutput, frameCount)
		},
	}

	device, err := malgo.InitDevice(m.ctx.Context, config, callbacks)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return nil, fmt.Errorf("failed to start playback device: %w", err)
	}

	s.device = device

	log.Printf("Opened malgo sink: device=%s %dHz %dch",
		deviceID, m.format.SampleRate, m.format.Channels)

	return s, nil
}

// Close releases the miniaudio context.
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true

	if m.ctx != nil {
		if err := m.ctx.Uninit(); err != nil {
			log.Printf("Warning: malgo context uninit error: %v", err)
		}
		m.ctx.Free()
		m.ctx = nil
	}

	return nil
}

// ensureContext lazily initializes the miniaudio context. Caller holds mu.
func (m *Malgo) ensureContext() error {
	if m.closed {
		return ErrClosed
	}
	if m.ctx != nil {
		return nil
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	m.ctx = ctx
	return nil
}

// malgoSink owns one hardware device and the SharedBuffer its render
// callback drains.
type malgoSink struct {
	format audio.Format
	buf    *SharedBuffer
	device *malgo.Device

	// scratch is reused across callbacks; the callback is never invoked
	// concurrently with itself, so no lock is needed.
	scratch []float32
}

func (s *malgoSink) Format() audio.Format { return s.format }

func (s *malgoSink) Append(samples []float32) { s.buf.Append(samples) }

func (s *malgoSink) Play() { s.buf.SetPaused(false) }

func (s *malgoSink) Pause() { s.buf.SetPaused(true) }

func (s *malgoSink) Paused() bool { return s.buf.Paused() }

func (s *malgoSink) Empty() bool { return s.buf.Len() == 0 }

func (s *malgoSink) Clear() { s.buf.Clear() }

// Close stops the hardware device before the buffer becomes unreachable,
// so no callback ever runs against freed state.
func (s *malgoSink) Close() error {
	if s.device != nil {
		if err := s.device.Stop(); err != nil {
			log.Printf("Warning: device stop error: %v", err)
		}
		s.device.Uninit()
		s.device = nil
	}
	return nil
}

// render fills the hardware buffer. Runs on the audio deadline thread:
// it must not block and degrades to silence on pause or underrun.
func (s *malgoSink) render(out []byte, frameCount uint32) {
	total := int(frameCount) * s.format.Channels

	if s.buf.Paused() {
		for i := range out {
			out[i] = 0
		}
		return
	}

	if cap(s.scratch) < total {
		s.scratch = make([]float32, total)
	}
	s.scratch = s.scratch[:total]

	// Underrun zero-fills the tail of scratch.
	s.buf.Read(s.scratch)

	for i, sample := range s.scratch {
		bits := math.Float32bits(sample)
		out[i*4] = byte(bits)
		out[i*4+1] = byte(bits >> 8)
		out[i*4+2] = byte(bits >> 16)
		out[i*4+3] = byte(bits >> 24)
	}
}
