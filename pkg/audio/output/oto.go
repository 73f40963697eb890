// ABOUTME: Oto-based pull-model output backend
// ABOUTME: Oto drains a per-sink sample queue autonomously via io.Reader
package output

import (
	"encoding/binary"
	"fmt"
	"log"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/polyplay-audio/polyplay-go/pkg/audio"
)

// Oto is a pull-model backend: oto owns the device loop and drains each
// sink's queue through an io.Reader at its own cadence. Oto drives the
// platform default device and exposes no enumeration, so the only
// resolvable device is "default".
type Oto struct {
	mu     sync.Mutex
	ctx    *oto.Context
	format audio.Format
	closed bool
}

// NewOto creates an oto backend. The first Open fixes the process-wide
// oto context to this format; oto does not support reinitialization.
func NewOto(sampleRate, channels int) *Oto {
	return &Oto{format: audio.Format{SampleRate: sampleRate, Channels: channels}}
}

// Name identifies the backend in logs.
func (o *Oto) Name() string { return "oto" }

// Devices returns the synthetic default entry. Oto cannot enumerate
// hardware, so the default device is all there is.
func (o *Oto) Devices() ([]Device, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil, ErrClosed
	}

	return []Device{{ID: DefaultDeviceID, Name: "System Default"}}, nil
}

// Open opens a sink on the default device. Any other identifier fails:
// there is no enumerated list for an index to resolve against.
func (o *Oto) Open(deviceID string) (Sink, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil, ErrClosed
	}

	if deviceID != DefaultDeviceID {
		return nil, fmt.Errorf("%w: %q (oto only drives the default device)", ErrUnknownDevice, deviceID)
	}

	if err := o.ensureContext(); err != nil {
		return nil, err
	}

	queue := &pcmQueue{}
	player := o.ctx.NewPlayer(queue)
	player.Play()

	log.Printf("Opened oto sink: %dHz %dch", o.format.SampleRate, o.format.Channels)

	return &otoSink{
		format: o.format,
		queue:  queue,
		player: player,
	}, nil
}

// Close suspends the oto context. Oto allows one context per process, so
// the context itself is never torn down.
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.closed = true

	if o.ctx != nil {
		if err := o.ctx.Suspend(); err != nil {
			log.Printf("Warning: oto context suspend error: %v", err)
		}
	}

	return nil
}

// ensureContext lazily creates the process-wide oto context. Caller
// holds mu.
func (o *Oto) ensureContext() error {
	if o.ctx != nil {
		return nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   o.format.SampleRate,
		ChannelCount: o.format.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	o.ctx = ctx
	return nil
}

// otoSink feeds one oto player from a silence-padding byte queue.
type otoSink struct {
	format audio.Format
	queue  *pcmQueue
	player *oto.Player

	mu     sync.Mutex
	paused bool
}

func (s *otoSink) Format() audio.Format { return s.format }

// Append converts samples to 16-bit little-endian PCM and queues them.
func (s *otoSink) Append(samples []float32) {
	buf := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(audio.SampleToInt16(sample)))
	}
	s.queue.push(buf)
}

func (s *otoSink) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.Play()
	s.paused = false
}

func (s *otoSink) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.Pause()
	s.paused = true
}

func (s *otoSink) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *otoSink) Empty() bool { return s.queue.len() == 0 }

// Clear drops queued samples. Audio that oto already pulled into its own
// buffer (a few tens of milliseconds) still plays out.
func (s *otoSink) Clear() { s.queue.clear() }

// Close pauses the player before releasing it so the reader goroutine
// stops pulling from the queue first.
func (s *otoSink) Close() error {
	s.player.Pause()
	if err := s.player.Close(); err != nil {
		return fmt.Errorf("failed to close oto player: %w", err)
	}
	return nil
}

// pcmQueue is the byte FIFO oto pulls from. When the queue runs dry it
// feeds silence instead of io.EOF, which keeps the player alive across
// stop/play cycles without reopening the device.
type pcmQueue struct {
	mu  sync.Mutex
	buf []byte
}

func (q *pcmQueue) push(data []byte) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.buf = append(q.buf, data...)
}

func (q *pcmQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}

func (q *pcmQueue) clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.buf = q.buf[:0]
}

// Read never returns io.EOF: it drains queued bytes and zero-fills the
// rest of p with silence.
func (q *pcmQueue) Read(p []byte) (int, error) {
	q.mu.Lock()
	n := copy(p, q.buf)
	q.buf = append(q.buf[:0], q.buf[n:]...)
	q.mu.Unlock()

	for i := n; i < len(p); i++ {
		p[i] = 0
	}

	return len(p), nil
}
