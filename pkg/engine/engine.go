// ABOUTME: Audio engine command actor
// ABOUTME: Single goroutine owning all player state, driven by a command channel
package engine

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/polyplay-audio/polyplay-go/pkg/audio/convert"
	"github.com/polyplay-audio/polyplay-go/pkg/audio/decode"
	"github.com/polyplay-audio/polyplay-go/pkg/audio/output"
)

// Config holds engine configuration.
type Config struct {
	// Backend opens output devices. Required.
	Backend output.Backend

	// Decode turns compressed assets into PCM. Defaults to decode.Decode.
	Decode decode.Func
}

// engine owns the player table. It runs on exactly one goroutine; every
// mutation flows through the command channel, so no locking is needed.
type engine struct {
	instanceID string
	backend    output.Backend
	decode     decode.Func

	players map[PlayerID]*playerState
	nextID  PlayerID

	cmds chan command
	quit chan struct{}
	done chan struct{}
}

// command is one queued operation. do runs on the engine goroutine and
// must deliver exactly one reply.
type command interface {
	do(e *engine)
}

// New starts the engine goroutine and returns the controller handle.
func New(cfg Config) *Controller {
	if cfg.Backend == nil {
		panic("engine: Config.Backend is required")
	}
	dec := cfg.Decode
	if dec == nil {
		dec = decode.Decode
	}

	e := &engine{
		instanceID: uuid.New().String(),
		backend:    cfg.Backend,
		decode:     dec,
		players:    make(map[PlayerID]*playerState),
		cmds:       make(chan command),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}

	go e.run()

	return &Controller{e: e}
}

// run is the actor loop. It terminates on shutdown, cascading into
// hardware teardown for every live player.
func (e *engine) run() {
	log.Printf("Audio engine started: id=%s backend=%s", e.instanceID, e.backend.Name())

	for {
		select {
		case cmd := <-e.cmds:
			cmd.do(e)
		case <-e.quit:
			e.teardown()
			close(e.done)
			log.Printf("Audio engine stopped: id=%s", e.instanceID)
			return
		}
	}
}

// teardown closes every sink (stop before free) and then the backend.
func (e *engine) teardown() {
	for id, p := range e.players {
		p.closeOutput()
		delete(e.players, id)
	}
	if err := e.backend.Close(); err != nil {
		log.Printf("Warning: backend close error: %v", err)
	}
}

// player looks up a handle.
func (e *engine) player(id PlayerID) (*playerState, error) {
	p, ok := e.players[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return p, nil
}

// createPlayer issues the next handle and inserts an idle player bound to
// the default device. Device resources stay unopened until first use.
// Handles wrap past the top of the range, skipping the 0 sentinel.
func (e *engine) createPlayer() PlayerID {
	e.nextID++
	if e.nextID == 0 {
		e.nextID = 1
	}

	id := e.nextID
	e.players[id] = newPlayerState()

	log.Printf("Created player %d", id)
	return id
}

// destroyPlayer removes the player, releasing hardware synchronously
// before the reply is sent.
func (e *engine) destroyPlayer(id PlayerID) error {
	p, err := e.player(id)
	if err != nil {
		return err
	}

	p.closeOutput()
	delete(e.players, id)

	log.Printf("Destroyed player %d", id)
	return nil
}

// setDevice rebinds the player's output device. See playerState.setDevice
// for the commit semantics.
func (e *engine) setDevice(id PlayerID, deviceID string) (Snapshot, error) {
	p, err := e.player(id)
	if err != nil {
		return Snapshot{}, err
	}
	if err := p.setDevice(e.backend, deviceID); err != nil {
		return Snapshot{}, err
	}
	return p.snapshot(id), nil
}

// loadAsset replaces the player's compressed payload and display name.
func (e *engine) loadAsset(id PlayerID, data []byte, name string) (Snapshot, error) {
	p, err := e.player(id)
	if err != nil {
		return Snapshot{}, err
	}

	p.load(data, name)
	return p.snapshot(id), nil
}

// togglePlayback drives the transport state machine: playing pauses,
// paused resumes in place, and an empty sink decodes the loaded asset
// from the top. Resume never re-decodes.
func (e *engine) togglePlayback(id PlayerID) (Snapshot, error) {
	p, err := e.player(id)
	if err != nil {
		return Snapshot{}, err
	}
	if err := p.ensureOutput(e.backend); err != nil {
		return Snapshot{}, err
	}

	if !p.sink.Paused() && !p.sink.Empty() {
		p.sink.Pause()
		return p.snapshot(id), nil
	}

	if p.sink.Empty() {
		if p.asset == nil {
			return Snapshot{}, fmt.Errorf("player %d: %w", id, ErrNoAudio)
		}

		// Decode fully before touching the sink so a failure leaves the
		// player state untouched.
		pcm, err := e.decode(p.assetName, p.asset)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %w", ErrDecode, err)
		}

		format := p.sink.Format()
		samples := convert.Convert(pcm.Samples,
			pcm.SampleRate, pcm.Channels,
			format.SampleRate, format.Channels)
		p.sink.Append(samples)
	}

	p.sink.Play()
	return p.snapshot(id), nil
}

// stop clears queued samples and forces pause so the next playback
// restarts from the top. Hardware resources stay open, which keeps
// stop/play cycles cheap; stopping a player with no output is a no-op.
func (e *engine) stop(id PlayerID) (Snapshot, error) {
	p, err := e.player(id)
	if err != nil {
		return Snapshot{}, err
	}

	if p.sink != nil {
		p.sink.Clear()
		p.sink.Pause()
	}
	return p.snapshot(id), nil
}

// state is a pure read.
func (e *engine) state(id PlayerID) (Snapshot, error) {
	p, err := e.player(id)
	if err != nil {
		return Snapshot{}, err
	}
	return p.snapshot(id), nil
}

// playRawPCM enqueues externally synthesized samples for immediate
// playback, bypassing the decode path and forcing the transport to
// playing. The loaded asset is untouched.
func (e *engine) playRawPCM(id PlayerID, sampleRate, channels int, samples []float32) (Snapshot, error) {
	if sampleRate <= 0 {
		return Snapshot{}, fmt.Errorf("%w: sample rate must be > 0, got %d", ErrInvalidArgument, sampleRate)
	}
	if channels <= 0 {
		return Snapshot{}, fmt.Errorf("%w: channels must be > 0, got %d", ErrInvalidArgument, channels)
	}

	p, err := e.player(id)
	if err != nil {
		return Snapshot{}, err
	}
	if err := p.ensureOutput(e.backend); err != nil {
		return Snapshot{}, err
	}

	format := p.sink.Format()
	converted := convert.Convert(samples, sampleRate, channels, format.SampleRate, format.Channels)
	p.sink.Append(converted)
	p.sink.Play()

	return p.snapshot(id), nil
}

// listDevices enumerates output devices through the backend.
func (e *engine) listDevices() ([]output.Device, error) {
	devices, err := e.backend.Devices()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDevice, err)
	}
	return devices, nil
}
