// ABOUTME: Per-player state and transport snapshot
// ABOUTME: Owns device binding, loaded asset and lazily opened output sink
package engine

import (
	"errors"
	"fmt"

	"github.com/polyplay-audio/polyplay-go/pkg/audio/output"
)

// PlayerID is an opaque handle identifying one player. Zero is never
// issued and means "invalid".
type PlayerID uint64

// Snapshot is an immutable projection of a player's transport and asset
// state at query time. IsPlaying is always derived, never stored.
type Snapshot struct {
	PlayerID  PlayerID `json:"player_id"`
	DeviceID  string   `json:"device_id"`
	AssetName string   `json:"asset_name"`
	HasAudio  bool     `json:"has_audio"`
	IsPlaying bool     `json:"is_playing"`
	IsPaused  bool     `json:"is_paused"`
	IsEmpty   bool     `json:"is_empty"`
}

// playerState is one player's mutable record. Only the engine goroutine
// touches it, so no locking is needed here.
type playerState struct {
	deviceID  string
	asset     []byte
	assetName string
	sink      output.Sink
}

func newPlayerState() *playerState {
	return &playerState{deviceID: output.DefaultDeviceID}
}

// snapshot projects the current state. A player without output resources
// reports not-paused and empty, so is_playing is false.
func (p *playerState) snapshot(id PlayerID) Snapshot {
	paused, empty := false, true
	if p.sink != nil {
		paused = p.sink.Paused()
		empty = p.sink.Empty()
	}

	return Snapshot{
		PlayerID:  id,
		DeviceID:  p.deviceID,
		AssetName: p.assetName,
		HasAudio:  p.asset != nil,
		IsPlaying: !paused && !empty,
		IsPaused:  paused,
		IsEmpty:   empty,
	}
}

// ensureOutput lazily opens the sink on the bound device.
func (p *playerState) ensureOutput(backend output.Backend) error {
	if p.sink != nil {
		return nil
	}

	sink, err := backend.Open(p.deviceID)
	if err != nil {
		if errors.Is(err, output.ErrClosed) {
			return fmt.Errorf("%w: %w", ErrUninitializedOutput, err)
		}
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}
	p.sink = sink
	return nil
}

// closeOutput tears down the sink if one is open. Sinks stop their
// hardware before releasing buffers, so teardown is always safe against
// a concurrent render callback.
func (p *playerState) closeOutput() {
	if p.sink == nil {
		return
	}
	p.sink.Close()
	p.sink = nil
}

// setDevice rebinds the player to deviceID and eagerly reopens output.
// Existing resources are torn down unconditionally, but the stored
// identifier only commits once the new device resolves; on failure the
// old binding remains (with its resources gone).
func (p *playerState) setDevice(backend output.Backend, deviceID string) error {
	p.closeOutput()

	prev := p.deviceID
	p.deviceID = deviceID
	if err := p.ensureOutput(backend); err != nil {
		p.deviceID = prev
		return err
	}
	return nil
}

// load replaces the stored compressed asset. An already open sink is
// cleared so stale queued audio from the previous asset cannot leak into
// the next playback, and unpaused to match a freshly created sink.
func (p *playerState) load(data []byte, name string) {
	p.asset = data
	p.assetName = name

	if p.sink != nil {
		p.sink.Clear()
		p.sink.Play()
	}
}
