// ABOUTME: Thread-safe client handle for the engine actor
// ABOUTME: Each call sends a typed command and blocks for a correlated reply
package engine

import (
	"sync"

	"github.com/polyplay-audio/polyplay-go/pkg/audio/output"
)

// Controller is the client handle external callers use. It is safe for
// concurrent use: every operation enqueues a command carrying a private
// reply channel and blocks until the engine answers. Calls fail with
// ErrDisconnected once the engine goroutine has terminated.
type Controller struct {
	e         *engine
	closeOnce sync.Once
}

// snapshotReply is the common reply payload for snapshot-returning verbs.
type snapshotReply struct {
	snap Snapshot
	err  error
}

type createCmd struct{ reply chan createReply }

type createReply struct {
	id  PlayerID
	err error
}

func (c createCmd) do(e *engine) {
	c.reply <- createReply{id: e.createPlayer()}
}

type destroyCmd struct {
	id    PlayerID
	reply chan error
}

func (c destroyCmd) do(e *engine) {
	c.reply <- e.destroyPlayer(c.id)
}

type setDeviceCmd struct {
	id       PlayerID
	deviceID string
	reply    chan snapshotReply
}

func (c setDeviceCmd) do(e *engine) {
	snap, err := e.setDevice(c.id, c.deviceID)
	c.reply <- snapshotReply{snap, err}
}

type loadAssetCmd struct {
	id    PlayerID
	data  []byte
	name  string
	reply chan snapshotReply
}

func (c loadAssetCmd) do(e *engine) {
	snap, err := e.loadAsset(c.id, c.data, c.name)
	c.reply <- snapshotReply{snap, err}
}

type toggleCmd struct {
	id    PlayerID
	reply chan snapshotReply
}

func (c toggleCmd) do(e *engine) {
	snap, err := e.togglePlayback(c.id)
	c.reply <- snapshotReply{snap, err}
}

type stopCmd struct {
	id    PlayerID
	reply chan snapshotReply
}

func (c stopCmd) do(e *engine) {
	snap, err := e.stop(c.id)
	c.reply <- snapshotReply{snap, err}
}

type stateCmd struct {
	id    PlayerID
	reply chan snapshotReply
}

func (c stateCmd) do(e *engine) {
	snap, err := e.state(c.id)
	c.reply <- snapshotReply{snap, err}
}

type playRawCmd struct {
	id         PlayerID
	sampleRate int
	channels   int
	samples    []float32
	reply      chan snapshotReply
}

func (c playRawCmd) do(e *engine) {
	snap, err := e.playRawPCM(c.id, c.sampleRate, c.channels, c.samples)
	c.reply <- snapshotReply{snap, err}
}

type listDevicesCmd struct{ reply chan listDevicesReply }

type listDevicesReply struct {
	devices []output.Device
	err     error
}

func (c listDevicesCmd) do(e *engine) {
	devices, err := e.listDevices()
	c.reply <- listDevicesReply{devices, err}
}

// send enqueues a command unless the engine has terminated.
func (c *Controller) send(cmd command) bool {
	select {
	case c.e.cmds <- cmd:
		return true
	case <-c.e.done:
		return false
	}
}

// awaitSnapshot blocks for a snapshot reply, preferring a reply that
// raced with shutdown over reporting a disconnect.
func (c *Controller) awaitSnapshot(reply chan snapshotReply) (Snapshot, error) {
	select {
	case r := <-reply:
		return r.snap, r.err
	case <-c.e.done:
		select {
		case r := <-reply:
			return r.snap, r.err
		default:
			return Snapshot{}, ErrDisconnected
		}
	}
}

// ListOutputDevices enumerates playback devices; the synthetic "default"
// entry is always first.
func (c *Controller) ListOutputDevices() ([]output.Device, error) {
	reply := make(chan listDevicesReply, 1)
	if !c.send(listDevicesCmd{reply: reply}) {
		return nil, ErrDisconnected
	}
	select {
	case r := <-reply:
		return r.devices, r.err
	case <-c.e.done:
		select {
		case r := <-reply:
			return r.devices, r.err
		default:
			return nil, ErrDisconnected
		}
	}
}

// CreatePlayer allocates a new idle player bound to the default device.
func (c *Controller) CreatePlayer() (PlayerID, error) {
	reply := make(chan createReply, 1)
	if !c.send(createCmd{reply: reply}) {
		return 0, ErrDisconnected
	}
	select {
	case r := <-reply:
		return r.id, r.err
	case <-c.e.done:
		select {
		case r := <-reply:
			return r.id, r.err
		default:
			return 0, ErrDisconnected
		}
	}
}

// DestroyPlayer removes a player, releasing its hardware resources before
// returning.
func (c *Controller) DestroyPlayer(id PlayerID) error {
	reply := make(chan error, 1)
	if !c.send(destroyCmd{id: id, reply: reply}) {
		return ErrDisconnected
	}
	select {
	case err := <-reply:
		return err
	case <-c.e.done:
		select {
		case err := <-reply:
			return err
		default:
			return ErrDisconnected
		}
	}
}

// SetPlayerDevice rebinds a player's output device and eagerly reopens it.
func (c *Controller) SetPlayerDevice(id PlayerID, deviceID string) (Snapshot, error) {
	reply := make(chan snapshotReply, 1)
	if !c.send(setDeviceCmd{id: id, deviceID: deviceID, reply: reply}) {
		return Snapshot{}, ErrDisconnected
	}
	return c.awaitSnapshot(reply)
}

// LoadAsset replaces a player's compressed payload and display name.
func (c *Controller) LoadAsset(id PlayerID, data []byte, name string) (Snapshot, error) {
	reply := make(chan snapshotReply, 1)
	if !c.send(loadAssetCmd{id: id, data: data, name: name, reply: reply}) {
		return Snapshot{}, ErrDisconnected
	}
	return c.awaitSnapshot(reply)
}

// TogglePlayback flips the transport between playing and paused, decoding
// the loaded asset when starting from empty output.
func (c *Controller) TogglePlayback(id PlayerID) (Snapshot, error) {
	reply := make(chan snapshotReply, 1)
	if !c.send(toggleCmd{id: id, reply: reply}) {
		return Snapshot{}, ErrDisconnected
	}
	return c.awaitSnapshot(reply)
}

// Stop clears queued audio and pauses without tearing down hardware.
func (c *Controller) Stop(id PlayerID) (Snapshot, error) {
	reply := make(chan snapshotReply, 1)
	if !c.send(stopCmd{id: id, reply: reply}) {
		return Snapshot{}, ErrDisconnected
	}
	return c.awaitSnapshot(reply)
}

// State returns a point-in-time snapshot without mutating anything.
func (c *Controller) State(id PlayerID) (Snapshot, error) {
	reply := make(chan snapshotReply, 1)
	if !c.send(stateCmd{id: id, reply: reply}) {
		return Snapshot{}, ErrDisconnected
	}
	return c.awaitSnapshot(reply)
}

// PlayRawPCM enqueues raw samples for immediate playback, bypassing the
// decode path.
func (c *Controller) PlayRawPCM(id PlayerID, sampleRate, channels int, samples []float32) (Snapshot, error) {
	reply := make(chan snapshotReply, 1)
	cmd := playRawCmd{id: id, sampleRate: sampleRate, channels: channels, samples: samples, reply: reply}
	if !c.send(cmd) {
		return Snapshot{}, ErrDisconnected
	}
	return c.awaitSnapshot(reply)
}

// Close shuts the engine down, tearing down every player's hardware.
// Subsequent calls on any clone of this controller fail with
// ErrDisconnected. Close blocks until teardown completes.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		close(c.e.quit)
	})
	<-c.e.done
}
