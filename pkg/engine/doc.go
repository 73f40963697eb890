// ABOUTME: Package documentation for the playback engine
// ABOUTME: Describes the command-actor model and controller contract
// Package engine implements a multi-player audio playback engine as a
// command actor: one goroutine owns every player's state, and a
// thread-safe Controller converts each operation into a queued command
// with a correlated reply.
//
// Players load a compressed asset, decode it on first playback, and
// render through a pluggable output backend (see pkg/audio/output).
// Commands against the same player are strictly ordered; commands from
// different callers are served in arrival order at the single queue.
//
// Example:
//
//	ctl := engine.New(engine.Config{Backend: output.NewMalgo(44100, 2)})
//	defer ctl.Close()
//
//	id, _ := ctl.CreatePlayer()
//	ctl.LoadAsset(id, mp3Bytes, "track.mp3")
//	snap, err := ctl.TogglePlayback(id)
package engine
