// ABOUTME: Engine error sentinels
// ABOUTME: One sentinel per failure class, matched with errors.Is
package engine

import "errors"

// Errors returned by Controller calls. Handlers wrap these with context
// via fmt.Errorf("...: %w", ...); callers classify with errors.Is.
var (
	// ErrNotFound reports an unknown player handle.
	ErrNotFound = errors.New("player not found")

	// ErrDevice reports a device resolution, open or reconfigure failure,
	// including resource exhaustion in the OS audio stack.
	ErrDevice = errors.New("audio device error")

	// ErrDecode reports a malformed or unsupported compressed payload.
	ErrDecode = errors.New("decode error")

	// ErrInvalidArgument reports a zero or negative sample rate or
	// channel count.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoAudio reports a playback attempt with no loaded asset.
	ErrNoAudio = errors.New("no audio loaded")

	// ErrUninitializedOutput reports an operation that needs open output
	// resources which are absent and could not be lazily created.
	ErrUninitializedOutput = errors.New("output is not initialized")

	// ErrDisconnected reports that the engine goroutine is unreachable.
	ErrDisconnected = errors.New("audio engine disconnected")
)
