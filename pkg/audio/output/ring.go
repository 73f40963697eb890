// ABOUTME: Shared sample FIFO between control thread and render callback
// ABOUTME: Mutex-guarded ring storage plus a lock-free pause flag
package output

import (
	"sync"
	"sync/atomic"
)

// SharedBuffer is a FIFO of float32 samples with two legitimate concurrent
// owners: the engine goroutine (producer) and a hardware render callback
// (consumer). The queue is guarded by a mutex held only for bulk copies;
// the pause flag is a separate atomic so the callback can check it without
// taking the lock.
type SharedBuffer struct {
	mu    sync.Mutex
	buf   []float32
	head  int
	count int

	paused atomic.Bool
}

// NewSharedBuffer creates a buffer with the given initial capacity in
// samples. The buffer grows on Append; Append never blocks.
func NewSharedBuffer(capacity int) *SharedBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &SharedBuffer{buf: make([]float32, capacity)}
}

// Append queues samples. Growth happens on the producer side; the consumer
// path never allocates.
func (b *SharedBuffer) Append(samples []float32) {
	if len(samples) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if need := b.count + len(samples); need > len(b.buf) {
		b.grow(need)
	}

	tail := (b.head + b.count) % len(b.buf)
	n := copy(b.buf[tail:], samples)
	copy(b.buf, samples[n:])
	b.count += len(samples)
}

// Read dequeues up to len(dst) samples and zero-fills the remainder on
// underrun. It never blocks beyond the short critical section and returns
// the number of real samples delivered.
func (b *SharedBuffer) Read(dst []float32) int {
	b.mu.Lock()

	n := b.count
	if n > len(dst) {
		n = len(dst)
	}

	first := copy(dst[:n], b.buf[b.head:])
	copy(dst[first:n], b.buf)
	b.head = (b.head + n) % len(b.buf)
	b.count -= n

	b.mu.Unlock()

	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}

	return n
}

// Len returns the number of queued samples.
func (b *SharedBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Clear drops all queued samples.
func (b *SharedBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head = 0
	b.count = 0
}

// SetPaused flips the pause flag. Readable without the queue lock.
func (b *SharedBuffer) SetPaused(paused bool) {
	b.paused.Store(paused)
}

// Paused reports the pause flag.
func (b *SharedBuffer) Paused() bool {
	return b.paused.Load()
}

// grow relinearizes the ring into a larger backing slice. Caller holds mu.
func (b *SharedBuffer) grow(need int) {
	capacity := len(b.buf) * 2
	for capacity < need {
		capacity *= 2
	}

	next := make([]float32, capacity)
	n := copy(next, b.buf[b.head:b.head+min(b.count, len(b.buf)-b.head)])
	copy(next[n:], b.buf[:b.count-n])

	b.buf = next
	b.head = 0
}
