// ABOUTME: Tests for the shared sample FIFO
// ABOUTME: Covers FIFO order, underrun silence, growth and concurrent use
package output

import (
	"sync"
	"testing"
)

func TestSharedBufferFIFO(t *testing.T) {
	b := NewSharedBuffer(8)
	b.Append([]float32{1, 2, 3})
	b.Append([]float32{4, 5})

	dst := make([]float32, 5)
	n := b.Read(dst)

	if n != 5 {
		t.Fatalf("expected 5 samples, got %d", n)
	}
	for i, want := range []float32{1, 2, 3, 4, 5} {
		if dst[i] != want {
			t.Errorf("sample %d: expected %v, got %v", i, want, dst[i])
		}
	}
	if b.Len() != 0 {
		t.Errorf("expected empty buffer, got %d", b.Len())
	}
}

func TestSharedBufferUnderrunZeroFills(t *testing.T) {
	b := NewSharedBuffer(8)
	b.Append([]float32{1, 2})

	dst := []float32{9, 9, 9, 9}
	n := b.Read(dst)

	if n != 2 {
		t.Fatalf("expected 2 real samples, got %d", n)
	}
	if dst[0] != 1 || dst[1] != 2 {
		t.Errorf("unexpected head: %v", dst[:2])
	}
	if dst[2] != 0 || dst[3] != 0 {
		t.Errorf("expected silence tail, got %v", dst[2:])
	}
}

func TestSharedBufferGrowsPastInitialCapacity(t *testing.T) {
	b := NewSharedBuffer(4)

	in := make([]float32, 1000)
	for i := range in {
		in[i] = float32(i)
	}
	// Offset the head first so growth has to relinearize a wrapped ring.
	b.Append(in[:3])
	b.Read(make([]float32, 2))
	b.Append(in[3:])

	dst := make([]float32, 1001)
	n := b.Read(dst)
	if n != 998 {
		t.Fatalf("expected 998 samples, got %d", n)
	}
	for i := 0; i < n; i++ {
		if dst[i] != float32(i+2) {
			t.Fatalf("sample %d: expected %v, got %v", i, float32(i+2), dst[i])
		}
	}
}

func TestSharedBufferClear(t *testing.T) {
	b := NewSharedBuffer(8)
	b.Append([]float32{1, 2, 3})
	b.Clear()

	if b.Len() != 0 {
		t.Errorf("expected empty buffer after clear, got %d", b.Len())
	}

	dst := make([]float32, 2)
	if n := b.Read(dst); n != 0 {
		t.Errorf("expected 0 samples after clear, got %d", n)
	}
}

func TestSharedBufferPauseFlag(t *testing.T) {
	b := NewSharedBuffer(8)

	if b.Paused() {
		t.Fatal("new buffer must not start paused")
	}
	b.SetPaused(true)
	if !b.Paused() {
		t.Fatal("expected paused")
	}
	b.SetPaused(false)
	if b.Paused() {
		t.Fatal("expected resumed")
	}
}

// TestSharedBufferConcurrentFIFO injects samples from a producer while a
// consumer drains concurrently: delivery must preserve order end to end
// and never panic, whatever the interleaving.
func TestSharedBufferConcurrentFIFO(t *testing.T) {
	b := NewSharedBuffer(64)

	const total = 50000
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		chunk := make([]float32, 0, 37)
		for i := 0; i < total; i++ {
			chunk = append(chunk, float32(i))
			if len(chunk) == cap(chunk) || i == total-1 {
				b.Append(chunk)
				chunk = chunk[:0]
			}
		}
	}()

	received := make([]float32, 0, total)
	dst := make([]float32, 128)
	for len(received) < total {
		n := b.Read(dst)
		received = append(received, dst[:n]...)
	}
	wg.Wait()

	for i, s := range received {
		if s != float32(i) {
			t.Fatalf("out-of-order delivery at %d: got %v", i, s)
		}
	}
}

func TestSharedBufferReadNeverBlocksWhenEmpty(t *testing.T) {
	b := NewSharedBuffer(8)

	dst := make([]float32, 16)
	if n := b.Read(dst); n != 0 {
		t.Fatalf("expected 0 samples, got %d", n)
	}
	for i, s := range dst {
		if s != 0 {
			t.Fatalf("expected silence at %d, got %v", i, s)
		}
	}
}
