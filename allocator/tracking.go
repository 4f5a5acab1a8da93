package allocator

import (
	"sync"
	"unsafe"
)

type Stats struct {
	Allocations   int
	Deallocations int
	Live          int
	LiveBytes     int
	ForeignFrees  int
	Failures      int
}

// Tracking records every block it hands out so tests can assert that each
// allocation is paired with exactly one deallocation. FailAfter arms a
// countdown after which Allocate returns nil.
type Tracking struct {
	mu        sync.Mutex
	live      map[*byte]int
	stats     Stats
	remaining int
}

func NewTracking() *Tracking {
	return &Tracking{live: map[*byte]int{}, remaining: -1}
}

// FailAfter lets n more allocations succeed and fails every one after that.
// A negative n disarms the countdown.
func (t *Tracking) FailAfter(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n < 0 {
		n = -1
	}
	t.remaining = n
}

func (t *Tracking) Disarm() {
	t.FailAfter(-1)
}

func (t *Tracking) Allocate(size int) []byte {
	if size < 0 {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.remaining == 0 {
		t.stats.Failures++
		return nil
	}
	if t.remaining > 0 {
		t.remaining--
	}
	block := make([]byte, size, max(size, 1))
	t.live[unsafe.SliceData(block)] = size
	t.stats.Allocations++
	t.stats.Live++
	t.stats.LiveBytes += size
	return block
}

func (t *Tracking) Deallocate(block []byte) {
	if cap(block) == 0 {
		return
	}
	key := unsafe.SliceData(block)
	t.mu.Lock()
	defer t.mu.Unlock()
	size, ok := t.live[key]
	if !ok {
		t.stats.ForeignFrees++
		return
	}
	delete(t.live, key)
	t.stats.Deallocations++
	t.stats.Live--
	t.stats.LiveBytes -= size
}

func (t *Tracking) Reallocate(block []byte, size int) []byte {
	next := t.Allocate(size)
	if next == nil {
		return nil
	}
	copy(next, block)
	t.Deallocate(block)
	return next
}

func (t *Tracking) Valid() bool {
	return t != nil
}

func (t *Tracking) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Owns reports whether block is a live allocation of t.
func (t *Tracking) Owns(block []byte) bool {
	if cap(block) == 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.live[unsafe.SliceData(block)]
	return ok
}
