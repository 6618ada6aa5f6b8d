package engine

import (
	"sync"

	"github.com/webperf-tools/vitaltop/model"
)

// History is a ring buffer of overlay snapshots for trend display.
type History struct {
	buf  []model.Overlay
	head int
	size int
	cap  int
	mu   sync.RWMutex
}

// NewHistory creates a ring buffer with the given capacity.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]model.Overlay, capacity), cap: capacity}
}

// Push adds a snapshot to the ring buffer.
func (h *History) Push(snap model.Overlay) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf[h.head] = snap
	h.head = (h.head + 1) % h.cap
	if h.size < h.cap {
		h.size++
	}
}

// Len returns the number of snapshots stored.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.size
}

// Latest returns a copy of the most recent snapshot.
func (h *History) Latest() *model.Overlay {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.size == 0 {
		return nil
	}
	idx := (h.head - 1 + h.cap) % h.cap
	snap := h.buf[idx] // copy
	return &snap
}

// Get returns a copy of the snapshot at position i (0 = oldest in buffer).
func (h *History) Get(i int) *model.Overlay {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if i < 0 || i >= h.size {
		return nil
	}
	idx := (h.head - h.size + i + h.cap) % h.cap
	snap := h.buf[idx] // copy
	return &snap
}
