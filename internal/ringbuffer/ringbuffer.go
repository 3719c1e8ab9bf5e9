// Package ringbuffer provides a bounded, thread-safe buffer that keeps the most recent entries.
package ringbuffer

import "sync"

// Buffer keeps the last Cap entries added to it. Older entries are overwritten.
type Buffer[T any] struct {
	mu      sync.RWMutex
	entries []T
	written uint64
}

// New creates a buffer holding up to capacity entries.
func New[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		panic("ringbuffer: capacity must be greater than 0")
	}
	return &Buffer[T]{
		entries: make([]T, capacity),
	}
}

// Add appends an entry, overwriting the oldest one if the buffer is full.
func (b *Buffer[T]) Add(entry T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.written%uint64(len(b.entries))] = entry
	b.written++
}

// Last returns up to n of the most recent entries, oldest first.
func (b *Buffer[T]) Last(n int) []T {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := min(uint64(max(n, 0)), b.len())
	result := make([]T, count)
	start := b.written - count
	for i := range count {
		result[i] = b.entries[(start+i)%uint64(len(b.entries))]
	}
	return result
}

// All returns all buffered entries, oldest first.
func (b *Buffer[T]) All() []T {
	return b.Last(len(b.entries))
}

// Len returns the number of buffered entries.
func (b *Buffer[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return int(b.len())
}

// Cap returns the maximum number of entries.
func (b *Buffer[T]) Cap() int {
	return len(b.entries)
}

// Dropped returns how many entries were overwritten.
func (b *Buffer[T]) Dropped() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.written - b.len()
}

func (b *Buffer[T]) len() uint64 {
	return min(b.written, uint64(len(b.entries)))
}
