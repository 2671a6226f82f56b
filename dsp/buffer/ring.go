package buffer

import (
	"errors"
	"fmt"
)

// ErrInvalidCapacity is returned when a ring is created without storage.
var ErrInvalidCapacity = errors.New("buffer: ring capacity must be > 0")

// Ring is a circular store with separate read and write cursors.
//
// Put/Peek access the slot under the write/read cursor without moving it;
// Push/Pop do the same and then advance. Slots are initialised to the zero
// value of T, which is also what Reset restores.
type Ring[T any] struct {
	buf   []T
	read  int
	write int
}

// NewRing returns a ring with capacity zero-valued slots and both cursors at 0.
func NewRing[T any](capacity int) (*Ring[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return &Ring[T]{buf: make([]T, capacity)}, nil
}

// Reset zeroes the storage and rewinds both cursors.
func (r *Ring[T]) Reset() {
	clear(r.buf)
	r.read = 0
	r.write = 0
}

// Put stores v at the write cursor without advancing it.
func (r *Ring[T]) Put(v T) {
	r.buf[r.write] = v
}

// Peek returns the value at the read cursor without advancing it.
func (r *Ring[T]) Peek() T {
	return r.buf[r.read]
}

// Get returns the value offset slots after the read cursor.
// Offsets larger than the capacity or negative wrap around.
func (r *Ring[T]) Get(offset int) T {
	return r.buf[r.wrap(r.read+offset)]
}

// Push stores v at the write cursor and advances it.
func (r *Ring[T]) Push(v T) {
	r.buf[r.write] = v
	r.write++
	if r.write >= len(r.buf) {
		r.write = 0
	}
}

// Pop returns the value at the read cursor and advances it.
func (r *Ring[T]) Pop() T {
	v := r.buf[r.read]
	r.read++
	if r.read >= len(r.buf) {
		r.read = 0
	}
	return v
}

// Len returns the number of slots between the read and write cursors.
func (r *Ring[T]) Len() int {
	if r.write >= r.read {
		return r.write - r.read
	}
	return len(r.buf) - r.read + r.write
}

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}

// ReadIndex returns the read cursor.
func (r *Ring[T]) ReadIndex() int { return r.read }

// WriteIndex returns the write cursor.
func (r *Ring[T]) WriteIndex() int { return r.write }

// SetReadIndex moves the read cursor to index modulo the capacity.
func (r *Ring[T]) SetReadIndex(index int) {
	r.read = r.wrap(index)
}

// SetWriteIndex moves the write cursor to index modulo the capacity.
func (r *Ring[T]) SetWriteIndex(index int) {
	r.write = r.wrap(index)
}

// Snapshot returns a copy of the raw storage in index order.
func (r *Ring[T]) Snapshot() []T {
	out := make([]T, len(r.buf))
	copy(out, r.buf)
	return out
}

func (r *Ring[T]) wrap(i int) int {
	n := len(r.buf)
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
