// SPDX-License-Identifier: MIT

package container

// Ring is a fixed-capacity circular FIFO queue. Indices wrap around the
// backing array; fullness is tracked with an element count so that the
// full and empty states stay distinguishable.
type Ring[T any] struct {
	data  []T
	front int
	rear  int
	count int
}

// NewRing returns a circular queue holding at most capacity elements.
func NewRing[T any](capacity int) (*Ring[T], error) {
	if capacity <= 0 {
		return nil, ErrBadCapacity
	}
	return &Ring[T]{data: make([]T, capacity), rear: -1}, nil
}

// Enqueue appends v at the rear of the queue.
func (r *Ring[T]) Enqueue(v T) error {
	if r.Full() {
		return ErrFull
	}
	r.rear = (r.rear + 1) % len(r.data)
	r.data[r.rear] = v
	r.count++
	return nil
}

// Dequeue removes and returns the front element.
func (r *Ring[T]) Dequeue() (T, error) {
	var zero T
	if r.Empty() {
		return zero, ErrEmpty
	}
	v := r.data[r.front]
	r.data[r.front] = zero
	r.front = (r.front + 1) % len(r.data)
	r.count--
	return v, nil
}

// Peek returns the front element without removing it.
func (r *Ring[T]) Peek() (T, error) {
	if r.Empty() {
		var zero T
		return zero, ErrEmpty
	}
	return r.data[r.front], nil
}

// Len returns the number of stored elements.
func (r *Ring[T]) Len() int { return r.count }

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.data) }

// Empty reports whether the queue holds no elements.
func (r *Ring[T]) Empty() bool { return r.count == 0 }

// Full reports whether the queue is at capacity.
func (r *Ring[T]) Full() bool { return r.count == len(r.data) }
