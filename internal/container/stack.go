// SPDX-License-Identifier: MIT

// Package container provides fixed-capacity, allocation-free data structures.
// All structures allocate their backing storage once at construction and
// never grow; operations that would exceed capacity fail with a sentinel
// error instead of reallocating.
package container

import "errors"

var (
	// ErrFull is returned when an insert would exceed the fixed capacity.
	ErrFull = errors.New("container: full")
	// ErrEmpty is returned when a removal or peek finds no elements.
	ErrEmpty = errors.New("container: empty")
	// ErrBadCapacity is returned for non-positive capacities at construction.
	ErrBadCapacity = errors.New("container: capacity must be positive")
)

// Stack is a fixed-capacity LIFO stack.
type Stack[T any] struct {
	data []T
	top  int // index of the current top element, -1 when empty
}

// NewStack returns a stack holding at most capacity elements.
func NewStack[T any](capacity int) (*Stack[T], error) {
	if capacity <= 0 {
		return nil, ErrBadCapacity
	}
	return &Stack[T]{data: make([]T, capacity), top: -1}, nil
}

// Push places v on top of the stack.
func (s *Stack[T]) Push(v T) error {
	if s.Full() {
		return ErrFull
	}
	s.top++
	s.data[s.top] = v
	return nil
}

// Pop removes and returns the top element.
func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if s.Empty() {
		return zero, ErrEmpty
	}
	v := s.data[s.top]
	s.data[s.top] = zero // release reference for GC
	s.top--
	return v, nil
}

// Peek returns the top element without removing it.
func (s *Stack[T]) Peek() (T, error) {
	if s.Empty() {
		var zero T
		return zero, ErrEmpty
	}
	return s.data[s.top], nil
}

// Len returns the number of stored elements.
func (s *Stack[T]) Len() int { return s.top + 1 }

// Cap returns the fixed capacity.
func (s *Stack[T]) Cap() int { return len(s.data) }

// Empty reports whether the stack holds no elements.
func (s *Stack[T]) Empty() bool { return s.top == -1 }

// Full reports whether the stack is at capacity.
func (s *Stack[T]) Full() bool { return s.top == len(s.data)-1 }
