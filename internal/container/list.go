// SPDX-License-Identifier: MIT

package container

import "errors"

// ErrPoolExhausted is returned when the node pool has no free node left.
var ErrPoolExhausted = errors.New("container: node pool exhausted")

// node indices into the pool; -1 terminates a chain.
type node[T comparable] struct {
	value T
	next  int
}

// List is a singly linked list whose nodes live in a fixed pool allocated
// at construction. Removed nodes return to a free list, so the structure
// performs no allocation after NewList.
type List[T comparable] struct {
	pool []node[T]
	head int // first list node, -1 when empty
	free int // first free node, -1 when exhausted
	size int
}

// NewList returns a list backed by a pool of poolSize nodes.
func NewList[T comparable](poolSize int) (*List[T], error) {
	if poolSize <= 0 {
		return nil, ErrBadCapacity
	}
	l := &List[T]{
		pool: make([]node[T], poolSize),
		head: -1,
		free: 0,
	}
	// Chain every node into the free list.
	for i := range l.pool {
		l.pool[i].next = i + 1
	}
	l.pool[poolSize-1].next = -1
	return l, nil
}

func (l *List[T]) allocNode() (int, error) {
	if l.free == -1 {
		return -1, ErrPoolExhausted
	}
	idx := l.free
	l.free = l.pool[idx].next
	return idx, nil
}

func (l *List[T]) freeNode(idx int) {
	var zero T
	l.pool[idx].value = zero
	l.pool[idx].next = l.free
	l.free = idx
}

// PushFront inserts v at the head of the list.
func (l *List[T]) PushFront(v T) error {
	idx, err := l.allocNode()
	if err != nil {
		return err
	}
	l.pool[idx].value = v
	l.pool[idx].next = l.head
	l.head = idx
	l.size++
	return nil
}

// PopFront removes and returns the head element.
func (l *List[T]) PopFront() (T, error) {
	var zero T
	if l.head == -1 {
		return zero, ErrEmpty
	}
	idx := l.head
	v := l.pool[idx].value
	l.head = l.pool[idx].next
	l.freeNode(idx)
	l.size--
	return v, nil
}

// Contains reports whether v is present in the list.
func (l *List[T]) Contains(v T) bool {
	for idx := l.head; idx != -1; idx = l.pool[idx].next {
		if l.pool[idx].value == v {
			return true
		}
	}
	return false
}

// Remove deletes the first node holding v. It reports whether a node
// was removed.
func (l *List[T]) Remove(v T) bool {
	if l.head == -1 {
		return false
	}
	if l.pool[l.head].value == v {
		idx := l.head
		l.head = l.pool[idx].next
		l.freeNode(idx)
		l.size--
		return true
	}
	for idx := l.head; l.pool[idx].next != -1; idx = l.pool[idx].next {
		next := l.pool[idx].next
		if l.pool[next].value == v {
			l.pool[idx].next = l.pool[next].next
			l.freeNode(next)
			l.size--
			return true
		}
	}
	return false
}

// Len returns the number of stored elements.
func (l *List[T]) Len() int { return l.size }

// Values returns the list contents from head to tail.
func (l *List[T]) Values() []T {
	out := make([]T, 0, l.size)
	for idx := l.head; idx != -1; idx = l.pool[idx].next {
		out = append(out, l.pool[idx].value)
	}
	return out
}
