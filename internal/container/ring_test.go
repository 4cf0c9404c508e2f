// SPDX-License-Identifier: MIT

package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRing_FIFOOrder(t *testing.T) {
	r, err := NewRing[int32](8)
	require.NoError(t, err)

	for i := int32(1); i <= 5; i++ {
		require.NoError(t, r.Enqueue(i*100))
	}
	assert.Equal(t, 5, r.Len())

	front, err := r.Peek()
	require.NoError(t, err)
	assert.Equal(t, int32(100), front)

	for want := int32(100); want <= 500; want += 100 {
		got, err := r.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.True(t, r.Empty())
}

func TestRing_Overflow(t *testing.T) {
	r, err := NewRing[int](3)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Enqueue(i))
	}
	assert.True(t, r.Full())
	assert.ErrorIs(t, r.Enqueue(99), ErrFull)
	assert.Equal(t, 3, r.Len())
}

func TestRing_Underflow(t *testing.T) {
	r, err := NewRing[int](3)
	require.NoError(t, err)

	_, err = r.Dequeue()
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = r.Peek()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRing_Wraparound(t *testing.T) {
	r, err := NewRing[int](4)
	require.NoError(t, err)

	// Push the indices around the buffer several times so that front and
	// rear wrap past the end of the backing array.
	next := 0
	for i := 0; i < 4; i++ {
		require.NoError(t, r.Enqueue(i))
	}
	for i := 0; i < 10; i++ {
		got, err := r.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, next, got)
		next++
		require.NoError(t, r.Enqueue(i+4))
	}
	assert.True(t, r.Full())

	for !r.Empty() {
		got, err := r.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, next, got)
		next++
	}
}

func TestRing_BadCapacity(t *testing.T) {
	_, err := NewRing[int](0)
	assert.ErrorIs(t, err, ErrBadCapacity)
}
