// SPDX-License-Identifier: MIT

package mempool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_AllocFree(t *testing.T) {
	p, err := NewPool("test", 64, 4)
	require.NoError(t, err)

	a, err := p.Alloc(32)
	require.NoError(t, err)
	assert.Len(t, a, 32)

	b, err := p.Alloc(64)
	require.NoError(t, err)
	assert.Len(t, b, 64)

	stats := p.Stats()
	assert.Equal(t, 2, stats.InUse)
	assert.Equal(t, 2, stats.Peak)
	assert.Equal(t, 4, stats.Total)

	require.NoError(t, p.Free(a))
	stats = p.Stats()
	assert.Equal(t, 1, stats.InUse)
	assert.Equal(t, 2, stats.Peak, "peak must survive frees")

	require.NoError(t, p.Free(b))
	assert.Equal(t, 0, p.Stats().InUse)
}

func TestPool_AllocZeroed(t *testing.T) {
	p, err := NewPool("test", 16, 1)
	require.NoError(t, err)

	buf, err := p.Alloc(16)
	require.NoError(t, err)
	copy(buf, "dirty dirty data")
	require.NoError(t, p.Free(buf))

	buf, err = p.Alloc(16)
	require.NoError(t, err)
	for i, c := range buf {
		require.Zerof(t, c, "byte %d not zeroed after recycle", i)
	}
}

func TestPool_BadSize(t *testing.T) {
	p, err := NewPool("test", 64, 2)
	require.NoError(t, err)

	_, err = p.Alloc(0)
	assert.ErrorIs(t, err, ErrBadSize)
	_, err = p.Alloc(65)
	assert.ErrorIs(t, err, ErrBadSize)
}

func TestPool_Exhaustion(t *testing.T) {
	p, err := NewPool("test", 64, 2)
	require.NoError(t, err)

	_, err = p.Alloc(1)
	require.NoError(t, err)
	_, err = p.Alloc(1)
	require.NoError(t, err)

	_, err = p.Alloc(1)
	assert.ErrorIs(t, err, ErrPoolExhausted)
}

func TestPool_DoubleFree(t *testing.T) {
	p, err := NewPool("test", 64, 2)
	require.NoError(t, err)

	buf, err := p.Alloc(8)
	require.NoError(t, err)

	require.NoError(t, p.Free(buf))
	assert.ErrorIs(t, p.Free(buf), ErrDoubleFree)
}

func TestPool_ForeignBuffer(t *testing.T) {
	p, err := NewPool("test", 64, 2)
	require.NoError(t, err)

	assert.ErrorIs(t, p.Free(make([]byte, 8)), ErrNotOwned)
	assert.ErrorIs(t, p.Free(nil), ErrNotOwned)
}

func TestPool_ResetKeepsPeak(t *testing.T) {
	p, err := NewPool("test", 64, 4)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := p.Alloc(8)
		require.NoError(t, err)
	}
	p.Reset()

	stats := p.Stats()
	assert.Equal(t, 0, stats.InUse)
	assert.Equal(t, 3, stats.Peak)

	// Every block is usable again after the reset.
	for i := 0; i < 4; i++ {
		_, err := p.Alloc(8)
		require.NoError(t, err)
	}
}

func TestPool_BadConfig(t *testing.T) {
	_, err := NewPool("test", 0, 4)
	assert.ErrorIs(t, err, ErrBadConfig)
	_, err = NewPool("test", 64, 0)
	assert.ErrorIs(t, err, ErrBadConfig)
}
