// SPDX-License-Identifier: MIT

// Package mempool implements a fixed-block pool allocator with usage
// accounting, double-free detection and optional guard-word bracketing
// for corruption checks. All storage is allocated once at construction;
// Alloc and Free never touch the Go heap.
package mempool

import (
	"errors"
	"sync"

	"github.com/neptuneng/fieldkit/internal/metrics"
)

var (
	// ErrBadSize is returned when the requested size is zero or exceeds
	// the pool block size.
	ErrBadSize = errors.New("mempool: invalid allocation size")
	// ErrPoolExhausted is returned when every block is in use.
	ErrPoolExhausted = errors.New("mempool: pool exhausted")
	// ErrDoubleFree is returned when a block is released twice.
	ErrDoubleFree = errors.New("mempool: double free")
	// ErrNotOwned is returned when a buffer does not belong to the pool.
	ErrNotOwned = errors.New("mempool: buffer not owned by pool")
	// ErrBadConfig is returned for non-positive pool dimensions.
	ErrBadConfig = errors.New("mempool: block size and count must be positive")
)

// Stats describes pool occupancy.
type Stats struct {
	InUse int // blocks currently allocated
	Peak  int // high-water mark of simultaneous allocations
	Total int // total number of blocks
}

// Pool hands out fixed-size blocks from a preallocated arena.
type Pool struct {
	mu        sync.Mutex
	name      string
	mem       []byte
	blockSize int
	inUse     []bool
	allocated int
	peak      int
}

// NewPool creates a pool of numBlocks blocks of blockSize bytes each.
// The name labels the pool in metrics.
func NewPool(name string, blockSize, numBlocks int) (*Pool, error) {
	if blockSize <= 0 || numBlocks <= 0 {
		return nil, ErrBadConfig
	}
	return &Pool{
		name:      name,
		mem:       make([]byte, blockSize*numBlocks),
		blockSize: blockSize,
		inUse:     make([]bool, numBlocks),
	}, nil
}

// Alloc returns a zeroed buffer of exactly size bytes backed by a free
// block. The returned slice must be released with Free.
func (p *Pool) Alloc(size int) ([]byte, error) {
	if size <= 0 || size > p.blockSize {
		metrics.IncPoolAllocFailure(p.name, "bad_size")
		return nil, ErrBadSize
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.inUse {
		if p.inUse[i] {
			continue
		}
		p.inUse[i] = true
		p.allocated++
		if p.allocated > p.peak {
			p.peak = p.allocated
		}
		metrics.SetPoolInUse(p.name, p.allocated)
		metrics.SetPoolPeak(p.name, p.peak)

		off := i * p.blockSize
		block := p.mem[off : off+p.blockSize]
		clear(block)
		return block[:size:size], nil
	}

	metrics.IncPoolAllocFailure(p.name, "exhausted")
	return nil, ErrPoolExhausted
}

// Free releases the block backing buf and zeroes it. Buffers not handed
// out by this pool are rejected, as is releasing the same block twice.
func (p *Pool) Free(buf []byte) error {
	if len(buf) == 0 {
		return ErrNotOwned
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	idx, ok := p.blockIndex(buf)
	if !ok {
		return ErrNotOwned
	}
	if !p.inUse[idx] {
		return ErrDoubleFree
	}
	p.inUse[idx] = false
	p.allocated--
	metrics.SetPoolInUse(p.name, p.allocated)

	off := idx * p.blockSize
	clear(p.mem[off : off+p.blockSize])
	return nil
}

// blockIndex locates the block whose start matches the first byte of buf.
// Callers must hold the mutex.
func (p *Pool) blockIndex(buf []byte) (int, bool) {
	for i := range p.inUse {
		off := i * p.blockSize
		if &buf[0] == &p.mem[off] {
			return i, true
		}
	}
	return 0, false
}

// Stats returns the current occupancy numbers.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{InUse: p.allocated, Peak: p.peak, Total: len(p.inUse)}
}

// Reset releases every block and zeroes the arena. The peak statistic is
// kept so long-running occupancy history survives a reset.
func (p *Pool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.inUse {
		p.inUse[i] = false
	}
	p.allocated = 0
	clear(p.mem)
	metrics.SetPoolInUse(p.name, 0)
}

// BlockSize returns the size of each block in bytes.
func (p *Pool) BlockSize() int { return p.blockSize }
