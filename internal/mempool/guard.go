// SPDX-License-Identifier: MIT

package mempool

import (
	"encoding/binary"
	"errors"

	"github.com/neptuneng/fieldkit/internal/log"
	"github.com/neptuneng/fieldkit/internal/metrics"
)

// ErrCorrupt is returned when a guard word no longer matches the pattern.
var ErrCorrupt = errors.New("mempool: guard corruption detected")

// guardPattern brackets every guarded payload on both sides.
const guardPattern uint32 = 0xDEADBEEF

const guardSize = 4

// GuardedBuffer is a pool allocation bracketed by guard words. Writes that
// run past the payload clobber the trailing guard and are caught by Check.
type GuardedBuffer struct {
	pool *Pool
	raw  []byte // guard + payload + guard
	size int
}

// AllocGuarded allocates a guarded buffer with a payload of size bytes.
// The guarded region occupies size+8 bytes of a pool block.
func (p *Pool) AllocGuarded(size int) (*GuardedBuffer, error) {
	if size <= 0 {
		return nil, ErrBadSize
	}
	raw, err := p.Alloc(guardSize + size + guardSize)
	if err != nil {
		return nil, err
	}
	binary.BigEndian.PutUint32(raw[:guardSize], guardPattern)
	binary.BigEndian.PutUint32(raw[guardSize+size:], guardPattern)
	return &GuardedBuffer{pool: p, raw: raw, size: size}, nil
}

// Bytes returns the writable payload.
func (g *GuardedBuffer) Bytes() []byte {
	return g.raw[guardSize : guardSize+g.size]
}

// Check verifies both guard words. A mismatch means the payload was
// overrun (or underrun) at some point since allocation.
func (g *GuardedBuffer) Check() error {
	start := binary.BigEndian.Uint32(g.raw[:guardSize])
	end := binary.BigEndian.Uint32(g.raw[guardSize+g.size:])
	if start != guardPattern || end != guardPattern {
		metrics.IncGuardViolation()
		return ErrCorrupt
	}
	return nil
}

// Free releases the buffer back to the pool. A corrupted buffer is not
// released: the block state is untrustworthy, so it stays quarantined and
// the caller gets ErrCorrupt.
func (g *GuardedBuffer) Free() error {
	if err := g.Check(); err != nil {
		logger := log.WithComponent("mempool")
		logger.Warn().
			Str("event", "guard.corruption").
			Int("payload_size", g.size).
			Msg("buffer corruption detected before free")
		return err
	}
	return g.pool.Free(g.raw)
}
