// ring.go: bounded single-producer/single-consumer byte ring
//
// Implements spec §4.1: a fixed power-of-two byte capacity C, with
// head/tail indices on separate cache lines, exchanging variable-length
// framed byte records. Grounded on original_source's
// logger/detail/LoggerQueue.h for the prepare/commit/fetch/consume/close
// contract, and on hayabusa-cloud-lfq's spsc.go for the cached-head/
// cached-tail technique (read there as inspiration; not imported — see
// DESIGN.md).
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ring

import (
	"encoding/binary"
	"errors"
)

// Errors returned by construction.
var (
	// ErrInvalidCapacity is returned when the requested capacity is not
	// a power of two, or is zero.
	ErrInvalidCapacity = errors.New("ring: capacity must be a power of two and greater than zero")
)

const lenPrefixSize = 4

// Ring is a bounded SPSC byte queue. Exactly one goroutine may call the
// producer methods (Prepare/Commit/Close) and exactly one goroutine may
// call the consumer methods (Fetch/Consume); that discipline is the
// caller's responsibility, matching the original's thread-ownership
// contract.
type Ring struct {
	buf  []byte
	mask uint64

	// head is written only by the producer, with release ordering at
	// Commit; read by the consumer with acquire ordering at Fetch.
	head PaddedInt64
	// tail is written only by the consumer, with release ordering at
	// Consume; read by the producer with acquire ordering at Prepare.
	tail PaddedInt64

	closed PaddedInt64 // 0 = open, 1 = closed

	// cached copies of the peer's index, refreshed only on a failed
	// fast-path check — avoids a cross-core atomic load on every call
	// when there is slack in the buffer (cached-head/tail technique).
	cachedTail int64
	cachedHead int64

	// preparedOffset/preparedLen describe the last window returned by
	// Prepare, pending Commit.
	preparedOffset int64
	preparedLen    int
	preparing      bool

	// fetchedOffset/fetchedLen describe the last window returned by
	// Fetch, pending Consume.
	fetchedOffset int64
	fetchedLen    int
	fetched       bool
}

// New creates a Ring with the given byte capacity, which must be a power
// of two.
func New(capacity int) (*Ring, error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, ErrInvalidCapacity
	}
	return &Ring{
		buf:  make([]byte, capacity),
		mask: uint64(capacity - 1),
	}, nil
}

// Prepare reserves a contiguous window of n+4 bytes (payload plus its
// length prefix) if free space permits, returning the payload slice to
// write into and true on success. It never blocks. Only one Prepare may
// be outstanding at a time without an intervening Commit.
func (r *Ring) Prepare(n int) ([]byte, bool) {
	total := int64(lenPrefixSize + n)
	head := r.head.Load()

	free := int64(len(r.buf)) - (head - r.cachedTail)
	if free < total {
		r.cachedTail = r.tail.Load() // acquire
		free = int64(len(r.buf)) - (head - r.cachedTail)
		if free < total {
			return nil, false
		}
	}

	offset := head & int64(r.mask)
	// The payload window must not wrap: simplify producer/consumer code
	// by refusing a wrapping reservation and instead padding to the
	// buffer end with a 0xFFFFFFFF wrap marker the consumer skips.
	// The marker itself needs lenPrefixSize bytes to encode; when less
	// than that remains before the buffer end (e.g. a prior entry left
	// only 1-3 bytes of slack), the marker's trailing bytes wrap around
	// and land at the buffer start instead of being truncated.
	if offset+total > int64(len(r.buf)) {
		padLen := int64(len(r.buf)) - offset
		effectivePad := padLen
		if effectivePad < lenPrefixSize {
			effectivePad = lenPrefixSize
		}
		if free < effectivePad+total {
			return nil, false
		}
		r.writeWrappedMarker(offset)
		r.head.Store(head + effectivePad)
		return r.Prepare(n)
	}

	r.preparedOffset = offset
	r.preparedLen = n
	r.preparing = true
	return r.buf[offset+lenPrefixSize : offset+total], true
}

// writeWrappedMarker writes the lenPrefixSize-byte wrap marker starting at
// offset, wrapping around the buffer end when fewer than lenPrefixSize
// bytes remain before it.
func (r *Ring) writeWrappedMarker(offset int64) {
	var tmp [lenPrefixSize]byte
	binary.LittleEndian.PutUint32(tmp[:], 0xFFFFFFFF)
	n := int64(len(r.buf))
	for i := int64(0); i < lenPrefixSize; i++ {
		r.buf[(offset+i)%n] = tmp[i]
	}
}

// readWrappedMarker reads a lenPrefixSize-byte value starting at offset,
// wrapping around the buffer end when fewer than lenPrefixSize bytes
// remain before it. Used only when the plain contiguous read would
// overrun the buffer.
func (r *Ring) readWrappedMarker(offset int64) uint32 {
	var tmp [lenPrefixSize]byte
	n := int64(len(r.buf))
	for i := int64(0); i < lenPrefixSize; i++ {
		tmp[i] = r.buf[(offset+i)%n]
	}
	return binary.LittleEndian.Uint32(tmp[:])
}

// Commit publishes the entry reserved by the last successful Prepare. It
// has no effect if there is no pending prepare.
func (r *Ring) Commit() {
	if !r.preparing {
		return
	}
	binary.LittleEndian.PutUint32(r.buf[r.preparedOffset:], uint32(r.preparedLen))
	r.head.Store(r.head.Load() + int64(lenPrefixSize+r.preparedLen)) // release
	r.preparing = false
}

// Fetch returns a view over the next committed entry, if any, and true.
// The returned slice is valid until the matching Consume call.
func (r *Ring) Fetch() ([]byte, bool) {
	tail := r.tail.Load()
	head := r.cachedHead
	if tail >= head {
		r.cachedHead = r.head.Load() // acquire
		head = r.cachedHead
		if tail >= head {
			return nil, false
		}
	}

	offset := tail & int64(r.mask)
	var prefix uint32
	if offset+lenPrefixSize > int64(len(r.buf)) {
		prefix = r.readWrappedMarker(offset)
	} else {
		prefix = binary.LittleEndian.Uint32(r.buf[offset:])
	}
	if prefix == 0xFFFFFFFF {
		// Wrap marker: skip to the buffer start and retry.
		padLen := int64(len(r.buf)) - offset
		effectivePad := padLen
		if effectivePad < lenPrefixSize {
			effectivePad = lenPrefixSize
		}
		r.tail.Store(tail + effectivePad)
		return r.Fetch()
	}

	n := int(prefix)
	r.fetchedOffset = offset
	r.fetchedLen = n
	r.fetched = true
	return r.buf[offset+lenPrefixSize : offset+int64(lenPrefixSize+n)], true
}

// Consume releases the entry returned by the last successful Fetch.
func (r *Ring) Consume() {
	if !r.fetched {
		return
	}
	r.tail.Store(r.tail.Load() + int64(lenPrefixSize+r.fetchedLen)) // release
	r.fetched = false
}

// Close marks the queue closed. Safe to call from either side; observable
// by both via IsClosed.
func (r *Ring) Close() {
	r.closed.Store(1)
}

// IsClosed reports whether Close has been called.
func (r *Ring) IsClosed() bool {
	return r.closed.Load() != 0
}

// IsEmpty reports whether the consumer has drained every committed entry
// as of this call (used by the registry to decide when a closed consumer
// may be reaped).
func (r *Ring) IsEmpty() bool {
	return r.tail.Load() >= r.head.Load()
}
