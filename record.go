// record.go: On-wire record protocol
//
// Layout of a committed ring entry, per spec §4.4:
//
//	[RecordHeader][LogRecordHeader][*RecordMetadata][arg0][arg1]...[argN-1]
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package rocket

import "unsafe"

// EventType discriminates RecordHeader variants. LogRecord is currently
// the only one; the field is reserved for future event kinds.
type EventType uint8

const (
	// EventLogRecord marks a standard formatted log record.
	EventLogRecord EventType = iota
)

// RecordHeader is the first thing the consumer reads from a committed
// entry.
type RecordHeader struct {
	Type EventType
}

// Flag bits carried in RecordMetadata.Flags.
const (
	// FlagRetry upgrades the enqueue policy from drop-on-full to
	// spin-until-accepted for records from this call site.
	FlagRetry uint32 = 1 << iota
)

// DecodeArgsFn pops arguments from cursor, in the caller-declared order,
// pushing each into store. It is supplied once per call site and is
// guaranteed by construction to match exactly the encoding the producer
// used for that same call site, so decoding never fails.
type DecodeArgsFn func(cursor []byte, store *ArgStore)

// RecordMetadata is the immutable, static, one-per-call-site descriptor
// referenced by every record emitted from that site. It has program
// lifetime and is transported across the ring by pointer: the ring never
// copies it, only a *RecordMetadata word.
type RecordMetadata struct {
	File       string
	Line       int
	Level      Level
	Format     string
	Flags      uint32
	DecodeArgs DecodeArgsFn
}

// Retry reports whether this call site carries the RETRY flag.
func (m *RecordMetadata) Retry() bool {
	return m.Flags&FlagRetry != 0
}

// LogRecordHeader is the per-record header following RecordHeader for a
// LogRecord event.
type LogRecordHeader struct {
	Timestamp ClockTimestamp
	ThreadID  uint64
}

// metadataPtrSize is sizeof(*RecordMetadata) on this platform, used when
// computing the total reserved size of a record at enqueue time.
const metadataPtrSize = int(unsafe.Sizeof(uintptr(0)))

// EncodedRecordSize returns the total number of bytes a LogRecord with
// the given already-encoded argument payload size will occupy, per
// spec §4.4: sizeof(RecordHeader)+sizeof(LogRecordHeader)+sizeof(ptr)+argsSize.
func EncodedRecordSize(argsSize int) int {
	return FixedSize[RecordHeader]() + FixedSize[LogRecordHeader]() + metadataPtrSize + argsSize
}

// EncodeRecordPrefix writes [RecordHeader][LogRecordHeader][*RecordMetadata]
// into dst and returns the number of bytes written. The caller appends
// encoded arguments immediately after.
func EncodeRecordPrefix(dst []byte, header LogRecordHeader, meta *RecordMetadata) int {
	n := EncodeFixed(dst, RecordHeader{Type: EventLogRecord})
	n += EncodeFixed(dst[n:], header)
	*(*uintptr)(unsafe.Pointer(&dst[n])) = uintptr(unsafe.Pointer(meta))
	n += metadataPtrSize
	return n
}

// DecodeRecordPrefix is the inverse of EncodeRecordPrefix: it reads the
// RecordHeader, LogRecordHeader and metadata pointer from the front of
// src, returning the remaining argument bytes.
func DecodeRecordPrefix(src []byte) (RecordHeader, LogRecordHeader, *RecordMetadata, []byte) {
	rh, n := DecodeFixed[RecordHeader](src)
	lh, m := DecodeFixed[LogRecordHeader](src[n:])
	n += m
	meta := (*RecordMetadata)(unsafe.Pointer(*(*uintptr)(unsafe.Pointer(&src[n]))))
	n += metadataPtrSize
	return rh, lh, meta, src[n:]
}
