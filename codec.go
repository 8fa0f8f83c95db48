// codec.go: Wire encoding of fixed-size and length-prefixed values
//
// Mirrors the source's Codec.h: any trivially-copyable value is packed as
// a raw byte copy; a byte/string slice is packed as a 4-byte
// little-endian size followed by its bytes. Both directions perform no
// allocation and are endian-neutral between producer and consumer since
// both run in the same process.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package rocket

import (
	"encoding/binary"
	"unsafe"
)

// FixedSize returns sizeof(T) for a trivially-copyable value type T.
func FixedSize[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// EncodeFixed writes the raw bytes of v into dst, which must have at
// least FixedSize[T]() bytes available, and returns the number of bytes
// written.
func EncodeFixed[T any](dst []byte, v T) int {
	n := FixedSize[T]()
	src := unsafe.Slice((*byte)(unsafe.Pointer(&v)), n)
	copy(dst, src)
	return n
}

// DecodeFixed reads a T out of the front of src by raw byte copy and
// returns the value plus the number of bytes consumed.
func DecodeFixed[T any](src []byte) (T, int) {
	var v T
	n := FixedSize[T]()
	dst := unsafe.Slice((*byte)(unsafe.Pointer(&v)), n)
	copy(dst, src[:n])
	return v, n
}

// lenPrefixSize is the width of the length prefix used both for ring
// entry framing (spec.md §4.1) and for length-prefixed argument slices
// (spec.md §4.3).
const lenPrefixSize = 4

// EncodedStringSize returns the number of bytes EncodeString will write
// for a string/byte-slice of the given length.
func EncodedStringSize(n int) int {
	return lenPrefixSize + n
}

// EncodeString writes a 4-byte little-endian length prefix followed by
// the bytes of s into dst, and returns the number of bytes written.
func EncodeString(dst []byte, s string) int {
	binary.LittleEndian.PutUint32(dst, uint32(len(s)))
	copy(dst[lenPrefixSize:], s)
	return lenPrefixSize + len(s)
}

// EncodeBytes is EncodeString for a raw byte slice.
func EncodeBytes(dst []byte, b []byte) int {
	binary.LittleEndian.PutUint32(dst, uint32(len(b)))
	copy(dst[lenPrefixSize:], b)
	return lenPrefixSize + len(b)
}

// DecodeString reads a length-prefixed string out of the front of src
// and returns it plus the number of bytes consumed. The returned string
// aliases src; callers that retain it past src's lifetime must copy.
func DecodeString(src []byte) (string, int) {
	n := int(binary.LittleEndian.Uint32(src))
	return string(src[lenPrefixSize : lenPrefixSize+n]), lenPrefixSize + n
}

// DecodeBytes is DecodeString for a raw byte slice.
func DecodeBytes(src []byte) ([]byte, int) {
	n := int(binary.LittleEndian.Uint32(src))
	return src[lenPrefixSize : lenPrefixSize+n], lenPrefixSize + n
}
