// record_test.go: tests for the on-wire record protocol
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package rocket

import "testing"

func TestRecordMetadataRetry(t *testing.T) {
	plain := &RecordMetadata{}
	if plain.Retry() {
		t.Error("expected Retry() false with no flags set")
	}

	retrying := &RecordMetadata{Flags: FlagRetry}
	if !retrying.Retry() {
		t.Error("expected Retry() true with FlagRetry set")
	}
}

func TestEncodeDecodeRecordPrefixRoundTrip(t *testing.T) {
	meta := &RecordMetadata{
		File:   "example.go",
		Line:   42,
		Level:  Notice,
		Format: "hello {}",
	}
	header := LogRecordHeader{
		Timestamp: ClockTimestamp{Sec: 100, Nsec: 200},
		ThreadID:  7,
	}

	argsSize := EncodedStringSize(len("world"))
	total := EncodedRecordSize(argsSize)
	buf := make([]byte, total)

	n := EncodeRecordPrefix(buf, header, meta)
	EncodeString(buf[n:], "world")

	gotHeader0, gotHeader, gotMeta, rest := DecodeRecordPrefix(buf)
	if gotHeader0.Type != EventLogRecord {
		t.Errorf("RecordHeader.Type = %v, want EventLogRecord", gotHeader0.Type)
	}
	if gotHeader != header {
		t.Errorf("LogRecordHeader = %+v, want %+v", gotHeader, header)
	}
	if gotMeta != meta {
		t.Errorf("decoded metadata pointer = %p, want %p", gotMeta, meta)
	}
	gotArg, _ := DecodeString(rest)
	if gotArg != "world" {
		t.Errorf("decoded arg = %q, want %q", gotArg, "world")
	}
}

func TestEncodedRecordSizeAccountsForPrefixAndArgs(t *testing.T) {
	base := EncodedRecordSize(0)
	withArgs := EncodedRecordSize(16)
	if withArgs-base != 16 {
		t.Errorf("EncodedRecordSize difference = %d, want 16", withArgs-base)
	}
}
