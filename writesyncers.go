// writesyncers.go: common WriteSyncer instances
//
// FileWriteSyncer and BufferedWriteSyncer, present in the teacher's
// writesyncers.go, are dropped here: both duplicate facilities sink.go
// and sinks/*.go already build on and wire into production (fileSyncer
// plus bufio.Writer, used directly by sinks.Console and
// sinks.DailyFile) — see DESIGN.md. Stdout/StderrWriteSyncer and
// DiscardSyncer survive and are wired into sinks.NewConsole,
// sinks.NewConsoleStderr and sinks.NewDiscard.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package rocket

import "os"

// DiscardWriteSyncer is a WriteSyncer that discards all writes (useful for benchmarks)
type DiscardWriteSyncer struct{}

// Write implements io.Writer
func (d *DiscardWriteSyncer) Write(p []byte) (n int, err error) {
	return len(p), nil
}

// Sync implements WriteSyncer
func (d *DiscardWriteSyncer) Sync() error {
	return nil
}

// Common WriteSyncer instances
var (
	// StdoutWriteSyncer writes to os.Stdout
	StdoutWriteSyncer = WrapWriter(os.Stdout)

	// StderrWriteSyncer writes to os.Stderr
	StderrWriteSyncer = WrapWriter(os.Stderr)

	// DiscardWriteSyncer discards all writes
	DiscardSyncer = &DiscardWriteSyncer{}
)
