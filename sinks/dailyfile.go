// dailyfile.go: daily-rotating file sink
//
// Grounded on original_source's logger/DailyFileSink.h/.cpp: rotation
// is checked on every write against a precomputed local-midnight
// boundary, and reopen probes {prefix_}YYYYMMDD.NNNN.log for the
// smallest non-colliding index in [0, 9998]. Flush fsyncs the current
// file via rocket.NewFileSyncer, matching the durability guarantee the
// original's sink gives callers that Flush after a batch.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package sinks

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ksergey/rocket"
)

// DailyFile is a sink that rotates its output file at local midnight,
// naming each file {prefix_}YYYYMMDD.NNNN.log under destination.
type DailyFile struct {
	mu sync.Mutex

	destination string
	prefix      string
	formatter   *rocket.PatternFormatter

	file           *os.File
	syncer         rocket.WriteSyncer
	w              *bufio.Writer
	nextRotateTime time.Time
}

// NewDailyFile creates a DailyFile sink. destination is created if it
// does not already exist; prefix, if non-empty, is used verbatim
// followed by an underscore in generated filenames.
func NewDailyFile(destination, prefix string) (*DailyFile, error) {
	abs, err := filepath.Abs(destination)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	if prefix != "" {
		prefix += "_"
	}
	return &DailyFile{
		destination: abs,
		prefix:      prefix,
		formatter:   rocket.NewPatternFormatter(rocket.DefaultPattern),
	}, nil
}

// SetPattern overrides the formatting pattern.
func (d *DailyFile) SetPattern(pattern string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.formatter = rocket.NewPatternFormatter(pattern)
}

// Write implements rocket.Sink.
func (d *DailyFile) Write(location string, level rocket.Level, ts rocket.ClockTimestamp, threadID uint64, line string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := ts.ToTime().Local()
	if d.file == nil || !now.Before(d.nextRotateTime) {
		if err := d.reopen(now); err != nil {
			return nil // matches original_source: a failed reopen silently drops
		}
	}

	formatted := d.formatter.Format(location, level, ts, threadID, line)
	if _, err := d.w.WriteString(formatted); err != nil {
		return err
	}
	return d.w.WriteByte('\n')
}

// Flush implements rocket.Sink. It drains the buffered writer and
// fsyncs the current file.
func (d *DailyFile) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.w == nil {
		return nil
	}
	if err := d.w.Flush(); err != nil {
		return err
	}
	return d.syncer.Sync()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// reopen closes any currently open file and opens the next
// non-colliding daily file for now's calendar day. Caller must hold
// d.mu.
func (d *DailyFile) reopen(now time.Time) error {
	if d.w != nil {
		_ = d.w.Flush()
	}
	if d.file != nil {
		_ = d.file.Close()
	}
	d.file = nil
	d.syncer = nil
	d.w = nil

	day := startOfDay(now)
	var path string
	for index := 0; index < 9999; index++ {
		candidate := filepath.Join(d.destination, fmt.Sprintf("%s%s.%04d.log", d.prefix, day.Format("20060102"), index))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			path = candidate
			break
		}
	}
	if path == "" {
		return fmt.Errorf("sinks: no available daily file name under %s", d.destination)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}

	d.file = f
	d.syncer = rocket.NewFileSyncer(f)
	d.w = bufio.NewWriter(f)
	d.nextRotateTime = day.Add(24 * time.Hour)
	return nil
}

// Close flushes and closes the currently open file, if any.
func (d *DailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.w != nil {
		_ = d.w.Flush()
	}
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}
