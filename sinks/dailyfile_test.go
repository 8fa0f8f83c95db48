// dailyfile_test.go: tests for the daily-rotating file sink
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package sinks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ksergey/rocket"
)

func TestNewDailyFileCreatesDestination(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	d, err := NewDailyFile(dir, "app")
	if err != nil {
		t.Fatalf("NewDailyFile failed: %v", err)
	}
	defer d.Close()

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected destination directory to exist: %v", err)
	}
}

func TestDailyFileWriteCreatesPrefixedFile(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDailyFile(dir, "app")
	if err != nil {
		t.Fatalf("NewDailyFile failed: %v", err)
	}
	defer d.Close()

	now := time.Now()
	ts := rocket.ClockTimestamp{Sec: now.Unix()}
	if err := d.Write("main.go:1", rocket.Notice, ts, 1, "hello"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file, got %d", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "app_"+now.Format("20060102")) {
		t.Errorf("expected file name to start with app_%s, got %q", now.Format("20060102"), name)
	}
	if !strings.HasSuffix(name, ".0000.log") {
		t.Errorf("expected first file to use index 0000, got %q", name)
	}

	contents, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(contents), "hello") {
		t.Errorf("expected file contents to contain the message, got %q", string(contents))
	}
}

func TestDailyFileReopenPicksSmallestFreeIndex(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	day := startOfDay(now).Format("20060102")

	// pre-create index 0000 so reopen must skip to 0001.
	collision := filepath.Join(dir, day+".0000.log")
	if err := os.WriteFile(collision, nil, 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	d, err := NewDailyFile(dir, "")
	if err != nil {
		t.Fatalf("NewDailyFile failed: %v", err)
	}
	defer d.Close()

	ts := rocket.ClockTimestamp{Sec: now.Unix()}
	if err := d.Write("main.go:1", rocket.Notice, ts, 1, "hello"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, day+".0001.log")); err != nil {
		t.Errorf("expected rotation to use index 0001 given an existing 0000, got: %v", err)
	}
}

func TestDailyFileRotatesAtMidnight(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDailyFile(dir, "app")
	if err != nil {
		t.Fatalf("NewDailyFile failed: %v", err)
	}
	defer d.Close()

	day1 := time.Date(2024, 1, 1, 23, 59, 0, 0, time.Local)
	if err := d.Write("main.go:1", rocket.Notice, rocket.ClockTimestamp{Sec: day1.Unix()}, 1, "day one"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	day2 := time.Date(2024, 1, 2, 0, 1, 0, 0, time.Local)
	if err := d.Write("main.go:2", rocket.Notice, rocket.ClockTimestamp{Sec: day2.Unix()}, 1, "day two"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected rotation to produce two files across the midnight boundary, got %d", len(entries))
	}
}

func TestDailyFileCloseFlushesPendingWrite(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDailyFile(dir, "app")
	if err != nil {
		t.Fatalf("NewDailyFile failed: %v", err)
	}

	ts := rocket.ClockTimestamp{Sec: time.Now().Unix()}
	if err := d.Write("main.go:1", rocket.Notice, ts, 1, "hello"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file, got %d", len(entries))
	}
	contents, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(contents), "hello") {
		t.Errorf("expected Close to flush the buffered write, got %q", string(contents))
	}
}
