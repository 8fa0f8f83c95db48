// backend.go: singleton drain thread
//
// Replaces the teacher's iris.go/factory.go/management.go Logger
// lifecycle with the backend state machine of spec §4.6:
// Stopped→Starting→Running→Stopping→Stopped, transitions serialized by
// a mutex, startup blocking until the backend goroutine signals that
// it is running,
// shutdown draining every consumer to empty before returning.
//
// Go has no atexit and no async-signal-safe path into SIGSEGV/SIGBUS:
// those are synchronous hardware faults the runtime itself intercepts
// and turns into a fatal panic before any os/signal handler can run, so
// a Go port can only approximate the original's last-gasp drain for the
// signals the runtime actually lets a program observe (SIGABRT, SIGFPE
// delivered by another process, SIGBUS/SIGSEGV raised outside Go code).
// installFatalHandler below registers for the full set for parity with
// spec §4.6 and documents this gap rather than silently dropping it.
//
// Grounded on original_source's logger/detail/LoggerBackend.h/.cpp for
// the state machine and drain-pass shape, and on the teacher's
// management.go for the serialized-transition texture.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package rocket

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/ksergey/rocket/internal/bufferpool"
	"github.com/ksergey/rocket/internal/registry"
	"github.com/ksergey/rocket/internal/ring"
)

// defaultRegistry is the process-wide producer registry; Acquire and
// the backend both operate against this single instance.
var defaultRegistry = registry.New()

type backendState int32

const (
	backendStopped backendState = iota
	backendStarting
	backendRunning
	backendStopping
)

// backend is the process-wide singleton draining every registered
// producer queue.
type backend struct {
	mu    sync.Mutex
	state atomic.Int32

	sink   Sink
	opts   BackendOptions
	stopCh chan struct{}
	doneCh chan struct{}
}

var defaultBackend = &backend{}

func (b *backend) Start(sink Sink, opts BackendOptions) error {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return err
	}
	if sink == nil {
		return NewLoggerError(ErrCodeInvalidConfig, "sink must not be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if backendState(b.state.Load()) != backendStopped {
		return NewLoggerError(ErrCodeInvalidConfig, "backend already started")
	}

	b.state.Store(int32(backendStarting))
	b.sink = sink
	b.opts = opts
	b.stopCh = make(chan struct{})
	b.doneCh = make(chan struct{})

	ready := make(chan struct{})
	go b.run(ready)

	<-ready
	return nil
}

func (b *backend) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if backendState(b.state.Load()) != backendRunning {
		return
	}
	b.state.Store(int32(backendStopping))
	close(b.stopCh)
	<-b.doneCh
	b.state.Store(int32(backendStopped))
}

// IsReady reports whether the backend is currently running.
func (b *backend) IsReady() bool {
	return backendState(b.state.Load()) == backendRunning
}

func (b *backend) run(ready chan struct{}) {
	defer close(b.doneCh)

	if b.opts.BindToCore != nil {
		runtimeLockToCore(*b.opts.BindToCore)
	}

	b.state.Store(int32(backendRunning))
	close(ready)

	limiter := NewLoopRateLimiter(b.opts.SleepDuration)
	buf := bufferpool.Get()
	defer bufferpool.Put(buf)

	for {
		select {
		case <-b.stopCh:
			// Final passes until a pass yields zero records, per spec
			// §4.6 shutdown guarantee.
			for b.drainPass(buf) {
			}
			return
		default:
		}

		b.drainPass(buf)
		limiter.Sleep()
	}
}

// drainPass iterates every registered consumer once, decoding and
// formatting every available record. It returns true if it did any
// work, so callers can loop it to exhaustion during shutdown.
func (b *backend) drainPass(buf *bytes.Buffer) bool {
	didWork := false

	defaultRegistry.ForEachConsumer(func(q *ring.Ring) {
		for {
			raw, ok := q.Fetch()
			if !ok {
				break
			}
			b.processRecord(raw, buf)
			q.Consume()
			didWork = true
		}
	})

	if didWork {
		if err := b.sink.Flush(); err != nil {
			reportBackendError(err)
		}
	}
	return didWork
}

func (b *backend) processRecord(raw []byte, buf *bytes.Buffer) {
	defer func() {
		if r := recover(); r != nil {
			reportBackendError(fmt.Errorf("rocket: panic decoding record: %v", r))
		}
	}()

	_, header, meta, argBytes := DecodeRecordPrefix(raw)
	if meta == nil {
		return
	}

	var store ArgStore
	if meta.DecodeArgs != nil {
		meta.DecodeArgs(argBytes, &store)
	}

	buf.Reset()
	buf.WriteString(VFormat(meta.Format, store.Args()))
	message := buf.String()

	location := fmt.Sprintf("%s:%d", meta.File, meta.Line)
	for _, line := range splitLines(message) {
		if line == "" {
			continue
		}
		if err := b.sink.Write(location, meta.Level, header.Timestamp, header.ThreadID, line); err != nil {
			reportBackendError(err)
		}
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func reportBackendError(err error) {
	handleError(WrapLoggerError(err, ErrCodeSinkIO, "backend drain error"))
}

// runtimeLockToCore is a best-effort affinity hint: Go's scheduler
// offers no portable core-pinning call, so this only locks the
// goroutine to its current OS thread, leaving actual placement to the
// host OS scheduler.
func runtimeLockToCore(core int) {
	runtime.LockOSThread()
}

var fatalHandlerOnce sync.Once
var fatalDraining atomic.Bool

// installFatalHandler arms a best-effort fatal-signal drain per spec
// §4.6. SIGABRT is the only member of the target set Go can reliably
// deliver through os/signal when raised externally; SIGSEGV/SIGBUS/
// SIGILL/SIGFPE caused by the Go runtime itself are intercepted before
// any signal.Notify channel would see them; this handler nonetheless
// registers for all five so a process that raises them via raise(2)
// from cgo or another thread still gets the drain.
func installFatalHandler() {
	fatalHandlerOnce.Do(func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGABRT, syscall.SIGBUS, syscall.SIGFPE, syscall.SIGILL, syscall.SIGSEGV)
		go func() {
			sig := <-ch
			if !fatalDraining.CompareAndSwap(false, true) {
				return
			}
			fmt.Fprintf(os.Stderr, "[ROCKET] fatal signal received: %s, draining\n", sig)
			drained := make(chan struct{})
			go func() {
				defaultBackend.Stop()
				close(drained)
			}()
			select {
			case <-drained:
			case <-time.After(30 * time.Second):
			}
		}()
	})
}
