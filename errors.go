// errors.go: Error handling integration for rocket
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package rocket

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/agilira/go-errors"
)

// Error codes, one per error kind the core distinguishes.
const (
	// ErrCodeCapacityExhausted marks a log attempted with no ring space.
	// Never surfaced to the caller under the DROP policy: it only
	// increments an internal dropped-record counter.
	ErrCodeCapacityExhausted errors.ErrorCode = "ROCKET_CAPACITY_EXHAUSTED"

	// ErrCodeInvalidLevel marks an unrecognised setLogLevel(string) input.
	ErrCodeInvalidLevel errors.ErrorCode = "ROCKET_INVALID_LEVEL"

	// ErrCodeInvalidCapacityHint marks a zero passed to setQueueCapacityHint.
	ErrCodeInvalidCapacityHint errors.ErrorCode = "ROCKET_INVALID_CAPACITY_HINT"

	// ErrCodeSinkIO marks a sink write/open failure; the sink swallows it
	// and reports to stderr, the backend loop continues.
	ErrCodeSinkIO errors.ErrorCode = "ROCKET_SINK_IO"

	// ErrCodeTSCCalibration marks a TSC resync failure; the clock keeps
	// using its last valid calibration.
	ErrCodeTSCCalibration errors.ErrorCode = "ROCKET_TSC_CALIBRATION"

	// ErrCodeFatalSignal marks a fatal signal caught by the backend's
	// signal handler.
	ErrCodeFatalSignal errors.ErrorCode = "ROCKET_FATAL_SIGNAL"

	// ErrCodeInvalidConfig marks a BackendOptions validation failure.
	ErrCodeInvalidConfig errors.ErrorCode = "ROCKET_INVALID_CONFIG"

	// ErrCodeBackendNotReady marks an operation requiring a running
	// backend that has not completed startup.
	ErrCodeBackendNotReady errors.ErrorCode = "ROCKET_BACKEND_NOT_READY"
)

// ErrorHandler processes diagnostics the core cannot propagate into a
// caller's control flow (sink failures, TSC resync failures, fatal
// signals). It must not call back into the logging hot path.
type ErrorHandler func(err *errors.Error)

// defaultErrorHandler writes to stderr, avoiding any recursion back into
// the logger it is reporting on.
var defaultErrorHandler ErrorHandler = func(err *errors.Error) {
	fmt.Fprintf(os.Stderr, "[ROCKET] %s: %s\n", err.Code, err.Message)
	if err.Cause != nil {
		fmt.Fprintf(os.Stderr, "[ROCKET] caused by: %v\n", err.Cause)
	}
}

var currentErrorHandler = defaultErrorHandler

// SetErrorHandler installs a custom diagnostic handler. Passing nil
// restores the default stderr handler.
func SetErrorHandler(handler ErrorHandler) {
	if handler == nil {
		currentErrorHandler = defaultErrorHandler
		return
	}
	currentErrorHandler = handler
}

// GetErrorHandler returns the currently installed diagnostic handler.
func GetErrorHandler() ErrorHandler {
	return currentErrorHandler
}

// handleError routes a diagnostic through the current handler, enriched
// with minimal runtime context.
func handleError(err *errors.Error) {
	if err == nil {
		return
	}
	if err.Context == nil {
		err.Context = make(map[string]interface{})
	}
	err.Context["go_version"] = runtime.Version()
	err.Context["goroutines"] = runtime.NumGoroutine()
	currentErrorHandler(err)
}

// NewLoggerError builds a configuration/control-path error with caller
// context attached.
func NewLoggerError(code errors.ErrorCode, message string) *errors.Error {
	err := errors.New(code, message).
		WithSeverity("error").
		WithContext("component", "rocket").
		WithContext("timestamp", time.Now().UTC())

	if pc, file, line, ok := runtime.Caller(1); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			_ = err.WithContext("caller_func", fn.Name())
		}
		_ = err.WithContext("caller_file", file)
		_ = err.WithContext("caller_line", line)
	}
	return err
}

// NewLoggerErrorWithField is NewLoggerError plus a single offending
// field/value pair, used for InvalidLevelString and similar.
func NewLoggerErrorWithField(code errors.ErrorCode, message, field, value string) *errors.Error {
	return errors.NewWithField(code, message, field, value).
		WithSeverity("error").
		WithContext("component", "rocket").
		WithContext("timestamp", time.Now().UTC())
}

// WrapLoggerError wraps an underlying error (e.g. an *os.PathError from a
// sink) with a rocket error code and caller context.
func WrapLoggerError(originalErr error, code errors.ErrorCode, message string) *errors.Error {
	err := errors.Wrap(originalErr, code, message).
		WithSeverity("error").
		WithContext("component", "rocket").
		WithContext("timestamp", time.Now().UTC())

	if pc, file, line, ok := runtime.Caller(1); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			_ = err.WithContext("caller_func", fn.Name())
		}
		_ = err.WithContext("caller_file", file)
		_ = err.WithContext("caller_line", line)
	}
	return err
}

// GetErrorCode extracts the rocket error code from an error, if any.
func GetErrorCode(err error) errors.ErrorCode {
	if rErr, ok := err.(*errors.Error); ok {
		return rErr.ErrorCode()
	}
	return ""
}

// IsLoggerError reports whether err carries the given rocket error code.
func IsLoggerError(err error, code errors.ErrorCode) bool {
	return errors.HasCode(err, code)
}
