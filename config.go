// config.go: backend configuration
//
// Grounded on the teacher's config.go for shape (withDefaults/Validate
// copy-on-write pattern, error codes raised via errors.go) and on
// original_source's logger/LoggerOptions.h for the two knobs the
// backend thread actually needs: an optional core affinity and the
// drain loop's rate-limiter period.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package rocket

import (
	"fmt"
	"time"
)

// BackendOptions configures the backend drain thread.
type BackendOptions struct {
	// BindToCore, when non-nil, locks the backend goroutine to its OS
	// thread via runtime.LockOSThread. No CPU affinity call is made: the
	// core index is validated but does not select a core, and placement
	// of that thread is left to the OS scheduler. nil (the default)
	// disables the lock; a pointer distinguishes "unset" from an explicit
	// core 0, which a plain int zero value cannot.
	BindToCore *int

	// SleepDuration is the rate limiter's pacing period between drain
	// passes; the backend paces every pass, whether or not it did work.
	// Default: 100ms.
	SleepDuration time.Duration
}

// withDefaults returns a copy of o with zero-value fields replaced by
// their defaults.
func (o BackendOptions) withDefaults() BackendOptions {
	out := o
	if out.SleepDuration == 0 {
		out.SleepDuration = 100 * time.Millisecond
	}
	return out
}

// Validate checks the options for internal consistency.
func (o BackendOptions) Validate() error {
	if o.SleepDuration < 0 {
		return NewLoggerErrorWithField(ErrCodeInvalidConfig, "sleep duration cannot be negative", "sleep_duration", fmt.Sprintf("%s", o.SleepDuration))
	}
	if o.BindToCore != nil && *o.BindToCore < 0 {
		return NewLoggerErrorWithField(ErrCodeInvalidConfig, "bind-to-core index cannot be negative", "bind_to_core", fmt.Sprintf("%d", *o.BindToCore))
	}
	return nil
}
