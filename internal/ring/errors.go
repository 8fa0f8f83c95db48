// errors.go: sentinel errors for the ring package
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ring

import "errors"

// ErrClosed is the error value for an operation on a closed ring. No
// function in this package returns it: Prepare and Commit do not check
// the closed flag.
var ErrClosed = errors.New("ring: closed")
