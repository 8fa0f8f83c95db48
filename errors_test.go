// errors_test.go: tests for the error handling integration
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package rocket

import (
	"testing"

	"github.com/agilira/go-errors"
)

func TestNewLoggerErrorCarriesCode(t *testing.T) {
	err := NewLoggerError(ErrCodeInvalidConfig, "bad config")
	if GetErrorCode(err) != ErrCodeInvalidConfig {
		t.Errorf("GetErrorCode() = %v, want %v", GetErrorCode(err), ErrCodeInvalidConfig)
	}
	if !IsLoggerError(err, ErrCodeInvalidConfig) {
		t.Error("expected IsLoggerError to report true for the matching code")
	}
	if IsLoggerError(err, ErrCodeSinkIO) {
		t.Error("expected IsLoggerError to report false for a mismatching code")
	}
}

func TestNewLoggerErrorWithFieldCarriesCode(t *testing.T) {
	err := NewLoggerErrorWithField(ErrCodeInvalidLevel, "bad level", "level", "bogus")
	if GetErrorCode(err) != ErrCodeInvalidLevel {
		t.Errorf("GetErrorCode() = %v, want %v", GetErrorCode(err), ErrCodeInvalidLevel)
	}
}

func TestWrapLoggerErrorPreservesCode(t *testing.T) {
	cause := NewLoggerError(ErrCodeSinkIO, "disk full")
	wrapped := WrapLoggerError(cause, ErrCodeSinkIO, "write failed")
	if GetErrorCode(wrapped) != ErrCodeSinkIO {
		t.Errorf("GetErrorCode() = %v, want %v", GetErrorCode(wrapped), ErrCodeSinkIO)
	}
}

func TestSetAndGetErrorHandler(t *testing.T) {
	defer SetErrorHandler(nil)

	called := false
	SetErrorHandler(func(err *errors.Error) { called = true })
	handleError(NewLoggerError(ErrCodeInvalidConfig, "trigger"))
	if !called {
		t.Error("expected custom error handler to be invoked")
	}

	SetErrorHandler(nil)
	if GetErrorHandler() == nil {
		t.Error("expected GetErrorHandler to return the default handler after nil reset")
	}
}
