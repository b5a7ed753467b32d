// errors_extended_test.go: comprehensive tests for the remaining error constructors
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package counters

import (
	goerrors "errors"
	"testing"

	"github.com/agilira/go-errors"
)

// =============================================================================
// CONSTRUCTION ERROR TESTS
// =============================================================================

func TestNewErrInvalidLayout(t *testing.T) {
	reasons := []string{
		"key length and label length must be non-negative",
		"key header and key area must fit within two cache lines",
		"metadata and values regions must be non-empty",
	}

	for _, reason := range reasons {
		t.Run(reason, func(t *testing.T) {
			err := NewErrInvalidLayout(reason)
			assertError(t, err, ErrCodeInvalidLayout, "reason")

			ctx := GetErrorContext(err)
			if ctx["reason"] != reason {
				t.Errorf("expected reason %q in context, got %v", reason, ctx["reason"])
			}
		})
	}
}

func TestNewErrMisalignedRegion(t *testing.T) {
	tests := []struct {
		region     string
		length     int
		recordSize int
	}{
		{"metadata", 100, 96},
		{"values", 200, 64},
	}

	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			err := NewErrMisalignedRegion(tt.region, tt.length, tt.recordSize)
			assertError(t, err, ErrCodeMisalignedRegion, "region")

			ctx := GetErrorContext(err)
			if ctx["length"] != tt.length {
				t.Errorf("expected length %d in context, got %v", tt.length, ctx["length"])
			}
			if ctx["record_size"] != tt.recordSize {
				t.Errorf("expected record_size %d in context, got %v", tt.recordSize, ctx["record_size"])
			}
		})
	}
}

func TestNewErrCapacityMismatch(t *testing.T) {
	err := NewErrCapacityMismatch(10, 12)
	assertError(t, err, ErrCodeCapacityMismatch, "metadata_capacity")

	ctx := GetErrorContext(err)
	if ctx["metadata_capacity"] != 10 {
		t.Errorf("expected metadata_capacity=10, got %v", ctx["metadata_capacity"])
	}
	if ctx["values_capacity"] != 12 {
		t.Errorf("expected values_capacity=12, got %v", ctx["values_capacity"])
	}
}

func TestNewErrInvalidCooldown_Extended(t *testing.T) {
	tests := []int64{-1, -1000, -1_000_000}

	for _, cooldown := range tests {
		err := NewErrInvalidCooldown(cooldown)
		assertError(t, err, ErrCodeInvalidCooldown, "cooldown_ms")

		ctx := GetErrorContext(err)
		if ctx["cooldown_ms"] != cooldown {
			t.Errorf("expected cooldown_ms %d in context, got %v", cooldown, ctx["cooldown_ms"])
		}
	}
}

// =============================================================================
// ALLOCATION ERROR TESTS
// =============================================================================

func TestNewErrKeyTooLong(t *testing.T) {
	err := NewErrKeyTooLong(32, 16)
	assertError(t, err, ErrCodeKeyTooLong, "key_len")
	assertRetryable(t, err, false)

	ctx := GetErrorContext(err)
	if ctx["key_len"] != 32 {
		t.Errorf("expected key_len=32, got %v", ctx["key_len"])
	}
	if ctx["max_len"] != 16 {
		t.Errorf("expected max_len=16, got %v", ctx["max_len"])
	}
}

func TestNewErrLabelTooLong(t *testing.T) {
	err := NewErrLabelTooLong(128, 64)
	assertError(t, err, ErrCodeLabelTooLong, "label_len")
	assertRetryable(t, err, false)

	ctx := GetErrorContext(err)
	if ctx["label_len"] != 128 {
		t.Errorf("expected label_len=128, got %v", ctx["label_len"])
	}
}

func TestNewErrCapacityExhausted_Extended(t *testing.T) {
	err := NewErrCapacityExhausted(4)
	assertError(t, err, ErrCodeCapacityExhausted, "capacity")
	assertRetryable(t, err, true)
}

// =============================================================================
// FREE ERROR TESTS
// =============================================================================

func TestNewErrIDOutOfRange(t *testing.T) {
	tests := []struct {
		id       int
		capacity int
	}{
		{-1, 10},
		{10, 10},
		{1000, 10},
	}

	for _, tt := range tests {
		err := NewErrIDOutOfRange(tt.id, tt.capacity)
		assertError(t, err, ErrCodeIDOutOfRange, "id")
		assertRetryable(t, err, false)

		ctx := GetErrorContext(err)
		if ctx["id"] != tt.id {
			t.Errorf("expected id %d in context, got %v", tt.id, ctx["id"])
		}
	}
}

func TestNewErrNotAllocated_Extended(t *testing.T) {
	err := NewErrNotAllocated(42)
	assertError(t, err, ErrCodeNotAllocated, "id")
	assertRetryable(t, err, false)
}

// =============================================================================
// INTERNAL ERROR TESTS
// =============================================================================

func TestNewErrInternal_Extended(t *testing.T) {
	t.Run("with cause", func(t *testing.T) {
		cause := goerrors.New("underlying mmap error")
		err := NewErrInternal("allocate", cause)

		assertError(t, err, ErrCodeInternalError, "operation")

		var countersErr *errors.Error
		if goerrors.As(err, &countersErr) {
			if countersErr.Severity != "warning" {
				t.Errorf("expected severity=warning, got %s", countersErr.Severity)
			}
		}

		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			t.Error("expected wrapped error")
		}
	})

	t.Run("without cause", func(t *testing.T) {
		err := NewErrInternal("allocate", nil)
		assertError(t, err, ErrCodeInternalError, "operation")
	})
}

func TestNewErrPanicRecovered_Extended(t *testing.T) {
	err := NewErrPanicRecovered("ForeachMetadata", "index out of range")
	assertError(t, err, ErrCodePanicRecovered, "panic_value")

	var countersErr *errors.Error
	if goerrors.As(err, &countersErr) {
		if countersErr.Severity != "critical" {
			t.Errorf("expected severity=critical, got %s", countersErr.Severity)
		}
	}
}

// =============================================================================
// ERROR CHECKER HELPER TESTS
// =============================================================================

func TestIsConfigError_AllCases(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"InvalidLayout", NewErrInvalidLayout("bad"), true},
		{"MisalignedRegion", NewErrMisalignedRegion("metadata", 1, 2), true},
		{"CapacityMismatch", NewErrCapacityMismatch(1, 2), true},
		{"InvalidCooldown", NewErrInvalidCooldown(-1), true},
		{"CapacityExhausted", NewErrCapacityExhausted(10), false},
		{"nil error", nil, false},
		{"standard error", goerrors.New("test"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsConfigError(tt.err)
			if result != tt.expected {
				t.Errorf("IsConfigError(%v) = %v, want %v", tt.name, result, tt.expected)
			}
		})
	}
}

func TestIsAllocationError_AllCases(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"CapacityExhausted", NewErrCapacityExhausted(10), true},
		{"KeyTooLong", NewErrKeyTooLong(32, 16), true},
		{"LabelTooLong", NewErrLabelTooLong(128, 64), true},
		{"NotAllocated", NewErrNotAllocated(1), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsAllocationError(tt.err)
			if result != tt.expected {
				t.Errorf("IsAllocationError(%v) = %v, want %v", tt.name, result, tt.expected)
			}
		})
	}
}

func TestIsFreeError_AllCases(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"IDOutOfRange", NewErrIDOutOfRange(99, 10), true},
		{"NotAllocated", NewErrNotAllocated(1), true},
		{"CapacityExhausted", NewErrCapacityExhausted(10), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsFreeError(tt.err)
			if result != tt.expected {
				t.Errorf("IsFreeError(%v) = %v, want %v", tt.name, result, tt.expected)
			}
		})
	}
}

func TestIsRetryable_AllCases(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"CapacityExhausted (retryable)", NewErrCapacityExhausted(10), true},
		{"NotAllocated (not retryable)", NewErrNotAllocated(1), false},
		{"InvalidCooldown (not retryable)", NewErrInvalidCooldown(-1), false},
		{"nil error", nil, false},
		{"standard error", goerrors.New("test"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsRetryable(tt.err)
			if result != tt.expected {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.name, result, tt.expected)
			}
		})
	}
}

func TestGetErrorContext_AllCases(t *testing.T) {
	t.Run("error with context", func(t *testing.T) {
		err := NewErrCapacityMismatch(100, 95)
		ctx := GetErrorContext(err)

		if ctx == nil {
			t.Fatal("expected context, got nil")
		}
		if ctx["metadata_capacity"] != 100 {
			t.Errorf("expected metadata_capacity=100, got %v", ctx["metadata_capacity"])
		}
		if ctx["values_capacity"] != 95 {
			t.Errorf("expected values_capacity=95, got %v", ctx["values_capacity"])
		}
	})

	t.Run("nil error", func(t *testing.T) {
		ctx := GetErrorContext(nil)
		if ctx != nil {
			t.Error("expected nil context for nil error")
		}
	})

	t.Run("standard error", func(t *testing.T) {
		err := goerrors.New("test")
		ctx := GetErrorContext(err)
		if ctx != nil {
			t.Error("expected nil context for standard error")
		}
	})
}

// =============================================================================
// HELPER FUNCTIONS (DRY PRINCIPLE)
// =============================================================================

// assertError checks that an error has the expected code and contains a
// specific context field.
func assertError(t *testing.T, err error, expectedCode errors.ErrorCode, contextField string) {
	t.Helper()

	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if !errors.HasCode(err, expectedCode) {
		t.Errorf("expected code %s, got %s", expectedCode, GetErrorCode(err))
	}

	if err.Error() == "" {
		t.Error("error message should not be empty")
	}

	if contextField != "" {
		ctx := GetErrorContext(err)
		if ctx == nil {
			t.Fatalf("expected context with field %s, got nil", contextField)
		}
		if _, ok := ctx[contextField]; !ok {
			t.Errorf("expected context field %s, not found in %+v", contextField, ctx)
		}
	}
}

// assertRetryable checks if an error has the expected retryable status.
func assertRetryable(t *testing.T, err error, expectedRetryable bool) {
	t.Helper()

	if IsRetryable(err) != expectedRetryable {
		t.Errorf("expected retryable=%v, got %v", expectedRetryable, IsRetryable(err))
	}
}
