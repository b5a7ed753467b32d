// errors.go: structured error handling for counters registry operations
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes
// for construction, allocation, free, and internal failures.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package counters

import (
	goerrors "errors"
	"fmt"

	"github.com/agilira/go-errors"
)

// Error codes for counters registry operations
const (
	// Construction errors (1xxx)
	ErrCodeInvalidLayout    errors.ErrorCode = "COUNTERS_INVALID_LAYOUT"
	ErrCodeMisalignedRegion errors.ErrorCode = "COUNTERS_MISALIGNED_REGION"
	ErrCodeCapacityMismatch errors.ErrorCode = "COUNTERS_CAPACITY_MISMATCH"
	ErrCodeInvalidCooldown  errors.ErrorCode = "COUNTERS_INVALID_COOLDOWN"

	// Allocation errors (2xxx)
	ErrCodeCapacityExhausted errors.ErrorCode = "COUNTERS_CAPACITY_EXHAUSTED"
	ErrCodeKeyTooLong        errors.ErrorCode = "COUNTERS_KEY_TOO_LONG"
	ErrCodeLabelTooLong      errors.ErrorCode = "COUNTERS_LABEL_TOO_LONG"

	// Free errors (3xxx)
	ErrCodeIDOutOfRange errors.ErrorCode = "COUNTERS_ID_OUT_OF_RANGE"
	ErrCodeNotAllocated errors.ErrorCode = "COUNTERS_NOT_ALLOCATED"

	// Internal errors (4xxx)
	ErrCodeInternalError  errors.ErrorCode = "COUNTERS_INTERNAL_ERROR"
	ErrCodePanicRecovered errors.ErrorCode = "COUNTERS_PANIC_RECOVERED"
)

// Common error messages
const (
	msgInvalidLayout     = "invalid layout configuration"
	msgMisalignedRegion  = "region length is not an exact multiple of its record size"
	msgCapacityMismatch  = "metadata and values regions imply different capacities"
	msgInvalidCooldown   = "cooldown must be non-negative"
	msgCapacityExhausted = "no reusable counter id is available"
	msgKeyTooLong        = "key exceeds the layout's fixed key width"
	msgLabelTooLong      = "label exceeds the layout's max label length"
	msgIDOutOfRange      = "counter id is out of range"
	msgNotAllocated      = "counter id is not currently allocated"
	msgInternalError     = "internal counters registry error"
	msgPanicRecovered    = "panic recovered in counters registry operation"
)

// =============================================================================
// CONSTRUCTION ERRORS
// =============================================================================

// NewErrInvalidLayout creates an error for an invalid layout configuration.
func NewErrInvalidLayout(reason string) error {
	return errors.NewWithField(ErrCodeInvalidLayout, msgInvalidLayout, "reason", reason)
}

// NewErrMisalignedRegion creates an error when a region's length is not an
// exact multiple of its record size.
func NewErrMisalignedRegion(region string, length, recordSize int) error {
	return errors.NewWithContext(ErrCodeMisalignedRegion, msgMisalignedRegion, map[string]interface{}{
		"region":      region,
		"length":      length,
		"record_size": recordSize,
	})
}

// NewErrCapacityMismatch creates an error when the metadata and values
// regions imply different capacities.
func NewErrCapacityMismatch(metaCapacity, valueCapacity int) error {
	return errors.NewWithContext(ErrCodeCapacityMismatch, msgCapacityMismatch, map[string]interface{}{
		"metadata_capacity": metaCapacity,
		"values_capacity":   valueCapacity,
	})
}

// NewErrInvalidCooldown creates an error for a negative cooldown value.
func NewErrInvalidCooldown(cooldownMs int64) error {
	return errors.NewWithField(ErrCodeInvalidCooldown, msgInvalidCooldown, "cooldown_ms", cooldownMs)
}

// =============================================================================
// ALLOCATION ERRORS
// =============================================================================

// NewErrCapacityExhausted creates an error when no id is free to allocate.
func NewErrCapacityExhausted(capacity int) error {
	return errors.NewWithContext(ErrCodeCapacityExhausted, msgCapacityExhausted, map[string]interface{}{
		"capacity": capacity,
	}).AsRetryable() // may succeed later once a cooldown elapses or an id is freed
}

// NewErrKeyTooLong creates an error when a supplied key exceeds the layout's
// key width.
func NewErrKeyTooLong(got, max int) error {
	return errors.NewWithContext(ErrCodeKeyTooLong, msgKeyTooLong, map[string]interface{}{
		"key_len": got,
		"max_len": max,
	})
}

// NewErrLabelTooLong creates an error when a supplied label exceeds the
// layout's max label length.
func NewErrLabelTooLong(got, max int) error {
	return errors.NewWithContext(ErrCodeLabelTooLong, msgLabelTooLong, map[string]interface{}{
		"label_len": got,
		"max_len":   max,
	})
}

// =============================================================================
// FREE ERRORS
// =============================================================================

// NewErrIDOutOfRange creates an error when an id falls outside [0, capacity).
func NewErrIDOutOfRange(id, capacity int) error {
	return errors.NewWithContext(ErrCodeIDOutOfRange, msgIDOutOfRange, map[string]interface{}{
		"id":       id,
		"capacity": capacity,
	})
}

// NewErrNotAllocated creates an error when free() targets a slot that is not
// currently ALLOCATED.
func NewErrNotAllocated(id int) error {
	return errors.NewWithField(ErrCodeNotAllocated, msgNotAllocated, "id", id)
}

// =============================================================================
// INTERNAL ERRORS
// =============================================================================

// NewErrInternal creates a generic internal error.
func NewErrInternal(operation string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeInternalError, msgInternalError).
			WithContext("operation", operation).
			WithSeverity("warning")
	}
	return errors.NewWithField(ErrCodeInternalError, msgInternalError, "operation", operation).
		WithSeverity("warning")
}

// NewErrPanicRecovered creates an error when a panic is recovered from a
// visitor or loader callback.
func NewErrPanicRecovered(operation string, panicValue interface{}) error {
	return errors.NewWithContext(ErrCodePanicRecovered, msgPanicRecovered, map[string]interface{}{
		"operation":   operation,
		"panic_value": fmt.Sprintf("%v", panicValue),
	}).WithSeverity("critical")
}

// =============================================================================
// ERROR CHECKING HELPERS
// =============================================================================

// IsCapacityExhausted reports whether err is a capacity-exhausted error.
func IsCapacityExhausted(err error) bool {
	return errors.HasCode(err, ErrCodeCapacityExhausted)
}

// IsNotAllocated reports whether err is a not-allocated free error.
func IsNotAllocated(err error) bool {
	return errors.HasCode(err, ErrCodeNotAllocated)
}

// IsConfigError reports whether err originates from layout/construction
// validation.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeInvalidLayout || code == ErrCodeMisalignedRegion ||
			code == ErrCodeCapacityMismatch || code == ErrCodeInvalidCooldown
	}
	return false
}

// IsAllocationError reports whether err originates from Allocate.
func IsAllocationError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeCapacityExhausted || code == ErrCodeKeyTooLong || code == ErrCodeLabelTooLong
	}
	return false
}

// IsFreeError reports whether err originates from Free.
func IsFreeError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeIDOutOfRange || code == ErrCodeNotAllocated
	}
	return false
}

// IsRetryable reports whether the error can be retried by the caller.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the error code from an error, if any.
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts structured context from an error, if any.
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var countersErr *errors.Error
	if goerrors.As(err, &countersErr) {
		return countersErr.Context
	}
	return nil
}
