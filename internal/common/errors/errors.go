// Package errors provides standardized error handling for the place
// intake service.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodePlaceInvalid         ErrorCode = "PLACE_INVALID"
	ErrCodeGeometryMissing      ErrorCode = "GEOMETRY_MISSING"
	ErrCodeSessionNotFound      ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionExists        ErrorCode = "SESSION_EXISTS"
	ErrCodeSeenStoreUnavailable ErrorCode = "SEEN_STORE_UNAVAILABLE"
	ErrCodeSubmissionFailed     ErrorCode = "SUBMISSION_FAILED"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewPlaceInvalidError creates a non-retryable error for a place record
// that failed schema validation.
func NewPlaceInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePlaceInvalid,
		Message:   "Place record failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError creates a non-retryable error for an unknown or
// already torn down session.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Session not found",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionExistsError creates a non-retryable error for installing a
// session id that is already active.
func NewSessionExistsError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionExists,
		Message:   "Session already installed",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSeenStoreUnavailableError creates a retryable error for a failing
// deduplication store.
func NewSeenStoreUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSeenStoreUnavailable,
		Message:   "Deduplication store unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionFailedError creates a retryable error for a failed backend
// submission. The intake path never retries; the code is recorded for
// logs and metrics only.
func NewSubmissionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionFailed,
		Message:   "Backend submission failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
