// Package errors provides standardized error handling for the assessment service.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Input-boundary errors, surfaced to the caller as 4xx.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnknownCatalyst  ErrorCode = "UNKNOWN_CATALYST"
	ErrCodeScoreOutOfRange  ErrorCode = "SCORE_OUT_OF_RANGE"

	// Startup-fatal configuration errors; never recovered per request.
	ErrCodeConfigLoadFailed ErrorCode = "CONFIG_LOAD_FAILED"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"

	// Reference-data defects detected at request time.
	ErrCodeToneTierMissing ErrorCode = "TONE_TIER_MISSING"

	// External generation failures, absorbed at the service boundary.
	ErrCodeGenerationFailed  ErrorCode = "GENERATION_FAILED"
	ErrCodeGenerationTimeout ErrorCode = "GENERATION_TIMEOUT"

	// Cache failures, always non-fatal.
	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
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

// NewValidationFailedError creates a non-retryable input validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Submission failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownCatalystError creates a non-retryable catalyst error.
func NewUnknownCatalystError(catalyst string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownCatalyst,
		Message:   "Unknown catalyst value",
		Details:   fmt.Sprintf("catalyst: %s", catalyst),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewScoreOutOfRangeError creates a non-retryable answer score error.
func NewScoreOutOfRangeError(questionID string, score int) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoreOutOfRange,
		Message:   "Answer score must be between 0 and 4",
		Details:   fmt.Sprintf("questionId: %s, score: %d", questionID, score),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigLoadFailedError creates a fatal reference-data load error.
func NewConfigLoadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigLoadFailed,
		Message:   "Reference data file could not be loaded",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigInvalidError creates a fatal reference-data consistency error.
func NewConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Reference data failed consistency checks",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewToneTierMissingError reports a tone matrix with no entry for a tier.
// This is a data defect: an empty introduction would silently degrade
// generated text, so prompt assembly fails loudly instead.
func NewToneTierMissingError(tier string) *StandardError {
	return &StandardError{
		Code:      ErrCodeToneTierMissing,
		Message:   "Tone matrix has no entry for tier",
		Details:   fmt.Sprintf("tier: %s", tier),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationFailedError creates a retryable generation error.
func NewGenerationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   "Advisory text generation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationTimeoutError creates a retryable generation timeout error.
func NewGenerationTimeoutError(timeout time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationTimeout,
		Message:   "Advisory text generation timed out",
		Details:   fmt.Sprintf("timeout: %s", timeout),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache error.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Advisory cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Integration
// ==========================

// HTTPStatus maps an error code to the HTTP status returned to callers.
// Generation and cache errors never reach this mapping in practice:
// the service absorbs them and the request still completes with 200.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeUnknownCatalyst, ErrCodeScoreOutOfRange:
		return http.StatusBadRequest
	case ErrCodeGenerationTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeGenerationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AsStandardError normalizes any error into a StandardError.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsCode reports whether err is a StandardError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}
