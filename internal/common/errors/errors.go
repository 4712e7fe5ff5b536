// Package errors provides the standardized error taxonomy for the submission
// pipeline. Every failure a submission can hit is mapped to one of these codes
// with a localized user-facing message and an optional operator diagnostic.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Client-class errors (HTTP 400).
	ErrCodeMissingCaptchaToken        ErrorCode = "MISSING_CAPTCHA_TOKEN"
	ErrCodeCaptchaVerificationFailed  ErrorCode = "CAPTCHA_VERIFICATION_FAILED"
	ErrCodeCaptchaVerificationTimeout ErrorCode = "CAPTCHA_VERIFICATION_TIMEOUT"
	ErrCodeValidationFailed           ErrorCode = "VALIDATION_FAILED"

	// Server-class errors (HTTP 500).
	ErrCodeMissingMailCredentials ErrorCode = "MISSING_MAIL_CREDENTIALS"
	ErrCodeMailConnectionFailed   ErrorCode = "MAIL_CONNECTION_FAILED"
	ErrCodeMailTimeout            ErrorCode = "MAIL_TIMEOUT"
	ErrCodeDeliveryFailed         ErrorCode = "EMAIL_DELIVERY_FAILED"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error. Message is the
// localized user-facing text; Details carries the raw diagnostic for
// operators and is never localized.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Status    int       `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// IsClientError reports whether the error belongs to the 4xx class.
func (e *StandardError) IsClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// NewMissingCaptchaTokenError creates the error returned when the request
// carries no bot-check token at all.
func NewMissingCaptchaTokenError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingCaptchaToken,
		Message:   message,
		Status:    http.StatusBadRequest,
		Timestamp: time.Now().UTC(),
	}
}

// NewCaptchaVerificationFailedError creates the error returned when the
// verification provider rejects the token or is unreachable.
func NewCaptchaVerificationFailedError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCaptchaVerificationFailed,
		Message:   message,
		Details:   details,
		Status:    http.StatusBadRequest,
		Timestamp: time.Now().UTC(),
	}
}

// NewCaptchaVerificationTimeoutError creates the timeout variant of the
// verification failure. Same user-facing message, distinct code for operators.
func NewCaptchaVerificationTimeoutError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCaptchaVerificationTimeout,
		Message:   message,
		Details:   details,
		Status:    http.StatusBadRequest,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError creates a field-validation error with the rule's
// localized message.
func NewValidationFailedError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Details:   details,
		Status:    http.StatusBadRequest,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingMailCredentialsError creates the deployment-precondition error for
// an absent transport credential.
func NewMissingMailCredentialsError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingMailCredentials,
		Message:   message,
		Details:   details,
		Status:    http.StatusInternalServerError,
		Timestamp: time.Now().UTC(),
	}
}

// NewMailConnectionFailedError creates the error for a failed transport
// connectivity verification.
func NewMailConnectionFailedError(message string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMailConnectionFailed,
		Message:   message,
		Details:   err.Error(),
		Status:    http.StatusInternalServerError,
		Timestamp: time.Now().UTC(),
	}
}

// NewMailTimeoutError creates the timeout variant of a transport failure.
func NewMailTimeoutError(message string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMailTimeout,
		Message:   message,
		Details:   err.Error(),
		Status:    http.StatusInternalServerError,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeliveryFailedError creates the error for a send that failed after a
// successful connectivity verification.
func NewDeliveryFailedError(message string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDeliveryFailed,
		Message:   message,
		Details:   err.Error(),
		Status:    http.StatusInternalServerError,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError creates the catch-all error for anything the pipeline did
// not explicitly handle.
func NewInternalError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   message,
		Details:   details,
		Status:    http.StatusInternalServerError,
		Timestamp: time.Now().UTC(),
	}
}
