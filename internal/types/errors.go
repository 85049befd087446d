package types

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode categorizes application errors. The prefix of a code determines
// its HTTP status, so new codes pick up the right status by naming convention
// alone.
type ErrorCode string

const (
	// Validation (400)
	ErrCodeValidationMissingField    ErrorCode = "validation_missing_required_field"
	ErrCodeValidationInvalidWhatsApp ErrorCode = "validation_invalid_whatsapp_number"
	ErrCodeValidationInvalidExpiry   ErrorCode = "validation_invalid_expiry_date"
	ErrCodeValidationInvalidQuantity ErrorCode = "validation_invalid_quantity"

	// Not Found (404)
	ErrCodeNotFoundUser         ErrorCode = "not_found_user"
	ErrCodeNotFoundProduct      ErrorCode = "not_found_product"
	ErrCodeNotFoundNotification ErrorCode = "not_found_notification"

	// Conflict (409)
	ErrCodeConflictBarcode ErrorCode = "conflict_barcode_exists"

	// Configuration (500), a deployment problem rather than a client problem
	ErrCodeConfigWhatsAppMissing ErrorCode = "config_whatsapp_not_configured"

	// Upstream (502)
	ErrCodeUpstreamWhatsApp         ErrorCode = "upstream_whatsapp_unavailable"
	ErrCodeUpstreamWhatsAppRejected ErrorCode = "upstream_whatsapp_rejected"

	// Internal (500)
	ErrCodeInternalDB         ErrorCode = "internal_database_error"
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"
)

// HTTPStatus derives the HTTP status from the code's prefix. Unrecognized
// prefixes fall through to 500.
func (c ErrorCode) HTTPStatus() int {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "validation_"):
		return http.StatusBadRequest
	case strings.HasPrefix(s, "not_found_"):
		return http.StatusNotFound
	case strings.HasPrefix(s, "conflict_"):
		return http.StatusConflict
	case strings.HasPrefix(s, "upstream_"):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AppError carries a code, a client-safe message, and an optional wrapped
// cause. Every error that crosses a package boundary in this service is an
// AppError; the HTTP layer relies on that for status mapping.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status implied by the error's code.
func (e *AppError) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a copy with details merged in, leaving the receiver
// untouched.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     e.Err,
		Details: merged,
	}
}

// NewAppError is the standard constructor for domain errors. err may be nil
// when there is no underlying cause.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
