package apperrors

import (
	"errors"
	"net/http"
)

// Error is a request-facing error carrying an HTTP status and a
// machine-readable code clients can branch on.
type Error struct {
	Code    string `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Is matches errors by code, so copies produced by WithMessage still
// compare equal to their sentinel
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy of the error with a different message,
// keeping code and status
func (e *Error) WithMessage(message string) *Error {
	return &Error{Code: e.Code, Status: e.Status, Message: message}
}

// New creates a new application error
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

var (
	ErrTenantNotIdentified      = New("TENANT_NOT_IDENTIFIED", http.StatusBadRequest, "no tenant could be identified from the request")
	ErrTenantNotFound           = New("TENANT_NOT_FOUND", http.StatusNotFound, "tenant not found")
	ErrTenantInactive           = New("TENANT_INACTIVE", http.StatusForbidden, "tenant is not active")
	ErrInvalidCredentials       = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrTokenExpired             = New("TOKEN_EXPIRED", http.StatusUnauthorized, "token has expired")
	ErrTokenMalformed           = New("TOKEN_MALFORMED", http.StatusUnauthorized, "token is malformed or has an invalid signature")
	ErrCrossTenantToken         = New("CROSS_TENANT_TOKEN", http.StatusUnauthorized, "token was issued for a different tenant")
	ErrPermissionDenied         = New("PERMISSION_DENIED", http.StatusForbidden, "insufficient permissions")
	ErrSchemaProvisioningFailed = New("SCHEMA_PROVISIONING_FAILED", http.StatusInternalServerError, "tenant schema provisioning failed")
	ErrDuplicateSlug            = New("DUPLICATE_SLUG", http.StatusConflict, "a tenant with this slug or subdomain already exists")
)

// FromError extracts an *Error from err, or wraps it as a generic
// internal error so no internals leak to the client
func FromError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
}
