package error

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode represents a unique error code
type ErrorCode string

// Error codes for different categories
const (
	// Authentication Errors (1xxx)
	ErrCodeInvalidCredentials ErrorCode = "AUTH_1001"
	ErrCodeUserNotFound       ErrorCode = "AUTH_1002"
	ErrCodeInvalidToken       ErrorCode = "AUTH_1003"
	ErrCodeMissingToken       ErrorCode = "AUTH_1004"

	// Validation Errors (2xxx)
	ErrCodeInvalidRequest  ErrorCode = "VALID_2001"
	ErrCodeMissingLogin    ErrorCode = "VALID_2002"
	ErrCodeMissingPassword ErrorCode = "VALID_2003"
	ErrCodeInvalidRole     ErrorCode = "VALID_2004"
	ErrCodeUserExists      ErrorCode = "VALID_2005"

	// Database Errors (5xxx)
	ErrCodeDatabaseError ErrorCode = "DB_5001"

	// Server Errors (6xxx)
	ErrCodeInternalServerError ErrorCode = "SERVER_6001"
	ErrCodeConfigurationError  ErrorCode = "SERVER_6003"
	ErrCodeKeyFormatError      ErrorCode = "SERVER_6005"

	// Security Errors (7xxx)
	ErrCodeAccessDenied ErrorCode = "SEC_7003"
)

// AppError represents a structured application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// Authentication errors

// ErrInvalidCredentials never says whether the login or the password was wrong.
func ErrInvalidCredentials() *AppError {
	return NewAppError(ErrCodeInvalidCredentials, "Invalid username, email or password", "", nil)
}

func ErrUserNotFound(userID string) *AppError {
	return NewAppError(ErrCodeUserNotFound, "User not found", fmt.Sprintf("User ID: %s", userID), nil)
}

func ErrInvalidToken() *AppError {
	return NewAppError(ErrCodeInvalidToken, "Invalid or expired token", "", nil)
}

func ErrMissingToken(details string) *AppError {
	return NewAppError(ErrCodeMissingToken, "Authentication required", details, nil)
}

// Validation errors

func ErrInvalidRequest(details string) *AppError {
	return NewAppError(ErrCodeInvalidRequest, "Invalid request", details, nil)
}

func ErrMissingField(code ErrorCode, field string) *AppError {
	return NewAppError(code, "Missing required field", fmt.Sprintf("Field: %s", field), nil)
}

func ErrInvalidRole(role string) *AppError {
	return NewAppError(ErrCodeInvalidRole, "Invalid role", fmt.Sprintf("Role: %q", role), nil)
}

func ErrUserAlreadyExists(login string) *AppError {
	return NewAppError(ErrCodeUserExists, "User already exists", fmt.Sprintf("Login: %s", login), nil)
}

// Database errors
func ErrDatabaseError(operation string, cause error) *AppError {
	return NewAppError(ErrCodeDatabaseError, "Database operation failed", fmt.Sprintf("Operation: %s", operation), cause)
}

// Server errors

func ErrInternalServerError(details string, cause error) *AppError {
	return NewAppError(ErrCodeInternalServerError, "Internal server error", details, cause)
}

// ErrConfigurationError is raised at startup when required key material is
// absent in a production profile.
func ErrConfigurationError(details string, cause error) *AppError {
	return NewAppError(ErrCodeConfigurationError, "Configuration error", details, cause)
}

// ErrKeyFormatError is raised at startup when configured key material cannot
// be decoded.
func ErrKeyFormatError(details string, cause error) *AppError {
	return NewAppError(ErrCodeKeyFormatError, "Invalid key material", details, cause)
}

// Security errors
func ErrAccessDenied(details string) *AppError {
	return NewAppError(ErrCodeAccessDenied, "Access denied", details, nil)
}

// GetHTTPStatusCode maps an error to the HTTP status the transport layer
// should answer with.
func GetHTTPStatusCode(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	code := string(appErr.Code)
	switch {
	case appErr.Code == ErrCodeUserNotFound:
		return http.StatusNotFound
	case appErr.Code == ErrCodeUserExists:
		return http.StatusConflict
	case strings.HasPrefix(code, "AUTH_"):
		return http.StatusUnauthorized
	case strings.HasPrefix(code, "VALID_"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "DB_"):
		return http.StatusServiceUnavailable
	case strings.HasPrefix(code, "SEC_"):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
