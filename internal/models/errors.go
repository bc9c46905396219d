package models

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Error codes form a small closed vocabulary so callers can pattern-match
// outcomes instead of inspecting message strings.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeNotFound        = "NOT_FOUND"
	CodeForbidden       = "FORBIDDEN"
	CodeConflict        = "CONFLICT"
	CodeValidation      = "VALIDATION_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

// NewUnauthenticatedError deliberately carries a uniform message so callers
// cannot tell which verification step failed.
func NewUnauthenticatedError() *AppError {
	return &AppError{
		Code:    CodeUnauthenticated,
		Message: "Could not validate credentials",
	}
}

// NewInvalidCredentialsError covers failed logins. The message is the same
// whether the account is unknown or the password is wrong.
func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Code:    CodeUnauthenticated,
		Message: "Invalid credentials",
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// statusForCode maps the error vocabulary onto HTTP status categories.
func statusForCode(code string) int {
	switch code {
	case CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeConflict:
		return fiber.StatusConflict
	case CodeValidation:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes a standardized error response. Domain errors map
// to their status by code; anything else is treated as an internal failure
// and surfaced with a generic message while the cause is logged.
func RespondWithError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewInternalError(err)
	}

	if appErr.Code == CodeInternal {
		slog.ErrorContext(c.UserContext(), "internal error",
			slog.String("path", c.Path()),
			slog.String("error", appErr.Error()),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Internal server error",
			Code:  CodeInternal,
		})
	}

	return c.Status(statusForCode(appErr.Code)).JSON(ErrorResponse{
		Error: appErr.Message,
		Code:  appErr.Code,
	})
}
