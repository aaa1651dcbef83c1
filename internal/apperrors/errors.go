package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/go-errors/errors"
	"gorm.io/gorm"
)

type ErrorType string

const (
	ErrTypeBadRequest   ErrorType = "BAD_REQUEST"
	ErrTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrTypeForbidden    ErrorType = "FORBIDDEN"
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeConflict     ErrorType = "CONFLICT"
	ErrTypeInternal     ErrorType = "INTERNAL"
)

// AppError is the error every service returns for an expected failure.
// Message is safe to show to clients; Err is not.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	Stack   []byte
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StackTrace() []byte {
	return e.Stack
}

func New(errType ErrorType, message string, err error) *AppError {
	var stack []byte
	// Stacks only matter for the failures we log.
	if errType == ErrTypeInternal {
		if err != nil {
			var stackErr *goerrors.Error
			if errors.As(err, &stackErr) {
				stack = stackErr.Stack()
			} else {
				stack = goerrors.Wrap(err, 2).Stack()
			}
		} else {
			stack = goerrors.New(message).Stack()
		}
	}

	return &AppError{
		Type:    errType,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

func BadRequest(message string) *AppError {
	return New(ErrTypeBadRequest, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(ErrTypeUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(ErrTypeForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(ErrTypeNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return New(ErrTypeConflict, message, nil)
}

func Internal(message string, err error) *AppError {
	return New(ErrTypeInternal, message, err)
}

// FromStore converts an error returned by gorm. Missing rows become notFound,
// unique-constraint violations become conflict, anything else is Internal.
func FromStore(err error, notFound, conflict string) *AppError {
	var appErr *AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(notFound)
	case IsUniqueViolation(err):
		return Conflict(conflict)
	default:
		return Internal("database operation failed", err)
	}
}

// IsUniqueViolation reports whether err came from a unique index. Drivers
// without gorm error translation are matched on their message text.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "sqlstate 23505")
}

func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrTypeInternal
}

func HTTPStatus(err error) int {
	switch TypeOf(err) {
	case ErrTypeBadRequest:
		return http.StatusBadRequest
	case ErrTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrTypeForbidden:
		return http.StatusForbidden
	case ErrTypeNotFound:
		return http.StatusNotFound
	case ErrTypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text a client may see for err.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Type != ErrTypeInternal {
		return appErr.Message
	}
	return "Internal server error"
}
