package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code классифицирует ошибку домена.
type Code string

const (
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidState Code = "INVALID_STATE"
	CodeDuplicate    Code = "DUPLICATE"
	CodeConflict     Code = "CONFLICT"
	CodeValidation   Code = "VALIDATION_FAILED"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Error — ошибка приложения с кодом и сообщением для пользователя.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New создаёт ошибку с кодом и сообщением.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap оборачивает исходную ошибку, сохраняя цепочку для errors.Is/As.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Конструкторы по коду.
func Unauthorized(message string) *Error { return New(CodeUnauthorized, message) }
func Forbidden(message string) *Error    { return New(CodeForbidden, message) }
func NotFound(message string) *Error     { return New(CodeNotFound, message) }
func InvalidState(message string) *Error { return New(CodeInvalidState, message) }
func Duplicate(message string) *Error    { return New(CodeDuplicate, message) }
func Conflict(message string) *Error     { return New(CodeConflict, message) }
func Validation(message string) *Error   { return New(CodeValidation, message) }
func Internal(message string) *Error     { return New(CodeInternal, message) }

// CodeOf возвращает код ошибки или CodeInternal для неклассифицированных.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsCode сообщает, помечена ли ошибка данным кодом.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// HTTPStatus отображает код ошибки в HTTP статус.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidState, CodeValidation:
		return http.StatusBadRequest
	case CodeDuplicate, CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage возвращает сообщение для пользователя, не раскрывая
// внутренние детали для неклассифицированных ошибок.
func UserMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "внутренняя ошибка сервера"
}
