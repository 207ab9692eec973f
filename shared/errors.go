package shared

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries the HTTP status and message a handler error should be
// rendered with.
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Err        error
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

func NewAppError(statusCode int, err error, message string, data interface{}) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
		Err:        err,
	}
}

func NewBadRequestError(err error, message string) *AppError {
	var data interface{}
	if err != nil {
		data = err.Error()
	}
	return NewAppError(http.StatusBadRequest, err, message, data)
}

func NewUnauthorizedError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, nil, message, nil)
}

func NewForbiddenError(message string) *AppError {
	return NewAppError(http.StatusForbidden, nil, message, nil)
}

func NewNotFoundError(err error, message string) *AppError {
	return NewAppError(http.StatusNotFound, err, message, nil)
}

func NewTooManyRequestsError(message string, data interface{}) *AppError {
	return NewAppError(http.StatusTooManyRequests, nil, message, data)
}

func NewServiceUnavailableError(err error, message string) *AppError {
	return NewAppError(http.StatusServiceUnavailable, err, message, nil)
}

func NewInternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, err, "Internal Server Error", nil)
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
