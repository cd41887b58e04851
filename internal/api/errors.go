package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/npezzotti/campus-connect/internal/social"
)

type ApiError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

func (e *ApiError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}

	return e.Message
}

func (e *ApiError) Unwrap() error {
	return e.Err
}

func lower(s string) string {
	return strings.ToLower(s)
}

func newApiError(code int, msg string) *ApiError {
	if msg == "" {
		msg = lower(http.StatusText(code))
	}
	return &ApiError{StatusCode: code, Message: msg}
}

func NewBadRequestError() *ApiError {
	return newApiError(http.StatusBadRequest, "")
}

func NewNotFoundError() *ApiError {
	return newApiError(http.StatusNotFound, "")
}

func NewInternalServerError(err error) *ApiError {
	e := newApiError(http.StatusInternalServerError, "")
	e.Err = err
	return e
}

func NewUnauthorizedError() *ApiError {
	return newApiError(http.StatusUnauthorized, "")
}

func NewForbiddenError() *ApiError {
	return newApiError(http.StatusForbidden, "")
}

func NewTooManyRequestsError() *ApiError {
	return newApiError(http.StatusTooManyRequests, "")
}

// errorFromService maps a social error onto the response returned to the
// caller. Unknown errors are treated as internal failures.
func errorFromService(err error) *ApiError {
	var (
		code int
		msg  = err.Error()
	)

	switch {
	case errors.Is(err, social.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, social.ErrSelfReference), errors.Is(err, social.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, social.ErrNotMember):
		code = http.StatusBadRequest
	case errors.Is(err, social.ErrDuplicateAction):
		code = http.StatusConflict
	case errors.Is(err, social.ErrQuotaExceeded):
		code = http.StatusTooManyRequests
	case errors.Is(err, social.ErrForbidden), errors.Is(err, social.ErrUnverified):
		code = http.StatusForbidden
	case errors.Is(err, social.ErrInvalidCredentials):
		code = http.StatusUnauthorized
	default:
		return NewInternalServerError(err)
	}

	return &ApiError{StatusCode: code, Message: msg, Err: err}
}
