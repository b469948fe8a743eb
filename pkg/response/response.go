package response

import (
	"errors"
	"net/http"
)

// Error is a failure that knows the HTTP status it surfaces as. Its message
// is what the client sees.
type Error struct {
	Code int
	Err  error
}

func NewError(code int, msg string) error {
	return &Error{Code: code, Err: errors.New(msg)}
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target carries the same status and message, so a
// sentinel still matches after it has been wrapped.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Error() == t.Error()
}

// StatusOf returns the HTTP status carried by err, or 500 when err is not a
// response error.
func StatusOf(err error) int {
	var respErr *Error
	if errors.As(err, &respErr) {
		return respErr.Code
	}
	return http.StatusInternalServerError
}
