package chat

import (
	"errors"

	"FintechAgent/pkg/response"
	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidRequest        = response.NewError(400, "Invalid message or user ID.")
	ErrUserIDNotAlphanumeric = response.NewError(400, "User ID must be alphanumeric.")
	ErrSessionStateCorrupted = errors.New("bill session state corrupted")
)

// ValidationError maps validator failures on a ChatRequest to the error
// shown to the caller. Missing fields win over a malformed user id.
func ValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ErrInvalidRequest
	}

	alphanum := false
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return ErrInvalidRequest
		}
		if fe.StructField() == "UserID" && fe.Tag() == "alphanum" {
			alphanum = true
		}
	}
	if alphanum {
		return ErrUserIDNotAlphanumeric
	}
	return ErrInvalidRequest
}
