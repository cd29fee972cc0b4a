package users

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Domain errors for user operations.
var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("user email already registered")
	ErrInvalid   = errors.New("invalid user")
)

// ValidationError reports which fields of a command failed validation.
// It matches ErrInvalid with errors.Is.
type ValidationError struct {
	err error
}

func (e *ValidationError) Error() string {
	var verrs validator.ValidationErrors
	if !errors.As(e.err, &verrs) || len(verrs) == 0 {
		return ErrInvalid.Error() + ": " + e.err.Error()
	}

	msg := ErrInvalid.Error() + ":"
	for i, fe := range verrs {
		if i > 0 {
			msg += ","
		}
		msg += " " + fieldMessage(fe)
	}
	return msg
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "invalid email format"
	case "numeric", "len":
		if fe.Field() == "Mobile" {
			return "mobile number must be exactly 10 digits"
		}
	}
	return fe.Field() + " failed " + fe.Tag()
}

// MapHTTPStatus maps user domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalid) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
