package extraction

import "errors"

var (
	// ErrUnavailable indicates the model endpoint could not be reached or refused the request.
	ErrUnavailable = errors.New("model unavailable")
	// ErrMalformed indicates the model response did not match the requested shape.
	ErrMalformed = errors.New("malformed model response")
	// ErrInvalidTarget indicates Extract was called with a nil or non-pointer target.
	ErrInvalidTarget = errors.New("extraction target must be a non-nil pointer to a struct")
)
