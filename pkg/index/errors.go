package index

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the index could not be reached or rejected the request.
	ErrUnavailable = errors.New("index unavailable")
	// ErrMalformed indicates the index returned a response that could not be interpreted.
	ErrMalformed = errors.New("malformed index response")
	// ErrInvalidQuery indicates a query was missing its collection or text.
	ErrInvalidQuery = errors.New("invalid index query")
	// ErrClosed is returned once the connection has been released at shutdown.
	ErrClosed = fmt.Errorf("%w: connection closed", ErrUnavailable)
)
