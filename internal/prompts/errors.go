package prompts

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("prompt not found")
	ErrDuplicate    = errors.New("prompt name already exists")
	ErrInvalidID    = errors.New("prompt id must be a uuid")
	ErrInvalidStage = errors.New("stage must be follow_up or verify")
	ErrActive       = errors.New("prompt is active; deactivate it before deleting")
)

// MapHTTPStatus maps prompt errors onto response codes; anything
// unrecognized is a 500.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrActive):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidStage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
