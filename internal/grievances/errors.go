package grievances

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/JaimeStill/redress/pkg/storage"
)

// Domain errors for grievance operations.
var (
	ErrNotFound          = errors.New("grievance not found")
	ErrDuplicate         = errors.New("grievance already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalid           = errors.New("invalid grievance")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidPriority   = errors.New("priority must be low, medium, high, or critical")
	ErrInvalidStage      = errors.New("unknown grievance stage")
	ErrInvalidTransition = errors.New("operation not allowed in the grievance's current stage")
	ErrRoundLimit        = errors.New("follow-up round limit reached")
	ErrRoundNotFound     = errors.New("follow-up round not found")
)

// MapHTTPStatus maps grievance domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrRoundNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrRoundLimit):
		return http.StatusConflict
	case errors.Is(err, ErrInvalid),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidPriority),
		errors.Is(err, ErrInvalidStage):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, storage.ErrDisabled):
		return storage.MapHTTPStatus(err)
	}
	return http.StatusInternalServerError
}

// StaleTransition maps a stage-guarded update that matched no row to
// ErrInvalidTransition: the grievance left the expected stage between read
// and write. Other errors pass through.
func StaleTransition(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidTransition
	}
	return err
}
