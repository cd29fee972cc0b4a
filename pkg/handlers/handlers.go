// Package handlers holds the JSON request and response helpers shared by
// the domain handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

var (
	ErrEmptyBody = errors.New("request body is empty")
	// ErrTrailingData rejects bodies holding more than one JSON value.
	ErrTrailingData = errors.New("request body must contain a single JSON value")
)

// RespondJSON writes data with the given status.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError writes {"error": msg}. 5xx responses are logged at Error and
// a plain 500 hides err from the client; 4xx are logged at Warn.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	msg := err.Error()
	switch {
	case status == http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "error", err)
		msg = http.StatusText(status)
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "error", err)
	default:
		logger.Warn("request rejected", "status", status, "error", err)
	}
	RespondJSON(w, status, map[string]string{"error": msg})
}

// DecodeJSON reads exactly one JSON value from the body into a new T.
// A positive maxBytes caps the body size.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, maxBytes int64) (T, error) {
	var v T

	body := r.Body
	if maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	dec := json.NewDecoder(body)
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return v, ErrEmptyBody
		}
		return v, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		var zero T
		return zero, ErrTrailingData
	}
	return v, nil
}

// DecodeStatus is the response code for a DecodeJSON error: 413 when the
// body exceeded its cap, otherwise 400.
func DecodeStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
