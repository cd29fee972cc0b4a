package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/redress/pkg/extraction"
	"github.com/JaimeStill/redress/pkg/index"
)

// Pipeline error kinds. Both are absorbed at the component boundary.
var (
	ErrUnavailable = errors.New("external service unavailable")
	ErrMalformed   = errors.New("malformed response")
)

const (
	kindUnavailable = "unavailable"
	kindMalformed   = "malformed"
)

// Kind returns "malformed" or "unavailable" for a pipeline error, or "" for nil.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformed):
		return kindMalformed
	default:
		return kindUnavailable
	}
}

// categorize maps capability errors onto the pipeline error kinds.
// Anything not known to be malformed, including cancellation, is unavailability.
func categorize(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrMalformed), errors.Is(err, ErrUnavailable):
		return err
	case errors.Is(err, index.ErrMalformed), errors.Is(err, extraction.ErrMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	default:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}

// degrade records a suppressed component failure and returns it categorized.
func (rt *Runtime) degrade(ctx context.Context, component string, err error) error {
	err = categorize(err)
	degradedTotal.WithLabelValues(component, Kind(err)).Inc()
	if rt.Logger != nil {
		rt.Logger.WarnContext(ctx, "pipeline step degraded",
			"component", component,
			"kind", Kind(err),
			"error", err,
		)
	}
	return err
}
