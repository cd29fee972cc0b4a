// Package extraction turns a natural-language request into a value of a fixed,
// caller-supplied shape using a language model's structured-output mode.
package extraction

import (
	"context"
	"log/slog"
)

// Request is a single structured extraction.
// Name identifies the output schema and must be a stable identifier
// (letters, digits, underscores, dashes).
type Request struct {
	Name   string
	System string
	Prompt string
}

// Extractor fills target, a non-nil pointer to a struct, from the model's
// response to req. Errors wrap ErrUnavailable when the model could not be
// reached and ErrMalformed when its output did not fit target.
type Extractor interface {
	Extract(ctx context.Context, req Request, target any) error
}

// Into runs req through ex and returns the decoded value.
func Into[T any](ctx context.Context, ex Extractor, req Request) (T, error) {
	var result T
	if err := ex.Extract(ctx, req, &result); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// New creates an Extractor for the configured provider.
func New(cfg *Config, logger *slog.Logger) (Extractor, error) {
	return newOpenAI(cfg, logger)
}
