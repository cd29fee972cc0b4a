// Package categories exposes stateless grievance categorization: hybrid
// retrieval of candidate categories followed by resolution of the top match
// and its required form fields.
package categories

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/redress/internal/workflow"
)

// ErrEmptyText indicates the request carried no grievance text.
var ErrEmptyText = errors.New("grievance_text is required")

// MapHTTPStatus maps categorization errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEmptyText) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Request carries the free text to categorize.
type Request struct {
	GrievanceText string `json:"grievance_text"`
}

// Response is the categorization result returned to callers.
type Response struct {
	Status             string                       `json:"status"`
	Categories         []workflow.CategoryCandidate `json:"categories"`
	TopCategory        *workflow.CategoryCandidate  `json:"top_category"`
	FormattedFields    string                       `json:"formatted_fields"`
	ClassifiedCategory string                       `json:"classified_category"`
}

// System categorizes grievance text without persisting anything.
type System interface {
	Handler() *Handler
	Categorize(ctx context.Context, text string) (*Response, error)
}

type service struct {
	rt      *workflow.Runtime
	logger  *slog.Logger
	maxBody int64
}

// New creates the categorization system over rt.
func New(rt *workflow.Runtime, logger *slog.Logger, maxBody int64) System {
	return &service{
		rt:      rt,
		logger:  logger.With("system", "categories"),
		maxBody: maxBody,
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger, s.maxBody)
}

// Categorize classifies text. Index and field-spec failures degrade to a
// partial or empty result and are not returned.
func (s *service) Categorize(ctx context.Context, text string) (*Response, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	result, err := workflow.Classify(ctx, s.rt, text)
	if err != nil {
		s.logger.Info("categorization degraded", "kind", workflow.Kind(err))
	}

	return &Response{
		Status:             "success",
		Categories:         result.Categories,
		TopCategory:        result.TopCategory,
		FormattedFields:    result.FormattedFields,
		ClassifiedCategory: result.ClassifiedCategory,
	}, nil
}
