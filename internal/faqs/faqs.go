// Package faqs serves frequently asked questions matched to a free-text query,
// with responses cached for a short time.
package faqs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/redress/internal/workflow"
	"github.com/JaimeStill/redress/pkg/cache"
)

// ErrEmptyQuery indicates the request carried no query text.
var ErrEmptyQuery = errors.New("query is required")

// MapHTTPStatus maps FAQ errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEmptyQuery) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Request carries the FAQ query. A zero Limit selects the default.
type Request struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// Response lists the matched FAQs.
type Response struct {
	Status string             `json:"status"`
	FAQs   []workflow.FaqItem `json:"faqs"`
	Count  int                `json:"count"`
}

// System answers FAQ queries.
type System interface {
	Handler() *Handler
	Search(ctx context.Context, req Request) (*Response, error)
}

type service struct {
	rt       *workflow.Runtime
	cache    cache.System
	logger   *slog.Logger
	maxBody  int64
	maxLimit int
}

// New creates the FAQ system. maxLimit caps the requested limit; zero keeps
// the pipeline maximum.
func New(rt *workflow.Runtime, c cache.System, logger *slog.Logger, maxBody int64, maxLimit int) System {
	return &service{
		rt:       rt,
		cache:    c,
		logger:   logger.With("system", "faqs"),
		maxBody:  maxBody,
		maxLimit: maxLimit,
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger, s.maxBody)
}

// Search returns up to the requested number of FAQs for the query.
// Cached responses are served when present. Degraded lookups return an
// empty list and are not cached.
func (s *service) Search(ctx context.Context, req Request) (*Response, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	limit := s.limit(req.Limit)
	key := cacheKey(query, limit)

	if resp, err := cache.GetJSON[Response](ctx, s.cache, key); err == nil {
		return &resp, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("faq cache read failed", "error", err)
	}

	items, err := workflow.RetrieveFAQs(ctx, s.rt, query, limit)
	resp := &Response{Status: "success", FAQs: items, Count: len(items)}
	if err != nil {
		return resp, nil
	}

	if err := cache.SetJSON(ctx, s.cache, key, resp); err != nil {
		s.logger.Warn("faq cache write failed", "error", err)
	}
	return resp, nil
}

func (s *service) limit(requested int) int {
	limit := workflow.ClampFAQLimit(requested)
	if s.maxLimit > 0 && limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

func cacheKey(query string, limit int) string {
	return fmt.Sprintf("faqs:%d:%s", limit, strings.ToLower(query))
}
