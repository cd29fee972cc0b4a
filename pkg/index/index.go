// Package index provides hybrid (vector + keyword) search against a vector index
// through a lazily established, process-wide connection.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/JaimeStill/redress/pkg/lifecycle"
)

// Query describes a single hybrid search.
// Alpha weights vector against keyword relevance (1.0 = pure vector).
// When RerankProperty is set, hits carry a rerank score computed on that
// property against RerankQuery (or Text when RerankQuery is empty).
type Query struct {
	Collection     string
	Text           string
	Alpha          float32
	Limit          int
	Properties     []string
	RerankProperty string
	RerankQuery    string
}

// Hit is a single object returned by a hybrid search, in index order.
// Score and RerankScore are nil when the index did not report them.
type Hit struct {
	ID          string
	Score       *float64
	RerankScore *float64
	Properties  map[string]any
}

// String renders the named property as text, or "" when absent. Numeric
// properties are formatted without exponent or trailing zeros.
func (h Hit) String(name string) string {
	switch v := h.Properties[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Searcher runs hybrid searches.
type Searcher interface {
	Hybrid(ctx context.Context, q Query) ([]Hit, error)
}

// Backend is an established index connection.
type Backend interface {
	Searcher
	Close() error
}

// Connector establishes a Backend.
type Connector func(ctx context.Context) (Backend, error)

// System owns the shared index connection and its lifecycle.
type System interface {
	Searcher
	// Connect establishes the connection if it is not already established.
	// Concurrent callers share a single dial; a failed dial may be retried.
	Connect(ctx context.Context) error
	// Connected reports whether a connection is currently held.
	Connected() bool
	// Close releases the connection for good. Later searches and connects
	// fail with ErrUnavailable; repeat closes are no-ops.
	Close() error
	// Start registers connect and close hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type system struct {
	connect Connector
	logger  *slog.Logger

	mu      sync.RWMutex
	backend Backend
	closed  bool
	group   singleflight.Group
}

// New creates an index system backed by Weaviate. No connection is made until
// Connect, Start, or the first search.
func New(cfg *Config, logger *slog.Logger) System {
	return NewWithConnector(weaviateConnector(cfg), logger)
}

// NewWithConnector creates an index system that dials through connect.
func NewWithConnector(connect Connector, logger *slog.Logger) System {
	return &system{
		connect: connect,
		logger:  logger.With("system", "index"),
	}
}

func (s *system) Connect(ctx context.Context) error {
	_, err := s.acquire(ctx)
	return err
}

func (s *system) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backend != nil
}

func (s *system) Close() error {
	s.mu.Lock()
	b := s.backend
	s.backend = nil
	s.closed = true
	s.mu.Unlock()

	if b == nil {
		return nil
	}

	if err := b.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}

	s.logger.Info("index connection closed")
	return nil
}

func (s *system) Hybrid(ctx context.Context, q Query) ([]Hit, error) {
	if q.Collection == "" || q.Text == "" {
		return nil, ErrInvalidQuery
	}

	b, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}

	return b.Hybrid(ctx, q)
}

func (s *system) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting index system")

	lc.OnStartup("index", func(ctx context.Context) error {
		if err := s.Connect(ctx); err != nil {
			s.logger.Warn("index connect failed, will retry on first query", "error", err)
		}
		return nil
	})

	lc.OnShutdown("index", func(context.Context) error {
		return s.Close()
	})

	return nil
}

func (s *system) acquire(ctx context.Context) (Backend, error) {
	s.mu.RLock()
	b, closed := s.backend, s.closed
	s.mu.RUnlock()
	switch {
	case closed:
		return nil, ErrClosed
	case b != nil:
		return b, nil
	}

	v, err, _ := s.group.Do("connect", func() (any, error) {
		s.mu.RLock()
		existing, closed := s.backend, s.closed
		s.mu.RUnlock()
		switch {
		case closed:
			return nil, ErrClosed
		case existing != nil:
			return existing, nil
		}

		dialed, err := s.connect(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			if err := dialed.Close(); err != nil {
				s.logger.Warn("close index connection dialed during shutdown", "error", err)
			}
			return nil, ErrClosed
		}
		s.backend = dialed
		s.mu.Unlock()

		s.logger.Info("index connection established")
		return dialed, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(Backend), nil
}
