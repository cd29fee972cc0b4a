// Package infrastructure wires the process-wide systems every domain
// module depends on.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/redress/internal/config"
	"github.com/JaimeStill/redress/pkg/cache"
	"github.com/JaimeStill/redress/pkg/database"
	"github.com/JaimeStill/redress/pkg/extraction"
	"github.com/JaimeStill/redress/pkg/index"
	"github.com/JaimeStill/redress/pkg/lifecycle"
	"github.com/JaimeStill/redress/pkg/logging"
	"github.com/JaimeStill/redress/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// The index and model are process-wide; every request shares them.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Index     index.System
	Extractor extraction.Extractor
	Cache     cache.System
}

// New constructs every system without contacting any backend.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := logging.New(&cfg.Logging, os.Stderr)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	extractor, err := extraction.New(&cfg.Model, logger)
	if err != nil {
		return nil, fmt.Errorf("model init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Index:     index.New(&cfg.Index, logger),
		Extractor: extractor,
		Cache:     cache.New(&cfg.Cache, logger),
	}, nil
}

type starter interface {
	Start(lc *lifecycle.Coordinator) error
}

// Start registers every system's hooks with the coordinator, in
// dependency order.
func (i *Infrastructure) Start() error {
	systems := []struct {
		name string
		sys  starter
	}{
		{"database", i.Database},
		{"storage", i.Storage},
		{"index", i.Index},
		{"cache", i.Cache},
	}

	for _, s := range systems {
		if err := s.sys.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("%s start failed: %w", s.name, err)
		}
	}
	return nil
}
