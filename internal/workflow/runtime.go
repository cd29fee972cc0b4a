package workflow

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/redress/internal/prompts"
	"github.com/JaimeStill/redress/pkg/extraction"
	"github.com/JaimeStill/redress/pkg/index"
)

// Collections names the index collections the pipeline queries.
type Collections struct {
	Categories string
	FAQs       string
}

// PromptSource resolves the instructions and output spec for a pipeline stage.
// prompts.System satisfies it; a nil source falls back to the built-in defaults.
type PromptSource interface {
	Instructions(ctx context.Context, stage prompts.Stage) (string, error)
	Spec(ctx context.Context, stage prompts.Stage) (string, error)
}

// Runtime bundles the dependencies that pipeline components require.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
type Runtime struct {
	Index       index.Searcher
	Extractor   extraction.Extractor
	Prompts     PromptSource
	Collections Collections
	Logger      *slog.Logger
}
