package prompts

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/redress/pkg/pagination"
)

// System manages prompt overrides and resolves the effective instructions
// for each stage.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Prompt], error)
	Find(ctx context.Context, id uuid.UUID) (*Prompt, error)

	// Instructions returns the active override for stage, falling back to
	// the built-in text when none is active.
	Instructions(ctx context.Context, stage Stage) (string, error)
	// Spec returns the output contract appended to the stage's instructions.
	Spec(ctx context.Context, stage Stage) (string, error)

	Create(ctx context.Context, cmd Command) (*Prompt, error)
	Update(ctx context.Context, id uuid.UUID, cmd Command) (*Prompt, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) (*Prompt, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error)
}
