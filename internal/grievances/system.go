package grievances

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/JaimeStill/redress/pkg/pagination"
)

// System defines the public contract for grievance operations, including the
// clarification lifecycle.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Grievance], error)

	Find(ctx context.Context, id uuid.UUID) (*Grievance, error)
	Stats(ctx context.Context, filters Filters) (*Stats, error)

	// Create files a grievance for an existing user in the created stage.
	Create(ctx context.Context, cmd CreateCommand) (*Grievance, error)

	// Classify runs classification and follow-up generation. Pipeline
	// failures degrade to an uncategorized grievance instead of failing.
	Classify(ctx context.Context, id uuid.UUID) (*Grievance, error)

	// SubmitAnswer records the answer to the current round and verifies it.
	SubmitAnswer(ctx context.Context, id uuid.UUID, cmd AnswerCommand) (*Grievance, error)

	Close(ctx context.Context, id uuid.UUID, cmd CloseCommand) (*Grievance, error)

	Rounds(ctx context.Context, id uuid.UUID) ([]Round, error)

	// Transcript streams the archived transcript of a verified round.
	// The caller must close the reader.
	Transcript(ctx context.Context, id uuid.UUID, round int) (io.ReadCloser, error)
}
