package prompts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/redress/pkg/cache"
	"github.com/JaimeStill/redress/pkg/pagination"
	"github.com/JaimeStill/redress/pkg/query"
	"github.com/JaimeStill/redress/pkg/repository"
)

// activeEntry is the cached resolution of a stage's instructions.
type activeEntry struct {
	Instructions string `json:"instructions"`
	Override     bool   `json:"override"`
}

func activeKey(stage Stage) string {
	return "prompts:active:" + string(stage)
}

type repo struct {
	db         *sql.DB
	cache      cache.System
	logger     *slog.Logger
	pagination pagination.Config
	maxBody    int64
}

// New returns the Postgres-backed prompt System. Effective instructions are
// cached per stage and evicted on every write.
func New(
	db *sql.DB,
	c cache.System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxBody int64,
) System {
	return &repo{
		db:         db,
		cache:      c,
		logger:     logger.With("system", "prompts"),
		pagination: pagination,
		maxBody:    maxBody,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination, r.maxBody)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Prompt], error) {
	page.Normalize(r.pagination)

	qb := filters.Apply(
		query.NewBuilder(projection, defaultSort).
			WhereSearch(page.Search, "Name", "Description"),
	).OrderByFields(page.Sort)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count prompts: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPrompt)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)
	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Instructions(ctx context.Context, stage Stage) (string, error) {
	fallback, err := Instructions(stage)
	if err != nil {
		return "", err
	}

	if e, err := cache.GetJSON[activeEntry](ctx, r.cache, activeKey(stage)); err == nil {
		return e.Instructions, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		r.logger.Warn("prompt cache read failed", "stage", stage, "error", err)
	}

	entry := activeEntry{Instructions: fallback}
	err = r.db.QueryRowContext(ctx,
		"SELECT instructions FROM public.prompts WHERE stage = $1 AND active",
		stage,
	).Scan(&entry.Instructions)

	switch {
	case err == nil:
		entry.Override = true
	case errors.Is(err, sql.ErrNoRows):
	default:
		return "", fmt.Errorf("resolve %s instructions: %w", stage, err)
	}

	if err := cache.SetJSON(ctx, r.cache, activeKey(stage), entry); err != nil {
		r.logger.Warn("prompt cache write failed", "stage", stage, "error", err)
	}
	return entry.Instructions, nil
}

func (r *repo) Spec(_ context.Context, stage Stage) (string, error) {
	return Spec(stage)
}

func (r *repo) Create(ctx context.Context, cmd Command) (*Prompt, error) {
	q := `INSERT INTO public.prompts (name, stage, instructions, description)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + returning

	p, err := r.write(ctx, func(tx *sql.Tx) (Prompt, error) {
		return repository.QueryOne(ctx, tx, q, []any{cmd.Name, cmd.Stage, cmd.Instructions, cmd.Description}, scanPrompt)
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("prompt created", "id", p.ID, "name", p.Name, "stage", p.Stage)
	return &p, nil
}

// Update replaces every editable field. Moving an active prompt to a stage
// that already has an active prompt violates the one-active-per-stage index
// and reports ErrDuplicate.
func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd Command) (*Prompt, error) {
	q := `UPDATE public.prompts
		SET name = $1, stage = $2, instructions = $3, description = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING ` + returning

	p, err := r.write(ctx, func(tx *sql.Tx) (Prompt, error) {
		return repository.QueryOne(ctx, tx, q, []any{cmd.Name, cmd.Stage, cmd.Instructions, cmd.Description, id}, scanPrompt)
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("prompt updated", "id", p.ID, "name", p.Name, "stage", p.Stage)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.write(ctx, func(tx *sql.Tx) (Prompt, error) {
		var active bool
		err := tx.QueryRowContext(ctx,
			"SELECT active FROM public.prompts WHERE id = $1 FOR UPDATE", id,
		).Scan(&active)
		if err != nil {
			return Prompt{}, err
		}
		if active {
			return Prompt{}, ErrActive
		}
		return Prompt{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM public.prompts WHERE id = $1", id)
	})
	if err != nil {
		return err
	}

	r.logger.Info("prompt deleted", "id", id)
	return nil
}

// Activate makes id the only active prompt for its stage.
func (r *repo) Activate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	p, err := r.write(ctx, func(tx *sql.Tx) (Prompt, error) {
		var stage Stage
		err := tx.QueryRowContext(ctx,
			"SELECT stage FROM public.prompts WHERE id = $1 FOR UPDATE", id,
		).Scan(&stage)
		if err != nil {
			return Prompt{}, err
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE public.prompts SET active = false, updated_at = NOW() WHERE stage = $1 AND active AND id <> $2",
			stage, id,
		); err != nil {
			return Prompt{}, fmt.Errorf("clear active %s prompt: %w", stage, err)
		}

		return repository.QueryOne(ctx, tx,
			"UPDATE public.prompts SET active = true, updated_at = NOW() WHERE id = $1 RETURNING "+returning,
			[]any{id}, scanPrompt,
		)
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("prompt activated", "id", p.ID, "name", p.Name, "stage", p.Stage)
	return &p, nil
}

func (r *repo) Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	p, err := r.write(ctx, func(tx *sql.Tx) (Prompt, error) {
		return repository.QueryOne(ctx, tx,
			"UPDATE public.prompts SET active = false, updated_at = NOW() WHERE id = $1 RETURNING "+returning,
			[]any{id}, scanPrompt,
		)
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("prompt deactivated", "id", p.ID, "name", p.Name, "stage", p.Stage)
	return &p, nil
}

// write runs fn in a transaction, maps storage errors to domain errors,
// and evicts the cached instructions of every stage on success.
func (r *repo) write(ctx context.Context, fn func(tx *sql.Tx) (Prompt, error)) (Prompt, error) {
	p, err := repository.WithTx(ctx, r.db, fn)
	if err != nil {
		return Prompt{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	for _, stage := range Stages() {
		if err := r.cache.Delete(ctx, activeKey(stage)); err != nil {
			r.logger.Warn("prompt cache evict failed", "stage", stage, "error", err)
		}
	}
	return p, nil
}
