package grievances

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/redress/internal/workflow"
	"github.com/JaimeStill/redress/pkg/pagination"
	"github.com/JaimeStill/redress/pkg/query"
	"github.com/JaimeStill/redress/pkg/repository"
	"github.com/JaimeStill/redress/pkg/storage"
)

// DefaultMaxRounds bounds the clarification cycle when no limit is configured.
const DefaultMaxRounds = 3

type repo struct {
	db         *sql.DB
	rt         *workflow.Runtime
	store      storage.System
	logger     *slog.Logger
	pagination pagination.Config
	maxBody    int64
	maxRounds  int
}

// New creates a grievance repository implementing the System interface.
// maxRounds bounds the follow-up rounds issued per grievance; zero or less
// uses DefaultMaxRounds.
func New(
	db *sql.DB,
	rt *workflow.Runtime,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxBody int64,
	maxRounds int,
) System {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &repo{
		db:         db,
		rt:         rt,
		store:      store,
		logger:     logger.With("system", "grievances"),
		pagination: pagination,
		maxBody:    maxBody,
		maxRounds:  maxRounds,
	}
}

// TranscriptKey returns the blob key of a round's archived transcript.
func TranscriptKey(id uuid.UUID, round int) string {
	return fmt.Sprintf("grievances/%s/rounds/%d.json", id, round)
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination, r.maxBody)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Grievance], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Description", "ClassifiedCategory")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count grievances: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanGrievance)
	if err != nil {
		return nil, fmt.Errorf("query grievances: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Grievance, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	g, err := repository.QueryOne(ctx, r.db, q, args, scanGrievance)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &g, nil
}

func (r *repo) Stats(ctx context.Context, filters Filters) (*Stats, error) {
	stats := &Stats{
		ByStage:  map[string]int{},
		ByStatus: map[string]int{},
	}

	countSQL, countArgs := filters.Apply(query.NewBuilder(projection)).BuildCount()
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("count grievances: %w", err)
	}

	groups := []struct {
		field string
		into  map[string]int
	}{
		{"Stage", stats.ByStage},
		{"Status", stats.ByStatus},
	}

	for _, g := range groups {
		q, args := filters.Apply(query.NewBuilder(projection)).BuildGroupCount(g.field)
		rows, err := repository.QueryMany(ctx, r.db, q, args, scanGroupCount)
		if err != nil {
			return nil, fmt.Errorf("count grievances by %s: %w", g.field, err)
		}
		for _, row := range rows {
			g.into[row.key] = row.count
		}
	}

	return stats, nil
}

type groupCount struct {
	key   string
	count int
}

func scanGroupCount(s repository.Scanner) (groupCount, error) {
	var gc groupCount
	err := s.Scan(&gc.key, &gc.count)
	return gc, err
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Grievance, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO grievances(user_id, title, description, category, priority, status, stage)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + returning

	args := []any{
		cmd.UserID,
		cmd.Title,
		cmd.Description,
		cmd.Category,
		cmd.Priority,
		StatusPending,
		StageCreated,
	}

	g, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Grievance, error) {
		return repository.QueryOne(ctx, tx, q, args, scanGrievance)
	})

	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, ErrUserNotFound
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	recordTransition(StageCreated)
	r.logger.Info("grievance created", "id", g.ID, "user_id", g.UserID, "priority", g.Priority)
	return &g, nil
}

func (r *repo) Classify(ctx context.Context, id uuid.UUID) (*Grievance, error) {
	g, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !g.Stage.CanTransition(StageClassified) {
		return nil, fmt.Errorf("%w: cannot classify from %s", ErrInvalidTransition, g.Stage)
	}

	result, err := workflow.Classify(ctx, r.rt, g.Description)
	if err != nil {
		r.logger.Warn("classification degraded", "id", id, "kind", workflow.Kind(err))
	}

	var state *workflow.FollowUpState
	if result.Matched() {
		state, err = workflow.GenerateFollowUp(ctx, r.rt, g.Description, result.ClassifiedCategory, result.FormattedFields)
		if err != nil {
			r.logger.Warn("follow-up generation degraded", "id", id, "kind", workflow.Kind(err))
		}
	}

	next := AfterClassify(result, state)

	var categoryData []byte
	if result.TopCategory != nil {
		if categoryData, err = json.Marshal(result.TopCategory); err != nil {
			return nil, fmt.Errorf("marshal category data: %w", err)
		}
	}

	var (
		questions     []string
		missing       *bool
		correct       *bool
		followUpRound int
	)
	if state != nil {
		questions = state.FollowUpQuestions
		missing = &state.MissingInformation
		correct = &state.IsCorrectCategory
	}
	if next == StageFollowUpIssued {
		followUpRound = 1
	}

	questionsJSON, err := marshalStrings(questions)
	if err != nil {
		return nil, fmt.Errorf("marshal follow-up questions: %w", err)
	}

	updateQ := `
		UPDATE grievances SET
			stage = $1,
			classified_category = $2,
			formatted_fields = $3,
			category_data = $4,
			follow_up_questions = $5,
			missing_information = $6,
			is_correct_category = $7,
			follow_up_round = $8,
			updated_at = NOW()
		WHERE id = $9 AND stage = $10
		RETURNING ` + returning

	updateArgs := []any{
		next,
		result.ClassifiedCategory,
		result.FormattedFields,
		categoryData,
		questionsJSON,
		missing,
		correct,
		followUpRound,
		id,
		g.Stage,
	}

	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Grievance, error) {
		ug, err := repository.QueryOne(ctx, tx, updateQ, updateArgs, scanGrievance)
		if err != nil {
			return Grievance{}, StaleTransition(err)
		}

		if next == StageFollowUpIssued {
			if err := insertRound(ctx, tx, id, 1, questionsJSON); err != nil {
				return Grievance{}, err
			}
		}

		return ug, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	recordTransition(next)
	r.logger.Info("grievance classified",
		"id", id,
		"stage", next,
		"classified_category", result.ClassifiedCategory,
		"candidates", len(result.Categories),
		"questions", len(questions),
	)
	return &updated, nil
}

func (r *repo) SubmitAnswer(ctx context.Context, id uuid.UUID, cmd AnswerCommand) (*Grievance, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	g, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := CanAnswer(g.Stage, g.FollowUpRound, r.maxRounds); err != nil {
		return nil, err
	}

	round := g.FollowUpRound

	submitted, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Grievance, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			`UPDATE grievance_follow_ups SET answer = $1, answered_at = NOW()
			 WHERE grievance_id = $2 AND round = $3`,
			cmd.AdditionalInformation, id, round,
		); err != nil {
			return Grievance{}, fmt.Errorf("record answer: %w", err)
		}

		q := `
			UPDATE grievances SET stage = $1, updated_at = NOW()
			WHERE id = $2 AND stage = $3
			RETURNING ` + returning

		ug, err := repository.QueryOne(ctx, tx, q, []any{StageAnswerSubmitted, id, g.Stage}, scanGrievance)
		return ug, StaleTransition(err)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	recordTransition(StageAnswerSubmitted)

	verification, err := workflow.VerifyAnswers(ctx, r.rt, g.Description, g.FollowUpQuestions, cmd.AdditionalInformation)
	if err != nil {
		r.logger.Warn("answer verification degraded", "id", id, "round", round, "kind", workflow.Kind(err))
	}

	next := AfterVerify(verification, round, r.maxRounds)
	if next == StageAnswerSubmitted {
		return &submitted, nil
	}

	verified, err := r.applyVerification(ctx, id, round, verification, next)
	if err != nil {
		return nil, err
	}

	recordTransition(next)
	r.logger.Info("answer verified",
		"id", id,
		"round", round,
		"stage", next,
		"all_answered", verification.AllQuestionsAnswered,
		"suggested", len(verification.SuggestedFollowUp),
	)

	r.archive(ctx, Transcript{
		GrievanceID:  id,
		Round:        round,
		Category:     deref(g.ClassifiedCategory),
		Questions:    g.FollowUpQuestions,
		Answer:       cmd.AdditionalInformation,
		Verification: verification,
		Stage:        next,
		RecordedAt:   time.Now().UTC(),
	})

	return verified, nil
}

func (r *repo) applyVerification(
	ctx context.Context,
	id uuid.UUID,
	round int,
	v *workflow.AnswerVerificationResult,
	next Stage,
) (*Grievance, error) {
	suggestedJSON, err := marshalStrings(v.SuggestedFollowUp)
	if err != nil {
		return nil, fmt.Errorf("marshal suggested follow-up: %w", err)
	}

	outstanding := suggestedJSON
	nextRound := round
	missing := next != StageVerifiedComplete

	if next == StageFollowUpIssued {
		nextRound = round + 1
	}

	g, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Grievance, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			`UPDATE grievance_follow_ups SET
				verified = true,
				all_questions_answered = $1,
				additional_follow_up_needed = $2,
				suggested_follow_up = $3
			 WHERE grievance_id = $4 AND round = $5`,
			v.AllQuestionsAnswered, v.AdditionalFollowUpNeeded, suggestedJSON, id, round,
		); err != nil {
			return Grievance{}, fmt.Errorf("record verification: %w", err)
		}

		if next == StageFollowUpIssued {
			if err := insertRound(ctx, tx, id, nextRound, suggestedJSON); err != nil {
				return Grievance{}, err
			}
		}

		q := `
			UPDATE grievances SET
				stage = $1,
				follow_up_questions = $2,
				follow_up_round = $3,
				missing_information = $4,
				updated_at = NOW()
			WHERE id = $5 AND stage = $6
			RETURNING ` + returning

		args := []any{next, outstanding, nextRound, missing, id, StageAnswerSubmitted}
		ug, err := repository.QueryOne(ctx, tx, q, args, scanGrievance)
		return ug, StaleTransition(err)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &g, nil
}

func (r *repo) Close(ctx context.Context, id uuid.UUID, cmd CloseCommand) (*Grievance, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	g, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !g.Stage.CanTransition(StageClosed) {
		return nil, fmt.Errorf("%w: cannot close from %s", ErrInvalidTransition, g.Stage)
	}

	closingDate := time.Now().UTC()
	if cmd.ClosingDate != nil {
		closingDate = *cmd.ClosingDate
	}

	q := `
		UPDATE grievances SET
			stage = $1,
			status = $2,
			officer_closed_by = $3,
			final_status = $4,
			resolution_notes = $5,
			grievance_closing_date = $6,
			updated_at = NOW()
		WHERE id = $7 AND stage = $8
		RETURNING ` + returning

	args := []any{
		StageClosed,
		cmd.Status,
		cmd.OfficerClosedBy,
		cmd.FinalStatus,
		cmd.ResolutionNotes,
		closingDate,
		id,
		g.Stage,
	}

	closed, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Grievance, error) {
		cg, err := repository.QueryOne(ctx, tx, q, args, scanGrievance)
		return cg, StaleTransition(err)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	recordTransition(StageClosed)
	r.logger.Info("grievance closed", "id", id, "status", cmd.Status, "officer", cmd.OfficerClosedBy)
	return &closed, nil
}

func (r *repo) Rounds(ctx context.Context, id uuid.UUID) ([]Round, error) {
	if _, err := r.Find(ctx, id); err != nil {
		return nil, err
	}

	q, args := query.
		NewBuilder(roundProjection, roundSort).
		WhereEquals("GrievanceID", id).
		Build()

	rounds, err := repository.QueryMany(ctx, r.db, q, args, scanRound)
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	return rounds, nil
}

func (r *repo) Transcript(ctx context.Context, id uuid.UUID, round int) (io.ReadCloser, error) {
	if round < 1 {
		return nil, fmt.Errorf("%w: %d", ErrRoundNotFound, round)
	}

	rc, err := r.store.Download(ctx, TranscriptKey(id, round))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrRoundNotFound, round)
		}
		return nil, err
	}
	return rc, nil
}

// archive stores a round transcript. Failures are logged and otherwise ignored.
func (r *repo) archive(ctx context.Context, t Transcript) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		r.logger.Error("marshal transcript failed", "id", t.GrievanceID, "round", t.Round, "error", err)
		return
	}

	key := TranscriptKey(t.GrievanceID, t.Round)
	if err := r.store.Upload(ctx, key, bytes.NewReader(data), "application/json"); err != nil {
		if errors.Is(err, storage.ErrDisabled) {
			return
		}
		r.logger.Warn("transcript archive failed", "key", key, "error", err)
		return
	}

	r.logger.Debug("transcript archived", "key", key)
}

func insertRound(ctx context.Context, tx *sql.Tx, id uuid.UUID, round int, questions []byte) error {
	_, err := tx.ExecContext(
		ctx,
		"INSERT INTO grievance_follow_ups(grievance_id, round, questions) VALUES ($1, $2, $3)",
		id, round, questions,
	)
	if err != nil {
		return fmt.Errorf("insert round %d: %w", round, err)
	}
	return nil
}

// staleStage reports a missing row on a stage-guarded update as a transition
// conflict: the grievance moved on after it was read.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
