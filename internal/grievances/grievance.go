// Package grievances implements the grievance record domain and the
// clarification state machine that sequences classification, follow-up
// questions, and answer verification for each grievance.
package grievances

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/JaimeStill/redress/internal/workflow"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Status options for a grievance's administrative status.
const (
	StatusActive                  = "Active"
	StatusPending                 = "Pending"
	StatusClosedWithResolution    = "Closed with resolution"
	StatusClosedWithoutResolution = "Closed without resolution"
	StatusTenderIssued            = "Tender Issued"
)

var statuses = []string{
	StatusActive,
	StatusPending,
	StatusClosedWithResolution,
	StatusClosedWithoutResolution,
	StatusTenderIssued,
}

// Statuses returns the accepted status values.
func Statuses() []string {
	return statuses
}

// ValidStatus reports whether s is one of the accepted status values.
func ValidStatus(s string) bool {
	return slices.Contains(statuses, s)
}

// Priority levels. Medium is the default.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

var priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Grievance is a citizen grievance and the pipeline values folded into it.
type Grievance struct {
	ID                 uuid.UUID                   `json:"id"`
	UserID             uuid.UUID                   `json:"user_id"`
	Title              string                      `json:"title"`
	Description        string                      `json:"description"`
	Category           string                      `json:"category"`
	Priority           string                      `json:"priority"`
	Status             string                      `json:"status"`
	Stage              Stage                       `json:"stage"`
	ClassifiedCategory *string                     `json:"classified_category"`
	FormattedFields    *string                     `json:"formatted_fields"`
	CategoryData       *workflow.CategoryCandidate `json:"category_data"`
	FollowUpQuestions  []string                    `json:"follow_up_questions"`
	MissingInformation *bool                       `json:"missing_information"`
	IsCorrectCategory  *bool                       `json:"is_correct_category"`
	FollowUpRound      int                         `json:"follow_up_round"`
	ResolutionNotes    *string                     `json:"resolution_notes"`
	OfficerClosedBy    *string                     `json:"officer_closed_by"`
	FinalStatus        *string                     `json:"final_status"`
	ClosingDate        *time.Time                  `json:"grievance_closing_date"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          *time.Time                  `json:"updated_at"`
}

// Round is one follow-up cycle: the questions issued and, once answered,
// the verifier's judgment of the answer.
type Round struct {
	GrievanceID              uuid.UUID  `json:"grievance_id"`
	Round                    int        `json:"round"`
	Questions                []string   `json:"questions"`
	Answer                   *string    `json:"answer"`
	Verified                 bool       `json:"verified"`
	AllQuestionsAnswered     *bool      `json:"all_questions_answered"`
	AdditionalFollowUpNeeded *bool      `json:"additional_follow_up_needed"`
	SuggestedFollowUp        []string   `json:"suggested_follow_up"`
	CreatedAt                time.Time  `json:"created_at"`
	AnsweredAt               *time.Time `json:"answered_at"`
}

// Transcript is the archived record of a verified round.
type Transcript struct {
	GrievanceID  uuid.UUID                          `json:"grievance_id"`
	Round        int                                `json:"round"`
	Category     string                             `json:"classified_category"`
	Questions    []string                           `json:"questions"`
	Answer       string                             `json:"answer"`
	Verification *workflow.AnswerVerificationResult `json:"verification"`
	Stage        Stage                              `json:"stage"`
	RecordedAt   time.Time                          `json:"recorded_at"`
}

// Stats summarizes grievance counts by lifecycle stage and status.
type Stats struct {
	Total    int            `json:"total"`
	ByStage  map[string]int `json:"by_stage"`
	ByStatus map[string]int `json:"by_status"`
}

// CreateCommand carries the data needed to file a grievance.
type CreateCommand struct {
	UserID      uuid.UUID `json:"user_id" validate:"required"`
	Title       string    `json:"title" validate:"required,max=300"`
	Category    string    `json:"category" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Priority    string    `json:"priority"`
}

// Normalize applies the default priority and trims free text.
func (c *CreateCommand) Normalize() {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
	c.Priority = strings.ToLower(strings.TrimSpace(c.Priority))
	if c.Priority == "" {
		c.Priority = PriorityMedium
	}
}

// Validate normalizes the command and checks its fields.
func (c *CreateCommand) Validate() error {
	c.Normalize()
	if err := validate.Struct(c); err != nil {
		return errors.Join(ErrInvalid, err)
	}
	if !slices.Contains(priorities, c.Priority) {
		return ErrInvalidPriority
	}
	return nil
}

// AnswerCommand carries the citizen's free-text answer to the current round.
type AnswerCommand struct {
	AdditionalInformation string `json:"additional_information" validate:"required"`
}

// Validate checks that an answer was supplied.
func (c AnswerCommand) Validate() error {
	if strings.TrimSpace(c.AdditionalInformation) == "" {
		return errors.Join(ErrInvalid, errors.New("additional_information is required"))
	}
	return nil
}

// CloseCommand carries the officer's closing decision.
// ClosingDate defaults to the time of closing.
type CloseCommand struct {
	Status          string     `json:"status" validate:"required"`
	OfficerClosedBy string     `json:"officer_closed_by" validate:"required"`
	FinalStatus     *string    `json:"final_status"`
	ResolutionNotes *string    `json:"resolution_notes"`
	ClosingDate     *time.Time `json:"grievance_closing_date"`
}

// Validate checks required fields and the status option.
func (c CloseCommand) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Join(ErrInvalid, err)
	}
	if !ValidStatus(c.Status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, c.Status)
	}
	return nil
}
