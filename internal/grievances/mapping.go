package grievances

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/redress/internal/workflow"
	"github.com/JaimeStill/redress/pkg/query"
	"github.com/JaimeStill/redress/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "grievances", "g").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("title", "Title").
	Project("description", "Description").
	Project("category", "Category").
	Project("priority", "Priority").
	Project("status", "Status").
	Project("stage", "Stage").
	Project("classified_category", "ClassifiedCategory").
	Project("formatted_fields", "FormattedFields").
	Project("category_data", "CategoryData").
	Project("follow_up_questions", "FollowUpQuestions").
	Project("missing_information", "MissingInformation").
	Project("is_correct_category", "IsCorrectCategory").
	Project("follow_up_round", "FollowUpRound").
	Project("resolution_notes", "ResolutionNotes").
	Project("officer_closed_by", "OfficerClosedBy").
	Project("final_status", "FinalStatus").
	Project("grievance_closing_date", "ClosingDate").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

// returning lists projection columns unqualified, for RETURNING clauses.
const returning = `id, user_id, title, description, category, priority, status, stage,
		classified_category, formatted_fields, category_data, follow_up_questions,
		missing_information, is_correct_category, follow_up_round, resolution_notes,
		officer_closed_by, final_status, grievance_closing_date, created_at, updated_at`

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

var roundProjection = query.
	NewProjectionMap("public", "grievance_follow_ups", "f").
	Project("grievance_id", "GrievanceID").
	Project("round", "Round").
	Project("questions", "Questions").
	Project("answer", "Answer").
	Project("verified", "Verified").
	Project("all_questions_answered", "AllQuestionsAnswered").
	Project("additional_follow_up_needed", "AdditionalFollowUpNeeded").
	Project("suggested_follow_up", "SuggestedFollowUp").
	Project("created_at", "CreatedAt").
	Project("answered_at", "AnsweredAt")

var roundSort = query.SortField{Field: "Round"}

// Filters contains optional filtering criteria for grievance queries.
// Nil fields are ignored. ClassifiedCategory uses contains matching;
// CreatedFrom and CreatedTo bound the creation time as [from, to).
type Filters struct {
	UserID             *uuid.UUID `json:"user_id,omitempty"`
	Status             *string    `json:"status,omitempty"`
	Stage              *Stage     `json:"stage,omitempty"`
	Priority           *string    `json:"priority,omitempty"`
	ClassifiedCategory *string    `json:"classified_category,omitempty"`
	CreatedFrom        *time.Time `json:"created_from,omitempty"`
	CreatedTo          *time.Time `json:"created_to,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("UserID", f.UserID).
		WhereEquals("Status", f.Status).
		WhereEquals("Stage", f.Stage).
		WhereEquals("Priority", f.Priority).
		WhereContains("ClassifiedCategory", f.ClassifiedCategory).
		WhereRange("CreatedAt", f.CreatedFrom, f.CreatedTo)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unparseable values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("user_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.UserID = &id
		}
	}
	if v := values.Get("status"); v != "" {
		f.Status = &v
	}
	if stage, err := ParseStage(values.Get("stage")); err == nil {
		f.Stage = &stage
	}
	if v := values.Get("priority"); v != "" {
		f.Priority = &v
	}
	if v := values.Get("classified_category"); v != "" {
		f.ClassifiedCategory = &v
	}
	if v := values.Get("created_from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.CreatedFrom = &t
		}
	}
	if v := values.Get("created_to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.CreatedTo = &t
		}
	}

	return f
}

func scanGrievance(s repository.Scanner) (Grievance, error) {
	var g Grievance
	var categoryRaw, questionsRaw []byte

	err := s.Scan(
		&g.ID,
		&g.UserID,
		&g.Title,
		&g.Description,
		&g.Category,
		&g.Priority,
		&g.Status,
		&g.Stage,
		&g.ClassifiedCategory,
		&g.FormattedFields,
		&categoryRaw,
		&questionsRaw,
		&g.MissingInformation,
		&g.IsCorrectCategory,
		&g.FollowUpRound,
		&g.ResolutionNotes,
		&g.OfficerClosedBy,
		&g.FinalStatus,
		&g.ClosingDate,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return g, err
	}

	if len(categoryRaw) > 0 && string(categoryRaw) != "null" {
		g.CategoryData = new(workflow.CategoryCandidate)
		if err := json.Unmarshal(categoryRaw, g.CategoryData); err != nil {
			return g, fmt.Errorf("unmarshal category_data: %w", err)
		}
	}

	g.FollowUpQuestions, err = unmarshalStrings(questionsRaw, "follow_up_questions")
	return g, err
}

func scanRound(s repository.Scanner) (Round, error) {
	var r Round
	var questionsRaw, suggestedRaw []byte

	err := s.Scan(
		&r.GrievanceID,
		&r.Round,
		&questionsRaw,
		&r.Answer,
		&r.Verified,
		&r.AllQuestionsAnswered,
		&r.AdditionalFollowUpNeeded,
		&suggestedRaw,
		&r.CreatedAt,
		&r.AnsweredAt,
	)
	if err != nil {
		return r, err
	}

	if r.Questions, err = unmarshalStrings(questionsRaw, "questions"); err != nil {
		return r, err
	}
	r.SuggestedFollowUp, err = unmarshalStrings(suggestedRaw, "suggested_follow_up")
	return r, err
}

func unmarshalStrings(raw []byte, column string) ([]string, error) {
	out := []string{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", column, err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func marshalStrings(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}
