// Package workflow implements the grievance classification and clarification
// pipeline: category retrieval, required-field parsing, follow-up question
// generation, answer verification, and FAQ retrieval.
//
// Every component absorbs external failures. Callers always receive a usable
// (possibly empty) result; the accompanying error, when non-nil, reports the
// suppressed failure as ErrUnavailable or ErrMalformed for logging and metrics.
package workflow

import "strings"

// CategoryCandidate is one ranked match from the category taxonomy.
type CategoryCandidate struct {
	Rank           int      `json:"rank"`
	Score          *float64 `json:"score"`
	RerankScore    *float64 `json:"rerank_score"`
	ID             string   `json:"id"`
	ConcatCategory string   `json:"concat_grievance_category"`
	Category       string   `json:"category"`
	SubCategory1   string   `json:"sub_category_1"`
	SubCategory2   string   `json:"sub_category_2"`
	SubCategory3   string   `json:"sub_category_3"`
	SubCategory4   string   `json:"sub_category_4"`
	SubCategory5   string   `json:"sub_category_5"`
	SubCategory6   string   `json:"sub_category_6"`
	DepartmentCode string   `json:"department_code"`
	DepartmentName string   `json:"department_name"`
	Description    string   `json:"description_of_grievance_category"`
	FieldSpec      string   `json:"gpt_form_field_generation"`
}

// Path returns the category followed by its non-empty sub-categories.
func (c CategoryCandidate) Path() []string {
	levels := []string{
		c.Category,
		c.SubCategory1, c.SubCategory2, c.SubCategory3,
		c.SubCategory4, c.SubCategory5, c.SubCategory6,
	}
	path := make([]string, 0, len(levels))
	for _, l := range levels {
		if l = strings.TrimSpace(l); l != "" {
			path = append(path, l)
		}
	}
	return path
}

// RequiredField is one piece of information a category's intake form requires.
// Options is nil when the field declares no enumerated options.
type RequiredField struct {
	FieldName   string   `json:"field_name"`
	DataType    string   `json:"data_type"`
	Mandatory   bool     `json:"mandatory"`
	Description string   `json:"description"`
	Options     []string `json:"options,omitempty"`
}

// ClassificationResult is the outcome of classifying a free-text grievance.
// An empty Categories slice means no match; TopCategory is then nil.
type ClassificationResult struct {
	Categories         []CategoryCandidate `json:"categories"`
	TopCategory        *CategoryCandidate  `json:"top_category"`
	Fields             []RequiredField     `json:"fields"`
	FormattedFields    string              `json:"formatted_fields"`
	ClassifiedCategory string              `json:"classified_category"`
}

// Matched reports whether a top category was found.
func (r ClassificationResult) Matched() bool {
	return r.TopCategory != nil
}

func emptyClassification() ClassificationResult {
	return ClassificationResult{
		Categories: []CategoryCandidate{},
		Fields:     []RequiredField{},
	}
}

// FollowUpState is the model's judgment of a classification and the questions
// needed to complete the grievance record.
type FollowUpState struct {
	IsCorrectCategory  bool     `json:"is_correct_category"`
	MissingInformation bool     `json:"missing_information"`
	FollowUpQuestions  []string `json:"follow_up_questions"`
}

// HasQuestions reports whether at least one non-blank question was produced.
func (s *FollowUpState) HasQuestions() bool {
	return s != nil && len(s.FollowUpQuestions) > 0
}

// AnswerVerificationResult is the model's judgment of a follow-up answer.
type AnswerVerificationResult struct {
	AllQuestionsAnswered     bool     `json:"all_questions_answered"`
	AdditionalFollowUpNeeded bool     `json:"additional_follow_up_needed"`
	SuggestedFollowUp        []string `json:"suggested_follow_up"`
}

// FaqItem is one frequently asked question and its answer.
type FaqItem struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func cleanQuestions(qs []string) []string {
	out := make([]string, 0, len(qs))
	for _, q := range qs {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}
