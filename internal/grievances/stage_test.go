package grievances_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/JaimeStill/redress/internal/grievances"
	"github.com/JaimeStill/redress/internal/workflow"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from grievances.Stage
		to   grievances.Stage
		want bool
	}{
		{grievances.StageCreated, grievances.StageClassified, true},
		{grievances.StageCreated, grievances.StageFollowUpIssued, true},
		{grievances.StageCreated, grievances.StageAnswerSubmitted, false},
		{grievances.StageCreated, grievances.StageClosed, false},
		{grievances.StageClassified, grievances.StageClassified, true},
		{grievances.StageClassified, grievances.StageClosed, true},
		{grievances.StageFollowUpIssued, grievances.StageAnswerSubmitted, true},
		{grievances.StageFollowUpIssued, grievances.StageVerifiedComplete, false},
		{grievances.StageAnswerSubmitted, grievances.StageFollowUpIssued, true},
		{grievances.StageAnswerSubmitted, grievances.StageVerifiedIncomplete, true},
		{grievances.StageVerifiedComplete, grievances.StageClosed, true},
		{grievances.StageVerifiedComplete, grievances.StageFollowUpIssued, false},
		{grievances.StageVerifiedIncomplete, grievances.StageAnswerSubmitted, false},
		{grievances.StageClosed, grievances.StageClassified, false},
		{grievances.StageClosed, grievances.StageClosed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseStage(t *testing.T) {
	for _, s := range grievances.Stages() {
		got, err := grievances.ParseStage(string(s))
		if err != nil {
			t.Errorf("ParseStage(%q): %v", s, err)
		}
		if got != s {
			t.Errorf("ParseStage(%q) = %q", s, got)
		}
	}

	if _, err := grievances.ParseStage("archived"); !errors.Is(err, grievances.ErrInvalidStage) {
		t.Errorf("err = %v, want ErrInvalidStage", err)
	}
}

func TestStageUnmarshalJSON(t *testing.T) {
	var s grievances.Stage
	if err := json.Unmarshal([]byte(`"follow_up_issued"`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s != grievances.StageFollowUpIssued {
		t.Errorf("stage = %q", s)
	}

	if err := json.Unmarshal([]byte(`"bogus"`), &s); !errors.Is(err, grievances.ErrInvalidStage) {
		t.Errorf("err = %v, want ErrInvalidStage", err)
	}
}

func TestAfterClassify(t *testing.T) {
	top := &workflow.CategoryCandidate{ID: "p1"}
	matched := workflow.ClassificationResult{
		Categories:  []workflow.CategoryCandidate{*top},
		TopCategory: top,
	}
	unmatched := workflow.ClassificationResult{Categories: []workflow.CategoryCandidate{}}

	tests := []struct {
		name   string
		result workflow.ClassificationResult
		state  *workflow.FollowUpState
		want   grievances.Stage
	}{
		{
			name:   "matched with questions",
			result: matched,
			state:  &workflow.FollowUpState{FollowUpQuestions: []string{"What is your PPO number?"}},
			want:   grievances.StageFollowUpIssued,
		},
		{
			name:   "matched without questions",
			result: matched,
			state:  &workflow.FollowUpState{FollowUpQuestions: []string{}},
			want:   grievances.StageClassified,
		},
		{
			name:   "follow-up failed",
			result: matched,
			state:  nil,
			want:   grievances.StageClassified,
		},
		{
			name:   "no category",
			result: unmatched,
			state:  &workflow.FollowUpState{FollowUpQuestions: []string{"q"}},
			want:   grievances.StageClassified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grievances.AfterClassify(tt.result, tt.state); got != tt.want {
				t.Errorf("AfterClassify = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAfterVerify(t *testing.T) {
	complete := &workflow.AnswerVerificationResult{AllQuestionsAnswered: true, SuggestedFollowUp: []string{}}
	partial := &workflow.AnswerVerificationResult{
		AdditionalFollowUpNeeded: true,
		SuggestedFollowUp:        []string{"When was the last pension credited?"},
	}
	empty := &workflow.AnswerVerificationResult{SuggestedFollowUp: []string{}}

	tests := []struct {
		name  string
		v     *workflow.AnswerVerificationResult
		round int
		max   int
		want  grievances.Stage
	}{
		{"verification unavailable", nil, 1, 3, grievances.StageAnswerSubmitted},
		{"all answered", complete, 1, 3, grievances.StageVerifiedComplete},
		{"all answered at limit", complete, 3, 3, grievances.StageVerifiedComplete},
		{"partial below limit", partial, 1, 3, grievances.StageFollowUpIssued},
		{"partial at limit", partial, 3, 3, grievances.StageVerifiedIncomplete},
		{"no suggestions", empty, 1, 3, grievances.StageVerifiedIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grievances.AfterVerify(tt.v, tt.round, tt.max); got != tt.want {
				t.Errorf("AfterVerify = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCanAnswer(t *testing.T) {
	tests := []struct {
		name  string
		stage grievances.Stage
		round int
		max   int
		want  error
	}{
		{"follow-up open", grievances.StageFollowUpIssued, 1, 3, nil},
		{"retry after failed verification", grievances.StageAnswerSubmitted, 2, 3, nil},
		{"last round open", grievances.StageFollowUpIssued, 3, 3, nil},
		{"rounds exhausted", grievances.StageVerifiedIncomplete, 3, 3, grievances.ErrRoundLimit},
		{"round past limit", grievances.StageFollowUpIssued, 4, 3, grievances.ErrRoundLimit},
		{"never classified", grievances.StageCreated, 0, 3, grievances.ErrInvalidTransition},
		{"no follow-up issued", grievances.StageClassified, 0, 3, grievances.ErrInvalidTransition},
		{"already complete", grievances.StageVerifiedComplete, 1, 3, grievances.ErrInvalidTransition},
		{"closed", grievances.StageClosed, 1, 3, grievances.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := grievances.CanAnswer(tt.stage, tt.round, tt.max)
			if tt.want == nil {
				if err != nil {
					t.Errorf("err = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
