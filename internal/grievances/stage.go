package grievances

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/JaimeStill/redress/internal/workflow"
)

// Stage is a grievance's position in the clarification lifecycle.
type Stage string

const (
	StageCreated            Stage = "created"
	StageClassified         Stage = "classified"
	StageFollowUpIssued     Stage = "follow_up_issued"
	StageAnswerSubmitted    Stage = "answer_submitted"
	StageVerifiedComplete   Stage = "verified_complete"
	StageVerifiedIncomplete Stage = "verified_incomplete"
	StageClosed             Stage = "closed"
)

var stages = []Stage{
	StageCreated,
	StageClassified,
	StageFollowUpIssued,
	StageAnswerSubmitted,
	StageVerifiedComplete,
	StageVerifiedIncomplete,
	StageClosed,
}

var transitions = map[Stage][]Stage{
	StageCreated:            {StageClassified, StageFollowUpIssued},
	StageClassified:         {StageClassified, StageFollowUpIssued, StageClosed},
	StageFollowUpIssued:     {StageAnswerSubmitted, StageClosed},
	StageAnswerSubmitted:    {StageAnswerSubmitted, StageFollowUpIssued, StageVerifiedComplete, StageVerifiedIncomplete, StageClosed},
	StageVerifiedComplete:   {StageClosed},
	StageVerifiedIncomplete: {StageClosed},
}

// Stages returns every lifecycle stage in order.
func Stages() []Stage {
	return stages
}

// CanTransition reports whether a grievance in s may move to next.
func (s Stage) CanTransition(next Stage) bool {
	return slices.Contains(transitions[s], next)
}

// UnmarshalJSON validates that the decoded string is a known stage.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStage(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStage validates a string as a known stage.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}

// AfterClassify returns the stage a grievance enters once classification and
// follow-up generation have run. Follow-up is issued only when a top category
// was found and the model produced at least one question.
func AfterClassify(result workflow.ClassificationResult, state *workflow.FollowUpState) Stage {
	if result.Matched() && state.HasQuestions() {
		return StageFollowUpIssued
	}
	return StageClassified
}

// CanAnswer reports whether a grievance in s on round may take an answer.
// Exhausted rounds report ErrRoundLimit; any other stage that cannot move to
// answer_submitted reports ErrInvalidTransition.
func CanAnswer(s Stage, round, maxRounds int) error {
	switch {
	case s == StageVerifiedIncomplete, round > maxRounds:
		return fmt.Errorf("%w: %d of %d rounds used", ErrRoundLimit, round, maxRounds)
	case !s.CanTransition(StageAnswerSubmitted):
		return fmt.Errorf("%w: cannot submit an answer from %s", ErrInvalidTransition, s)
	}
	return nil
}

// AfterVerify returns the stage a grievance enters once the answer for round
// has been verified. Another round is issued only while round is below
// maxRounds and the verifier suggested questions. A nil result means
// verification did not run and the answer stays submitted.
func AfterVerify(v *workflow.AnswerVerificationResult, round, maxRounds int) Stage {
	switch {
	case v == nil:
		return StageAnswerSubmitted
	case v.AllQuestionsAnswered:
		return StageVerifiedComplete
	case round < maxRounds && len(v.SuggestedFollowUp) > 0:
		return StageFollowUpIssued
	default:
		return StageVerifiedIncomplete
	}
}
