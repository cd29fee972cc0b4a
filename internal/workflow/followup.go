package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/redress/internal/prompts"
	"github.com/JaimeStill/redress/pkg/extraction"
)

const followUpTemplate = `You are an AI assistant helping with grievance categorization analysis.

USER GRIEVANCE:
%s

ASSIGNED CATEGORY:
%s

REQUIRED FORM FIELDS:
%s

Please analyze:
1. Is this grievance correctly categorized? Why or why not?
2. Based on the user grievance, what information is missing that would be required by the form fields?
3. What follow-up questions should be asked to gather the missing information?`

// GenerateFollowUp asks the model whether category fits the grievance and
// which questions would fill the missing required fields.
//
// A nil state means "proceed without follow-up"; the error, when non-nil,
// reports why the model could not be used. Blank questions are dropped.
func GenerateFollowUp(ctx context.Context, rt *Runtime, text, category, fieldsRendered string) (*FollowUpState, error) {
	defer observe(componentFollowUp, time.Now())

	state, err := extraction.Into[FollowUpState](ctx, rt.Extractor, extraction.Request{
		Name:   "follow_up_state",
		System: rt.systemPrompt(ctx, prompts.StageFollowUp),
		Prompt: fmt.Sprintf(followUpTemplate, text, category, fieldsRendered),
	})
	if err != nil {
		return nil, rt.degrade(ctx, componentFollowUp, err)
	}

	state.FollowUpQuestions = cleanQuestions(state.FollowUpQuestions)
	return &state, nil
}
