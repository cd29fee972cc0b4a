package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/redress/internal/prompts"
	"github.com/JaimeStill/redress/pkg/extraction"
)

const verifyTemplate = `ORIGINAL GRIEVANCE:
%s

FOLLOW-UP QUESTIONS ASKED:
%s
USER'S ADDITIONAL INFORMATION:
%s

For each numbered question, decide whether the user's additional information answers it fully, partially, or not at all, and explain your reasoning.
Then report whether every question is fully answered and, if not, which of the original questions still need to be asked.
Do not suggest questions that are unrelated to the original list.`

// VerifyAnswers asks the model whether additional answers every question in
// questions, given the original grievance text.
//
// When every question is reported answered, no suggestions are returned. When
// some remain but the model names none, the original questions are returned
// as the suggestions. A nil result means verification could not run.
func VerifyAnswers(ctx context.Context, rt *Runtime, original string, questions []string, additional string) (*AnswerVerificationResult, error) {
	questions = cleanQuestions(questions)
	if len(questions) == 0 {
		return &AnswerVerificationResult{
			AllQuestionsAnswered: true,
			SuggestedFollowUp:    []string{},
		}, nil
	}

	defer observe(componentVerify, time.Now())

	result, err := extraction.Into[AnswerVerificationResult](ctx, rt.Extractor, extraction.Request{
		Name:   "answer_verification",
		System: rt.systemPrompt(ctx, prompts.StageVerify),
		Prompt: fmt.Sprintf(verifyTemplate, original, numbered(questions), additional),
	})
	if err != nil {
		return nil, rt.degrade(ctx, componentVerify, err)
	}

	result.SuggestedFollowUp = cleanQuestions(result.SuggestedFollowUp)

	switch {
	case result.AllQuestionsAnswered:
		result.AdditionalFollowUpNeeded = false
		result.SuggestedFollowUp = []string{}
	case len(result.SuggestedFollowUp) == 0:
		result.AdditionalFollowUpNeeded = true
		result.SuggestedFollowUp = append([]string{}, questions...)
	default:
		result.AdditionalFollowUpNeeded = true
	}

	return &result, nil
}

func numbered(questions []string) string {
	var sb strings.Builder
	for i, q := range questions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, q)
	}
	return sb.String()
}
