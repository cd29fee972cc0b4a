package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/redress/internal/prompts"
)

// ComposePrompt builds a system prompt by combining the tunable instructions
// and the fixed output specification for a pipeline stage. A nil source
// composes the built-in defaults.
func ComposePrompt(ctx context.Context, src PromptSource, stage prompts.Stage) (string, error) {
	instructions, err := loadInstructions(ctx, src, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := loadSpec(ctx, src, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)
	return sb.String(), nil
}

// systemPrompt composes the stage prompt, falling back to the defaults when
// the override store cannot be read.
func (rt *Runtime) systemPrompt(ctx context.Context, stage prompts.Stage) string {
	text, err := ComposePrompt(ctx, rt.Prompts, stage)
	if err == nil {
		return text
	}

	if rt.Logger != nil {
		rt.Logger.WarnContext(ctx, "prompt override unavailable, using default",
			"stage", stage,
			"error", err,
		)
	}

	text, _ = ComposePrompt(ctx, nil, stage)
	return text
}

func loadInstructions(ctx context.Context, src PromptSource, stage prompts.Stage) (string, error) {
	if src == nil {
		return prompts.Instructions(stage)
	}
	return src.Instructions(ctx, stage)
}

func loadSpec(ctx context.Context, src PromptSource, stage prompts.Stage) (string, error) {
	if src == nil {
		return prompts.Spec(stage)
	}
	return src.Spec(ctx, stage)
}
