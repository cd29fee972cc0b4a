package workflow_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/JaimeStill/redress/internal/prompts"
	"github.com/JaimeStill/redress/internal/workflow"
	"github.com/JaimeStill/redress/pkg/extraction"
	"github.com/JaimeStill/redress/pkg/index"
)

type fakeIndex struct {
	hits    []index.Hit
	err     error
	queries []index.Query
}

func (f *fakeIndex) Hybrid(_ context.Context, q index.Query) ([]index.Hit, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]index.Hit, len(f.hits))
	copy(out, f.hits)
	return out, nil
}

type fakeExtractor struct {
	response string
	err      error
	requests []extraction.Request
}

func (f *fakeExtractor) Extract(_ context.Context, req extraction.Request, target any) error {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.response), target)
}

type fakePrompts struct {
	instructions map[prompts.Stage]string
	err          error
}

func (f *fakePrompts) Instructions(_ context.Context, stage prompts.Stage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	text, ok := f.instructions[stage]
	if !ok {
		return "", prompts.ErrInvalidStage
	}
	return text, nil
}

func (f *fakePrompts) Spec(_ context.Context, stage prompts.Stage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return prompts.Spec(stage)
}

func newRuntime(idx index.Searcher, ex extraction.Extractor) *workflow.Runtime {
	return &workflow.Runtime{
		Index:     idx,
		Extractor: ex,
		Collections: workflow.Collections{
			Categories: "Grievance_Categories",
			FAQs:       "Grievance_FAQs",
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func ptr[T any](v T) *T {
	return &v
}
