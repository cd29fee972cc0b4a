package workflow

import (
	"context"
	"strings"
	"time"
)

// Classify retrieves category candidates for text and resolves the top
// candidate's required fields and category path.
//
// The result is always usable. When nothing matches, or retrieval fails, it
// has no candidates, no top category, and empty rendered fields and path.
// A malformed field specification on the top candidate leaves Fields empty
// while keeping the match. In both failure cases the error reports what was
// suppressed.
func Classify(ctx context.Context, rt *Runtime, text string) (ClassificationResult, error) {
	defer observe(componentClassify, time.Now())

	candidates, err := RetrieveCategories(ctx, rt, text, DefaultCandidates)
	if err != nil || len(candidates) == 0 {
		return emptyClassification(), err
	}

	top := candidates[0]
	result := ClassificationResult{
		Categories:         candidates,
		TopCategory:        &top,
		ClassifiedCategory: classifiedPath(top),
	}

	fields, err := ParseFields(top.FieldSpec)
	if err != nil {
		err = rt.degrade(ctx, componentFields, err)
	}

	result.Fields = fields
	result.FormattedFields = RenderFields(fields)
	return result, err
}

func classifiedPath(c CategoryCandidate) string {
	if p := strings.TrimSpace(c.ConcatCategory); p != "" {
		return p
	}
	return strings.Join(c.Path(), "/")
}
