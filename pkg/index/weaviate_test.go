package index_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/JaimeStill/redress/pkg/index"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return v
}

func TestParseHits(t *testing.T) {
	get := decode(t, `{
		"Category": [
			{
				"category": "Pension",
				"sub_Category_1": "Delay",
				"_additional": {"id": "u-1", "score": "0.82", "rerank": [{"score": 0.91}]}
			},
			{
				"category": "Water",
				"_additional": {"id": "u-2", "score": 0.4}
			}
		]
	}`)

	hits, err := index.ParseHits(get, "Category")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(hits) != 2 {
		t.Fatalf("len = %d, want 2", len(hits))
	}

	first := hits[0]
	if first.ID != "u-1" {
		t.Errorf("id = %q, want u-1", first.ID)
	}
	if first.Score == nil || *first.Score != 0.82 {
		t.Errorf("score = %v, want 0.82", first.Score)
	}
	if first.RerankScore == nil || *first.RerankScore != 0.91 {
		t.Errorf("rerank = %v, want 0.91", first.RerankScore)
	}
	if got := first.String("sub_Category_1"); got != "Delay" {
		t.Errorf("sub_Category_1 = %q, want Delay", got)
	}
	if _, ok := first.Properties["_additional"]; ok {
		t.Error("_additional leaked into properties")
	}

	second := hits[1]
	if second.RerankScore != nil {
		t.Errorf("rerank = %v, want nil", *second.RerankScore)
	}
	if got := second.String("missing"); got != "" {
		t.Errorf("missing property = %q, want empty", got)
	}
}

func TestParseHitsEmpty(t *testing.T) {
	tests := []struct {
		name string
		get  any
	}{
		{"nil get", nil},
		{"missing collection", map[string]any{"Other": []any{}}},
		{"null collection", map[string]any{"Category": nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := index.ParseHits(tt.get, "Category")
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if len(hits) != 0 {
				t.Errorf("len = %d, want 0", len(hits))
			}
		})
	}
}

func TestParseHitsMalformed(t *testing.T) {
	tests := []struct {
		name string
		get  any
	}{
		{"get not object", []any{}},
		{"collection not list", map[string]any{"Category": "oops"}},
		{"object not map", map[string]any{"Category": []any{42.0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := index.ParseHits(tt.get, "Category")
			if !errors.Is(err, index.ErrMalformed) {
				t.Errorf("err = %v, want ErrMalformed", err)
			}
		})
	}
}
