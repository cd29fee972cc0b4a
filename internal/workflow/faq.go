package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/JaimeStill/redress/pkg/index"
)

// FAQ result limits.
const (
	DefaultFAQLimit = 5
	MaxFAQLimit     = 20
)

const (
	faqAlpha  = 0.5
	faqRerank = "question"
)

var faqProperties = []string{"faq_id", "code", "question", "answer"}

// RetrieveFAQs returns up to limit FAQ entries matching query, ordered by
// rerank score on the question text. Entries missing an id, question, or
// answer are dropped. On index failure the result is empty and the error
// reports the suppressed failure.
func RetrieveFAQs(ctx context.Context, rt *Runtime, query string, limit int) ([]FaqItem, error) {
	if strings.TrimSpace(query) == "" {
		return []FaqItem{}, nil
	}
	limit = ClampFAQLimit(limit)

	defer observe(componentFAQ, time.Now())

	hits, err := rt.Index.Hybrid(ctx, index.Query{
		Collection:     rt.Collections.FAQs,
		Text:           query,
		Alpha:          faqAlpha,
		Limit:          limit,
		Properties:     faqProperties,
		RerankProperty: faqRerank,
		RerankQuery:    query,
	})
	if err != nil {
		return []FaqItem{}, rt.degrade(ctx, componentFAQ, err)
	}

	sortByRerank(hits)

	items := make([]FaqItem, 0, len(hits))
	for _, h := range hits {
		item := faqFrom(h)
		if item.ID == "" || strings.TrimSpace(item.Question) == "" || strings.TrimSpace(item.Answer) == "" {
			continue
		}
		items = append(items, item)
		if len(items) == limit {
			break
		}
	}

	return items, nil
}

// ClampFAQLimit maps a requested limit into [1, MaxFAQLimit], using
// DefaultFAQLimit for zero or negative requests.
func ClampFAQLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultFAQLimit
	case limit > MaxFAQLimit:
		return MaxFAQLimit
	default:
		return limit
	}
}

func faqFrom(h index.Hit) FaqItem {
	id := prop(h, "faq_id")
	if id == "" {
		id = h.ID
	}

	return FaqItem{
		ID:       id,
		Code:     prop(h, "code"),
		Question: prop(h, "question"),
		Answer:   prop(h, "answer"),
	}
}
