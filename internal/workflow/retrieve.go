package workflow

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/JaimeStill/redress/pkg/index"
)

// DefaultCandidates is the number of category candidates retrieved when the
// caller does not specify one.
const DefaultCandidates = 10

const (
	categoryAlpha  = 1.0
	categoryRerank = "description_of_Grievance_Category"
)

var categoryProperties = []string{
	"uuid",
	"concat_Grievance_Category",
	"description_of_Grievance_Category",
	"department_Code",
	"department_Name",
	"category",
	"sub_Category_1",
	"sub_Category_2",
	"sub_Category_3",
	"sub_Category_4",
	"sub_Category_5",
	"sub_Category_6",
	"gPT_Form_Field_Generation",
}

// RetrieveCategories returns up to k category candidates for text, ordered by
// rerank score descending and ranked from 1. Hits without a rerank score
// follow the scored ones; ties keep index order. A k of zero or less uses
// DefaultCandidates. Blank text returns no candidates without querying.
//
// On index failure the result is empty and the error reports the suppressed
// failure.
func RetrieveCategories(ctx context.Context, rt *Runtime, text string, k int) ([]CategoryCandidate, error) {
	if strings.TrimSpace(text) == "" {
		return []CategoryCandidate{}, nil
	}
	if k <= 0 {
		k = DefaultCandidates
	}

	defer observe(componentRetrieve, time.Now())

	hits, err := rt.Index.Hybrid(ctx, index.Query{
		Collection:     rt.Collections.Categories,
		Text:           text,
		Alpha:          categoryAlpha,
		Limit:          k,
		Properties:     categoryProperties,
		RerankProperty: categoryRerank,
		RerankQuery:    text,
	})
	if err != nil {
		return []CategoryCandidate{}, rt.degrade(ctx, componentRetrieve, err)
	}

	sortByRerank(hits)

	candidates := make([]CategoryCandidate, 0, len(hits))
	for i, h := range hits {
		c := candidateFrom(h)
		c.Rank = i + 1
		candidates = append(candidates, c)
	}

	candidatesReturned.Observe(float64(len(candidates)))
	return candidates, nil
}

func sortByRerank(hits []index.Hit) {
	slices.SortStableFunc(hits, func(a, b index.Hit) int {
		switch {
		case a.RerankScore == nil && b.RerankScore == nil:
			return 0
		case a.RerankScore == nil:
			return 1
		case b.RerankScore == nil:
			return -1
		default:
			return cmp.Compare(*b.RerankScore, *a.RerankScore)
		}
	})
}

// prop renders a hit property as text. Codes are sometimes stored as numbers.
func prop(h index.Hit, name string) string {
	return h.String(name)
}

func candidateFrom(h index.Hit) CategoryCandidate {
	id := prop(h, "uuid")
	if id == "" {
		id = h.ID
	}

	return CategoryCandidate{
		Score:          h.Score,
		RerankScore:    h.RerankScore,
		ID:             id,
		ConcatCategory: prop(h, "concat_Grievance_Category"),
		Category:       prop(h, "category"),
		SubCategory1:   prop(h, "sub_Category_1"),
		SubCategory2:   prop(h, "sub_Category_2"),
		SubCategory3:   prop(h, "sub_Category_3"),
		SubCategory4:   prop(h, "sub_Category_4"),
		SubCategory5:   prop(h, "sub_Category_5"),
		SubCategory6:   prop(h, "sub_Category_6"),
		DepartmentCode: prop(h, "department_Code"),
		DepartmentName: prop(h, "department_Name"),
		Description:    prop(h, "description_of_Grievance_Category"),
		FieldSpec:      prop(h, "gPT_Form_Field_Generation"),
	}
}
