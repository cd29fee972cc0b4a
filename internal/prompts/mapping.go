package prompts

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/JaimeStill/redress/pkg/query"
	"github.com/JaimeStill/redress/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "prompts", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("stage", "Stage").
	Project("instructions", "Instructions").
	Project("description", "Description").
	Project("active", "Active").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

// returning mirrors projection's column order for INSERT/UPDATE ... RETURNING.
const returning = `id, name, stage, instructions, description, active, created_at, updated_at`

var defaultSort = query.SortField{Field: "Name"}

// Filters narrows prompt listings. Nil fields do not filter.
type Filters struct {
	Stage  *Stage  `json:"stage,omitempty"`
	Name   *string `json:"name,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Stage", f.Stage).
		WhereContains("Name", f.Name).
		WhereEquals("Active", f.Active)
}

// FiltersFromQuery reads stage, name and active. Values that do not parse
// are ignored rather than rejected.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if s, err := ParseStage(values.Get("stage")); err == nil {
		f.Stage = &s
	}
	if n := strings.TrimSpace(values.Get("name")); n != "" {
		f.Name = &n
	}
	if a, err := strconv.ParseBool(values.Get("active")); err == nil {
		f.Active = &a
	}
	return f
}

func scanPrompt(s repository.Scanner) (Prompt, error) {
	var p Prompt
	err := s.Scan(
		&p.ID, &p.Name, &p.Stage, &p.Instructions,
		&p.Description, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}
