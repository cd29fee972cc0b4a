package users

import (
	"net/url"

	"github.com/JaimeStill/redress/pkg/query"
	"github.com/JaimeStill/redress/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "users", "u").
	Project("id", "ID").
	Project("name", "Name").
	Project("email", "Email").
	Project("state", "State").
	Project("gender", "Gender").
	Project("district", "District").
	Project("mobile", "Mobile").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for user queries.
// State and District use exact matching; Name uses contains matching.
type Filters struct {
	Name     *string `json:"name,omitempty"`
	State    *string `json:"state,omitempty"`
	District *string `json:"district,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Name", f.Name).
		WhereEquals("State", f.State).
		WhereEquals("District", f.District)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}
	if s := values.Get("state"); s != "" {
		f.State = &s
	}
	if d := values.Get("district"); d != "" {
		f.District = &d
	}

	return f
}

func scanUser(s repository.Scanner) (User, error) {
	var u User
	err := s.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.State,
		&u.Gender,
		&u.District,
		&u.Mobile,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}
