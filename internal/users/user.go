// Package users implements the citizen account domain for Redress.
// Grievances reference a user, so a user must exist before a grievance is filed.
package users

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// User is a registered citizen.
type User struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	State     string     `json:"state"`
	Gender    string     `json:"gender"`
	District  string     `json:"district"`
	Mobile    string     `json:"mobile"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to register a user.
type CreateCommand struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	State    string `json:"state" validate:"required"`
	Gender   string `json:"gender" validate:"required"`
	District string `json:"district" validate:"required"`
	Mobile   string `json:"mobile" validate:"required,numeric,len=10"`
}

// Validate checks required fields, the email format, and that Mobile is
// exactly ten digits.
func (c CreateCommand) Validate() error {
	if err := validate.Struct(c); err != nil {
		return &ValidationError{err: err}
	}
	return nil
}
