// Package prompts stores per-stage instruction overrides for the follow-up
// and verification model calls. At most one prompt per stage is active;
// without one the built-in instructions apply. Output specs are fixed.
package prompts

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Prompt struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Stage        Stage     `json:"stage"`
	Instructions string    `json:"instructions"`
	Description  *string   `json:"description"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Command is the body of both create and full-replace update requests.
type Command struct {
	Name         string  `json:"name" validate:"required,max=100"`
	Stage        Stage   `json:"stage" validate:"required"`
	Instructions string  `json:"instructions" validate:"required"`
	Description  *string `json:"description"`
}

// Validate trims the text fields, drops a blank description, then checks
// the required fields.
func (c *Command) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Instructions = strings.TrimSpace(c.Instructions)
	if c.Description != nil {
		if d := strings.TrimSpace(*c.Description); d != "" {
			c.Description = &d
		} else {
			c.Description = nil
		}
	}
	return validate.Struct(c)
}
