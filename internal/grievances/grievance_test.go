package grievances_test

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/redress/internal/grievances"
	"github.com/JaimeStill/redress/pkg/storage"
)

func TestCreateCommandValidate(t *testing.T) {
	valid := func() grievances.CreateCommand {
		return grievances.CreateCommand{
			UserID:      uuid.New(),
			Title:       "  Pension not credited ",
			Category:    "Pension",
			Description: "My pension has not been credited for 3 months",
		}
	}

	tests := []struct {
		name   string
		modify func(*grievances.CreateCommand)
		want   error
	}{
		{"valid", func(*grievances.CreateCommand) {}, nil},
		{"missing user", func(c *grievances.CreateCommand) { c.UserID = uuid.Nil }, grievances.ErrInvalid},
		{"blank title", func(c *grievances.CreateCommand) { c.Title = "   " }, grievances.ErrInvalid},
		{"missing description", func(c *grievances.CreateCommand) { c.Description = "" }, grievances.ErrInvalid},
		{"unknown priority", func(c *grievances.CreateCommand) { c.Priority = "urgent" }, grievances.ErrInvalidPriority},
		{"priority case folded", func(c *grievances.CreateCommand) { c.Priority = " HIGH " }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := valid()
			tt.modify(&cmd)

			err := cmd.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateCommandNormalize(t *testing.T) {
	cmd := grievances.CreateCommand{Title: "  Water supply  ", Description: " none for a week "}
	cmd.Normalize()

	if cmd.Priority != grievances.PriorityMedium {
		t.Errorf("priority = %q, want medium", cmd.Priority)
	}
	if cmd.Title != "Water supply" {
		t.Errorf("title = %q", cmd.Title)
	}
	if cmd.Description != "none for a week" {
		t.Errorf("description = %q", cmd.Description)
	}
}

func TestAnswerCommandValidate(t *testing.T) {
	if err := (grievances.AnswerCommand{AdditionalInformation: "PPO 123456"}).Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if err := (grievances.AnswerCommand{AdditionalInformation: " \n"}).Validate(); !errors.Is(err, grievances.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestCloseCommandValidate(t *testing.T) {
	tests := []struct {
		name string
		cmd  grievances.CloseCommand
		want error
	}{
		{
			name: "valid",
			cmd:  grievances.CloseCommand{Status: grievances.StatusClosedWithResolution, OfficerClosedBy: "officer-7"},
		},
		{
			name: "missing officer",
			cmd:  grievances.CloseCommand{Status: grievances.StatusClosedWithResolution},
			want: grievances.ErrInvalid,
		},
		{
			name: "unknown status",
			cmd:  grievances.CloseCommand{Status: "Resolved", OfficerClosedBy: "officer-7"},
			want: grievances.ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.want == nil && err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range grievances.Statuses() {
		if !grievances.ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false", s)
		}
	}
	if grievances.ValidStatus("pending") {
		t.Error("status matching is case sensitive")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{grievances.ErrNotFound, http.StatusNotFound},
		{grievances.ErrUserNotFound, http.StatusNotFound},
		{grievances.ErrRoundNotFound, http.StatusNotFound},
		{grievances.ErrDuplicate, http.StatusConflict},
		{grievances.ErrInvalidTransition, http.StatusConflict},
		{grievances.ErrRoundLimit, http.StatusConflict},
		{grievances.ErrInvalid, http.StatusBadRequest},
		{grievances.ErrInvalidStatus, http.StatusBadRequest},
		{grievances.ErrInvalidPriority, http.StatusBadRequest},
		{storage.ErrDisabled, http.StatusServiceUnavailable},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := grievances.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestStaleTransition(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no error", nil, nil},
		{"stage moved on", sql.ErrNoRows, grievances.ErrInvalidTransition},
		{"wrapped no rows", fmt.Errorf("update stage: %w", sql.ErrNoRows), grievances.ErrInvalidTransition},
		{"other error", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := grievances.StaleTransition(tt.err)
			if got != tt.want {
				t.Errorf("StaleTransition(%v) = %v, want %v", tt.err, got, tt.want)
			}
			if got != nil && grievances.MapHTTPStatus(got) == http.StatusNotFound {
				t.Error("stale stage reported as not found")
			}
		})
	}
}
