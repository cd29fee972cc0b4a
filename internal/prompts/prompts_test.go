package prompts_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/JaimeStill/redress/internal/prompts"
)

func ptr[T any](v T) *T { return &v }

func TestStages(t *testing.T) {
	got := prompts.Stages()
	want := []prompts.Stage{prompts.StageFollowUp, prompts.StageVerify}

	if len(got) != len(want) {
		t.Fatalf("len(Stages()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Stages()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseStage(t *testing.T) {
	tests := []struct {
		input   string
		want    prompts.Stage
		wantErr bool
	}{
		{"follow_up", prompts.StageFollowUp, false},
		{"verify", prompts.StageVerify, false},
		{" Follow-Up ", prompts.StageFollowUp, false},
		{"VERIFY", prompts.StageVerify, false},
		{"classify", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := prompts.ParseStage(tt.input)
			if tt.wantErr {
				if !errors.Is(err, prompts.ErrInvalidStage) {
					t.Errorf("err = %v, want ErrInvalidStage", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseStage(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStageUnmarshalText(t *testing.T) {
	var s prompts.Stage
	if err := json.Unmarshal([]byte(`"follow-up"`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s != prompts.StageFollowUp {
		t.Errorf("stage = %q, want follow_up", s)
	}

	if err := json.Unmarshal([]byte(`"enhance"`), &s); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("err = %v, want ErrInvalidStage", err)
	}
}

func TestDefaults(t *testing.T) {
	for _, stage := range prompts.Stages() {
		t.Run(string(stage), func(t *testing.T) {
			instructions, err := prompts.Instructions(stage)
			if err != nil || instructions == "" {
				t.Errorf("Instructions(%s) = %q, %v", stage, instructions, err)
			}

			spec, err := prompts.Spec(stage)
			if err != nil || spec == "" {
				t.Errorf("Spec(%s) = %q, %v", stage, spec, err)
			}
		})
	}

	followUp, _ := prompts.Spec(prompts.StageFollowUp)
	if !strings.Contains(followUp, "follow_up_questions") {
		t.Error("follow_up spec does not describe follow_up_questions")
	}

	verify, _ := prompts.Spec(prompts.StageVerify)
	if !strings.Contains(verify, "all_questions_answered") {
		t.Error("verify spec does not describe all_questions_answered")
	}

	if _, err := prompts.Instructions("classify"); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("Instructions(classify) err = %v, want ErrInvalidStage", err)
	}
	if _, err := prompts.Spec("classify"); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("Spec(classify) err = %v, want ErrInvalidStage", err)
	}
}

func TestCommandValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     prompts.Command
		wantErr bool
	}{
		{
			name: "valid",
			cmd:  prompts.Command{Name: "pension-follow-up", Stage: prompts.StageFollowUp, Instructions: "Ask about PPO numbers."},
		},
		{
			name:    "missing name",
			cmd:     prompts.Command{Stage: prompts.StageFollowUp, Instructions: "x"},
			wantErr: true,
		},
		{
			name:    "blank name",
			cmd:     prompts.Command{Name: "   ", Stage: prompts.StageFollowUp, Instructions: "x"},
			wantErr: true,
		},
		{
			name:    "missing instructions",
			cmd:     prompts.Command{Name: "n", Stage: prompts.StageVerify},
			wantErr: true,
		},
		{
			name:    "missing stage",
			cmd:     prompts.Command{Name: "n", Instructions: "x"},
			wantErr: true,
		},
		{
			name:    "name too long",
			cmd:     prompts.Command{Name: strings.Repeat("a", 101), Stage: prompts.StageVerify, Instructions: "x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.cmd
			err := cmd.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCommandValidateNormalizes(t *testing.T) {
	cmd := prompts.Command{
		Name:         "  strict-verify ",
		Stage:        prompts.StageVerify,
		Instructions: "\tBe strict.\n",
		Description:  ptr("   "),
	}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("Validate() err = %v", err)
	}

	if cmd.Name != "strict-verify" {
		t.Errorf("name = %q, want strict-verify", cmd.Name)
	}
	if cmd.Instructions != "Be strict." {
		t.Errorf("instructions = %q, want trimmed", cmd.Instructions)
	}
	if cmd.Description != nil {
		t.Errorf("description = %q, want nil", *cmd.Description)
	}
}

func TestFiltersFromQuery(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStage  *prompts.Stage
		wantName   *string
		wantActive *bool
	}{
		{name: "empty"},
		{
			name:      "stage and name",
			query:     "stage=verify&name=strict",
			wantStage: ptr(prompts.StageVerify),
			wantName:  ptr("strict"),
		},
		{
			name:  "unknown stage dropped",
			query: "stage=classify",
		},
		{
			name:       "active flag",
			query:      "active=true",
			wantActive: ptr(true),
		},
		{
			name:  "invalid active dropped",
			query: "active=maybe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			f := prompts.FiltersFromQuery(values)

			if fmt.Sprint(deref(f.Stage)) != fmt.Sprint(deref(tt.wantStage)) {
				t.Errorf("stage = %v, want %v", deref(f.Stage), deref(tt.wantStage))
			}
			if fmt.Sprint(deref(f.Name)) != fmt.Sprint(deref(tt.wantName)) {
				t.Errorf("name = %v, want %v", deref(f.Name), deref(tt.wantName))
			}
			if fmt.Sprint(deref(f.Active)) != fmt.Sprint(deref(tt.wantActive)) {
				t.Errorf("active = %v, want %v", deref(f.Active), deref(tt.wantActive))
			}
		})
	}
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{prompts.ErrNotFound, http.StatusNotFound},
		{prompts.ErrDuplicate, http.StatusConflict},
		{prompts.ErrActive, http.StatusConflict},
		{prompts.ErrInvalidStage, http.StatusBadRequest},
		{prompts.ErrInvalidID, http.StatusBadRequest},
		{fmt.Errorf("activate: %w", prompts.ErrNotFound), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := prompts.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
