package workflow_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/redress/internal/workflow"
)

func TestParseFields(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantNames []string
		wantErr   bool
	}{
		{
			name:      "empty",
			raw:       "",
			wantNames: []string{},
		},
		{
			name:      "whitespace",
			raw:       "   \n",
			wantNames: []string{},
		},
		{
			name:      "array preserves order",
			raw:       `[{"field_name": "PPO Number"}, {"field_name": "Bank"}, {"field_name": "Months"}]`,
			wantNames: []string{"PPO Number", "Bank", "Months"},
		},
		{
			name:      "missing brackets recovered",
			raw:       `{"field_name": "PPO Number"}, {"field_name": "Bank"}`,
			wantNames: []string{"PPO Number", "Bank"},
		},
		{
			name:      "single object recovered",
			raw:       `{"field_name": "Ward"}`,
			wantNames: []string{"Ward"},
		},
		{
			name:      "not json",
			raw:       "field: name",
			wantNames: []string{},
			wantErr:   true,
		},
		{
			name:      "truncated array",
			raw:       `[{"field_name": "PPO Number"`,
			wantNames: []string{},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := workflow.ParseFields(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, workflow.ErrMalformed) {
				t.Errorf("err = %v, want ErrMalformed", err)
			}
			if fields == nil {
				t.Fatal("fields is nil, want empty slice")
			}
			if len(fields) != len(tt.wantNames) {
				t.Fatalf("len = %d, want %d", len(fields), len(tt.wantNames))
			}
			for i, name := range tt.wantNames {
				if fields[i].FieldName != name {
					t.Errorf("fields[%d] = %q, want %q", i, fields[i].FieldName, name)
				}
			}
		})
	}
}

func TestParseFieldsLenientValues(t *testing.T) {
	raw := `[
		{"field_name": "Mobile", "data_type": "number", "mandatory": "Yes", "description": "Contact"},
		{"field_name": "Scheme", "data_type": "select", "mandatory": true, "options": ["Old", "New"]},
		{"field_name": "Remarks", "mandatory": 0, "options": "Free text"},
		{"data_type": "string"}
	]`

	fields, err := workflow.ParseFields(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if !fields[0].Mandatory {
		t.Error("fields[0] mandatory = false, want true from \"Yes\"")
	}
	if fields[0].Options != nil {
		t.Errorf("fields[0] options = %v, want nil", fields[0].Options)
	}
	if !fields[1].Mandatory || len(fields[1].Options) != 2 {
		t.Errorf("fields[1] = %+v, want mandatory with 2 options", fields[1])
	}
	if fields[2].Mandatory {
		t.Error("fields[2] mandatory = true, want false from 0")
	}
	if len(fields[2].Options) != 1 || fields[2].Options[0] != "Free text" {
		t.Errorf("fields[2] options = %v, want [Free text]", fields[2].Options)
	}
	if fields[3].FieldName != "" {
		t.Errorf("fields[3] name = %q, want empty", fields[3].FieldName)
	}
}

func TestRenderFields(t *testing.T) {
	fields := []workflow.RequiredField{
		{FieldName: "PPO Number", DataType: "string", Mandatory: true, Description: "Pension payment order"},
		{FieldName: "Scheme", DataType: "select", Description: "Scheme name", Options: []string{"Old", "New"}},
		{},
	}

	want := "Field: PPO Number\n" +
		"Data Type: string\n" +
		"Mandatory: True\n" +
		"Description: Pension payment order\n" +
		"---\n\n" +
		"Field: Scheme\n" +
		"Data Type: select\n" +
		"Mandatory: False\n" +
		"Description: Scheme name\n" +
		"Options: Old, New\n" +
		"---\n\n" +
		"Field: Unknown\n" +
		"Data Type: Unknown\n" +
		"Mandatory: False\n" +
		"Description: \n" +
		"---\n\n"

	got := workflow.RenderFields(fields)
	if got != want {
		t.Errorf("render mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}

	if again := workflow.RenderFields(fields); again != got {
		t.Error("rendering is not idempotent")
	}
}

func TestRenderFieldsEmpty(t *testing.T) {
	if got := workflow.RenderFields(nil); got != "" {
		t.Errorf("render = %q, want empty", got)
	}
}

func TestRenderFieldsFromParse(t *testing.T) {
	fields, err := workflow.ParseFields(`{"field_name": "Ward", "options": []}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	got := workflow.RenderFields(fields)
	if !strings.Contains(got, "Options: \n") {
		t.Errorf("declared empty options not rendered:\n%s", got)
	}
}
