package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/redress/pkg/handlers"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusCreated, map[string]int{"round": 2})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"round":2}` {
		t.Errorf("body = %s", body)
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		status int
		err    error
		want   string
	}{
		{http.StatusBadRequest, errors.New("grievance_text is required"), "grievance_text is required"},
		{http.StatusConflict, errors.New("follow-up round limit reached"), "follow-up round limit reached"},
		{http.StatusServiceUnavailable, errors.New("model unavailable"), "model unavailable"},
		{http.StatusInternalServerError, errors.New("pq: relation does not exist"), "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondError(rec, discard, tt.status, tt.err)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.want {
				t.Errorf("error = %q, want %q", body["error"], tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type answer struct {
		AdditionalInformation string `json:"additional_information"`
	}

	tests := []struct {
		name       string
		body       string
		limit      int64
		want       string
		wantStatus int
	}{
		{"decodes", `{"additional_information":"PPO 123456"}`, 1024, "PPO 123456", 0},
		{"no limit", `{"additional_information":"State Bank"}`, 0, "State Bank", 0},
		{"trailing whitespace", "{\"additional_information\":\"x\"}\n\n", 1024, "x", 0},
		{"empty", "", 1024, "", http.StatusBadRequest},
		{"malformed", `{"additional_information":`, 1024, "", http.StatusBadRequest},
		{"two values", `{"additional_information":"a"}{"additional_information":"b"}`, 1024, "", http.StatusBadRequest},
		{"over limit", `{"additional_information":"` + strings.Repeat("x", 64) + `"}`, 16, "", http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))

			got, err := handlers.DecodeJSON[answer](rec, req, tt.limit)
			if tt.wantStatus == 0 {
				if err != nil {
					t.Fatalf("err = %v", err)
				}
			} else {
				if err == nil {
					t.Fatal("err = nil")
				}
				if status := handlers.DecodeStatus(err); status != tt.wantStatus {
					t.Errorf("DecodeStatus = %d, want %d", status, tt.wantStatus)
				}
			}
			if got.AdditionalInformation != tt.want {
				t.Errorf("got %q, want %q", got.AdditionalInformation, tt.want)
			}
		})
	}
}

func TestDecodeTrailingData(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"a":1} trailing`))
	_, err := handlers.DecodeJSON[map[string]int](httptest.NewRecorder(), req, 0)
	if !errors.Is(err, handlers.ErrTrailingData) {
		t.Errorf("err = %v, want ErrTrailingData", err)
	}
}
