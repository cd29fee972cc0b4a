package grievances_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/redress/internal/grievances"
	"github.com/JaimeStill/redress/pkg/pagination"
)

type mockSystem struct {
	listFn       func(ctx context.Context, page pagination.PageRequest, filters grievances.Filters) (*pagination.PageResult[grievances.Grievance], error)
	findFn       func(ctx context.Context, id uuid.UUID) (*grievances.Grievance, error)
	statsFn      func(ctx context.Context, filters grievances.Filters) (*grievances.Stats, error)
	createFn     func(ctx context.Context, cmd grievances.CreateCommand) (*grievances.Grievance, error)
	classifyFn   func(ctx context.Context, id uuid.UUID) (*grievances.Grievance, error)
	answerFn     func(ctx context.Context, id uuid.UUID, cmd grievances.AnswerCommand) (*grievances.Grievance, error)
	closeFn      func(ctx context.Context, id uuid.UUID, cmd grievances.CloseCommand) (*grievances.Grievance, error)
	roundsFn     func(ctx context.Context, id uuid.UUID) ([]grievances.Round, error)
	transcriptFn func(ctx context.Context, id uuid.UUID, round int) (io.ReadCloser, error)
}

func (m *mockSystem) Handler() *grievances.Handler { return newTestHandler(m) }

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters grievances.Filters) (*pagination.PageResult[grievances.Grievance], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*grievances.Grievance, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Stats(ctx context.Context, filters grievances.Filters) (*grievances.Stats, error) {
	return m.statsFn(ctx, filters)
}

func (m *mockSystem) Create(ctx context.Context, cmd grievances.CreateCommand) (*grievances.Grievance, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Classify(ctx context.Context, id uuid.UUID) (*grievances.Grievance, error) {
	return m.classifyFn(ctx, id)
}

func (m *mockSystem) SubmitAnswer(ctx context.Context, id uuid.UUID, cmd grievances.AnswerCommand) (*grievances.Grievance, error) {
	return m.answerFn(ctx, id, cmd)
}

func (m *mockSystem) Close(ctx context.Context, id uuid.UUID, cmd grievances.CloseCommand) (*grievances.Grievance, error) {
	return m.closeFn(ctx, id, cmd)
}

func (m *mockSystem) Rounds(ctx context.Context, id uuid.UUID) ([]grievances.Round, error) {
	return m.roundsFn(ctx, id)
}

func (m *mockSystem) Transcript(ctx context.Context, id uuid.UUID, round int) (io.ReadCloser, error) {
	return m.transcriptFn(ctx, id, round)
}

func newTestHandler(sys grievances.System) *grievances.Handler {
	return grievances.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
		1<<20,
	)
}

func setupMux(h *grievances.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
	}
	return mux
}

var sampleID = uuid.MustParse("0b7e4f0e-4b8a-4f55-9d63-5a2e1f3c7d90")

func sampleGrievance(stage grievances.Stage) *grievances.Grievance {
	return &grievances.Grievance{
		ID:          sampleID,
		UserID:      uuid.MustParse("6f1c2a52-1d9b-4c0e-9a57-3c1f0d5e8b11"),
		Title:       "Pension not credited",
		Description: "My pension has not been credited for 3 months",
		Category:    "Pension",
		Priority:    grievances.PriorityMedium,
		Status:      grievances.StatusPending,
		Stage:       stage,
	}
}

func TestHandlerCreate(t *testing.T) {
	sys := &mockSystem{
		createFn: func(_ context.Context, cmd grievances.CreateCommand) (*grievances.Grievance, error) {
			if err := cmd.Validate(); err != nil {
				return nil, err
			}
			return sampleGrievance(grievances.StageCreated), nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "created",
			body: `{"user_id":"6f1c2a52-1d9b-4c0e-9a57-3c1f0d5e8b11","title":"Pension","category":"Pension","description":"not credited"}`,
			want: http.StatusCreated,
		},
		{
			name: "missing description",
			body: `{"user_id":"6f1c2a52-1d9b-4c0e-9a57-3c1f0d5e8b11","title":"Pension","category":"Pension"}`,
			want: http.StatusBadRequest,
		},
		{
			name: "malformed",
			body: `{"title":`,
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("POST", "/grievances", strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	t.Run("unknown user", func(t *testing.T) {
		sys.createFn = func(context.Context, grievances.CreateCommand) (*grievances.Grievance, error) {
			return nil, grievances.ErrUserNotFound
		}
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/grievances", strings.NewReader(tests[0].body)))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerClassify(t *testing.T) {
	category := "Pension/Non-credit"
	sys := &mockSystem{
		classifyFn: func(_ context.Context, id uuid.UUID) (*grievances.Grievance, error) {
			if id != sampleID {
				return nil, grievances.ErrNotFound
			}
			g := sampleGrievance(grievances.StageFollowUpIssued)
			g.ClassifiedCategory = &category
			g.FollowUpQuestions = []string{"What is your PPO number?"}
			g.FollowUpRound = 1
			return g, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/grievances/"+sampleID.String()+"/classify", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var g grievances.Grievance
	if err := json.NewDecoder(rec.Body).Decode(&g); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if g.Stage != grievances.StageFollowUpIssued {
		t.Errorf("stage = %q, want follow_up_issued", g.Stage)
	}
	if g.ClassifiedCategory == nil || *g.ClassifiedCategory != category {
		t.Errorf("classified category = %v", g.ClassifiedCategory)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/grievances/"+uuid.NewString()+"/classify", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerSubmitAnswer(t *testing.T) {
	var captured grievances.AnswerCommand
	sys := &mockSystem{
		answerFn: func(_ context.Context, _ uuid.UUID, cmd grievances.AnswerCommand) (*grievances.Grievance, error) {
			captured = cmd
			return sampleGrievance(grievances.StageVerifiedComplete), nil
		},
	}
	mux := setupMux(newTestHandler(sys))
	path := "/grievances/" + sampleID.String() + "/follow-up"

	body, _ := json.Marshal(grievances.AnswerCommand{AdditionalInformation: "PPO 123456, State Bank"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", path, bytes.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured.AdditionalInformation != "PPO 123456, State Bank" {
		t.Errorf("answer = %q", captured.AdditionalInformation)
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"round limit", grievances.ErrRoundLimit, http.StatusConflict},
		{"wrong stage", grievances.ErrInvalidTransition, http.StatusConflict},
		{"blank answer", grievances.ErrInvalid, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys.answerFn = func(context.Context, uuid.UUID, grievances.AnswerCommand) (*grievances.Grievance, error) {
				return nil, tt.err
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("POST", path, bytes.NewReader(body)))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandlerFind(t *testing.T) {
	sys := &mockSystem{
		findFn: func(_ context.Context, id uuid.UUID) (*grievances.Grievance, error) {
			if id == sampleID {
				return sampleGrievance(grievances.StageCreated), nil
			}
			return nil, grievances.ErrNotFound
		},
	}
	mux := setupMux(newTestHandler(sys))

	tests := []struct {
		name string
		path string
		want int
	}{
		{"found", "/grievances/" + sampleID.String(), http.StatusOK},
		{"not found", "/grievances/" + uuid.NewString(), http.StatusNotFound},
		{"invalid id", "/grievances/42", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandlerListFilters(t *testing.T) {
	var captured grievances.Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, _ pagination.PageRequest, f grievances.Filters) (*pagination.PageResult[grievances.Grievance], error) {
			captured = f
			result := pagination.NewPageResult([]grievances.Grievance{*sampleGrievance(grievances.StageClassified)}, 1, 1, 20)
			return &result, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/grievances?stage=classified&status=Pending&stage_bogus=x", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured.Stage == nil || *captured.Stage != grievances.StageClassified {
		t.Errorf("stage filter = %v, want classified", captured.Stage)
	}
	if captured.Status == nil || *captured.Status != grievances.StatusPending {
		t.Errorf("status filter = %v, want Pending", captured.Status)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/grievances?stage=unknown", nil))
	if captured.Stage != nil {
		t.Errorf("unknown stage filter = %v, want ignored", *captured.Stage)
	}
}

func TestHandlerStats(t *testing.T) {
	sys := &mockSystem{
		statsFn: func(context.Context, grievances.Filters) (*grievances.Stats, error) {
			return &grievances.Stats{
				Total:    3,
				ByStage:  map[string]int{"created": 1, "closed": 2},
				ByStatus: map[string]int{grievances.StatusPending: 3},
			}, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/grievances/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var stats grievances.Stats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Total != 3 || stats.ByStage["closed"] != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestHandlerTranscript(t *testing.T) {
	sys := &mockSystem{
		transcriptFn: func(_ context.Context, _ uuid.UUID, round int) (io.ReadCloser, error) {
			if round != 1 {
				return nil, grievances.ErrRoundNotFound
			}
			return io.NopCloser(strings.NewReader(`{"round":1}`)), nil
		},
	}
	mux := setupMux(newTestHandler(sys))
	base := "/grievances/" + sampleID.String() + "/rounds/"

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", base+"1/transcript", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if rec.Body.String() != `{"round":1}` {
		t.Errorf("body = %q", rec.Body.String())
	}

	tests := []struct {
		name  string
		round string
		want  int
	}{
		{"missing round", "2", http.StatusNotFound},
		{"non-numeric round", "first", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", base+tt.round+"/transcript", nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandlerClose(t *testing.T) {
	sys := &mockSystem{
		closeFn: func(_ context.Context, _ uuid.UUID, cmd grievances.CloseCommand) (*grievances.Grievance, error) {
			if err := cmd.Validate(); err != nil {
				return nil, err
			}
			return sampleGrievance(grievances.StageClosed), nil
		},
	}
	mux := setupMux(newTestHandler(sys))
	path := "/grievances/" + sampleID.String() + "/close"

	tests := []struct {
		name string
		body string
		want int
	}{
		{"closed", `{"status":"Closed with resolution","officer_closed_by":"officer-7"}`, http.StatusOK},
		{"bad status", `{"status":"Done","officer_closed_by":"officer-7"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("POST", path, strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
