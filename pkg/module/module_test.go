package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/redress/pkg/module"
)

func echoPath(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(r.URL.Path))
}

func mustModule(t *testing.T, prefix string, h http.Handler) *module.Module {
	t.Helper()
	m, err := module.New(prefix, h)
	if err != nil {
		t.Fatalf("module.New(%q): %v", prefix, err)
	}
	return m
}

func TestNewPrefixValidation(t *testing.T) {
	tests := []struct {
		prefix  string
		wantErr bool
	}{
		{"/api", false},
		{"/v1", false},
		{"", true},
		{"/", true},
		{"api", true},
		{"/api/v1", true},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			m, err := module.New(tt.prefix, http.NewServeMux())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && m.Prefix() != tt.prefix {
				t.Errorf("prefix = %q, want %q", m.Prefix(), tt.prefix)
			}
		})
	}
}

func TestModuleStripsPrefix(t *testing.T) {
	m := mustModule(t, "/api", http.HandlerFunc(echoPath))

	tests := []struct {
		path string
		want string
	}{
		{"/api/grievances", "/grievances"},
		{"/api/grievances/7/rounds", "/grievances/7/rounds"},
		{"/api", "/"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", tt.path, nil)
		m.ServeHTTP(rec, req)

		if got := rec.Body.String(); got != tt.want {
			t.Errorf("inner path for %s = %q, want %q", tt.path, got, tt.want)
		}
		if req.URL.Path != tt.path {
			t.Errorf("caller request mutated to %q", req.URL.Path)
		}
	}
}

func TestModuleMiddlewareOrder(t *testing.T) {
	m := mustModule(t, "/api", http.HandlerFunc(echoPath))

	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	m.Use(tag("recover"))
	m.Use(tag("logger"))

	m.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/faqs", nil))

	if len(order) != 2 || order[0] != "recover" || order[1] != "logger" {
		t.Errorf("order = %v, want [recover logger]", order)
	}
}

func TestRouter(t *testing.T) {
	router := module.NewRouter()
	if err := router.Mount(mustModule(t, "/api", http.HandlerFunc(echoPath))); err != nil {
		t.Fatalf("mount: %v", err)
	}
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{"module", "/api/category", http.StatusOK, "/category"},
		{"trailing slash", "/api/faqs/", http.StatusOK, "/faqs"},
		{"module root", "/api/", http.StatusOK, "/"},
		{"native", "/healthz", http.StatusOK, "ok"},
		{"unclaimed", "/apix/category", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRouterDuplicateMount(t *testing.T) {
	router := module.NewRouter()
	router.Mount(mustModule(t, "/api", http.NewServeMux()))

	if err := router.Mount(mustModule(t, "/api", http.NewServeMux())); err == nil {
		t.Error("expected error mounting /api twice")
	}
}
