package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/redress/internal/api"
	"github.com/JaimeStill/redress/internal/config"
	"github.com/JaimeStill/redress/internal/infrastructure"
	"github.com/JaimeStill/redress/pkg/database"
	"github.com/JaimeStill/redress/pkg/extraction"
	"github.com/JaimeStill/redress/pkg/index"
	"github.com/JaimeStill/redress/pkg/middleware"
	"github.com/JaimeStill/redress/pkg/openapi"
	"github.com/JaimeStill/redress/pkg/pagination"
)

func validConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     "1m",
			WriteTimeout:    "15m",
			ShutdownTimeout: "30s",
		},
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "redress",
			User:            "redress",
			Password:        "redress",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Index: index.Config{URL: "http://localhost:8081", Timeout: "30s"},
		Model: extraction.Config{Provider: extraction.ProviderOllama, Model: "llama3.1:8b", Timeout: "60s"},
		API: config.APIConfig{
			BasePath:    "/api",
			MaxBodySize: "1MB",
			CORS:        middleware.CORSConfig{Enabled: false},
			OpenAPI:     openapi.Config{Title: "Redress API", Description: "test"},
			Pagination: pagination.Config{
				DefaultPageSize: 20,
				MaxPageSize:     100,
			},
		},
		Pipeline: config.PipelineConfig{
			CategoryCollection: "Grievance_Categories",
			FAQCollection:      "Grievance_FAQs",
			MaxFollowUpRounds:  3,
			MaxFAQLimit:        20,
		},
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
}

func setupInfra(t *testing.T) *infrastructure.Infrastructure {
	t.Helper()
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	return infra
}

func TestNewModule(t *testing.T) {
	m, err := api.NewModule(validConfig(), setupInfra(t))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}
}

func TestOpenAPIDocument(t *testing.T) {
	m, err := api.NewModule(validConfig(), setupInfra(t))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/api/openapi.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var doc openapi.Spec
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Info.Title != "Redress API" || doc.Info.Version != "0.1.0" {
		t.Errorf("info: got %+v", doc.Info)
	}

	for _, path := range []string{"/category", "/faqs", "/grievances/{id}/follow-up", "/prompts/{id}/activate"} {
		item, ok := doc.Paths[path]
		if !ok {
			t.Errorf("path %s not documented", path)
			continue
		}
		if item.Post == nil {
			t.Errorf("path %s missing POST operation", path)
		}
	}
}

func TestNewModuleAuth(t *testing.T) {
	cfg := validConfig()
	cfg.API.Auth = middleware.AuthConfig{Tokens: []string{"token1"}}

	m, err := api.NewModule(cfg, setupInfra(t))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("POST", "/api/category", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status without token: got %d, want 401", rec.Code)
	}
}

func TestNewRuntime(t *testing.T) {
	runtime := api.NewRuntime(validConfig(), setupInfra(t))

	if runtime.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default page size: got %d, want 20", runtime.Pagination.DefaultPageSize)
	}
	if runtime.MaxBody != 1024*1024 {
		t.Errorf("max body: got %d, want 1MB", runtime.MaxBody)
	}
	if runtime.Pipeline.MaxFollowUpRounds != 3 {
		t.Errorf("max rounds: got %d, want 3", runtime.Pipeline.MaxFollowUpRounds)
	}
	if runtime.Logger == nil || runtime.Database == nil || runtime.Index == nil || runtime.Cache == nil {
		t.Error("runtime is missing infrastructure systems")
	}
}

func TestNewDomain(t *testing.T) {
	domain := api.NewDomain(api.NewRuntime(validConfig(), setupInfra(t)))

	if domain.Categories == nil || domain.FAQs == nil || domain.Grievances == nil ||
		domain.Prompts == nil || domain.Users == nil {
		t.Fatalf("domain has nil systems: %+v", domain)
	}
}
