package storage_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/JaimeStill/redress/pkg/lifecycle"
	"github.com/JaimeStill/redress/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=redressstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/redressstore;"

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestNewRejectsConnectionString(t *testing.T) {
	cfg := &storage.Config{ContainerName: "transcripts", ConnectionString: "not-a-connection-string"}
	if _, err := storage.New(cfg, discard); err == nil {
		t.Fatal("New() err = nil, want connection string error")
	}
}

func TestDisabled(t *testing.T) {
	sys, err := storage.New(&storage.Config{ContainerName: "transcripts"}, discard)
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}
	if err := sys.Start(lifecycle.New()); err != nil {
		t.Errorf("Start() err = %v", err)
	}

	ctx := context.Background()
	key := "grievances/1/rounds/1.json"

	if err := sys.Upload(ctx, key, strings.NewReader("{}"), "application/json"); !errors.Is(err, storage.ErrDisabled) {
		t.Errorf("Upload() err = %v, want ErrDisabled", err)
	}
	if rc, err := sys.Download(ctx, key); rc != nil || !errors.Is(err, storage.ErrDisabled) {
		t.Errorf("Download() = %v, %v, want nil, ErrDisabled", rc, err)
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key  string
		want error
	}{
		{"grievances/0b7e/rounds/2.json", nil},
		{"transcript.json", nil},
		{"", storage.ErrEmptyKey},
		{"/grievances/1.json", storage.ErrInvalidKey},
		{"grievances/../secrets", storage.ErrInvalidKey},
		{"grievances/./1.json", storage.ErrInvalidKey},
		{"grievances//1.json", storage.ErrInvalidKey},
		{"grievances/", storage.ErrInvalidKey},
		{`grievances\1.json`, storage.ErrInvalidKey},
		{"..", storage.ErrInvalidKey},
	}

	for _, tt := range tests {
		if err := storage.ValidateKey(tt.key); !errors.Is(err, tt.want) {
			t.Errorf("ValidateKey(%q) = %v, want %v", tt.key, err, tt.want)
		}
	}
}

// Key checks run before any request, so no emulator is needed.
func TestOperationsValidateKeys(t *testing.T) {
	cfg := &storage.Config{ContainerName: "transcripts", ConnectionString: azuriteConnString, Prefix: "/staging/"}

	sys, err := storage.New(cfg, discard)
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	ctx := context.Background()
	for _, key := range []string{"", "a/../b"} {
		if err := sys.Upload(ctx, key, strings.NewReader("{}"), "application/json"); err == nil {
			t.Errorf("Upload(%q) err = nil", key)
		}
		if _, err := sys.Download(ctx, key); err == nil {
			t.Errorf("Download(%q) err = nil", key)
		}
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{storage.ErrNotFound, http.StatusNotFound},
		{storage.ErrEmptyKey, http.StatusBadRequest},
		{storage.ErrInvalidKey, http.StatusBadRequest},
		{storage.ErrDisabled, http.StatusServiceUnavailable},
		{fmt.Errorf("transcript: %w", storage.ErrNotFound), http.StatusNotFound},
		{errors.New("throttled"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := storage.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
