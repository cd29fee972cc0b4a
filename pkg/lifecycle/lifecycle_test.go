package lifecycle_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/redress/pkg/lifecycle"
)

func TestReadiness(t *testing.T) {
	lc := lifecycle.New()
	if lc.Ready() {
		t.Error("ready before WaitForStartup")
	}

	lc.WaitForStartup()
	if !lc.Ready() {
		t.Error("not ready after WaitForStartup")
	}

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if lc.Ready() {
		t.Error("still ready after Shutdown")
	}
}

func TestStartupFailuresRecorded(t *testing.T) {
	lc := lifecycle.New()
	var ran atomic.Int32

	lc.OnStartup("database", func(context.Context) error {
		ran.Add(1)
		return errors.New("connection refused")
	})
	lc.OnStartup("index", func(context.Context) error {
		ran.Add(1)
		return nil
	})
	lc.WaitForStartup()

	if got := ran.Load(); got != 2 {
		t.Errorf("hooks run = %d, want 2", got)
	}

	failures := lc.Failures()
	if len(failures) != 1 {
		t.Fatalf("failures = %v, want 1 entry", failures)
	}
	if err := failures["database"]; err == nil || err.Error() != "connection refused" {
		t.Errorf("database failure = %v", err)
	}
	if !lc.Ready() {
		t.Error("a failed hook should not block readiness")
	}

	failures["index"] = errors.New("mutated")
	if _, ok := lc.Failures()["index"]; ok {
		t.Error("Failures returned internal map")
	}
}

func TestShutdownRunsHooksAfterCancel(t *testing.T) {
	lc := lifecycle.New()
	var cancelled atomic.Bool

	lc.OnShutdown("cache", func(ctx context.Context) error {
		cancelled.Store(lc.Context().Err() != nil)
		if _, ok := ctx.Deadline(); !ok {
			t.Error("shutdown context has no deadline")
		}
		return nil
	})

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if !cancelled.Load() {
		t.Error("hook ran before coordinator context was cancelled")
	}
}

func TestShutdownJoinsErrors(t *testing.T) {
	lc := lifecycle.New()
	lc.OnShutdown("http", func(context.Context) error { return errors.New("drain failed") })
	lc.OnShutdown("database", func(context.Context) error { return nil })

	err := lc.Shutdown(time.Second)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "http: drain failed") {
		t.Errorf("err = %v, want hook name prefix", err)
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()
	release := make(chan struct{})
	defer close(release)

	lc.OnShutdown("stuck", func(context.Context) error {
		<-release
		return nil
	})

	err := lc.Shutdown(50 * time.Millisecond)
	if err == nil || !strings.Contains(err.Error(), "timeout") {
		t.Errorf("err = %v, want timeout", err)
	}
}

func TestShutdownHooksRunOnce(t *testing.T) {
	lc := lifecycle.New()
	var count atomic.Int32
	lc.OnShutdown("index", func(context.Context) error {
		count.Add(1)
		return nil
	})

	lc.Shutdown(time.Second)
	lc.Shutdown(time.Second)

	if got := count.Load(); got != 1 {
		t.Errorf("hook runs = %d, want 1", got)
	}
}
