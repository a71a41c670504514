package shared_test

import (
	"testing"
	"time"

	"travel_planner/internal/shared"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("HTTP_ADDR", "")
	c := shared.Load()
	if c.HTTPAddr != ":8080" {
		t.Fatalf("http addr: %q", c.HTTPAddr)
	}
	if c.SessionSecret == "" {
		t.Fatalf("expected a fallback session secret")
	}
	if c.UndoMaxAge != time.Hour {
		t.Fatalf("undo max age: %v", c.UndoMaxAge)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE", "memory")
	t.Setenv("CACHE_TTL_SECONDS", "30")
	t.Setenv("DEDUPE_WORKERS", "not-a-number")
	t.Setenv("MIGRATE_ON_START", "false")
	t.Setenv("LOGIN_RPS", "0.2")
	c := shared.Load()
	if c.Storage != "memory" {
		t.Fatalf("storage: %q", c.Storage)
	}
	if c.CacheTTL != 30*time.Second {
		t.Fatalf("cache ttl: %v", c.CacheTTL)
	}
	if c.DedupeWorkers != 4 {
		t.Fatalf("bad int should fall back to default, got %d", c.DedupeWorkers)
	}
	if c.MigrateOnStart {
		t.Fatalf("migrate on start should be off")
	}
	if c.LoginRPS != 0.2 {
		t.Fatalf("fractional login rate: %v", c.LoginRPS)
	}
}
