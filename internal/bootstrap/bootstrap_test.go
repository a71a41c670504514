package bootstrap

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"travel_planner/internal/shared"
	"travel_planner/internal/storage/memory"
)

func TestBuild_MemoryWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := shared.Config{Storage: "memory", RedisAddr: mr.Addr()}

	s, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer s.Close()
	if _, ok := s.Store.(*memory.Store); !ok {
		t.Fatalf("store = %T, want *memory.Store", s.Store)
	}
	if len(s.closers) != 1 {
		t.Fatalf("closers = %d, want the redis client only", len(s.closers))
	}
	if _, err := s.Profiles.EnsureGlobalAdmin(context.Background(), "root@x.nz", "pw"); err != nil {
		t.Fatalf("services not wired: %v", err)
	}
}

func TestBuild_RedisDownDisablesCache(t *testing.T) {
	s, err := Build(context.Background(), shared.Config{Storage: "memory", RedisAddr: "127.0.0.1:1"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer s.Close()
	if len(s.closers) != 0 {
		t.Fatalf("unreachable redis kept as a closer")
	}
	if _, err := s.Destinations.ListPublic(context.Background()); err != nil {
		t.Fatalf("ListPublic without cache: %v", err)
	}
}

func TestBuild_UnknownStorage(t *testing.T) {
	if _, err := Build(context.Background(), shared.Config{Storage: "postgres"}); err == nil {
		t.Fatal("expected error for unknown storage")
	}
}
