package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	redisad "travel_planner/internal/adapters/redis"
	"travel_planner/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetDel(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	in := []domain.Destination{{ID: 7, Name: "Lake Tekapo", Type: "Lake", Country: "New Zealand", Public: true}}
	if err := c.Set(ctx, "destinations:public", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("travel:destinations:public") {
		t.Fatalf("expected prefixed key in redis")
	}

	var out []domain.Destination
	ok, err := c.Get(ctx, "destinations:public", &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(out) != 1 || out[0].Name != "Lake Tekapo" {
		t.Fatalf("unexpected value: %+v", out)
	}

	if err := c.Del(ctx, "destinations:public"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, err = c.Get(ctx, "destinations:public", &out)
	if err != nil || ok {
		t.Fatalf("expected miss after del, ok=%v err=%v", ok, err)
	}
}

func TestCache_TTLExpires(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "countries", []string{"France"}, 10); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(11 * time.Second)

	var out []string
	ok, err := c.Get(ctx, "countries", &out)
	if err != nil || ok {
		t.Fatalf("expected expiry, ok=%v err=%v", ok, err)
	}
}
