package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"travel_planner/internal/app"
)

func TestCountries_CacheMissThenHit(t *testing.T) {
	client := &fakeCountries{names: []string{"Fiji", "Samoa"}}
	cache := &fakeCache{}
	s := app.NewCountryService(client, cache, 10*time.Minute)

	if got := s.List(context.Background()); len(got) != 2 {
		t.Fatalf("first list = %v", got)
	}
	if got := s.List(context.Background()); len(got) != 2 {
		t.Fatalf("second list = %v", got)
	}
	if client.calls != 1 {
		t.Fatalf("client called %d times, want 1", client.calls)
	}
	if err := s.Validate(context.Background(), "country", []string{"fiji"}); err != nil {
		t.Fatalf("case-insensitive match failed: %v", err)
	}
	if err := s.Validate(context.Background(), "country", []string{"New Zealand"}); err == nil {
		t.Fatalf("name outside the api list accepted")
	}
}

func TestCountries_FallbackOnError(t *testing.T) {
	client := &fakeCountries{err: errors.New("remote 503")}
	s := app.NewCountryService(client, nil, time.Minute)
	if err := s.Validate(context.Background(), "country", []string{"New Zealand"}); err != nil {
		t.Fatalf("fallback list not used: %v", err)
	}
}
