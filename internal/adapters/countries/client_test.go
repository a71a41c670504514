package countries_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"travel_planner/internal/adapters/countries"
)

func TestClient_ListCountries_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/all" || r.URL.Query().Get("fields") != "name" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusBadGateway)
		default:
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"name": map[string]any{"common": "New Zealand", "official": "New Zealand"}},
				{"name": map[string]any{"common": "France"}},
				{"name": map[string]any{"common": "France"}},
				{"name": "Chad"},
				{"flag": "no name"},
			})
		}
	}))
	defer ts.Close()

	cl, err := countries.New(ts.URL+"/", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	got, err := cl.ListCountries(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []string{"Chad", "France", "New Zealand"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected retries, got %d calls", hits)
	}
}

func TestClient_ListCountries_404(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl, _ := countries.New(ts.URL, 100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := cl.ListCountries(ctx); !errors.Is(err, countries.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_ListCountries_EmptyPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	cl, _ := countries.New(ts.URL, 100)
	if _, err := cl.ListCountries(context.Background()); !errors.Is(err, countries.ErrBadPayload) {
		t.Fatalf("expected ErrBadPayload, got %v", err)
	}
}

func TestNew_RequiresBase(t *testing.T) {
	if _, err := countries.New("", 5); err == nil {
		t.Fatalf("expected error for empty base")
	}
}
