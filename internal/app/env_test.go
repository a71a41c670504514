package app_test

import (
	"context"
	"testing"
	"time"

	"travel_planner/internal/app"
	"travel_planner/internal/domain"
	"travel_planner/internal/storage/memory"
)

// ---- fakes ----

type fakeCache struct {
	store map[string]any
	gets  int
	hits  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.gets++
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *[]domain.Destination:
		*d = v.([]domain.Destination)
	case *[]string:
		*d = v.([]string)
	}
	c.hits++
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

type fakeCountries struct {
	names []string
	err   error
	calls int
}

func (f *fakeCountries) ListCountries(ctx context.Context) ([]string, error) {
	f.calls++
	return f.names, f.err
}

// ---- wiring ----

type env struct {
	store    *memory.Store
	cache    *fakeCache
	profiles *app.ProfileService
	auth     *app.AuthService
	dests    *app.DestinationService
	changes  *app.ChangeService
	trips    *app.TripService
	artists  *app.ArtistService
	hunts    *app.HuntService
	undo     *app.UndoService
	admin    *app.AdminService
	root     domain.Profile
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st := memory.New()
	cache := &fakeCache{}
	countries := app.NewCountryService(nil, nil, time.Minute)
	dests := app.NewDestinationService(st, countries, cache, time.Minute)
	undo := app.NewUndoService(st, dests, time.Hour)
	e := &env{
		store:    st,
		cache:    cache,
		profiles: app.NewProfileService(st, countries),
		auth:     app.NewAuthService(st),
		dests:    dests,
		changes:  app.NewChangeService(st, dests),
		trips:    app.NewTripService(st, dests),
		artists:  app.NewArtistService(st, countries),
		hunts:    app.NewHuntService(st),
		undo:     undo,
		admin:    app.NewAdminService(st, undo, dests),
	}
	id, err := e.profiles.EnsureGlobalAdmin(context.Background(), "admin@travelea.local", "secret")
	if err != nil {
		t.Fatalf("EnsureGlobalAdmin: %v", err)
	}
	e.root, _ = st.GetProfile(context.Background(), id)
	return e
}

// user stores a plain profile directly, skipping password hashing.
func (e *env) user(t *testing.T, email string) domain.Profile {
	t.Helper()
	ctx := context.Background()
	id, err := e.store.CreateProfile(ctx, domain.Profile{
		FirstName: "Test", LastName: "User", Email: email,
		BirthDate: time.Date(1995, 4, 1, 0, 0, 0, 0, time.UTC), Nationalities: []string{"New Zealand"},
	})
	if err != nil {
		t.Fatalf("create profile %s: %v", email, err)
	}
	p, _ := e.store.GetProfile(ctx, id)
	return p
}

func (e *env) destination(t *testing.T, owner domain.Profile, name string, public bool) int64 {
	t.Helper()
	id, err := e.dests.Create(context.Background(), owner, domain.Destination{
		Name: name, Type: "Park", Country: "New Zealand", Latitude: -43.5, Longitude: 172.6, Public: public,
	})
	if err != nil {
		t.Fatalf("create destination %s: %v", name, err)
	}
	return id
}
