package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"travel_planner/internal/domain"
)

func TestAdminSoftDeleteThenUndo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "u@x.nz")
	a := e.destination(t, u, "A", false)
	b := e.destination(t, u, "B", false)
	tripID, _ := e.trips.Create(ctx, u, domain.Trip{Name: "T", Destinations: []domain.TripDestination{{DestinationID: a}, {DestinationID: b}}})

	if err := e.admin.DeleteProfile(ctx, e.root, u.ID); err != nil {
		t.Fatalf("delete profile: %v", err)
	}
	if err := e.admin.DeleteTrip(ctx, e.root, tripID); err != nil {
		t.Fatalf("delete trip: %v", err)
	}
	if trips, _ := e.trips.ListAll(ctx); len(trips) != 0 {
		t.Fatalf("deleted trip listed")
	}

	entry, ok, err := e.undo.Undo(ctx, e.root)
	if err != nil || !ok || entry.Kind != domain.KindTrip {
		t.Fatalf("undo trip = %+v %v %v", entry, ok, err)
	}
	if trips, _ := e.trips.ListAll(ctx); len(trips) != 1 {
		t.Fatalf("trip not restored")
	}
	entry, ok, _ = e.undo.Undo(ctx, e.root)
	if !ok || entry.Kind != domain.KindProfile {
		t.Fatalf("undo profile = %+v %v", entry, ok)
	}
	if p, _ := e.store.GetProfile(ctx, u.ID); p.SoftDeleted {
		t.Fatalf("profile not restored")
	}
	if _, ok, err := e.undo.Undo(ctx, e.root); ok || err != nil {
		t.Fatalf("empty stack: ok=%v err=%v", ok, err)
	}
}

func TestUndoIsPerActor(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	other := e.user(t, "admin2@x.nz")
	victim := e.user(t, "v@x.nz")
	if err := e.admin.DeleteProfile(ctx, e.root, victim.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := e.undo.Undo(ctx, other); ok {
		t.Fatalf("another admin undid the delete")
	}
}

func TestAdminDeleteDestination_UndoAndInUse(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "u@x.nz")
	lone := e.destination(t, u, "Lone", true)
	if err := e.admin.DeleteDestination(ctx, e.root, lone); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if pub, _ := e.dests.ListPublic(ctx); len(pub) != 0 {
		t.Fatalf("deleted destination still public: %+v", pub)
	}
	if _, ok, err := e.undo.Undo(ctx, e.root); !ok || err != nil {
		t.Fatalf("undo: %v %v", ok, err)
	}
	if pub, _ := e.dests.ListPublic(ctx); len(pub) != 1 {
		t.Fatalf("destination not restored")
	}

	a := e.destination(t, u, "A", false)
	b := e.destination(t, u, "B", false)
	e.trips.Create(ctx, u, domain.Trip{Name: "T", Destinations: []domain.TripDestination{{DestinationID: a}, {DestinationID: b}}})
	if err := e.admin.DeleteDestination(ctx, e.root, a); !errors.Is(err, domain.ErrInUse) {
		t.Fatalf("want ErrInUse, got %v", err)
	}
}

func TestGlobalAdminProtected(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	if err := e.admin.DeleteProfile(ctx, e.root, e.root.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("delete global admin: want ErrForbidden, got %v", err)
	}
	if err := e.admin.RevokeAdmin(ctx, e.root.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("demote global admin: want ErrForbidden, got %v", err)
	}
}

func TestGrantAdminTwice(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "u@x.nz")
	if err := e.admin.GrantAdmin(ctx, u.ID); err != nil {
		t.Fatalf("grant: %v", err)
	}
	err := e.admin.GrantAdmin(ctx, u.ID)
	if domain.Message(err) != "User already has this role." {
		t.Fatalf("second grant = %v", err)
	}
	if err := e.admin.RevokeAdmin(ctx, u.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
}

func TestPurgeUndo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "u@x.nz")
	e.admin.DeleteProfile(ctx, e.root, u.ID)

	if n, _ := e.undo.Purge(ctx, time.Now()); n != 0 {
		t.Fatalf("fresh entry purged")
	}
	if n, _ := e.undo.Purge(ctx, time.Now().Add(2*time.Hour)); n != 1 {
		t.Fatalf("old entry kept")
	}
	if _, ok, _ := e.undo.Undo(ctx, e.root); ok {
		t.Fatalf("purged entry undone")
	}
}

func TestDashboardAndExport(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "u@x.nz")
	e.destination(t, u, "A", true)
	e.artists.Create(ctx, u, domain.Artist{Name: "Lorde"}, nil)

	d, err := e.admin.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(d.Profiles) != 2 || len(d.Destinations) != 1 || len(d.UnverifiedArtists) != 1 || len(d.TravellerTypes) == 0 {
		t.Fatalf("dashboard %+v", d)
	}
	if !containsID(d.Admins, e.root.ID) {
		t.Fatalf("admins %v", d.Admins)
	}

	b, err := e.admin.Export(ctx)
	if err != nil || len(b) == 0 {
		t.Fatalf("export: %d bytes, %v", len(b), err)
	}
}
