package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"travel_planner/internal/domain"
)

var _ domain.Store = (*Store)(nil)

func TestProfileEmailUnique(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, err := s.CreateProfile(ctx, domain.Profile{Email: "a@b.c"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateProfile(ctx, domain.Profile{Email: "A@B.C"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("want conflict, got %v", err)
	}
}

func TestGrantRoleTwiceConflicts(t *testing.T) {
	s := New()
	ctx := context.Background()
	id, _ := s.CreateProfile(ctx, domain.Profile{Email: "a@b.c"})
	if err := s.GrantRole(ctx, id, domain.RoleAdmin); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := s.GrantRole(ctx, id, domain.RoleAdmin); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("want conflict, got %v", err)
	}
	p, _ := s.GetProfile(ctx, id)
	if !p.IsAdmin() {
		t.Fatalf("roles not loaded: %+v", p.Roles)
	}
}

func TestSearchProfilesByAgeAndGender(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	s.CreateProfile(ctx, domain.Profile{Email: "young@x", Gender: "Female", BirthDate: now.AddDate(-20, 0, 0)})
	s.CreateProfile(ctx, domain.Profile{Email: "old@x", Gender: "Female", BirthDate: now.AddDate(-70, 0, 0)})
	s.CreateProfile(ctx, domain.Profile{Email: "m@x", Gender: "Male", BirthDate: now.AddDate(-21, 0, 0)})

	res, err := s.SearchProfiles(ctx, domain.TravellerQuery{AgeRange: 2, Gender: "female"}, now)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Total != 1 || res.Items[0].Email != "young@x" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestPopUndoIsPerActorLIFO(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.PushUndo(ctx, domain.UndoEntry{Kind: domain.KindTrip, EntityID: 1, ActorID: 7})
	s.PushUndo(ctx, domain.UndoEntry{Kind: domain.KindTrip, EntityID: 2, ActorID: 8})
	s.PushUndo(ctx, domain.UndoEntry{Kind: domain.KindTrip, EntityID: 3, ActorID: 7})

	e, err := s.PopUndo(ctx, 7)
	if err != nil || e.EntityID != 3 {
		t.Fatalf("want entity 3, got %+v %v", e, err)
	}
	e, _ = s.PopUndo(ctx, 7)
	if e.EntityID != 1 {
		t.Fatalf("want entity 1, got %+v", e)
	}
	if _, err := s.PopUndo(ctx, 7); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestPurgeUndo(t *testing.T) {
	s := New()
	ctx := context.Background()
	old := time.Now().Add(-2 * time.Hour)
	s.PushUndo(ctx, domain.UndoEntry{Kind: domain.KindTrip, EntityID: 1, ActorID: 1, CreatedAt: old})
	s.PushUndo(ctx, domain.UndoEntry{Kind: domain.KindTrip, EntityID: 2, ActorID: 1})
	n, _ := s.PurgeUndo(ctx, time.Now().Add(-time.Hour))
	if n != 1 {
		t.Fatalf("purged %d", n)
	}
	if e, _ := s.PopUndo(ctx, 1); e.EntityID != 2 {
		t.Fatalf("wrong survivor %+v", e)
	}
}

func TestDeleteChangeDropsEmptyRequest(t *testing.T) {
	s := New()
	ctx := context.Background()
	dest, _ := s.CreateDestination(ctx, domain.Destination{Name: "X", Type: "City", Country: "NZ"})
	s.CreateChangeRequest(ctx, domain.DestinationRequest{DestinationID: dest, ProfileID: 1}, []domain.DestinationChange{
		{TravellerTypeID: 1, Action: domain.ChangeAdd},
		{TravellerTypeID: 2, Action: domain.ChangeRemove},
	})
	pending, _ := s.ListPendingChanges(ctx)
	if len(pending) != 2 || pending[0].DestinationID != dest {
		t.Fatalf("pending %+v", pending)
	}
	for _, p := range pending {
		if err := s.DeleteChange(ctx, p.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
	}
	if len(s.requests) != 0 {
		t.Fatalf("request not dropped")
	}
}

func TestRepointTripDestinations(t *testing.T) {
	s := New()
	ctx := context.Background()
	id, _ := s.CreateTrip(ctx, domain.Trip{Name: "t", Destinations: []domain.TripDestination{
		{DestinationID: 10}, {DestinationID: 11}, {DestinationID: 10},
	}})
	n, _ := s.RepointTripDestinations(ctx, 10, 12)
	if n != 2 {
		t.Fatalf("repointed %d", n)
	}
	trip, _ := s.GetTrip(ctx, id)
	if trip.Destinations[0].DestinationID != 12 || trip.Destinations[2].DestinationID != 12 {
		t.Fatalf("trip %+v", trip.Destinations)
	}
	if ids, _ := s.TripsUsingDestination(ctx, 10); len(ids) != 0 {
		t.Fatalf("still used by %v", ids)
	}
}

func TestRepointTripDestinations_FoldsRepeatedStop(t *testing.T) {
	s := New()
	ctx := context.Background()
	arrive := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	leave := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	id, _ := s.CreateTrip(ctx, domain.Trip{Name: "t", Destinations: []domain.TripDestination{
		{DestinationID: 10, Arrival: &arrive}, {DestinationID: 12, Departure: &leave}, {DestinationID: 11},
	}})
	if n, _ := s.RepointTripDestinations(ctx, 10, 12); n != 1 {
		t.Fatalf("repointed %d", n)
	}
	trip, _ := s.GetTrip(ctx, id)
	if len(trip.Destinations) != 2 {
		t.Fatalf("stops %+v", trip.Destinations)
	}
	first := trip.Destinations[0]
	if first.DestinationID != 12 || !first.Arrival.Equal(arrive) || !first.Departure.Equal(leave) {
		t.Fatalf("folded stop %+v", first)
	}
}

func TestRepointHuntsAndRequests(t *testing.T) {
	s := New()
	ctx := context.Background()
	from, _ := s.CreateDestination(ctx, domain.Destination{Name: "a"})
	to, _ := s.CreateDestination(ctx, domain.Destination{Name: "a"})
	hunt, _ := s.CreateHunt(ctx, domain.TreasureHunt{DestinationID: from})
	_, _ = s.CreateChangeRequest(ctx, domain.DestinationRequest{DestinationID: from},
		[]domain.DestinationChange{{TravellerTypeID: 1, Action: domain.ChangeAdd}})

	if n, _ := s.RepointHunts(ctx, from, to); n != 1 {
		t.Fatalf("hunts repointed %d", n)
	}
	if n, _ := s.RepointChangeRequests(ctx, from, to); n != 1 {
		t.Fatalf("requests repointed %d", n)
	}
	if err := s.DeleteDestination(ctx, from); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if h, err := s.GetHunt(ctx, hunt); err != nil || h.DestinationID != to {
		t.Fatalf("hunt %+v, %v", h, err)
	}
	pending, _ := s.ListPendingChanges(ctx)
	if len(pending) != 1 || pending[0].DestinationID != to {
		t.Fatalf("pending %+v", pending)
	}
}
