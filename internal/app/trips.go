package app

import (
	"context"
	"strings"

	"travel_planner/internal/domain"
)

type TripService struct {
	store        domain.Store
	destinations *DestinationService
}

func NewTripService(s domain.Store, d *DestinationService) *TripService {
	return &TripService{store: s, destinations: d}
}

// Create stores a trip for the actor; every stop must be a destination the actor can see.
func (s *TripService) Create(ctx context.Context, actor domain.Profile, t domain.Trip) (int64, error) {
	if t.ProfileID == 0 || !actor.IsAdmin() {
		t.ProfileID = actor.ID
	}
	t.Name = strings.TrimSpace(t.Name)
	if err := t.Validate(); err != nil {
		return 0, err
	}
	owner := actor
	if owner.ID != t.ProfileID {
		var err error
		if owner, err = s.store.GetProfile(ctx, t.ProfileID); err != nil {
			return 0, err
		}
	}
	for _, td := range t.Destinations {
		if _, err := s.destinations.Get(ctx, owner, td.DestinationID); err != nil {
			return 0, domain.Invalid("destinations", "Every stop must be one of your destinations or a public destination")
		}
	}
	return s.store.CreateTrip(ctx, t)
}

func (s *TripService) Get(ctx context.Context, actor domain.Profile, id int64) (domain.Trip, error) {
	t, err := s.store.GetTrip(ctx, id)
	if err != nil {
		return domain.Trip{}, err
	}
	if !canEdit(actor, t.ProfileID) {
		return domain.Trip{}, domain.ErrForbidden
	}
	return t, nil
}

func (s *TripService) ListOwn(ctx context.Context, actor domain.Profile) ([]domain.Trip, error) {
	return s.store.ListTripsByOwner(ctx, actor.ID)
}

func (s *TripService) ListAll(ctx context.Context) ([]domain.Trip, error) {
	return s.store.ListTrips(ctx)
}

// Delete soft deletes the actor's own trip.
func (s *TripService) Delete(ctx context.Context, actor domain.Profile, id int64) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.store.SetTripDeleted(ctx, id, true)
}
