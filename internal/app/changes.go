package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/domain"
)

type ChangeService struct {
	store        domain.Store
	destinations *DestinationService
}

func NewChangeService(s domain.Store, d *DestinationService) *ChangeService {
	return &ChangeService{store: s, destinations: d}
}

// Propose records the difference between a destination's current tags and
// the desired set as one request with a change per traveller type.
func (s *ChangeService) Propose(ctx context.Context, actor domain.Profile, destID int64, desired []int64) (int64, error) {
	if _, err := s.destinations.Get(ctx, actor, destID); err != nil {
		return 0, err
	}
	current, err := s.store.DestinationTravellerTypes(ctx, destID)
	if err != nil {
		return 0, err
	}
	have := map[int64]bool{}
	for _, tt := range current {
		have[tt.ID] = true
	}
	want := map[int64]bool{}
	var changes []domain.DestinationChange
	for _, id := range desired {
		if want[id] {
			continue
		}
		want[id] = true
		if !have[id] {
			changes = append(changes, domain.DestinationChange{TravellerTypeID: id, Action: domain.ChangeAdd})
		}
	}
	for _, tt := range current {
		if !want[tt.ID] {
			changes = append(changes, domain.DestinationChange{TravellerTypeID: tt.ID, Action: domain.ChangeRemove})
		}
	}
	if len(changes) == 0 {
		return 0, domain.Invalid("travellerTypes", "No changes to the traveller types were requested")
	}
	return s.store.CreateChangeRequest(ctx, domain.DestinationRequest{DestinationID: destID, ProfileID: actor.ID}, changes)
}

func (s *ChangeService) Pending(ctx context.Context) ([]domain.PendingChange, error) {
	return s.store.ListPendingChanges(ctx)
}

// Accept applies the change to the destination's tags and clears it.
func (s *ChangeService) Accept(ctx context.Context, id int64) error {
	c, err := s.store.GetChange(ctx, id)
	if err != nil {
		return err
	}
	switch c.Action {
	case domain.ChangeAdd:
		err = s.store.AddDestinationTravellerType(ctx, c.DestinationID, c.TravellerTypeID)
	default:
		err = s.store.RemoveDestinationTravellerType(ctx, c.DestinationID, c.TravellerTypeID)
	}
	if err != nil {
		return err
	}
	if err := s.store.DeleteChange(ctx, id); err != nil {
		return err
	}
	s.destinations.invalidate(ctx)
	observability.ObserveEvent("change_accept")
	log.Info().Int64("change", id).Str("action", c.Action.String()).Msg("destination change accepted")
	return nil
}

func (s *ChangeService) Reject(ctx context.Context, id int64) error {
	if _, err := s.store.GetChange(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteChange(ctx, id); err != nil {
		return err
	}
	observability.ObserveEvent("change_reject")
	return nil
}
