package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/domain"
)

type UndoService struct {
	store        domain.Store
	destinations *DestinationService
	maxAge       time.Duration
}

func NewUndoService(s domain.Store, d *DestinationService, maxAge time.Duration) *UndoService {
	return &UndoService{store: s, destinations: d, maxAge: maxAge}
}

func (s *UndoService) Record(ctx context.Context, actor domain.Profile, kind domain.EntityKind, id int64) error {
	_, err := s.store.PushUndo(ctx, domain.UndoEntry{Kind: kind, EntityID: id, ActorID: actor.ID})
	return err
}

// Undo restores the actor's most recent soft delete. ok is false when there was nothing to undo.
func (s *UndoService) Undo(ctx context.Context, actor domain.Profile) (e domain.UndoEntry, ok bool, err error) {
	e, err = s.store.PopUndo(ctx, actor.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return e, false, nil
	}
	if err != nil {
		return e, false, err
	}
	switch e.Kind {
	case domain.KindProfile:
		err = s.store.SetProfileDeleted(ctx, e.EntityID, false)
	case domain.KindTrip:
		err = s.store.SetTripDeleted(ctx, e.EntityID, false)
	case domain.KindDestination:
		if err = s.store.SetDestinationDeleted(ctx, e.EntityID, false); err == nil && s.destinations != nil {
			s.destinations.invalidate(ctx)
		}
	case domain.KindTreasureHunt:
		err = s.store.SetHuntDeleted(ctx, e.EntityID, false)
	default:
		err = fmt.Errorf("undo: unknown entity kind %q", e.Kind)
	}
	if errors.Is(err, domain.ErrNotFound) {
		log.Warn().Str("kind", string(e.Kind)).Int64("id", e.EntityID).Msg("undo target is gone")
		return e, false, domain.Errorf(domain.ErrNotFound, "The deleted %s no longer exists.", strings.ReplaceAll(string(e.Kind), "_", " "))
	}
	if err != nil {
		return e, false, err
	}
	observability.ObserveEvent("undo")
	log.Info().Str("kind", string(e.Kind)).Int64("id", e.EntityID).Int64("actor", actor.ID).Msg("soft delete undone")
	return e, true, nil
}

// Purge drops entries older than the configured age.
func (s *UndoService) Purge(ctx context.Context, now time.Time) (int64, error) {
	if s.maxAge <= 0 {
		return 0, nil
	}
	return s.store.PurgeUndo(ctx, now.Add(-s.maxAge))
}
