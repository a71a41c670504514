package app

import (
	"context"
	"strings"
	"time"

	"travel_planner/internal/domain"
)

type HuntService struct {
	store domain.Store
}

func NewHuntService(s domain.Store) *HuntService { return &HuntService{store: s} }

func (s *HuntService) check(ctx context.Context, h domain.TreasureHunt) error {
	if err := h.Validate(); err != nil {
		return err
	}
	d, err := s.store.GetDestination(ctx, h.DestinationID)
	if err != nil {
		return domain.Invalid("destinationId", "The destination does not exist")
	}
	if !d.Public || d.SoftDeleted {
		return domain.Invalid("destinationId", "Treasure hunts can only be set at public destinations")
	}
	return nil
}

func (s *HuntService) Create(ctx context.Context, actor domain.Profile, h domain.TreasureHunt) (int64, error) {
	h.ProfileID = actor.ID
	h.Riddle = strings.TrimSpace(h.Riddle)
	if err := s.check(ctx, h); err != nil {
		return 0, err
	}
	return s.store.CreateHunt(ctx, h)
}

func (s *HuntService) Update(ctx context.Context, actor domain.Profile, h domain.TreasureHunt) error {
	cur, err := s.store.GetHunt(ctx, h.ID)
	if err != nil {
		return err
	}
	if !canEdit(actor, cur.ProfileID) {
		return domain.ErrForbidden
	}
	h.Riddle = strings.TrimSpace(h.Riddle)
	if err := s.check(ctx, h); err != nil {
		return err
	}
	return s.store.UpdateHunt(ctx, h)
}

// List returns non-deleted hunts; with activeAt set only hunts running at that time.
func (s *HuntService) List(ctx context.Context, activeAt *time.Time) ([]domain.TreasureHunt, error) {
	hs, err := s.store.ListHunts(ctx)
	if err != nil || activeAt == nil {
		return hs, err
	}
	out := hs[:0]
	for _, h := range hs {
		if h.Active(*activeAt) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *HuntService) ListOwn(ctx context.Context, actor domain.Profile) ([]domain.TreasureHunt, error) {
	return s.store.ListHuntsByOwner(ctx, actor.ID)
}

func (s *HuntService) Delete(ctx context.Context, actor domain.Profile, id int64) error {
	h, err := s.store.GetHunt(ctx, id)
	if err != nil {
		return err
	}
	if !canEdit(actor, h.ProfileID) {
		return domain.ErrForbidden
	}
	return s.store.SetHuntDeleted(ctx, id, true)
}
