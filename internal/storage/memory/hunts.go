package memory

import (
	"context"
	"sort"

	"travel_planner/internal/domain"
)

func (s *Store) CreateHunt(ctx context.Context, h domain.TreasureHunt) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.destinations[h.DestinationID]; !ok {
		return 0, domain.ErrNotFound
	}
	h.ID = s.nextID()
	s.hunts[h.ID] = h
	return h.ID, nil
}

func (s *Store) UpdateHunt(ctx context.Context, h domain.TreasureHunt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.hunts[h.ID]
	if !ok {
		return domain.ErrNotFound
	}
	h.ProfileID = cur.ProfileID
	h.SoftDeleted = cur.SoftDeleted
	s.hunts[h.ID] = h
	return nil
}

func (s *Store) GetHunt(ctx context.Context, id int64) (domain.TreasureHunt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hunts[id]
	if !ok {
		return domain.TreasureHunt{}, domain.ErrNotFound
	}
	return h, nil
}

func (s *Store) filterHunts(keep func(domain.TreasureHunt) bool) []domain.TreasureHunt {
	var out []domain.TreasureHunt
	for _, h := range s.hunts {
		if !h.SoftDeleted && keep(h) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) ListHunts(ctx context.Context) ([]domain.TreasureHunt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterHunts(func(domain.TreasureHunt) bool { return true }), nil
}

func (s *Store) ListHuntsByOwner(ctx context.Context, profileID int64) ([]domain.TreasureHunt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterHunts(func(h domain.TreasureHunt) bool { return h.ProfileID == profileID }), nil
}

func (s *Store) SetHuntDeleted(ctx context.Context, id int64, deleted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hunts[id]
	if !ok {
		return domain.ErrNotFound
	}
	h.SoftDeleted = deleted
	s.hunts[id] = h
	return nil
}

func (s *Store) RepointHunts(ctx context.Context, fromDestID, toDestID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, h := range s.hunts {
		if h.DestinationID == fromDestID {
			h.DestinationID = toDestID
			s.hunts[id] = h
			n++
		}
	}
	return n, nil
}
