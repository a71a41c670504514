package memory

import (
	"context"
	"sort"

	"travel_planner/internal/domain"
)

func (s *Store) CreateChangeRequest(ctx context.Context, req domain.DestinationRequest, changes []domain.DestinationChange) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.destinations[req.DestinationID]; !ok {
		return 0, domain.ErrNotFound
	}
	req.ID = s.nextID()
	s.requests[req.ID] = req
	for _, c := range changes {
		c.ID = s.nextID()
		c.RequestID = req.ID
		c.DestinationID = req.DestinationID
		s.changes[c.ID] = c
	}
	return req.ID, nil
}

func (s *Store) GetChange(ctx context.Context, id int64) (domain.DestinationChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.changes[id]
	if !ok {
		return domain.DestinationChange{}, domain.ErrNotFound
	}
	return c, nil
}

func (s *Store) DeleteChange(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.changes[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.changes, id)
	for _, other := range s.changes {
		if other.RequestID == c.RequestID {
			return nil
		}
	}
	delete(s.requests, c.RequestID)
	return nil
}

func (s *Store) ListPendingChanges(ctx context.Context) ([]domain.PendingChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := map[int64]domain.TravellerType{}
	for _, tt := range DefaultTravellerTypes {
		names[tt.ID] = tt
	}
	var out []domain.PendingChange
	for _, c := range s.changes {
		req := s.requests[c.RequestID]
		out = append(out, domain.PendingChange{
			DestinationChange: c,
			Email:             s.profiles[req.ProfileID].Email,
			Destination:       s.destOut(s.destinations[req.DestinationID]),
			TravellerType:     names[c.TravellerTypeID],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) RepointChangeRequests(ctx context.Context, fromDestID, toDestID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, r := range s.requests {
		if r.DestinationID == fromDestID {
			r.DestinationID = toDestID
			s.requests[id] = r
			n++
		}
	}
	for id, c := range s.changes {
		if c.DestinationID == fromDestID {
			c.DestinationID = toDestID
			s.changes[id] = c
		}
	}
	return n, nil
}
