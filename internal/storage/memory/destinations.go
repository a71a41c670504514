package memory

import (
	"context"
	"sort"
	"strings"

	"travel_planner/internal/domain"
)

func (s *Store) destOut(d domain.Destination) domain.Destination {
	d.TravellerTypes = sortedKeys(s.destTags[d.ID])
	return d
}

func (s *Store) filterDestinations(keep func(domain.Destination) bool) []domain.Destination {
	var out []domain.Destination
	for _, d := range s.destinations {
		if keep(d) {
			out = append(out, s.destOut(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) CreateDestination(ctx context.Context, d domain.Destination) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.nextID()
	for _, tt := range d.TravellerTypes {
		addTo(s.destTags, d.ID, tt)
	}
	d.TravellerTypes = nil
	s.destinations[d.ID] = d
	return d.ID, nil
}

func (s *Store) UpdateDestination(ctx context.Context, d domain.Destination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.destinations[d.ID]
	if !ok {
		return domain.ErrNotFound
	}
	d.SoftDeleted = cur.SoftDeleted
	delete(s.destTags, d.ID)
	for _, tt := range d.TravellerTypes {
		addTo(s.destTags, d.ID, tt)
	}
	d.TravellerTypes = nil
	s.destinations[d.ID] = d
	return nil
}

func (s *Store) GetDestination(ctx context.Context, id int64) (domain.Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.destinations[id]
	if !ok {
		return domain.Destination{}, domain.ErrNotFound
	}
	return s.destOut(d), nil
}

func (s *Store) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterDestinations(func(d domain.Destination) bool { return !d.SoftDeleted }), nil
}

func (s *Store) ListDestinationsByOwner(ctx context.Context, profileID int64) ([]domain.Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterDestinations(func(d domain.Destination) bool {
		return !d.SoftDeleted && d.ProfileID == profileID
	}), nil
}

func (s *Store) ListPublicDestinations(ctx context.Context) ([]domain.Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterDestinations(func(d domain.Destination) bool { return !d.SoftDeleted && d.Public }), nil
}

// FindSameDestinations compares case-insensitively, like the MySQL default collation.
func (s *Store) FindSameDestinations(ctx context.Context, key domain.DestinationKey) ([]domain.Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterDestinations(func(d domain.Destination) bool {
		return strings.EqualFold(d.Name, key.Name) &&
			strings.EqualFold(d.Type, key.Type) &&
			strings.EqualFold(d.Country, key.Country)
	}), nil
}

func (s *Store) DeleteDestination(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.destinations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.destinations, id)
	delete(s.follows, id)
	delete(s.destTags, id)
	for hid, h := range s.hunts {
		if h.DestinationID == id {
			delete(s.hunts, hid)
		}
	}
	for rid, r := range s.requests {
		if r.DestinationID != id {
			continue
		}
		delete(s.requests, rid)
		for cid, c := range s.changes {
			if c.RequestID == rid {
				delete(s.changes, cid)
			}
		}
	}
	return nil
}

func (s *Store) SetDestinationDeleted(ctx context.Context, id int64, deleted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.destinations[id]
	if !ok {
		return domain.ErrNotFound
	}
	d.SoftDeleted = deleted
	s.destinations[id] = d
	return nil
}

func (s *Store) SetDestinationOwner(ctx context.Context, id, profileID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.destinations[id]
	if !ok {
		return domain.ErrNotFound
	}
	d.ProfileID = profileID
	s.destinations[id] = d
	return nil
}

func (s *Store) FollowDestination(ctx context.Context, destID, profileID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.destinations[destID]; !ok {
		return domain.ErrNotFound
	}
	addTo(s.follows, destID, profileID)
	return nil
}

func (s *Store) UnfollowDestination(ctx context.Context, destID, profileID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.follows[destID], profileID)
	return nil
}

func (s *Store) DestinationFollowers(ctx context.Context, destID int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedKeys(s.follows[destID]), nil
}

func (s *Store) FollowedDestinations(ctx context.Context, profileID int64) ([]domain.Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterDestinations(func(d domain.Destination) bool {
		_, ok := s.follows[d.ID][profileID]
		return ok && !d.SoftDeleted
	}), nil
}

func (s *Store) DestinationTravellerTypes(ctx context.Context, destID int64) ([]domain.TravellerType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.TravellerType
	for _, tt := range DefaultTravellerTypes {
		if _, ok := s.destTags[destID][tt.ID]; ok {
			out = append(out, tt)
		}
	}
	return out, nil
}

func (s *Store) AddDestinationTravellerType(ctx context.Context, destID, travellerTypeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.destinations[destID]; !ok {
		return domain.ErrNotFound
	}
	addTo(s.destTags, destID, travellerTypeID)
	return nil
}

func (s *Store) RemoveDestinationTravellerType(ctx context.Context, destID, travellerTypeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.destTags[destID], travellerTypeID)
	return nil
}
