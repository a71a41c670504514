package memory

import (
	"context"
	"sort"

	"travel_planner/internal/domain"
)

func tripOut(t domain.Trip) domain.Trip {
	t.Destinations = append([]domain.TripDestination(nil), t.Destinations...)
	return t
}

func (s *Store) CreateTrip(ctx context.Context, t domain.Trip) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextID()
	stops := make([]domain.TripDestination, len(t.Destinations))
	for i, td := range t.Destinations {
		td.ID = s.nextID()
		td.TripID = t.ID
		td.Order = i
		stops[i] = td
	}
	t.Destinations = stops
	s.trips[t.ID] = t
	return t.ID, nil
}

func (s *Store) GetTrip(ctx context.Context, id int64) (domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	return tripOut(t), nil
}

func (s *Store) filterTrips(keep func(domain.Trip) bool) []domain.Trip {
	var out []domain.Trip
	for _, t := range s.trips {
		if keep(t) {
			out = append(out, tripOut(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) ListTrips(ctx context.Context) ([]domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterTrips(func(t domain.Trip) bool { return !t.SoftDeleted }), nil
}

func (s *Store) ListTripsByOwner(ctx context.Context, profileID int64) ([]domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterTrips(func(t domain.Trip) bool { return !t.SoftDeleted && t.ProfileID == profileID }), nil
}

func (s *Store) SetTripDeleted(ctx context.Context, id int64, deleted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.SoftDeleted = deleted
	s.trips[id] = t
	return nil
}

// TripsUsingDestination includes soft deleted trips; an undo would otherwise restore a dangling stop.
func (s *Store) TripsUsingDestination(ctx context.Context, destID int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := map[int64]struct{}{}
	for _, t := range s.trips {
		for _, td := range t.Destinations {
			if td.DestinationID == destID {
				ids[t.ID] = struct{}{}
			}
		}
	}
	return sortedKeys(ids), nil
}

func (s *Store) RepointTripDestinations(ctx context.Context, fromDestID, toDestID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, t := range s.trips {
		changed := false
		for i := range t.Destinations {
			if t.Destinations[i].DestinationID == fromDestID {
				t.Destinations[i].DestinationID = toDestID
				changed = true
				n++
			}
		}
		if changed {
			t.Destinations = collapseStops(t.Destinations)
			s.trips[id] = t
		}
	}
	return n, nil
}

// collapseStops folds a stop into the previous one when both visit the same
// destination, keeping the later departure.
func collapseStops(stops []domain.TripDestination) []domain.TripDestination {
	out := stops[:0]
	for _, td := range stops {
		if last := len(out) - 1; last >= 0 && out[last].DestinationID == td.DestinationID {
			if td.Departure != nil {
				out[last].Departure = td.Departure
			}
			continue
		}
		out = append(out, td)
	}
	return out
}
