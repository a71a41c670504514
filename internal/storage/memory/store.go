// Package memory is an in-process implementation of domain.Store used for
// local development (STORAGE=memory) and service tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"travel_planner/internal/domain"
)

var DefaultTravellerTypes = []domain.TravellerType{
	{ID: 1, Name: "Groupies"},
	{ID: 2, Name: "Thrillseeker"},
	{ID: 3, Name: "Gap Year"},
	{ID: 4, Name: "Frequent Weekender"},
	{ID: 5, Name: "Functional/Business"},
	{ID: 6, Name: "Holidaymaker"},
	{ID: 7, Name: "Backpacker"},
}

type Store struct {
	mu  sync.Mutex
	now func() time.Time
	seq int64

	profiles map[int64]domain.Profile
	roles    map[int64]map[string]struct{}

	destinations map[int64]domain.Destination
	follows      map[int64]map[int64]struct{} // destination -> profiles
	destTags     map[int64]map[int64]struct{} // destination -> traveller types

	trips   map[int64]domain.Trip
	artists map[int64]domain.Artist
	hunts   map[int64]domain.TreasureHunt
	undo    []domain.UndoEntry

	requests map[int64]domain.DestinationRequest
	changes  map[int64]domain.DestinationChange
}

func New() *Store {
	return &Store{
		now:          time.Now,
		profiles:     map[int64]domain.Profile{},
		roles:        map[int64]map[string]struct{}{},
		destinations: map[int64]domain.Destination{},
		follows:      map[int64]map[int64]struct{}{},
		destTags:     map[int64]map[int64]struct{}{},
		trips:        map[int64]domain.Trip{},
		artists:      map[int64]domain.Artist{},
		hunts:        map[int64]domain.TreasureHunt{},
		requests:     map[int64]domain.DestinationRequest{},
		changes:      map[int64]domain.DestinationChange{},
	}
}

// SetClock replaces the time source used for created-at stamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func sortedKeys(m map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func addTo(m map[int64]map[int64]struct{}, k, v int64) {
	set, ok := m[k]
	if !ok {
		set = map[int64]struct{}{}
		m[k] = set
	}
	set[v] = struct{}{}
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func cloneStrings(in []string) []string { return append([]string(nil), in...) }
func cloneIDs(in []int64) []int64       { return append([]int64(nil), in...) }
