package memory

import (
	"context"
	"sort"
	"strings"

	"travel_planner/internal/domain"
)

func artistOut(a domain.Artist) domain.Artist {
	a.Countries = cloneStrings(a.Countries)
	a.Genres = cloneStrings(a.Genres)
	a.ProfileIDs = cloneIDs(a.ProfileIDs)
	return a
}

func (s *Store) nameTaken(name string, except int64) bool {
	for id, a := range s.artists {
		if id != except && strings.EqualFold(a.Name, name) {
			return true
		}
	}
	return false
}

func (s *Store) CreateArtist(ctx context.Context, a domain.Artist) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTaken(a.Name, 0) {
		return 0, domain.ErrConflict
	}
	a.ID = s.nextID()
	s.artists[a.ID] = artistOut(a)
	return a.ID, nil
}

func (s *Store) UpdateArtist(ctx context.Context, a domain.Artist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.artists[a.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if s.nameTaken(a.Name, a.ID) {
		return domain.ErrConflict
	}
	a.Verified = cur.Verified
	a.SoftDeleted = cur.SoftDeleted
	a.ProfileIDs = cur.ProfileIDs
	s.artists[a.ID] = artistOut(a)
	return nil
}

func (s *Store) GetArtist(ctx context.Context, id int64) (domain.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.artists[id]
	if !ok {
		return domain.Artist{}, domain.ErrNotFound
	}
	return artistOut(a), nil
}

func (s *Store) ArtistNameExists(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nameTaken(name, 0), nil
}

func (s *Store) filterArtists(keep func(domain.Artist) bool) []domain.Artist {
	var out []domain.Artist
	for _, a := range s.artists {
		if !a.SoftDeleted && keep(a) {
			out = append(out, artistOut(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) ListArtists(ctx context.Context) ([]domain.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterArtists(func(a domain.Artist) bool { return a.Verified }), nil
}

func (s *Store) ListUnverifiedArtists(ctx context.Context) ([]domain.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterArtists(func(a domain.Artist) bool { return !a.Verified }), nil
}

func (s *Store) ListArtistsByProfile(ctx context.Context, profileID int64) ([]domain.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterArtists(func(a domain.Artist) bool { return containsID(a.ProfileIDs, profileID) }), nil
}

func (s *Store) SearchArtists(ctx context.Context, q domain.ArtistQuery) ([]domain.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterArtists(func(a domain.Artist) bool {
		if !a.Verified {
			return false
		}
		if q.Name != "" && !strings.HasPrefix(strings.ToLower(a.Name), strings.ToLower(q.Name)) {
			return false
		}
		if q.Genre != "" && !containsFold(a.Genres, q.Genre) {
			return false
		}
		if q.Country != "" && !containsFold(a.Countries, q.Country) {
			return false
		}
		return true
	}), nil
}

func (s *Store) SetArtistVerified(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.artists[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Verified = true
	s.artists[id] = a
	return nil
}

func (s *Store) SetArtistDeleted(ctx context.Context, id int64, deleted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.artists[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.SoftDeleted = deleted
	s.artists[id] = a
	return nil
}

func (s *Store) DeleteArtist(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.artists[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.artists, id)
	return nil
}

func (s *Store) LinkArtistProfile(ctx context.Context, artistID, profileID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.artists[artistID]
	if !ok {
		return domain.ErrNotFound
	}
	if !containsID(a.ProfileIDs, profileID) {
		a.ProfileIDs = append(cloneIDs(a.ProfileIDs), profileID)
	}
	s.artists[artistID] = a
	return nil
}

func (s *Store) UnlinkArtistProfile(ctx context.Context, artistID, profileID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.artists[artistID]
	if !ok {
		return domain.ErrNotFound
	}
	var keep []int64
	for _, id := range a.ProfileIDs {
		if id != profileID {
			keep = append(keep, id)
		}
	}
	a.ProfileIDs = keep
	s.artists[artistID] = a
	return nil
}
