package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"travel_planner/internal/domain"
)

func (s *Store) profileOut(p domain.Profile) domain.Profile {
	p.Nationalities = cloneStrings(p.Nationalities)
	p.Passports = cloneStrings(p.Passports)
	p.TravellerTypes = cloneIDs(p.TravellerTypes)
	p.Roles = nil
	for r := range s.roles[p.ID] {
		p.Roles = append(p.Roles, r)
	}
	sort.Strings(p.Roles)
	return p
}

func (s *Store) CreateProfile(ctx context.Context, p domain.Profile) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.profiles {
		if strings.EqualFold(existing.Email, p.Email) {
			return 0, domain.ErrConflict
		}
	}
	p.ID = s.nextID()
	p.CreatedAt = s.now().UTC()
	p.Roles = nil
	s.profiles[p.ID] = s.profileOut(p)
	return p.ID, nil
}

func (s *Store) UpdateProfile(ctx context.Context, p domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.profiles[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for id, existing := range s.profiles {
		if id != p.ID && strings.EqualFold(existing.Email, p.Email) {
			return domain.ErrConflict
		}
	}
	p.CreatedAt = cur.CreatedAt
	p.SoftDeleted = cur.SoftDeleted
	if p.PasswordHash == "" {
		p.PasswordHash = cur.PasswordHash
	}
	s.profiles[p.ID] = s.profileOut(p)
	return nil
}

func (s *Store) GetProfile(ctx context.Context, id int64) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	return s.profileOut(p), nil
}

func (s *Store) GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if strings.EqualFold(p.Email, email) {
			return s.profileOut(p), nil
		}
	}
	return domain.Profile{}, domain.ErrNotFound
}

func (s *Store) liveProfiles() []domain.Profile {
	var out []domain.Profile
	for _, p := range s.profiles {
		if !p.SoftDeleted {
			out = append(out, s.profileOut(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) ListProfiles(ctx context.Context, pg domain.PageQuery) ([]domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return page(s.liveProfiles(), pg.Limit, pg.Offset), nil
}

func (s *Store) CountProfiles(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.liveProfiles()), nil
}

func (s *Store) SearchProfiles(ctx context.Context, q domain.TravellerQuery, now time.Time) (domain.ProfilesPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	from, to := q.BirthBounds(now)
	var hits []domain.Profile
	for _, p := range s.liveProfiles() {
		if q.Gender != "" && !strings.EqualFold(p.Gender, q.Gender) {
			continue
		}
		if q.Nationality != "" && !containsFold(p.Nationalities, q.Nationality) {
			continue
		}
		if q.TravellerType != 0 && !containsID(p.TravellerTypes, q.TravellerType) {
			continue
		}
		if !p.BirthDate.After(from) || p.BirthDate.After(to) {
			continue
		}
		hits = append(hits, p)
	}
	return domain.ProfilesPage{Items: page(hits, q.Limit, q.Offset), Total: len(hits)}, nil
}

func (s *Store) SetProfileDeleted(ctx context.Context, id int64, deleted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.SoftDeleted = deleted
	s.profiles[id] = p
	return nil
}

func (s *Store) ProfileRoles(ctx context.Context, id int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileOut(domain.Profile{ID: id}).Roles, nil
}

func (s *Store) GrantRole(ctx context.Context, id int64, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[id]; !ok {
		return domain.ErrNotFound
	}
	set, ok := s.roles[id]
	if !ok {
		set = map[string]struct{}{}
		s.roles[id] = set
	}
	if _, dup := set[role]; dup {
		return domain.ErrConflict
	}
	set[role] = struct{}{}
	return nil
}

func (s *Store) RevokeRole(ctx context.Context, id int64, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.roles[id], role)
	return nil
}

func (s *Store) ProfileIDsWithRole(ctx context.Context, role string) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := map[int64]struct{}{}
	for id, set := range s.roles {
		if _, ok := set[role]; ok {
			ids[id] = struct{}{}
		}
	}
	return sortedKeys(ids), nil
}

func (s *Store) ListTravellerTypes(ctx context.Context) ([]domain.TravellerType, error) {
	return append([]domain.TravellerType(nil), DefaultTravellerTypes...), nil
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

func containsID(list []int64, v int64) bool {
	for _, id := range list {
		if id == v {
			return true
		}
	}
	return false
}
