package app

import (
	"context"
	"errors"
	"strings"

	"travel_planner/internal/domain"
)

type ArtistService struct {
	store     domain.Store
	countries *CountryService
}

func NewArtistService(s domain.Store, c *CountryService) *ArtistService {
	return &ArtistService{store: s, countries: c}
}

func artistExists(name string) error {
	return domain.Errorf(domain.ErrConflict, "Artist with the name %s already exists!", name)
}

func (s *ArtistService) check(ctx context.Context, a domain.Artist) error {
	if strings.TrimSpace(a.Name) == "" {
		return domain.Invalid("name", "Artist name is required")
	}
	return s.countries.Validate(ctx, "countries", a.Countries)
}

// resolveAdmins maps extra admin emails to profile ids.
func (s *ArtistService) resolveAdmins(ctx context.Context, emails []string) ([]int64, error) {
	var ids []int64
	for _, e := range emails {
		p, err := s.store.GetProfileByEmail(ctx, e)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Invalid("admins", "No profile exists with the email "+e)
		}
		if err != nil {
			return nil, err
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// Create registers an artist linked to the actor and any extra admin profiles.
// Artists created by an admin are verified straight away.
func (s *ArtistService) Create(ctx context.Context, actor domain.Profile, a domain.Artist, adminEmails []string) (int64, error) {
	a.Name = strings.TrimSpace(a.Name)
	if err := s.check(ctx, a); err != nil {
		return 0, err
	}
	exists, err := s.store.ArtistNameExists(ctx, a.Name)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, artistExists(a.Name)
	}
	extra, err := s.resolveAdmins(ctx, adminEmails)
	if err != nil {
		return 0, err
	}
	a.ProfileIDs = append([]int64{actor.ID}, extra...)
	id, err := s.store.CreateArtist(ctx, a)
	if errors.Is(err, domain.ErrConflict) {
		return 0, artistExists(a.Name)
	}
	if err != nil {
		return 0, err
	}
	if actor.IsAdmin() {
		if err := s.store.SetArtistVerified(ctx, id); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (s *ArtistService) mayManage(actor domain.Profile, a domain.Artist) bool {
	if actor.IsAdmin() {
		return true
	}
	for _, id := range a.ProfileIDs {
		if id == actor.ID {
			return true
		}
	}
	return false
}

func (s *ArtistService) Update(ctx context.Context, actor domain.Profile, a domain.Artist) error {
	cur, err := s.store.GetArtist(ctx, a.ID)
	if err != nil {
		return err
	}
	if !s.mayManage(actor, cur) {
		return domain.ErrForbidden
	}
	a.Name = strings.TrimSpace(a.Name)
	if err := s.check(ctx, a); err != nil {
		return err
	}
	if !strings.EqualFold(a.Name, cur.Name) {
		exists, err := s.store.ArtistNameExists(ctx, a.Name)
		if err != nil {
			return err
		}
		if exists {
			return artistExists(a.Name)
		}
	}
	err = s.store.UpdateArtist(ctx, a)
	if errors.Is(err, domain.ErrConflict) {
		return artistExists(a.Name)
	}
	return err
}

func (s *ArtistService) Get(ctx context.Context, id int64) (domain.Artist, error) {
	a, err := s.store.GetArtist(ctx, id)
	if err != nil {
		return domain.Artist{}, err
	}
	if a.SoftDeleted {
		return domain.Artist{}, domain.ErrNotFound
	}
	return a, nil
}

func (s *ArtistService) Verify(ctx context.Context, id int64) error {
	if _, err := s.store.GetArtist(ctx, id); err != nil {
		return err
	}
	return s.store.SetArtistVerified(ctx, id)
}

func (s *ArtistService) SoftDelete(ctx context.Context, actor domain.Profile, id int64) error {
	a, err := s.store.GetArtist(ctx, id)
	if err != nil {
		return err
	}
	if !s.mayManage(actor, a) {
		return domain.ErrForbidden
	}
	return s.store.SetArtistDeleted(ctx, id, true)
}

func (s *ArtistService) HardDelete(ctx context.Context, actor domain.Profile, id int64) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return s.store.DeleteArtist(ctx, id)
}

// Leave removes the actor's link to the artist.
func (s *ArtistService) Leave(ctx context.Context, actor domain.Profile, id int64) error {
	return s.store.UnlinkArtistProfile(ctx, id, actor.ID)
}

func (s *ArtistService) List(ctx context.Context) ([]domain.Artist, error) {
	return s.store.ListArtists(ctx)
}

func (s *ArtistService) ListUnverified(ctx context.Context) ([]domain.Artist, error) {
	return s.store.ListUnverifiedArtists(ctx)
}

func (s *ArtistService) ListByProfile(ctx context.Context, profileID int64) ([]domain.Artist, error) {
	return s.store.ListArtistsByProfile(ctx, profileID)
}

func (s *ArtistService) Search(ctx context.Context, q domain.ArtistQuery) ([]domain.Artist, error) {
	q.Name = strings.TrimSpace(q.Name)
	return s.store.SearchArtists(ctx, q)
}
