package app

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"travel_planner/internal/adapters/export"
	"travel_planner/internal/domain"
)

type Dashboard struct {
	Profiles          []domain.Profile
	Admins            []int64
	Trips             []domain.Trip
	Destinations      []domain.Destination
	PendingChanges    []domain.PendingChange
	TreasureHunts     []domain.TreasureHunt
	UnverifiedArtists []domain.Artist
	TravellerTypes    []domain.TravellerType
}

type AdminService struct {
	store        domain.Store
	undo         *UndoService
	destinations *DestinationService
}

func NewAdminService(s domain.Store, u *UndoService, d *DestinationService) *AdminService {
	return &AdminService{store: s, undo: u, destinations: d}
}

// Dashboard loads every admin list concurrently.
func (s *AdminService) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Profiles, err = s.store.ListProfiles(ctx, domain.PageQuery{})
		return err
	})
	g.Go(func() (err error) {
		d.Admins, err = s.store.ProfileIDsWithRole(ctx, domain.RoleAdmin)
		return err
	})
	g.Go(func() (err error) {
		d.Trips, err = s.store.ListTrips(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.Destinations, err = s.store.ListDestinations(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.PendingChanges, err = s.store.ListPendingChanges(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.TreasureHunts, err = s.store.ListHunts(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.UnverifiedArtists, err = s.store.ListUnverifiedArtists(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.TravellerTypes, err = s.store.ListTravellerTypes(ctx)
		return err
	})
	return d, g.Wait()
}

func (s *AdminService) DeleteProfile(ctx context.Context, actor domain.Profile, id int64) error {
	p, err := s.store.GetProfile(ctx, id)
	if err != nil {
		return err
	}
	if p.HasRole(domain.RoleGlobalAdmin) {
		return domain.Errorf(domain.ErrForbidden, "The global admin cannot be deleted")
	}
	if err := s.store.SetProfileDeleted(ctx, id, true); err != nil {
		return err
	}
	return s.undo.Record(ctx, actor, domain.KindProfile, id)
}

func (s *AdminService) DeleteDestination(ctx context.Context, actor domain.Profile, id int64) error {
	d, err := s.store.GetDestination(ctx, id)
	if err != nil {
		return err
	}
	if err := s.destinations.ensureUnused(ctx, d); err != nil {
		return err
	}
	if err := s.store.SetDestinationDeleted(ctx, id, true); err != nil {
		return err
	}
	s.destinations.invalidate(ctx)
	return s.undo.Record(ctx, actor, domain.KindDestination, id)
}

func (s *AdminService) DeleteTrip(ctx context.Context, actor domain.Profile, id int64) error {
	if _, err := s.store.GetTrip(ctx, id); err != nil {
		return err
	}
	if err := s.store.SetTripDeleted(ctx, id, true); err != nil {
		return err
	}
	return s.undo.Record(ctx, actor, domain.KindTrip, id)
}

func (s *AdminService) DeleteHunt(ctx context.Context, actor domain.Profile, id int64) error {
	if _, err := s.store.GetHunt(ctx, id); err != nil {
		return err
	}
	if err := s.store.SetHuntDeleted(ctx, id, true); err != nil {
		return err
	}
	return s.undo.Record(ctx, actor, domain.KindTreasureHunt, id)
}

func (s *AdminService) GrantAdmin(ctx context.Context, id int64) error {
	if _, err := s.store.GetProfile(ctx, id); err != nil {
		return err
	}
	err := s.store.GrantRole(ctx, id, domain.RoleAdmin)
	if errors.Is(err, domain.ErrConflict) {
		return domain.Errorf(domain.ErrConflict, "User already has this role.")
	}
	return err
}

func (s *AdminService) RevokeAdmin(ctx context.Context, id int64) error {
	p, err := s.store.GetProfile(ctx, id)
	if err != nil {
		return err
	}
	if p.HasRole(domain.RoleGlobalAdmin) {
		return domain.Errorf(domain.ErrForbidden, "The global admin cannot be demoted")
	}
	return s.store.RevokeRole(ctx, id, domain.RoleAdmin)
}

// Export renders destinations and profiles as an xlsx workbook.
func (s *AdminService) Export(ctx context.Context) ([]byte, error) {
	var (
		dests    []domain.Destination
		profiles []domain.Profile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		dests, err = s.store.ListDestinations(gctx)
		return err
	})
	g.Go(func() (err error) {
		profiles, err = s.store.ListProfiles(gctx, domain.PageQuery{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return export.Workbook(dests, profiles)
}
