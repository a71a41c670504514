package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/domain"
)

const publicDestinationsKey = "destinations:public"

type DestinationService struct {
	store     domain.Store
	countries *CountryService
	cache     domain.Cache
	cacheTTL  time.Duration
}

func NewDestinationService(s domain.Store, c *CountryService, cache domain.Cache, ttl time.Duration) *DestinationService {
	return &DestinationService{store: s, countries: c, cache: cache, cacheTTL: ttl}
}

func canEdit(actor domain.Profile, ownerID int64) bool {
	return actor.ID == ownerID || actor.IsAdmin()
}

func (s *DestinationService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, publicDestinationsKey)
	}
}

func (s *DestinationService) validate(ctx context.Context, d domain.Destination) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return s.countries.Validate(ctx, "country", []string{d.Country})
}

// checkDuplicate rejects a destination whose identity already exists either
// among the owner's destinations or among public ones. selfID is skipped so
// an update may keep its own identity.
func (s *DestinationService) checkDuplicate(ctx context.Context, d domain.Destination, selfID int64) error {
	same, err := s.store.FindSameDestinations(ctx, d.Key())
	if err != nil {
		return err
	}
	for _, o := range same {
		if o.ID == selfID || o.SoftDeleted {
			continue
		}
		if o.ProfileID == d.ProfileID || o.Public {
			return domain.Errorf(domain.ErrConflict, "A destination named %s (%s, %s) already exists", d.Name, d.Type, d.Country)
		}
	}
	return nil
}

// Create stores a destination owned by the actor. Admins may set another owner.
func (s *DestinationService) Create(ctx context.Context, actor domain.Profile, d domain.Destination) (int64, error) {
	if d.ProfileID == 0 || !actor.IsAdmin() {
		d.ProfileID = actor.ID
	}
	d.Name, d.Type, d.Country = strings.TrimSpace(d.Name), strings.TrimSpace(d.Type), strings.TrimSpace(d.Country)
	if err := s.validate(ctx, d); err != nil {
		return 0, err
	}
	if err := s.checkDuplicate(ctx, d, 0); err != nil {
		return 0, err
	}
	id, err := s.store.CreateDestination(ctx, d)
	if err != nil {
		return 0, err
	}
	d.ID = id
	if d.Public {
		s.MergePublic(ctx, d)
		s.invalidate(ctx)
	}
	return id, nil
}

func (s *DestinationService) Update(ctx context.Context, actor domain.Profile, d domain.Destination) error {
	cur, err := s.store.GetDestination(ctx, d.ID)
	if err != nil {
		return err
	}
	if !canEdit(actor, cur.ProfileID) {
		return domain.ErrForbidden
	}
	d.ProfileID = cur.ProfileID
	if d.TravellerTypes == nil {
		d.TravellerTypes = cur.TravellerTypes
	}
	d.Name, d.Type, d.Country = strings.TrimSpace(d.Name), strings.TrimSpace(d.Type), strings.TrimSpace(d.Country)
	if err := s.validate(ctx, d); err != nil {
		return err
	}
	if err := s.checkDuplicate(ctx, d, d.ID); err != nil {
		return err
	}
	if err := s.store.UpdateDestination(ctx, d); err != nil {
		return err
	}
	if d.Public {
		s.MergePublic(ctx, d)
	}
	if d.Public || cur.Public {
		s.invalidate(ctx)
	}
	return nil
}

// Get returns a destination the actor may see: public, owned, followed, or any for admins.
func (s *DestinationService) Get(ctx context.Context, actor domain.Profile, id int64) (domain.Destination, error) {
	d, err := s.store.GetDestination(ctx, id)
	if err != nil {
		return domain.Destination{}, err
	}
	if d.SoftDeleted && !actor.IsAdmin() {
		return domain.Destination{}, domain.ErrNotFound
	}
	if d.Public || canEdit(actor, d.ProfileID) {
		return d, nil
	}
	followers, err := s.store.DestinationFollowers(ctx, id)
	if err != nil {
		return domain.Destination{}, err
	}
	for _, f := range followers {
		if f == actor.ID {
			return d, nil
		}
	}
	return domain.Destination{}, domain.ErrForbidden
}

// ListOwn returns the actor's destinations followed by the ones they follow.
func (s *DestinationService) ListOwn(ctx context.Context, actor domain.Profile) ([]domain.Destination, error) {
	owned, err := s.store.ListDestinationsByOwner(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	followed, err := s.store.FollowedDestinations(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{}, len(owned))
	for _, d := range owned {
		seen[d.ID] = struct{}{}
	}
	for _, d := range followed {
		if _, ok := seen[d.ID]; !ok {
			owned = append(owned, d)
		}
	}
	return owned, nil
}

func (s *DestinationService) ListPublic(ctx context.Context) ([]domain.Destination, error) {
	var out []domain.Destination
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, publicDestinationsKey, &out); ok {
			return out, nil
		}
	}
	out, err := s.store.ListPublicDestinations(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, publicDestinationsKey, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// ensureUnused refuses to remove a destination that a trip still visits.
func (s *DestinationService) ensureUnused(ctx context.Context, d domain.Destination) error {
	ids, err := s.store.TripsUsingDestination(ctx, d.ID)
	if err != nil || len(ids) == 0 {
		return err
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if t, err := s.store.GetTrip(ctx, id); err == nil {
			names = append(names, t.Name)
		}
	}
	return domain.Errorf(domain.ErrInUse, "Destination %s is used within the following trips: %s", d.Name, strings.Join(names, ", "))
}

func (s *DestinationService) Delete(ctx context.Context, actor domain.Profile, id int64) error {
	d, err := s.store.GetDestination(ctx, id)
	if err != nil {
		return err
	}
	if d.SoftDeleted && !actor.IsAdmin() {
		return domain.ErrNotFound
	}
	if !canEdit(actor, d.ProfileID) {
		return domain.ErrForbidden
	}
	if err := s.ensureUnused(ctx, d); err != nil {
		return err
	}
	if err := s.store.DeleteDestination(ctx, id); err != nil {
		return err
	}
	if d.Public {
		s.invalidate(ctx)
	}
	return nil
}

// Follow subscribes the actor to a public destination. A public destination
// not yet owned by the global admin is handed over to it, and its previous
// owner keeps access as a follower.
func (s *DestinationService) Follow(ctx context.Context, actor domain.Profile, id int64) error {
	d, err := s.store.GetDestination(ctx, id)
	if err != nil {
		return err
	}
	if !d.Public || d.SoftDeleted {
		return domain.Errorf(domain.ErrForbidden, "Only public destinations can be followed")
	}
	if err := s.store.FollowDestination(ctx, id, actor.ID); err != nil {
		return err
	}
	adminID, err := globalAdminID(ctx, s.store)
	if err != nil {
		log.Warn().Err(err).Int64("destination", id).Msg("ownership transfer skipped")
		return nil
	}
	if d.ProfileID == adminID {
		return nil
	}
	if err := s.store.SetDestinationOwner(ctx, id, adminID); err != nil {
		return err
	}
	if d.ProfileID != actor.ID {
		if err := s.store.FollowDestination(ctx, id, d.ProfileID); err != nil {
			return err
		}
	}
	s.invalidate(ctx)
	return nil
}

func (s *DestinationService) Unfollow(ctx context.Context, actor domain.Profile, id int64) error {
	return s.store.UnfollowDestination(ctx, id, actor.ID)
}

func (s *DestinationService) Tags(ctx context.Context, id int64) ([]domain.TravellerType, error) {
	return s.store.DestinationTravellerTypes(ctx, id)
}

// MergePublic folds every other destination with the same identity into pub:
// owners and followers of a duplicate follow pub, trip stops, hunts and tag
// requests are repointed and the duplicate is removed. Soft deleted rows are
// left alone so an undo can still bring them back. Each duplicate is handled
// on its own; a failure is logged and the rest still proceed.
func (s *DestinationService) MergePublic(ctx context.Context, pub domain.Destination) (int, error) {
	if pub.SoftDeleted {
		return 0, nil
	}
	same, err := s.store.FindSameDestinations(ctx, pub.Key())
	if err != nil {
		return 0, err
	}
	var errs []error
	merged := 0
	for _, dup := range same {
		if dup.ID == pub.ID || dup.SoftDeleted {
			continue
		}
		if err := s.mergeOne(ctx, pub, dup); err != nil {
			log.Warn().Err(err).Int64("public", pub.ID).Int64("duplicate", dup.ID).Msg("merge failed")
			errs = append(errs, fmt.Errorf("merge %d into %d: %w", dup.ID, pub.ID, err))
			continue
		}
		merged++
		observability.ObserveEvent("merge")
	}
	if merged > 0 {
		log.Info().Int64("public", pub.ID).Int("merged", merged).Msg("duplicate destinations merged")
		s.invalidate(ctx)
	}
	return merged, errors.Join(errs...)
}

func (s *DestinationService) mergeOne(ctx context.Context, pub, dup domain.Destination) error {
	followers, err := s.store.DestinationFollowers(ctx, dup.ID)
	if err != nil {
		return err
	}
	for _, pid := range append(followers, dup.ProfileID) {
		if pid == pub.ProfileID {
			continue
		}
		if err := s.store.FollowDestination(ctx, pub.ID, pid); err != nil {
			return err
		}
	}
	if _, err := s.store.RepointTripDestinations(ctx, dup.ID, pub.ID); err != nil {
		return err
	}
	if _, err := s.store.RepointHunts(ctx, dup.ID, pub.ID); err != nil {
		return err
	}
	if _, err := s.store.RepointChangeRequests(ctx, dup.ID, pub.ID); err != nil {
		return err
	}
	return s.store.DeleteDestination(ctx, dup.ID)
}

// SweepPublic runs MergePublic for one public destination by id; used by the dedupe command.
func (s *DestinationService) SweepPublic(ctx context.Context, id int64) (int, error) {
	d, err := s.store.GetDestination(ctx, id)
	if err != nil {
		return 0, err
	}
	if !d.Public || d.SoftDeleted {
		return 0, nil
	}
	return s.MergePublic(ctx, d)
}
