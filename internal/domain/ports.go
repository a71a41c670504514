package domain

import (
	"context"
	"time"
)

type ProfileRepository interface {
	CreateProfile(ctx context.Context, p Profile) (int64, error)
	UpdateProfile(ctx context.Context, p Profile) error
	GetProfile(ctx context.Context, id int64) (Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (Profile, error)
	ListProfiles(ctx context.Context, pg PageQuery) ([]Profile, error)
	CountProfiles(ctx context.Context) (int, error)
	SearchProfiles(ctx context.Context, q TravellerQuery, now time.Time) (ProfilesPage, error)
	SetProfileDeleted(ctx context.Context, id int64, deleted bool) error

	ProfileRoles(ctx context.Context, id int64) ([]string, error)
	GrantRole(ctx context.Context, id int64, role string) error
	RevokeRole(ctx context.Context, id int64, role string) error
	ProfileIDsWithRole(ctx context.Context, role string) ([]int64, error)

	ListTravellerTypes(ctx context.Context) ([]TravellerType, error)
}

type DestinationRepository interface {
	CreateDestination(ctx context.Context, d Destination) (int64, error)
	UpdateDestination(ctx context.Context, d Destination) error
	GetDestination(ctx context.Context, id int64) (Destination, error)
	ListDestinations(ctx context.Context) ([]Destination, error)
	ListDestinationsByOwner(ctx context.Context, profileID int64) ([]Destination, error)
	ListPublicDestinations(ctx context.Context) ([]Destination, error)
	FindSameDestinations(ctx context.Context, key DestinationKey) ([]Destination, error)
	DeleteDestination(ctx context.Context, id int64) error
	SetDestinationDeleted(ctx context.Context, id int64, deleted bool) error
	SetDestinationOwner(ctx context.Context, id, profileID int64) error

	FollowDestination(ctx context.Context, destID, profileID int64) error
	UnfollowDestination(ctx context.Context, destID, profileID int64) error
	DestinationFollowers(ctx context.Context, destID int64) ([]int64, error)
	FollowedDestinations(ctx context.Context, profileID int64) ([]Destination, error)

	DestinationTravellerTypes(ctx context.Context, destID int64) ([]TravellerType, error)
	AddDestinationTravellerType(ctx context.Context, destID, travellerTypeID int64) error
	RemoveDestinationTravellerType(ctx context.Context, destID, travellerTypeID int64) error
}

type TripRepository interface {
	CreateTrip(ctx context.Context, t Trip) (int64, error)
	GetTrip(ctx context.Context, id int64) (Trip, error)
	ListTrips(ctx context.Context) ([]Trip, error)
	ListTripsByOwner(ctx context.Context, profileID int64) ([]Trip, error)
	SetTripDeleted(ctx context.Context, id int64, deleted bool) error
	TripsUsingDestination(ctx context.Context, destID int64) ([]int64, error)
	// RepointTripDestinations moves stops to another destination and folds a
	// stop into the previous one when both now visit the same place.
	RepointTripDestinations(ctx context.Context, fromDestID, toDestID int64) (int64, error)
}

type ArtistRepository interface {
	CreateArtist(ctx context.Context, a Artist) (int64, error)
	UpdateArtist(ctx context.Context, a Artist) error
	GetArtist(ctx context.Context, id int64) (Artist, error)
	ArtistNameExists(ctx context.Context, name string) (bool, error)
	ListArtists(ctx context.Context) ([]Artist, error)
	ListUnverifiedArtists(ctx context.Context) ([]Artist, error)
	ListArtistsByProfile(ctx context.Context, profileID int64) ([]Artist, error)
	SearchArtists(ctx context.Context, q ArtistQuery) ([]Artist, error)
	SetArtistVerified(ctx context.Context, id int64) error
	SetArtistDeleted(ctx context.Context, id int64, deleted bool) error
	DeleteArtist(ctx context.Context, id int64) error
	LinkArtistProfile(ctx context.Context, artistID, profileID int64) error
	UnlinkArtistProfile(ctx context.Context, artistID, profileID int64) error
}

type TreasureHuntRepository interface {
	CreateHunt(ctx context.Context, h TreasureHunt) (int64, error)
	UpdateHunt(ctx context.Context, h TreasureHunt) error
	GetHunt(ctx context.Context, id int64) (TreasureHunt, error)
	ListHunts(ctx context.Context) ([]TreasureHunt, error)
	ListHuntsByOwner(ctx context.Context, profileID int64) ([]TreasureHunt, error)
	SetHuntDeleted(ctx context.Context, id int64, deleted bool) error
	RepointHunts(ctx context.Context, fromDestID, toDestID int64) (int64, error)
}

type UndoRepository interface {
	PushUndo(ctx context.Context, e UndoEntry) (int64, error)
	// PopUndo removes and returns the actor's most recent entry, ErrNotFound when empty.
	PopUndo(ctx context.Context, actorID int64) (UndoEntry, error)
	PurgeUndo(ctx context.Context, before time.Time) (int64, error)
}

type ChangeRequestRepository interface {
	CreateChangeRequest(ctx context.Context, req DestinationRequest, changes []DestinationChange) (int64, error)
	GetChange(ctx context.Context, id int64) (DestinationChange, error)
	// DeleteChange drops the change and its request once no changes remain.
	DeleteChange(ctx context.Context, id int64) error
	ListPendingChanges(ctx context.Context) ([]PendingChange, error)
	RepointChangeRequests(ctx context.Context, fromDestID, toDestID int64) (int64, error)
}

// Store is everything the services need from persistence.
type Store interface {
	ProfileRepository
	DestinationRepository
	TripRepository
	ArtistRepository
	TreasureHuntRepository
	UndoRepository
	ChangeRequestRepository
}

type CountryClient interface {
	ListCountries(ctx context.Context) ([]string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type PageQuery struct {
	Limit  int
	Offset int
}
