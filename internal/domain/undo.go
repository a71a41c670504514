package domain

import "time"

type EntityKind string

const (
	KindProfile      EntityKind = "profile"
	KindTrip         EntityKind = "trip"
	KindDestination  EntityKind = "destination"
	KindTreasureHunt EntityKind = "treasure_hunt"
)

// UndoEntry records one soft delete so the acting admin can reverse it.
type UndoEntry struct {
	ID        int64
	Kind      EntityKind
	EntityID  int64
	ActorID   int64
	CreatedAt time.Time
}
