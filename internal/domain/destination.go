package domain

import "strings"

type Destination struct {
	ID             int64
	ProfileID      int64
	Name           string
	Type           string
	Country        string
	District       string
	Latitude       float64
	Longitude      float64
	Public         bool
	SoftDeleted    bool
	TravellerTypes []int64
}

// DestinationKey is the identity used for duplicate detection and public merges.
type DestinationKey struct {
	Name    string
	Type    string
	Country string
}

func (d Destination) Key() DestinationKey {
	return DestinationKey{Name: d.Name, Type: d.Type, Country: d.Country}
}

func (d Destination) Validate() error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return Invalid("name", "name is required")
	case strings.TrimSpace(d.Type) == "":
		return Invalid("type", "type is required")
	case strings.TrimSpace(d.Country) == "":
		return Invalid("country", "country is required")
	case d.Latitude > 90 || d.Latitude < -90, d.Longitude > 180 || d.Longitude < -180:
		return Invalid("coordinates", "A destinations longitude(-180 to 180) and latitude(90 to -90) must be valid")
	}
	return nil
}

type ChangeAction int

const (
	ChangeRemove ChangeAction = 0
	ChangeAdd    ChangeAction = 1
)

func (a ChangeAction) String() string {
	if a == ChangeAdd {
		return "add"
	}
	return "remove"
}

// DestinationRequest groups the traveller type changes one profile proposed for a destination.
type DestinationRequest struct {
	ID            int64
	DestinationID int64
	ProfileID     int64
}

type DestinationChange struct {
	ID              int64
	RequestID       int64
	TravellerTypeID int64
	Action          ChangeAction
	DestinationID   int64 // resolved through the request on reads
}

// PendingChange is the admin read model of a change awaiting a decision.
type PendingChange struct {
	DestinationChange
	Email         string
	Destination   Destination
	TravellerType TravellerType
}
