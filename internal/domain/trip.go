package domain

import "time"

type Trip struct {
	ID           int64
	ProfileID    int64
	Name         string
	SoftDeleted  bool
	Destinations []TripDestination
}

type TripDestination struct {
	ID            int64
	TripID        int64
	DestinationID int64
	Order         int
	Arrival       *time.Time
	Departure     *time.Time
}

func (t Trip) Validate() error {
	if t.Name == "" {
		return Invalid("name", "trip name is required")
	}
	if len(t.Destinations) < 2 {
		return Invalid("destinations", "a trip needs at least two destinations")
	}
	for i, td := range t.Destinations {
		if i > 0 && t.Destinations[i-1].DestinationID == td.DestinationID {
			return Invalid("destinations", "the same destination cannot be visited twice in a row")
		}
		if td.Arrival != nil && td.Departure != nil && td.Arrival.After(*td.Departure) {
			return Invalid("dates", "arrival cannot be after departure")
		}
	}
	return nil
}
