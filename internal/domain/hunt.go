package domain

import "time"

type TreasureHunt struct {
	ID            int64
	DestinationID int64
	ProfileID     int64
	Riddle        string
	StartDate     time.Time
	EndDate       time.Time
	SoftDeleted   bool
}

func (h TreasureHunt) Validate() error {
	if h.DestinationID == 0 {
		return Invalid("destinationId", "a destination is required")
	}
	if h.Riddle == "" {
		return Invalid("riddle", "a riddle is required")
	}
	if h.StartDate.After(h.EndDate) {
		return Invalid("startDate", "Start date cannot be after end date.")
	}
	return nil
}

// Active reports whether the hunt window contains t.
func (h TreasureHunt) Active(t time.Time) bool {
	return !h.SoftDeleted && !t.Before(h.StartDate) && !t.After(h.EndDate)
}
