package httpserver

import (
	"net/http"

	"travel_planner/internal/domain"
)

// tripForm reads the ordered stops from repeated destinations fields, with
// optional arrivals and departures aligned by position.
func tripForm(b *binder) domain.Trip {
	t := domain.Trip{ProfileID: b.id("profileId"), Name: b.str("name")}
	for i, id := range b.ids("destinations") {
		t.Destinations = append(t.Destinations, domain.TripDestination{
			DestinationID: id,
			Order:         i,
			Arrival:       b.at("arrivals", i),
			Departure:     b.at("departures", i),
		})
	}
	return t
}

func (h *Handlers) listTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := h.Trips.ListOwn(r.Context(), actor(r))
	if err != nil {
		failRead(w, r, err)
		return
	}
	writeJSON(w, r, trips)
}

func (h *Handlers) getTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := h.Trips.Get(r.Context(), actor(r), id)
	if err != nil {
		failRead(w, r, err)
		return
	}
	writeJSON(w, r, t)
}

func (h *Handlers) createTrip(w http.ResponseWriter, r *http.Request) {
	b, ok := bindForm(w, r)
	if !ok {
		return
	}
	t := tripForm(b)
	if !b.ok(w) {
		return
	}
	if _, err := h.Trips.Create(r.Context(), actor(r), t); err != nil {
		fail(w, r, "/trips", err)
		return
	}
	redirect(w, r, "/trips", "success", "Trip created.")
}

func (h *Handlers) deleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Trips.Delete(r.Context(), actor(r), id); err != nil {
		fail(w, r, "/trips", err)
		return
	}
	redirect(w, r, "/trips", "success", "Trip deleted.")
}
