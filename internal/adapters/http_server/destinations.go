package httpserver

import (
	"net/http"

	"travel_planner/internal/domain"
)

// destinationForm leaves TravellerTypes nil when the form has no
// travellerTypes field so an update keeps the stored tags. An empty value
// clears them.
func destinationForm(b *binder) domain.Destination {
	d := domain.Destination{
		ProfileID: b.id("profileId"),
		Name:      b.str("name"),
		Type:      b.str("type"),
		Country:   b.str("country"),
		District:  b.str("district"),
		Latitude:  b.float("latitude"),
		Longitude: b.float("longitude"),
		Public:    b.flag("isPublic"),
	}
	if b.has("travellerTypes") {
		d.TravellerTypes = append([]int64{}, b.idSet("travellerTypes")...)
	}
	return d
}

func (h *Handlers) listDestinations(w http.ResponseWriter, r *http.Request) {
	var (
		out []domain.Destination
		err error
	)
	if r.URL.Query().Get("public") == "true" {
		out, err = h.Destinations.ListPublic(r.Context())
	} else {
		out, err = h.Destinations.ListOwn(r.Context(), actor(r))
	}
	if err != nil {
		failRead(w, r, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) getDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := h.Destinations.Get(r.Context(), actor(r), id)
	if err != nil {
		failRead(w, r, err)
		return
	}
	tags, err := h.Destinations.Tags(r.Context(), id)
	if err != nil {
		failRead(w, r, err)
		return
	}
	writeJSON(w, r, struct {
		Destination    domain.Destination
		TravellerTypes []domain.TravellerType
	}{d, tags})
}

// saveDestination handles both the user and the admin create/update forms.
func (h *Handlers) saveDestination(w http.ResponseWriter, r *http.Request, back string, update bool) {
	var id int64
	if update {
		var ok bool
		if id, ok = pathID(w, r); !ok {
			return
		}
	}
	b, ok := bindForm(w, r)
	if !ok {
		return
	}
	d := destinationForm(b)
	if !b.ok(w) {
		return
	}
	if update {
		d.ID = id
		if err := h.Destinations.Update(r.Context(), actor(r), d); err != nil {
			fail(w, r, back, err)
			return
		}
		redirect(w, r, back, "success", "Destination updated.")
		return
	}
	if _, err := h.Destinations.Create(r.Context(), actor(r), d); err != nil {
		fail(w, r, back, err)
		return
	}
	redirect(w, r, back, "success", "Destination created.")
}

func (h *Handlers) createDestination(w http.ResponseWriter, r *http.Request) {
	h.saveDestination(w, r, "/destinations", false)
}

func (h *Handlers) updateDestination(w http.ResponseWriter, r *http.Request) {
	h.saveDestination(w, r, "/destinations", true)
}

func (h *Handlers) deleteDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Destinations.Delete(r.Context(), actor(r), id); err != nil {
		fail(w, r, "/destinations", err)
		return
	}
	redirect(w, r, "/destinations", "success", "Destination deleted.")
}

func (h *Handlers) followDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Destinations.Follow(r.Context(), actor(r), id); err != nil {
		fail(w, r, "/destinations?public=true", err)
		return
	}
	redirect(w, r, "/destinations?public=true", "success", "You are now following this destination.")
}

func (h *Handlers) unfollowDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Destinations.Unfollow(r.Context(), actor(r), id); err != nil {
		fail(w, r, "/destinations", err)
		return
	}
	redirect(w, r, "/destinations", "info", "You are no longer following this destination.")
}

func (h *Handlers) requestTagChange(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b, ok := bindForm(w, r)
	if !ok {
		return
	}
	desired := b.idSet("travellerTypes")
	if !b.ok(w) {
		return
	}
	if _, err := h.Changes.Propose(r.Context(), actor(r), id, desired); err != nil {
		fail(w, r, "/destinations", err)
		return
	}
	redirect(w, r, "/destinations", "success", "Your request has been sent to an admin.")
}
