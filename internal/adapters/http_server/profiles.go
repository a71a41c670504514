package httpserver

import (
	"net/http"

	"travel_planner/internal/app"
	"travel_planner/internal/domain"
)

func profileInput(b *binder) app.ProfileInput {
	return app.ProfileInput{
		FirstName:      b.str("firstName"),
		MiddleName:     b.str("middleName"),
		LastName:       b.str("lastName"),
		Email:          b.str("email"),
		Password:       b.vals.Get("password"),
		BirthDate:      b.date("birthDate"),
		Gender:         b.str("gender"),
		Nationalities:  b.list("nationalities"),
		Passports:      b.list("passports"),
		TravellerTypes: b.idSet("travellerTypes"),
	}
}

func (h *Handlers) getProfile(w http.ResponseWriter, r *http.Request) {
	types, err := h.Profiles.TravellerTypes(r.Context())
	if err != nil {
		failRead(w, r, err)
		return
	}
	writeJSON(w, r, struct {
		Profile        domain.Profile
		TravellerTypes []domain.TravellerType
	}{actor(r), types})
}

func (h *Handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	b, ok := bindForm(w, r)
	if !ok {
		return
	}
	in := profileInput(b)
	if !b.ok(w) {
		return
	}
	me := actor(r)
	if err := h.Profiles.Update(r.Context(), me, me.ID, in); err != nil {
		fail(w, r, "/profile", err)
		return
	}
	redirect(w, r, "/profile", "success", "Profile updated.")
}

func (h *Handlers) listTravellers(w http.ResponseWriter, r *http.Request) {
	q := bindQuery(r)
	offset := q.integer("offset")
	if !q.ok(w) {
		return
	}
	page, err := h.Profiles.List(r.Context(), offset)
	if err != nil {
		failRead(w, r, err)
		return
	}
	writeJSON(w, r, page)
}

func (h *Handlers) searchTravellers(w http.ResponseWriter, r *http.Request) {
	q := bindQuery(r)
	query := domain.TravellerQuery{
		TravellerType: q.id("travellerType"),
		AgeRange:      q.integer("ageRange"),
		Gender:        q.str("gender"),
		Nationality:   q.str("nationality"),
		Offset:        q.integer("offset"),
	}
	if !q.ok(w) {
		return
	}
	page, err := h.Profiles.Search(r.Context(), query)
	if err != nil {
		failRead(w, r, err)
		return
	}
	writeJSON(w, r, page)
}
