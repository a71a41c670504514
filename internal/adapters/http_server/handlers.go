package httpserver

import (
	"net/http"

	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/adapters/session"
	"travel_planner/internal/app"
)

// Handlers binds form posts and queries to the application services.
type Handlers struct {
	Auth         *app.AuthService
	Profiles     *app.ProfileService
	Destinations *app.DestinationService
	Changes      *app.ChangeService
	Trips        *app.TripService
	Artists      *app.ArtistService
	Hunts        *app.HuntService
	Undo         *app.UndoService
	Admin        *app.AdminService
	Sessions     *session.Manager
	Limiter      *LoginLimiter
}

func (h *Handlers) home(w http.ResponseWriter, r *http.Request) {
	var out struct {
		LoggedIn bool
		Profile  any `json:",omitempty"`
	}
	if p, ok := currentProfile(r); ok {
		out.LoggedIn, out.Profile = true, p
	}
	writeJSON(w, r, out)
}

func (h *Handlers) startSession(w http.ResponseWriter, profileID int64) error {
	token, exp, err := h.Sessions.Issue(profileID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name: sessionCookie, Value: token, Path: "/", Expires: exp,
		HttpOnly: true, SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h *Handlers) signup(w http.ResponseWriter, r *http.Request) {
	b, ok := bindForm(w, r)
	if !ok {
		return
	}
	in := profileInput(b)
	if !b.ok(w) {
		return
	}
	id, err := h.Profiles.Create(r.Context(), in)
	if err != nil {
		fail(w, r, "/", err)
		return
	}
	if err := h.startSession(w, id); err != nil {
		fail(w, r, "/", err)
		return
	}
	redirect(w, r, "/profile", "success", "Welcome to TravelEA!")
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	b, ok := bindForm(w, r)
	if !ok {
		return
	}
	p, err := h.Auth.Login(r.Context(), b.str("email"), b.vals.Get("password"))
	if err != nil {
		observability.ObserveEvent("login_fail")
		fail(w, r, "/", err)
		return
	}
	if err := h.startSession(w, p.ID); err != nil {
		fail(w, r, "/", err)
		return
	}
	redirect(w, r, "/profile", "", "")
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	clearSession(w)
	redirect(w, r, "/", "info", "You have been logged out.")
}
