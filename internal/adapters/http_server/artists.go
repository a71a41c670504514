package httpserver

import (
	"net/http"

	"travel_planner/internal/domain"
)

func artistForm(b *binder) domain.Artist {
	return domain.Artist{
		Name:          b.str("name"),
		Biography:     b.str("biography"),
		FacebookLink:  b.str("facebookLink"),
		InstagramLink: b.str("instagramLink"),
		SpotifyLink:   b.str("spotifyLink"),
		TwitterLink:   b.str("twitterLink"),
		WebsiteLink:   b.str("websiteLink"),
		Members:       b.str("members"),
		Countries:     b.list("countries"),
		Genres:        b.list("genres"),
	}
}

func (h *Handlers) listArtists(w http.ResponseWriter, r *http.Request) {
	all, err := h.Artists.List(r.Context())
	if err != nil {
		failRead(w, r, err)
		return
	}
	mine, err := h.Artists.ListByProfile(r.Context(), actor(r).ID)
	if err != nil {
		failRead(w, r, err)
		return
	}
	writeJSON(w, r, struct{ Artists, Mine []domain.Artist }{all, mine})
}

func (h *Handlers) searchArtists(w http.ResponseWriter, r *http.Request) {
	q := bindQuery(r)
	hits, err := h.Artists.Search(r.Context(), domain.ArtistQuery{
		Name: q.str("name"), Genre: q.str("genre"), Country: q.str("country"),
	})
	if err != nil {
		failRead(w, r, err)
		return
	}
	writeJSON(w, r, hits)
}

func (h *Handlers) getArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := h.Artists.Get(r.Context(), id)
	if err != nil {
		failRead(w, r, err)
		return
	}
	writeJSON(w, r, a)
}

func (h *Handlers) createArtist(w http.ResponseWriter, r *http.Request) {
	b, ok := bindForm(w, r)
	if !ok {
		return
	}
	me := actor(r)
	if _, err := h.Artists.Create(r.Context(), me, artistForm(b), b.list("admins")); err != nil {
		fail(w, r, "/artists", err)
		return
	}
	msg := "Artist created and sent to an admin for verification."
	if me.IsAdmin() {
		msg = "Artist created."
	}
	redirect(w, r, "/artists", "success", msg)
}

func (h *Handlers) updateArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b, ok := bindForm(w, r)
	if !ok {
		return
	}
	a := artistForm(b)
	a.ID = id
	if err := h.Artists.Update(r.Context(), actor(r), a); err != nil {
		fail(w, r, "/artists", err)
		return
	}
	redirect(w, r, "/artists", "success", "Artist updated.")
}

func (h *Handlers) deleteArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Artists.SoftDelete(r.Context(), actor(r), id); err != nil {
		fail(w, r, "/artists", err)
		return
	}
	redirect(w, r, "/artists", "success", "Artist deleted.")
}

func (h *Handlers) leaveArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Artists.Leave(r.Context(), actor(r), id); err != nil {
		fail(w, r, "/artists", err)
		return
	}
	redirect(w, r, "/artists", "info", "You are no longer an admin of this artist.")
}
