package httpserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// dashboard also drops undo entries older than the configured age.
func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	if n, err := h.Undo.Purge(r.Context(), time.Now()); err != nil {
		log.Warn().Err(err).Msg("undo purge failed")
	} else if n > 0 {
		log.Debug().Int64("purged", n).Msg("expired undo entries dropped")
	}
	d, err := h.Admin.Dashboard(r.Context())
	if err != nil {
		failRead(w, r, err)
		return
	}
	writeJSON(w, r, d)
}

func (h *Handlers) export(w http.ResponseWriter, r *http.Request) {
	b, err := h.Admin.Export(r.Context())
	if err != nil {
		failRead(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="travelea.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(b); err != nil {
		log.Error().Err(err).Msg("write export failed")
	}
}

func (h *Handlers) undo(w http.ResponseWriter, r *http.Request) {
	e, ok, err := h.Undo.Undo(r.Context(), actor(r))
	if err != nil {
		fail(w, r, "/admin", err)
		return
	}
	if !ok {
		redirect(w, r, "/admin", "info", "Nothing to undo")
		return
	}
	redirect(w, r, "/admin", "success", fmt.Sprintf("Restored %s.", strings.ReplaceAll(string(e.Kind), "_", " ")))
}

// ---- profiles ----

func (h *Handlers) adminCreateProfile(w http.ResponseWriter, r *http.Request) {
	b, ok := bindForm(w, r)
	if !ok {
		return
	}
	in := profileInput(b)
	makeAdmin := b.flag("admin")
	if !b.ok(w) {
		return
	}
	id, err := h.Profiles.Create(r.Context(), in)
	if err != nil {
		fail(w, r, "/admin", err)
		return
	}
	if makeAdmin {
		if err := h.Admin.GrantAdmin(r.Context(), id); err != nil {
			fail(w, r, "/admin", err)
			return
		}
	}
	redirect(w, r, "/admin", "success", "Profile created.")
}

func (h *Handlers) adminUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b, ok := bindForm(w, r)
	if !ok {
		return
	}
	in := profileInput(b)
	if !b.ok(w) {
		return
	}
	if err := h.Profiles.Update(r.Context(), actor(r), id, in); err != nil {
		fail(w, r, "/admin", err)
		return
	}
	redirect(w, r, "/admin", "success", "Profile updated.")
}

func (h *Handlers) adminDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Admin.DeleteProfile(r.Context(), actor(r), id); err != nil {
		fail(w, r, "/admin", err)
		return
	}
	redirect(w, r, "/admin", "success", "Profile deleted.")
}

func (h *Handlers) grantAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Admin.GrantAdmin(r.Context(), id); err != nil {
		fail(w, r, "/admin", err)
		return
	}
	redirect(w, r, "/admin", "success", "Admin role granted.")
}

func (h *Handlers) revokeAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Admin.RevokeAdmin(r.Context(), id); err != nil {
		fail(w, r, "/admin", err)
		return
	}
	redirect(w, r, "/admin", "success", "Admin role removed.")
}

// ---- destinations, trips, hunts ----

func (h *Handlers) adminCreateDestination(w http.ResponseWriter, r *http.Request) {
	h.saveDestination(w, r, "/admin", false)
}

func (h *Handlers) adminUpdateDestination(w http.ResponseWriter, r *http.Request) {
	h.saveDestination(w, r, "/admin", true)
}

func (h *Handlers) adminDeleteDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Admin.DeleteDestination(r.Context(), actor(r), id); err != nil {
		fail(w, r, "/admin", err)
		return
	}
	redirect(w, r, "/admin", "success", "Destination deleted.")
}

func (h *Handlers) adminDeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Admin.DeleteTrip(r.Context(), actor(r), id); err != nil {
		fail(w, r, "/admin", err)
		return
	}
	redirect(w, r, "/admin", "success", "Trip deleted.")
}

func (h *Handlers) adminCreateHunt(w http.ResponseWriter, r *http.Request) {
	h.saveHunt(w, r, "/admin", false)
}

func (h *Handlers) adminUpdateHunt(w http.ResponseWriter, r *http.Request) {
	h.saveHunt(w, r, "/admin", true)
}

func (h *Handlers) adminDeleteHunt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Admin.DeleteHunt(r.Context(), actor(r), id); err != nil {
		fail(w, r, "/admin", err)
		return
	}
	redirect(w, r, "/admin", "success", "Treasure hunt deleted.")
}

// ---- change requests, artists ----

func (h *Handlers) acceptChange(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Changes.Accept(r.Context(), id); err != nil {
		fail(w, r, "/admin", err)
		return
	}
	redirect(w, r, "/admin", "success", "Change accepted.")
}

func (h *Handlers) rejectChange(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Changes.Reject(r.Context(), id); err != nil {
		fail(w, r, "/admin", err)
		return
	}
	redirect(w, r, "/admin", "info", "Change rejected.")
}

func (h *Handlers) verifyArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Artists.Verify(r.Context(), id); err != nil {
		fail(w, r, "/admin", err)
		return
	}
	redirect(w, r, "/admin", "success", "Artist verified.")
}

func (h *Handlers) adminDeleteArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Artists.HardDelete(r.Context(), actor(r), id); err != nil {
		fail(w, r, "/admin", err)
		return
	}
	redirect(w, r, "/admin", "success", "Artist removed.")
}
