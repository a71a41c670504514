package httpserver

import (
	"net/http"
	"time"

	"travel_planner/internal/domain"
)

func huntForm(b *binder) domain.TreasureHunt {
	return domain.TreasureHunt{
		DestinationID: b.id("destinationId"),
		Riddle:        b.str("riddle"),
		StartDate:     b.date("startDate"),
		EndDate:       b.date("endDate"),
	}
}

func (h *Handlers) listHunts(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	active, err := h.Hunts.List(r.Context(), &now)
	if err != nil {
		failRead(w, r, err)
		return
	}
	own, err := h.Hunts.ListOwn(r.Context(), actor(r))
	if err != nil {
		failRead(w, r, err)
		return
	}
	writeJSON(w, r, struct{ Active, Own []domain.TreasureHunt }{active, own})
}

func (h *Handlers) saveHunt(w http.ResponseWriter, r *http.Request, back string, update bool) {
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
	th := huntForm(b)
	if !b.ok(w) {
		return
	}
	if update {
		th.ID = id
		if err := h.Hunts.Update(r.Context(), actor(r), th); err != nil {
			fail(w, r, back, err)
			return
		}
		redirect(w, r, back, "success", "Treasure hunt updated.")
		return
	}
	if _, err := h.Hunts.Create(r.Context(), actor(r), th); err != nil {
		fail(w, r, back, err)
		return
	}
	redirect(w, r, back, "success", "Treasure hunt created.")
}

func (h *Handlers) createHunt(w http.ResponseWriter, r *http.Request) {
	h.saveHunt(w, r, "/treasure", false)
}

func (h *Handlers) updateHunt(w http.ResponseWriter, r *http.Request) {
	h.saveHunt(w, r, "/treasure", true)
}

func (h *Handlers) deleteHunt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Hunts.Delete(r.Context(), actor(r), id); err != nil {
		fail(w, r, "/treasure", err)
		return
	}
	redirect(w, r, "/treasure", "success", "Treasure hunt deleted.")
}
