package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Server struct{ mux *chi.Mux }

func New() *Server {
	m := chi.NewRouter()

	// middlewares must be registered before any route
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Timeout(15 * time.Second))
	m.Use(Metrics)
	m.Use(Logger(log.Logger))

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Group(func(r chi.Router) {
		r.Use(h.session)

		r.Get("/", h.home)
		r.Post("/signup", h.signup)
		r.With(h.Limiter.Middleware).Post("/login", h.login)
		r.Post("/logout", h.logout)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)

			r.Get("/profile", h.getProfile)
			r.Post("/profile", h.updateProfile)
			r.Get("/travellers", h.listTravellers)
			r.Get("/travellers/search", h.searchTravellers)

			r.Route("/destinations", func(r chi.Router) {
				r.Get("/", h.listDestinations)
				r.Post("/", h.createDestination)
				r.Get("/{id}", h.getDestination)
				r.Post("/{id}", h.updateDestination)
				r.Post("/{id}/delete", h.deleteDestination)
				r.Post("/{id}/follow", h.followDestination)
				r.Post("/{id}/unfollow", h.unfollowDestination)
				r.Post("/{id}/requests", h.requestTagChange)
			})

			r.Route("/trips", func(r chi.Router) {
				r.Get("/", h.listTrips)
				r.Post("/", h.createTrip)
				r.Get("/{id}", h.getTrip)
				r.Post("/{id}/delete", h.deleteTrip)
			})

			r.Route("/artists", func(r chi.Router) {
				r.Get("/", h.listArtists)
				r.Post("/", h.createArtist)
				r.Get("/search", h.searchArtists)
				r.Get("/{id}", h.getArtist)
				r.Post("/{id}", h.updateArtist)
				r.Post("/{id}/delete", h.deleteArtist)
				r.Post("/{id}/leave", h.leaveArtist)
			})

			r.Route("/treasure", func(r chi.Router) {
				r.Get("/", h.listHunts)
				r.Post("/", h.createHunt)
				r.Post("/{id}", h.updateHunt)
				r.Post("/{id}/delete", h.deleteHunt)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(requireAdmin)

				r.Get("/", h.dashboard)
				r.Get("/export.xlsx", h.export)
				r.Post("/undo", h.undo)

				r.Post("/profiles", h.adminCreateProfile)
				r.Post("/profiles/{id}", h.adminUpdateProfile)
				r.Post("/profiles/{id}/delete", h.adminDeleteProfile)
				r.Post("/profiles/{id}/admin", h.grantAdmin)
				r.Post("/profiles/{id}/admin/remove", h.revokeAdmin)

				r.Post("/destinations", h.adminCreateDestination)
				r.Post("/destinations/{id}", h.adminUpdateDestination)
				r.Post("/destinations/{id}/delete", h.adminDeleteDestination)

				r.Post("/trips/{id}/delete", h.adminDeleteTrip)

				r.Post("/hunts", h.adminCreateHunt)
				r.Post("/hunts/{id}/edit", h.adminUpdateHunt)
				r.Post("/hunts/{id}/delete", h.adminDeleteHunt)

				r.Post("/changes/{id}/accept", h.acceptChange)
				r.Post("/changes/{id}/reject", h.rejectChange)

				r.Post("/artists/{id}/verify", h.verifyArtist)
				r.Post("/artists/{id}/delete", h.adminDeleteArtist)
			})
		})
	})
}
