package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "travel_planner/internal/adapters/http_server"
	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/adapters/session"
	"travel_planner/internal/bootstrap"
	"travel_planner/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	observability.Serve(cfg.MetricsAddr)

	svc, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	defer svc.Close()

	if _, err := svc.Profiles.EnsureGlobalAdmin(ctx, cfg.GlobalAdminMail, cfg.GlobalAdminPass); err != nil {
		log.Warn().Err(err).Str("email", cfg.GlobalAdminMail).
			Msg("global admin missing; set GLOBAL_ADMIN_PASSWORD or run travelctl create-admin")
	}

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Auth:         svc.Auth,
		Profiles:     svc.Profiles,
		Destinations: svc.Destinations,
		Changes:      svc.Changes,
		Trips:        svc.Trips,
		Artists:      svc.Artists,
		Hunts:        svc.Hunts,
		Undo:         svc.Undo,
		Admin:        svc.Admin,
		Sessions:     session.NewManager(cfg.SessionSecret, cfg.SessionTTL),
		Limiter:      server.NewLoginLimiter(cfg.LoginRPS, cfg.LoginBurst),
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("storage", cfg.Storage).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
