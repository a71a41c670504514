// Package bootstrap wires storage, cache and services from the configuration
// for the api and travelctl binaries.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"travel_planner/internal/adapters/countries"
	redisad "travel_planner/internal/adapters/redis"
	"travel_planner/internal/app"
	"travel_planner/internal/domain"
	"travel_planner/internal/shared"
	"travel_planner/internal/storage/memory"
	mysqlrepo "travel_planner/internal/storage/mysql"
)

type Services struct {
	Store        domain.Store
	DB           *sql.DB // nil for the memory store
	Auth         *app.AuthService
	Profiles     *app.ProfileService
	Destinations *app.DestinationService
	Changes      *app.ChangeService
	Trips        *app.TripService
	Artists      *app.ArtistService
	Hunts        *app.HuntService
	Undo         *app.UndoService
	Admin        *app.AdminService

	closers []func() error
}

// OpenDB connects to MySQL and applies migrations when configured to.
func OpenDB(ctx context.Context, cfg shared.Config) (*sql.DB, error) {
	db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	log.Info().Msg("database connection ok")
	if cfg.MigrateOnStart {
		if err := mysqlrepo.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info().Msg("migrations applied")
	}
	return db, nil
}

func Build(ctx context.Context, cfg shared.Config) (*Services, error) {
	s := &Services{}

	switch cfg.Storage {
	case "memory":
		log.Warn().Msg("using in-memory storage; data is lost on exit")
		s.Store = memory.New()
	case "mysql":
		db, err := OpenDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s.DB = db
		s.Store = mysqlrepo.New(db)
		s.closers = append(s.closers, db.Close)
	default:
		return nil, fmt.Errorf("unknown STORAGE %q (want mysql or memory)", cfg.Storage)
	}

	// stays a nil interface when redis is off; services check for nil
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, caching disabled")
			_ = rc.Close()
		} else {
			cache = rc
			s.closers = append(s.closers, rc.Close)
		}
	}

	var client domain.CountryClient
	if cfg.CountriesBase != "" {
		c, err := countries.New(cfg.CountriesBase, cfg.CountriesRPS)
		if err != nil {
			s.Close()
			return nil, err
		}
		client = c
	}

	countrySvc := app.NewCountryService(client, cache, cfg.CacheTTL)
	s.Destinations = app.NewDestinationService(s.Store, countrySvc, cache, cfg.CacheTTL)
	s.Undo = app.NewUndoService(s.Store, s.Destinations, cfg.UndoMaxAge)
	s.Auth = app.NewAuthService(s.Store)
	s.Profiles = app.NewProfileService(s.Store, countrySvc)
	s.Changes = app.NewChangeService(s.Store, s.Destinations)
	s.Trips = app.NewTripService(s.Store, s.Destinations)
	s.Artists = app.NewArtistService(s.Store, countrySvc)
	s.Hunts = app.NewHuntService(s.Store)
	s.Admin = app.NewAdminService(s.Store, s.Undo, s.Destinations)
	return s, nil
}

func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}
	s.closers = nil
}
