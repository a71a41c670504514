package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/shared"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &Runner{cfg: cfg}
	app := &cli.Command{
		Name:     "travelctl",
		Usage:    "Operator tasks for the travel planner",
		Commands: r.register(),
	}
	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("travelctl failed")
	}
}
