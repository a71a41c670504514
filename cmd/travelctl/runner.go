package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"travel_planner/internal/bootstrap"
	"travel_planner/internal/shared"
)

type Runner struct {
	cfg shared.Config
}

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "migrate",
			Usage:  "Apply the embedded database migrations",
			Action: r.Migrate,
		},
		{
			Name:  "create-admin",
			Usage: "Create the global admin account, or promote an existing one",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Value: r.cfg.GlobalAdminMail, Usage: "admin email"},
				&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "password for a new account"},
			},
			Action: r.CreateAdmin,
		},
		{
			Name:  "dedupe",
			Usage: "Merge private duplicates into every public destination",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Value: r.cfg.DedupeWorkers, Usage: "concurrent merges"},
			},
			Action: r.Dedupe,
		},
		{
			Name:  "export",
			Usage: "Write destinations and profiles to an xlsx workbook",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "travelea.xlsx", Usage: "output file"},
			},
			Action: r.Export,
		},
		{
			Name:   "purge-undo",
			Usage:  "Drop undo entries older than UNDO_MAX_AGE_MINUTES",
			Action: r.PurgeUndo,
		},
	}
}

func (r *Runner) services(ctx context.Context) (*bootstrap.Services, error) {
	return bootstrap.Build(ctx, r.cfg)
}

func (r *Runner) Migrate(ctx context.Context, cmd *cli.Command) error {
	cfg := r.cfg
	cfg.MigrateOnStart = true
	db, err := bootstrap.OpenDB(ctx, cfg)
	if err != nil {
		return err
	}
	return db.Close()
}

func (r *Runner) CreateAdmin(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()
	id, err := svc.Profiles.EnsureGlobalAdmin(ctx, cmd.String("email"), cmd.String("password"))
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Info().Int64("id", id).Str("email", cmd.String("email")).Msg("global admin ready")
	return nil
}

func (r *Runner) Dedupe(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()
	public, err := svc.Store.ListPublicDestinations(ctx)
	if err != nil {
		return err
	}
	ids := leaders(public)
	log.Info().Int("public", len(public)).Int("identities", len(ids)).Int("workers", cmd.Int("workers")).Msg("dedupe starting")
	res := sweep(ctx, svc.Destinations, ids, cmd.Int("workers"))
	log.Info().Int64("merged", res.merged).Int64("failed", res.failed).Msg("dedupe completed")
	if res.failed > 0 {
		return fmt.Errorf("%d destinations could not be swept", res.failed)
	}
	return nil
}

func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()
	b, err := svc.Admin.Export(ctx)
	if err != nil {
		return err
	}
	out := cmd.String("out")
	if err := os.WriteFile(out, b, 0o644); err != nil {
		return err
	}
	log.Info().Str("file", out).Int("bytes", len(b)).Msg("export written")
	return nil
}

func (r *Runner) PurgeUndo(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()
	n, err := svc.Undo.Purge(ctx, time.Now())
	if err != nil {
		return err
	}
	log.Info().Int64("purged", n).Msg("undo stack trimmed")
	return nil
}
