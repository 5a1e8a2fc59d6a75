package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/noah-isme/school-lms/internal/cli"
	"github.com/noah-isme/school-lms/internal/config"
	"github.com/noah-isme/school-lms/internal/database"
	"github.com/noah-isme/school-lms/internal/logger"
	"github.com/noah-isme/school-lms/internal/observability"
	"github.com/noah-isme/school-lms/internal/service"
	"github.com/noah-isme/school-lms/internal/storage"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("lms", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file (default ./lms.yaml when present)")
	reset := fs.Bool("reset", false, "delete the database before starting")
	metrics := fs.Bool("metrics", false, "print lms metrics to stderr after the command")
	user := fs.String("u", "", "The username to log in as. The password will be prompted next.")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	log := logger.New(cfg.LogLevel, cfg.LogPretty)
	observability.RegisterMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.OpenFile(cfg.DatabasePath, cfg.DatabaseReset || *reset, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to open database")
		return 1
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn().Err(err).Msg("failed to close database")
		}
	}()

	if err := database.SeedDefaultUsers(ctx, db, service.HashPassword); err != nil {
		log.Error().Err(err).Msg("failed to seed default users")
		return 1
	}

	store, err := storage.NewLocalStore(cfg.SubmissionsDir, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to prepare submission storage")
		return 1
	}

	svc := cli.NewServices(db, store, cli.Options{
		ReminderInterval:   cfg.ReminderInterval,
		ReminderWindowDays: cfg.ReminderWindowDays,
	}, log)
	commandLine := cli.New(svc, os.Stdout, log)

	rest := fs.Args()
	if *user != "" {
		rest = append([]string{"-u", *user}, rest...)
	}

	code := 0
	if err := commandLine.Run(ctx, rest); err != nil {
		if errors.Is(err, cli.ErrHelp) {
			code = 2
		} else {
			fmt.Fprintf(os.Stderr, "error: %s\n", cli.Describe(err))
			code = 1
		}
	}

	if *metrics {
		if err := observability.WriteText(os.Stderr); err != nil {
			log.Warn().Err(err).Msg("failed to write metrics")
		}
	}
	return code
}
