package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/gantry/internal/cache"
	"github.com/alexanderramin/gantry/internal/cli"
	"github.com/alexanderramin/gantry/internal/config"
	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/repository"
	"github.com/alexanderramin/gantry/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Global flags decide which config, log level and database to use, so
	// they are read before the command tree is built.
	opts := cli.ParseGlobalFlags(os.Args[1:])
	cfg, err := config.LoadPath(opts.ConfigPath)
	if err != nil {
		return err
	}
	opts.Apply(cfg)

	logger, err := cli.NewLogger(os.Stderr, cfg)
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	logger.Debug("database opened", "path", cfg.DBPath)

	projectRepo := repository.NewSQLiteProjectRepo(database)
	activityRepo := repository.NewSQLiteActivityRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	chartCache, err := cache.Open(ctx, cache.Config{
		Backend: cfg.Cache.Backend,
		Dir:     cfg.Cache.Dir,
		URL:     cfg.Cache.URL,
		TTL:     cfg.Cache.TTL.Duration,
	})
	if err != nil {
		return fmt.Errorf("opening chart cache: %w", err)
	}
	defer chartCache.Close()

	observer := service.NewLoggerUseCaseObserver(logger)

	app := &cli.App{
		Projects:     service.NewProjectService(projectRepo),
		Activities:   service.NewActivityService(activityRepo),
		Dependencies: service.NewDependencyService(depRepo, uow),
		Schedule: service.NewScheduleService(activityRepo, depRepo, uow, service.ScheduleConfig{
			Grid:        cfg.GridConfig(),
			Layout:      cfg.Layout(),
			IdleTimeout: cfg.Editor.IdleTimeout.Duration,
			Cache:       chartCache,
			CacheTTL:    cfg.Cache.TTL.Duration,
		}, observer),
		Plans:  service.NewPlanService(projectRepo, activityRepo, depRepo, uow, observer),
		Config: cfg,
		Logger: logger,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.Execute(ctx, app)
}
