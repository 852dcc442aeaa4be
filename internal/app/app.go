package app

import (
	"context"
	"fmt"
	"time"

	"foretime/internal/config"
	"foretime/internal/database"
	"foretime/internal/infrastructure/logging"
	"foretime/internal/repository"
	"foretime/internal/services"
	"foretime/internal/web"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 30 * time.Second
)

// App owns the full component graph: database, repository, tracker and
// the dashboard web server. It is built once from a Config and driven
// by Startup/Shutdown.
type App struct {
	cfg       *config.Config
	logger    logging.Logger
	dbService database.Service
	tracker   *services.Tracker
	siteInfo  *services.SiteInfoScraper
	server    *web.Server
}

// NewApp builds the application from configuration. Database failures are
// not fatal here: when the store cannot be opened the tracker runs in
// memory only and the health endpoint reports storage as unavailable.
func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	logger, err := logging.NewZapLogger(cfg.LogDevelopment)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	a := &App{cfg: cfg, logger: logger}

	repo := a.openStorage(cfg)

	a.tracker = services.NewTracker(repo, nil, nil, services.TrackerConfig{
		TickInterval:  cfg.TickInterval,
		FlushInterval: cfg.FlushInterval,
		Retention:     cfg.Retention(),
		RecentLimit:   cfg.RecentLimit,
	}, logger)
	a.siteInfo = services.NewSiteInfoScraper()

	var health web.HealthChecker
	if a.dbService != nil {
		health = a.dbService.Health
	}
	a.server = web.NewServer(cfg.Listen, a.tracker, a.siteInfo, health, logger)

	return a, nil
}

// openStorage connects and migrates the SQLite store. On any failure it
// logs, discards the service and returns a nil repository so tracking
// continues without persistence.
func (a *App) openStorage(cfg *config.Config) repository.UsageRepository {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	dbService := database.NewSQLiteService(a.logger)
	if err := dbService.Connect(ctx, database.ConfigForPath(cfg.DBPath)); err != nil {
		a.logger.Error("Database unavailable, tracking in memory only",
			"path", cfg.DBPath, "error", err.Error())
		return nil
	}
	if err := dbService.Migrate(ctx); err != nil {
		a.logger.Error("Database migration failed, tracking in memory only",
			"path", cfg.DBPath, "error", err.Error())
		dbService.Close()
		return nil
	}

	a.dbService = dbService
	return repository.NewSQLiteRepository(dbService, a.logger)
}

// Startup starts the tracker and binds the web server.
func (a *App) Startup(ctx context.Context) error {
	a.tracker.Start(ctx)

	if err := a.server.Start(); err != nil {
		a.tracker.Stop()
		return fmt.Errorf("start web server: %w", err)
	}

	a.logger.Info("Application started",
		"listen", a.server.Addr(),
		"db_path", a.cfg.DBPath,
		"persistence", a.dbService != nil)

	if a.cfg.OpenBrowser {
		web.OpenDashboard(a.server.Addr(), a.logger)
	}
	return nil
}

// Shutdown stops the tracker (which performs a final flush), shuts the
// web server down and closes the database.
func (a *App) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.tracker.Stop()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Warn("Web server shutdown failed", "error", err.Error())
	}

	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.logger.Warn("Database close failed", "error", err.Error())
		}
	}

	a.logger.Info("Application stopped")
}

// Addr returns the bound listen address once Startup has succeeded.
func (a *App) Addr() string {
	return a.server.Addr()
}
