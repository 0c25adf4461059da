package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nadezdatsygankova/my-english-trainer/internal/config"
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain/srs"
	"github.com/nadezdatsygankova/my-english-trainer/internal/platform/database"
	"github.com/nadezdatsygankova/my-english-trainer/internal/platform/logger"
	"github.com/nadezdatsygankova/my-english-trainer/internal/service"
	"github.com/nadezdatsygankova/my-english-trainer/internal/service/review"
	"github.com/nadezdatsygankova/my-english-trainer/internal/store"
	"github.com/nadezdatsygankova/my-english-trainer/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	db       *sqlx.DB
	location *time.Location
	now      func() time.Time

	// Stores
	cardStore      store.CardStore
	reviewLogStore store.ReviewLogStore
	countersStore  store.CountersStore

	// Services
	scheduler     srs.Scheduler
	cardService   service.CardService
	reviewService review.Service

	maintenance *task.Maintenance
}

// bootstrap loads configuration, sets up logging and opens the database.
// The caller owns the returned application and must call cleanup.
func bootstrap(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("driver", cfg.Database.Driver),
		slog.String("strategy", cfg.Scheduler.Strategy))

	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

// newApplication wires stores, the scheduler and the services on top of an
// open database connection.
func newApplication(cfg *config.Config, log *slog.Logger, db *sqlx.DB) (*application, error) {
	loc, err := cfg.Server.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Server.Timezone, err)
	}

	app := &application{
		config:   cfg,
		logger:   log,
		db:       db,
		location: loc,
		now:      time.Now,
	}

	app.cardStore = database.NewCardStore(db, log)
	app.reviewLogStore = database.NewReviewLogStore(db, log)
	app.countersStore = database.NewCountersStore(db, log)

	strategy, err := srs.ParseStrategy(cfg.Scheduler.Strategy)
	if err != nil {
		return nil, err
	}
	app.scheduler, err = srs.New(strategy, srs.NewDefaultParams())
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	app.cardService, err = service.NewCardService(
		db,
		app.cardStore,
		service.CardServiceOptions{Location: loc, Now: app.now},
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}

	app.reviewService = review.NewService(
		db,
		app.cardStore,
		app.reviewLogStore,
		app.countersStore,
		app.scheduler,
		review.Options{
			Caps:          cfg.Scheduler.Caps(),
			EnforceCaps:   cfg.Scheduler.EnforceCaps,
			Location:      loc,
			Now:           app.now,
			RetentionDays: cfg.Maintenance.ReviewLogRetentionDays,
		},
		log,
	)

	app.maintenance, err = task.NewMaintenance(
		task.MaintenanceConfig{RunAt: cfg.Maintenance.PruneAt, Location: loc},
		log,
		app.maintenanceJobs()...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create maintenance scheduler: %w", err)
	}

	log.Info("application initialized",
		slog.String("strategy", string(app.scheduler.Strategy())),
		slog.String("timezone", loc.String()))
	return app, nil
}

func (app *application) maintenanceJobs() []task.Job {
	return []task.Job{
		task.PruneReviewLogJob(
			app.reviewLogStore,
			app.config.Maintenance.ReviewLogRetentionDays,
			task.NewClock(app.now, app.location),
			app.logger,
		),
		task.ReportBacklogJob(app.reviewService, app.logger),
	}
}

// migrateOnStart applies pending migrations when configured to do so.
func (app *application) migrateOnStart(ctx context.Context) error {
	if !app.config.Database.MigrateOnStart {
		return nil
	}
	return database.Migrate(ctx, app.db, database.MigrateUp, app.logger)
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.maintenance != nil {
		app.maintenance.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
