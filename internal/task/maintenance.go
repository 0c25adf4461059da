package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// DefaultJobTimeout bounds a single job run.
const DefaultJobTimeout = 5 * time.Minute

// Job is one named housekeeping step.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// MaintenanceConfig holds configuration for the maintenance scheduler
type MaintenanceConfig struct {
	// RunAt is the local wall-clock time ("15:04") at which jobs run daily.
	RunAt string

	// Location decides the wall clock RunAt refers to.
	Location *time.Location

	// JobTimeout bounds a single job run. Zero uses DefaultJobTimeout.
	JobTimeout time.Duration
}

// Maintenance schedules jobs once a day. Runs of the same job never overlap.
type Maintenance struct {
	scheduler  *gocron.Scheduler
	jobs       []Job
	config     MaintenanceConfig
	logger     *slog.Logger
	errHandler func(job Job, err error)

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool
}

// NewMaintenance creates a scheduler for jobs. Start must be called to
// schedule them.
func NewMaintenance(config MaintenanceConfig, logger *slog.Logger, jobs ...Job) (*Maintenance, error) {
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultJobTimeout
	}
	if _, err := time.Parse("15:04", config.RunAt); err != nil {
		return nil, fmt.Errorf("invalid maintenance time %q: %w", config.RunAt, err)
	}
	for _, j := range jobs {
		if j.Name == "" || j.Run == nil {
			return nil, errors.New("maintenance job needs a name and a run function")
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "maintenance"))

	s := gocron.NewScheduler(config.Location)
	s.SingletonModeAll()

	return &Maintenance{
		scheduler: s,
		jobs:      jobs,
		config:    config,
		logger:    logger,
		errHandler: func(job Job, err error) {
			logger.Error("maintenance job failed",
				slog.String("job", job.Name),
				slog.String("error", err.Error()))
		},
	}, nil
}

// SetErrorHandler allows setting a custom error handler function
func (m *Maintenance) SetErrorHandler(handler func(job Job, err error)) {
	m.errHandler = handler
}

// Start schedules every job daily at the configured time and starts the
// scheduler in the background. Cancelling ctx cancels running jobs but does
// not stop the scheduler; call Stop for that.
func (m *Maintenance) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return errors.New("maintenance already started")
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	for _, job := range m.jobs {
		job := job
		if _, err := m.scheduler.Every(1).Day().At(m.config.RunAt).Tag(job.Name).Do(func() {
			_ = m.execute(runCtx, job)
		}); err != nil {
			m.cancel()
			m.scheduler.Clear()
			return fmt.Errorf("failed to schedule job %s: %w", job.Name, err)
		}
	}

	m.scheduler.StartAsync()
	m.started = true

	_, next := m.scheduler.NextRun()
	m.logger.Info("maintenance scheduled",
		slog.Int("jobs", len(m.jobs)),
		slog.String("run_at", m.config.RunAt),
		slog.Time("next_run", next))
	return nil
}

// Stop stops the scheduler and cancels running jobs.
func (m *Maintenance) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return
	}
	m.cancel()
	m.scheduler.Stop()
	m.started = false
	m.logger.Info("maintenance stopped")
}

// RunNow runs every job once, in order, and returns the joined errors.
func (m *Maintenance) RunNow(ctx context.Context) error {
	var errs []error
	for _, job := range m.jobs {
		if err := m.execute(ctx, job); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", job.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Maintenance) execute(ctx context.Context, job Job) error {
	ctx, cancel := context.WithTimeout(ctx, m.config.JobTimeout)
	defer cancel()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		m.errHandler(job, err)
		return err
	}
	m.logger.Debug("maintenance job finished",
		slog.String("job", job.Name),
		slog.Duration("duration", time.Since(start)))
	return nil
}
