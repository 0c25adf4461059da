package config

import (
	"time"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler" validate:"required"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	Timezone        string        `mapstructure:"timezone" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	Driver         string `mapstructure:"driver" validate:"required,oneof=pgx sqlite3"`
	URL            string `mapstructure:"url" validate:"required"`
	MigrateOnStart bool   `mapstructure:"migrate_on_start"`
}

// SchedulerConfig selects the scheduling strategy and the daily caps.
type SchedulerConfig struct {
	Strategy         string `mapstructure:"strategy" validate:"required,oneof=binary fourgrade"`
	NewCardsPerDay   int    `mapstructure:"new_cards_per_day" validate:"gte=0"`
	MaxReviewsPerDay int    `mapstructure:"max_reviews_per_day" validate:"gte=0"`
	EnforceCaps      bool   `mapstructure:"enforce_caps"`
}

// MaintenanceConfig controls the background housekeeping jobs.
type MaintenanceConfig struct {
	// ReviewLogRetentionDays of 0 keeps the review log forever.
	ReviewLogRetentionDays int    `mapstructure:"review_log_retention_days" validate:"gte=0"`
	PruneAt                string `mapstructure:"prune_at" validate:"required,datetime=15:04"`
}

// Caps returns the daily throughput limits.
func (c SchedulerConfig) Caps() domain.Caps {
	return domain.Caps{
		NewCardsPerDay:   c.NewCardsPerDay,
		MaxReviewsPerDay: c.MaxReviewsPerDay,
	}
}

// Location resolves the configured timezone used to decide what "today" is.
func (c ServerConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
