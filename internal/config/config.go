package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Engine   EngineConfig   `mapstructure:"engine"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains the local persistence settings.
type DatabaseConfig struct {
	// Path is the sqlite database file path; ":memory:" is accepted for
	// ephemeral runs.
	Path string `mapstructure:"path" validate:"required"`
}

// RemoteConfig contains the remote snapshot store settings. An empty
// BaseURL disables remote synchronization entirely; the engine then runs
// local-only.
type RemoteConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout time.Duration `mapstructure:"timeout"  validate:"min=0"`
}

// EngineConfig contains the learning-progress engine tunables.
type EngineConfig struct {
	// Language is the learner context this instance serves.
	Language string `mapstructure:"language" validate:"required"`

	// ContextKey distinguishes persisted state entries sharing a language.
	ContextKey string `mapstructure:"context_key" validate:"required"`

	// DebounceWindow is the quiet period after the last merge before a
	// remote push is attempted.
	DebounceWindow time.Duration `mapstructure:"debounce_window" validate:"required,min=1ms"`

	// StoreCap bounds the persisted record count; oldest records beyond the
	// cap are evicted on persist. Zero disables the cap.
	StoreCap int `mapstructure:"store_cap" validate:"min=0"`

	// LessonSize caps the working set of one revision pass.
	LessonSize int `mapstructure:"lesson_size" validate:"required,gt=0"`

	// XPPerMastered is the experience awarded per truly mastered item.
	XPPerMastered int `mapstructure:"xp_per_mastered" validate:"required,gt=0"`

	// ReconcileInterval is the period of the background remote pull.
	// Zero disables periodic reconciliation.
	ReconcileInterval time.Duration `mapstructure:"reconcile_interval" validate:"min=0"`
}
