package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally a config
// file. Environment variables take precedence over values from config
// files. Returns a populated Config struct or an error if loading or
// validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config.yaml in the working directory; absence is fine.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables: PARLONS_SERVER_PORT, PARLONS_ENGINE_LANGUAGE, ...
	v.SetEnvPrefix("PARLONS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.path", "data/parlons.db")
	v.SetDefault("remote.base_url", "")
	v.SetDefault("remote.timeout", 10*time.Second)
	v.SetDefault("engine.language", "fr")
	v.SetDefault("engine.context_key", "default")
	v.SetDefault("engine.debounce_window", 5*time.Second)
	v.SetDefault("engine.store_cap", 3000)
	v.SetDefault("engine.lesson_size", 5)
	v.SetDefault("engine.xp_per_mastered", 15)
	v.SetDefault("engine.reconcile_interval", time.Hour)
}
