package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Meili    MeiliConfig
	AI       AIConfig
	Matching MatchingConfig
	Log      LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds the catalog database configuration
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// MeiliConfig holds the search index configuration
type MeiliConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
	Index  string `mapstructure:"index"`
}

// AIConfig holds the standardizer API configuration
type AIConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// MatchingConfig holds the engine's tunables
type MatchingConfig struct {
	MinSavingPct    float64       `mapstructure:"min_saving_pct"`
	FreshnessWindow time.Duration `mapstructure:"freshness_window"`
	MinScore        int           `mapstructure:"min_score"`
	BetterDealsCap  int           `mapstructure:"better_deals_cap"`
	MaxConcurrency  int           `mapstructure:"max_concurrency"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/monito/")

	v.SetEnvPrefix("MONITO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// MIN_SAVING_PCT predates the MONITO_ prefix and is still what
	// deployments set, so bind it explicitly.
	_ = v.BindEnv("matching.min_saving_pct", "MIN_SAVING_PCT", "MONITO_MATCHING_MIN_SAVING_PCT")

	// Keys without defaults need explicit binds for Unmarshal to see them.
	_ = v.BindEnv("database.url")
	_ = v.BindEnv("meili.api_key")
	_ = v.BindEnv("ai.base_url")
	_ = v.BindEnv("ai.api_key")

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("meili.url", "http://localhost:7700")
	v.SetDefault("meili.index", "products")

	v.SetDefault("ai.cache_ttl", "24h")

	v.SetDefault("matching.min_saving_pct", 5.0)
	v.SetDefault("matching.freshness_window", "168h")
	v.SetDefault("matching.min_score", 30)
	v.SetDefault("matching.better_deals_cap", 3)
	v.SetDefault("matching.max_concurrency", 8)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "logs/server.log")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Database.URL == "" {
		return fmt.Errorf("database URL is required (set MONITO_DATABASE_URL)")
	}
	if config.Matching.MinSavingPct < 0 || config.Matching.MinSavingPct > 100 {
		return fmt.Errorf("min saving pct must be within [0,100], got: %v", config.Matching.MinSavingPct)
	}
	if config.Matching.MinScore < 0 || config.Matching.MinScore > 100 {
		return fmt.Errorf("min score must be within [0,100], got: %d", config.Matching.MinScore)
	}
	if config.Matching.FreshnessWindow <= 0 {
		return fmt.Errorf("freshness window must be positive, got: %s", config.Matching.FreshnessWindow)
	}
	return nil
}
