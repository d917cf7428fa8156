package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cleanupEnv := func() {
		os.Unsetenv("MONITO_SERVER_PORT")
		os.Unsetenv("MONITO_SERVER_ENVIRONMENT")
		os.Unsetenv("MONITO_DATABASE_URL")
		os.Unsetenv("MONITO_MEILI_URL")
		os.Unsetenv("MONITO_MEILI_API_KEY")
		os.Unsetenv("MONITO_MEILI_INDEX")
		os.Unsetenv("MONITO_AI_BASE_URL")
		os.Unsetenv("MONITO_AI_API_KEY")
		os.Unsetenv("MONITO_MATCHING_MIN_SAVING_PCT")
		os.Unsetenv("MONITO_MATCHING_FRESHNESS_WINDOW")
		os.Unsetenv("MONITO_MATCHING_MIN_SCORE")
		os.Unsetenv("MONITO_LOG_LEVEL")
		os.Unsetenv("MIN_SAVING_PCT")
	}

	t.Run("loads with defaults when only the database URL is set", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MONITO_DATABASE_URL", "postgres://localhost/monito")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Meili.URL != "http://localhost:7700" {
			t.Errorf("Meili.URL = %s, want http://localhost:7700", cfg.Meili.URL)
		}
		if cfg.Meili.Index != "products" {
			t.Errorf("Meili.Index = %s, want products", cfg.Meili.Index)
		}
		if cfg.Matching.MinSavingPct != 5 {
			t.Errorf("Matching.MinSavingPct = %v, want 5", cfg.Matching.MinSavingPct)
		}
		if cfg.Matching.FreshnessWindow != 168*time.Hour {
			t.Errorf("Matching.FreshnessWindow = %v, want 168h", cfg.Matching.FreshnessWindow)
		}
		if cfg.Matching.MinScore != 30 {
			t.Errorf("Matching.MinScore = %d, want 30", cfg.Matching.MinScore)
		}
		if cfg.Matching.BetterDealsCap != 3 {
			t.Errorf("Matching.BetterDealsCap = %d, want 3", cfg.Matching.BetterDealsCap)
		}
		if cfg.AI.CacheTTL != 24*time.Hour {
			t.Errorf("AI.CacheTTL = %v, want 24h", cfg.AI.CacheTTL)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MONITO_DATABASE_URL", "postgres://db:5432/catalog")
		os.Setenv("MONITO_SERVER_PORT", "9090")
		os.Setenv("MONITO_SERVER_ENVIRONMENT", "production")
		os.Setenv("MONITO_MEILI_URL", "http://meili:7700")
		os.Setenv("MONITO_MEILI_API_KEY", "meili-key")
		os.Setenv("MONITO_AI_BASE_URL", "https://ai.example.com")
		os.Setenv("MONITO_MATCHING_FRESHNESS_WINDOW", "24h")
		os.Setenv("MONITO_MATCHING_MIN_SCORE", "50")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Database.URL != "postgres://db:5432/catalog" {
			t.Errorf("Database.URL = %s, want postgres://db:5432/catalog", cfg.Database.URL)
		}
		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Meili.APIKey != "meili-key" {
			t.Errorf("Meili.APIKey = %s, want meili-key", cfg.Meili.APIKey)
		}
		if cfg.AI.BaseURL != "https://ai.example.com" {
			t.Errorf("AI.BaseURL = %s, want https://ai.example.com", cfg.AI.BaseURL)
		}
		if cfg.Matching.FreshnessWindow != 24*time.Hour {
			t.Errorf("Matching.FreshnessWindow = %v, want 24h", cfg.Matching.FreshnessWindow)
		}
		if cfg.Matching.MinScore != 50 {
			t.Errorf("Matching.MinScore = %d, want 50", cfg.Matching.MinScore)
		}
	})

	t.Run("bare MIN_SAVING_PCT overrides the default", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MONITO_DATABASE_URL", "postgres://localhost/monito")
		os.Setenv("MIN_SAVING_PCT", "12.5")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Matching.MinSavingPct != 12.5 {
			t.Errorf("Matching.MinSavingPct = %v, want 12.5", cfg.Matching.MinSavingPct)
		}
	})

	t.Run("fails without a database URL", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Fatal("Load() error = nil, want missing database URL error")
		}
	})

	t.Run("rejects out-of-range min saving pct", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MONITO_DATABASE_URL", "postgres://localhost/monito")
		os.Setenv("MIN_SAVING_PCT", "250")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Fatal("Load() error = nil, want range error")
		}
	})

	t.Run("rejects out-of-range min score", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MONITO_DATABASE_URL", "postgres://localhost/monito")
		os.Setenv("MONITO_MATCHING_MIN_SCORE", "150")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Fatal("Load() error = nil, want range error")
		}
	})
}
