package main

import (
	"github.com/rs/zerolog/log"

	"github.com/Enthusiasm-c/monito-web-sub006/config"
	httpDelivery "github.com/Enthusiasm-c/monito-web-sub006/internal/delivery/http"
	"github.com/Enthusiasm-c/monito-web-sub006/internal/domain"
	"github.com/Enthusiasm-c/monito-web-sub006/internal/infrastructure/ai"
	"github.com/Enthusiasm-c/monito-web-sub006/internal/infrastructure/cache"
	"github.com/Enthusiasm-c/monito-web-sub006/internal/infrastructure/catalog"
	"github.com/Enthusiasm-c/monito-web-sub006/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	config.SetupLogger(cfg.Log)

	log.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Msg("starting price comparison service")

	db, err := catalog.Connect(cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to the catalog database")
	}
	defer db.Close()
	store := catalog.NewStore(db)

	var index domain.SearchIndex
	if cfg.Meili.URL != "" {
		index = catalog.NewIndex(cfg.Meili.URL, cfg.Meili.APIKey, cfg.Meili.Index)
		log.Info().Str("url", cfg.Meili.URL).Str("index", cfg.Meili.Index).
			Msg("search index configured")
	} else {
		log.Warn().Msg("no search index configured, typo-tolerant retrieval disabled")
	}

	var standardizer domain.Standardizer
	if cfg.AI.BaseURL != "" {
		standardizer = cache.NewCachedStandardizer(
			ai.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey),
			cache.NewStandardizationCache(cfg.AI.CacheTTL),
		)
		log.Info().Str("url", cfg.AI.BaseURL).Dur("cache_ttl", cfg.AI.CacheTTL).
			Msg("standardizer configured")
	} else {
		log.Warn().Msg("no standardizer configured, AI fallback disabled")
	}

	comparisons := usecase.NewComparisonService(
		store,
		index,
		standardizer,
		store,
		usecase.DefaultModifierTable(),
		usecase.ComparisonConfig{
			MinMatchScore:  cfg.Matching.MinScore,
			MaxConcurrency: cfg.Matching.MaxConcurrency,
			Analyzer: usecase.PriceAnalyzerConfig{
				FreshnessWindow: cfg.Matching.FreshnessWindow,
				MinSavingPct:    cfg.Matching.MinSavingPct,
				DealsCap:        cfg.Matching.BetterDealsCap,
			},
		},
	)

	log.Info().
		Float64("min_saving_pct", cfg.Matching.MinSavingPct).
		Int("min_score", cfg.Matching.MinScore).
		Dur("freshness_window", cfg.Matching.FreshnessWindow).
		Msg("matching configured")

	handler := httpDelivery.NewHandler(comparisons)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := ":" + cfg.Server.Port
	log.Info().Str("addr", addr).Msg("server listening")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
