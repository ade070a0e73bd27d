package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"github.com/codevibe-de/offer-assistant/internal/config"
	"github.com/codevibe-de/offer-assistant/internal/core/ports"
	"github.com/codevibe-de/offer-assistant/internal/core/usecase"
	"github.com/codevibe-de/offer-assistant/internal/infrastructure/llm/anthropic"
	"github.com/codevibe-de/offer-assistant/internal/infrastructure/mailparse"
	"github.com/codevibe-de/offer-assistant/internal/infrastructure/repository/postgres"
	"github.com/codevibe-de/offer-assistant/internal/infrastructure/resilience"
	"github.com/codevibe-de/offer-assistant/internal/observability/metrics"
)

const serviceName = "offer-assistant-api"

type App struct {
	Config    config.Config
	Metrics   *metrics.HTTPServerMetrics
	Extractor ports.InquiryExtractor

	closeFn func()
}

// New wires the pipeline. The taxonomy store is the only optional
// dependency: when it is unreachable at startup the service still comes up
// and every request runs with an empty taxonomy.
func New(_ context.Context, cfg config.Config) (*App, error) {
	m := metrics.NewHTTPServerMetrics(serviceName)

	var catalog ports.RiskTypeCatalog
	closeFn := func() {}
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		slog.Warn("taxonomy store unavailable, risk type enrichment disabled", "error", err)
	} else {
		catalog = postgres.NewRiskTypeRepository(db)
		closeFn = func() { _ = db.Close() }
	}

	executor := resilience.NewExecutor(breakerConfig(cfg))
	model := anthropic.New(anthropic.Config{
		BaseURL:    cfg.AnthropicBaseURL,
		APIKey:     cfg.AnthropicAPIKey,
		Version:    cfg.AnthropicVersion,
		Model:      cfg.ExtractionModel,
		MaxTokens:  cfg.MaxOutputTokens,
		Timeout:    time.Duration(cfg.ModelTimeoutSeconds) * time.Second,
		RatePerSec: cfg.ModelRatePerSec,
		RateBurst:  cfg.ModelRateBurst,
	}, executor)

	parser := mailparse.New(mailparse.NewMSGDecoder())
	extractor := usecase.NewExtractInquiryUseCase(parser, catalog, model, slog.Default(), m)

	return &App{
		Config:    cfg,
		Metrics:   m,
		Extractor: extractor,
		closeFn:   closeFn,
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// breakerConfig translates the flat service config into breaker settings.
// Negative values clamp to zero so the normalizer applies its defaults instead
// of the uint conversion wrapping into an untrippable threshold.
func breakerConfig(cfg config.Config) resilience.Config {
	minCalls := cfg.BreakerMinCalls
	if minCalls < 0 {
		minCalls = 0
	}
	openSeconds := cfg.BreakerOpenSeconds
	if openSeconds < 0 {
		openSeconds = 0
	}
	return resilience.Config{
		BreakerEnabled:     cfg.BreakerEnabled,
		BreakerMinRequests: uint32(minCalls),
		BreakerOpenTimeout: time.Duration(openSeconds) * time.Second,
	}
}
