package di

import (
	"fmt"

	"RateWatch/internal/domain/repository"
	domsvc "RateWatch/internal/domain/service"
	"RateWatch/internal/handler/api"
	"RateWatch/internal/service/fomc"
	"RateWatch/internal/service/marketdata"
	"RateWatch/internal/service/ratelimit"
	"RateWatch/internal/services/fedwatch"
	"RateWatch/internal/usecase"
	"RateWatch/pkg/cache"
	"RateWatch/pkg/config"
	xhttp "RateWatch/pkg/http"
	applogger "RateWatch/pkg/logger"
	"RateWatch/pkg/metrics"
	"RateWatch/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache picks the cache backend: memory-over-Redis when Redis is
// configured, plain in-process memory otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}

	return cache.NewLayeredCache(rc), nil
}

// ProvideCalendar creates the meeting calendar resolver.
func ProvideCalendar(cfg *config.Config, log *applogger.Logger, m repository.Metrics) repository.MeetingCalendar {
	client := xhttp.NewClient(
		xhttp.WithTimeout(cfg.Calendar.Timeout),
		xhttp.WithUserAgent(userAgent),
	)
	return fomc.NewResolver(cfg.Calendar.URL, client, log, m)
}

// ProvideMarketData creates the futures and target-rate client.
func ProvideMarketData(cfg *config.Config, c cache.Service, log *applogger.Logger, m repository.Metrics) repository.MarketData {
	client := xhttp.NewClient(
		xhttp.WithTimeout(cfg.MarketData.Timeout),
		xhttp.WithUserAgent(userAgent),
	)
	return marketdata.NewClient(cfg, client, c, ratelimit.New(), log, m)
}

// ProvideEngine creates the probability engine.
func ProvideEngine() domsvc.ProbabilityEngine {
	return fedwatch.New()
}

// ProvideOutlook creates the rate-outlook use case.
func ProvideOutlook(
	calendar repository.MeetingCalendar,
	market repository.MarketData,
	engine domsvc.ProbabilityEngine,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.RateOutlookUseCase {
	return usecase.NewRateOutlookUseCase(calendar, market, engine, m, log)
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(log *applogger.Logger, outlook *usecase.RateOutlookUseCase) xhttp.Handler {
	return api.NewOutlookHandler(log, outlook)
}

// ProvideApp assembles the application and registers cache shutdown.
func ProvideApp(cfg *config.Config, log *applogger.Logger, handler xhttp.Handler, c cache.Service) *server.App {
	app := server.New(cfg, log, handler)
	if closer, ok := c.(interface{ Close() error }); ok {
		app.AddCloser(closer.Close)
	}
	return app
}

// Market-data publishers reject requests without a browser-like agent.
const userAgent = "Mozilla/5.0 (compatible; RateWatch/1.0)"
