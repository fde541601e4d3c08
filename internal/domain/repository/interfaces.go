package repository

import (
	"context"
	"time"

	"RateWatch/internal/domain/models"
)

// MarketData supplies futures quotes, the current target band, and historical
// futures series, each behind a time-bounded cache.
type MarketData interface {
	// FuturesPrices returns a snapshot of all relevant contracts. An empty
	// slice (not an error) means no usable quotes.
	FuturesPrices(ctx context.Context) ([]models.FuturesQuote, error)

	// TargetRate never fails: on any upstream problem it returns the
	// configured fallback band with SourceFallback.
	TargetRate(ctx context.Context) (models.TargetRateBand, models.DataSource)

	// HistoricalFutures returns daily close series for the given contracts
	// over the lookback window.
	HistoricalFutures(ctx context.Context, contracts []string, lookbackDays int) (*models.HistoricalPrices, error)
}

// MeetingCalendar resolves policy decision dates. The first call may fetch
// from the live publisher; afterwards results are served from memory.
type MeetingCalendar interface {
	UpcomingMeetings(ctx context.Context, count int) []time.Time
	AllMeetings(ctx context.Context) []time.Time
	NextMeeting(ctx context.Context) (time.Time, bool)
	DaysUntilNextMeeting(ctx context.Context) (int, bool)
	Source() models.DataSource
}

// Metrics records operational counters for the service.
type Metrics interface {
	RecordFetch(kind string)
	RecordError(kind string)
	RecordCache(kind string, hit bool)
	RecordFallback(component string)
	RecordImpliedRate(contract string, rate float64)
	RecordLatency(op string, seconds float64)
}
