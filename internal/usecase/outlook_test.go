package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"RateWatch/internal/domain/models"
	"RateWatch/internal/services/fedwatch"
	"RateWatch/pkg/logger"
	"RateWatch/pkg/metrics"
)

type fakeCalendar struct {
	meetings []time.Time
	source   models.DataSource
}

func (f *fakeCalendar) AllMeetings(_ context.Context) []time.Time { return f.meetings }

func (f *fakeCalendar) UpcomingMeetings(_ context.Context, count int) []time.Time {
	if count > len(f.meetings) {
		count = len(f.meetings)
	}
	return f.meetings[:count]
}

func (f *fakeCalendar) NextMeeting(_ context.Context) (time.Time, bool) {
	if len(f.meetings) == 0 {
		return time.Time{}, false
	}
	return f.meetings[0], true
}

func (f *fakeCalendar) DaysUntilNextMeeting(_ context.Context) (int, bool) {
	return 7, len(f.meetings) > 0
}

func (f *fakeCalendar) Source() models.DataSource { return f.source }

type fakeMarket struct {
	quotes []models.FuturesQuote
	band   models.TargetRateBand
	source models.DataSource
	hist   *models.HistoricalPrices
}

func (f *fakeMarket) FuturesPrices(_ context.Context) ([]models.FuturesQuote, error) {
	return f.quotes, nil
}

func (f *fakeMarket) TargetRate(_ context.Context) (models.TargetRateBand, models.DataSource) {
	return f.band, f.source
}

func (f *fakeMarket) HistoricalFutures(_ context.Context, _ []string, _ int) (*models.HistoricalPrices, error) {
	return f.hist, nil
}

func ptr(v float64) *float64 { return &v }

func newTestOutlook(t *testing.T, cal *fakeCalendar, market *fakeMarket) *RateOutlookUseCase {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	rec := metrics.NewWithRegistry(prometheus.NewRegistry())
	return NewRateOutlookUseCase(cal, market, fedwatch.New(), rec, log)
}

func testFixtures() (*fakeCalendar, *fakeMarket) {
	cal := &fakeCalendar{
		meetings: []time.Time{
			time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 7, 30, 0, 0, 0, 0, time.UTC),
		},
		source: models.SourceLive,
	}
	market := &fakeMarket{
		quotes: []models.FuturesQuote{
			{Contract: "ZQK25.CBT", Month: 5, Year: 2025, Price: 95.67, ImpliedRate: 4.33},
			{Contract: "ZQM25.CBT", Month: 6, Year: 2025, Price: 95.595, ImpliedRate: 4.405},
			{Contract: "ZQN25.CBT", Month: 7, Year: 2025, Price: 95.52, ImpliedRate: 4.48},
		},
		band:   models.TargetRateBand{Lower: 4.25, Upper: 4.50},
		source: models.SourceLive,
	}
	return cal, market
}

func TestMeetings(t *testing.T) {
	cal, market := testFixtures()
	uc := newTestOutlook(t, cal, market)

	res := uc.Meetings(context.Background())
	if len(res.Meetings) != 2 || res.Meetings[0] != "2025-06-16" {
		t.Fatalf("meetings = %v", res.Meetings)
	}
	if !res.HasNextMeeting || res.DaysUntilNext != 7 {
		t.Fatalf("next meeting fields wrong: %+v", res)
	}
	if res.Source != models.SourceLive {
		t.Fatalf("source = %s", res.Source)
	}
}

func TestProbabilities(t *testing.T) {
	cal, market := testFixtures()
	uc := newTestOutlook(t, cal, market)

	res, err := uc.Probabilities(context.Background(), 8)
	if err != nil {
		t.Fatalf("Probabilities: %v", err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(res.Rows))
	}
	if res.BandSource != models.SourceLive || res.CalendarSource != models.SourceLive {
		t.Fatalf("provenance wrong: %+v", res)
	}
	if len(res.Buckets) == 0 {
		t.Fatal("no buckets in response")
	}
}

func TestProbabilitiesEmptyWithoutQuotes(t *testing.T) {
	cal, market := testFixtures()
	market.quotes = nil
	uc := newTestOutlook(t, cal, market)

	res, err := uc.Probabilities(context.Background(), 8)
	if err != nil {
		t.Fatalf("Probabilities: %v", err)
	}
	if len(res.Rows) != 0 {
		t.Fatalf("expected empty table, got %d rows", len(res.Rows))
	}
}

func TestPath(t *testing.T) {
	cal, market := testFixtures()
	uc := newTestOutlook(t, cal, market)

	res, err := uc.Path(context.Background(), 8)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if len(res.Points) != 2 {
		t.Fatalf("got %d points, want 2", len(res.Points))
	}
	// The June meeting prices a 60% hike on top of a 4.375 midpoint.
	first := res.Points[0]
	if first.Rate < 4.375 || first.Rate > 4.625 {
		t.Fatalf("first path rate %.4f outside [4.375, 4.625]", first.Rate)
	}
}

func TestEvolution(t *testing.T) {
	cal, market := testFixtures()
	market.hist = &models.HistoricalPrices{
		Dates: []string{"2025-05-01", "2025-05-02"},
		Series: map[string][]*float64{
			"ZQM25.CBT": {ptr(95.625), ptr(95.625)},
		},
	}
	uc := newTestOutlook(t, cal, market)

	res, err := uc.Evolution(context.Background(), "2025-06-16", 90)
	if err != nil {
		t.Fatalf("Evolution: %v", err)
	}
	if res.Contract != "ZQM25.CBT" {
		t.Fatalf("contract = %q", res.Contract)
	}
	if len(res.Points) != 2 {
		t.Fatalf("got %d points, want 2", len(res.Points))
	}
	if len(res.Outcomes) != 7 {
		t.Fatalf("got %d outcome labels, want 7", len(res.Outcomes))
	}
}

func TestEvolutionRejectsUnknownMeeting(t *testing.T) {
	cal, market := testFixtures()
	uc := newTestOutlook(t, cal, market)

	if _, err := uc.Evolution(context.Background(), "2025-06-17", 90); err == nil {
		t.Fatal("expected error for a date with no meeting")
	}
	if _, err := uc.Evolution(context.Background(), "not-a-date", 90); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestEvolutionEmptyHistory(t *testing.T) {
	cal, market := testFixtures()
	market.hist = &models.HistoricalPrices{}
	uc := newTestOutlook(t, cal, market)

	res, err := uc.Evolution(context.Background(), "2025-06-16", 90)
	if err != nil {
		t.Fatalf("Evolution: %v", err)
	}
	if len(res.Points) != 0 {
		t.Fatalf("expected no points, got %d", len(res.Points))
	}
}
