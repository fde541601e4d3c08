package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"RateWatch/internal/domain/models"
	"RateWatch/internal/services/fedwatch"
	"RateWatch/internal/usecase"
	"RateWatch/pkg/logger"
	"RateWatch/pkg/metrics"
)

type stubCalendar struct {
	meetings []time.Time
}

func (s *stubCalendar) AllMeetings(_ context.Context) []time.Time { return s.meetings }

func (s *stubCalendar) UpcomingMeetings(_ context.Context, count int) []time.Time {
	if count > len(s.meetings) {
		count = len(s.meetings)
	}
	return s.meetings[:count]
}

func (s *stubCalendar) NextMeeting(_ context.Context) (time.Time, bool) {
	if len(s.meetings) == 0 {
		return time.Time{}, false
	}
	return s.meetings[0], true
}

func (s *stubCalendar) DaysUntilNextMeeting(_ context.Context) (int, bool) {
	return 3, len(s.meetings) > 0
}

func (s *stubCalendar) Source() models.DataSource { return models.SourceFallback }

type stubMarket struct{}

func (s *stubMarket) FuturesPrices(_ context.Context) ([]models.FuturesQuote, error) {
	return []models.FuturesQuote{
		{Contract: "ZQK25.CBT", Month: 5, Year: 2025, Price: 95.67, ImpliedRate: 4.33},
		{Contract: "ZQM25.CBT", Month: 6, Year: 2025, Price: 95.595, ImpliedRate: 4.405},
	}, nil
}

func (s *stubMarket) TargetRate(_ context.Context) (models.TargetRateBand, models.DataSource) {
	return models.TargetRateBand{Lower: 4.25, Upper: 4.50}, models.SourceFallback
}

func (s *stubMarket) HistoricalFutures(_ context.Context, _ []string, _ int) (*models.HistoricalPrices, error) {
	p := 95.625
	return &models.HistoricalPrices{
		Dates:  []string{"2025-05-01"},
		Series: map[string][]*float64{"ZQM25.CBT": {&p}},
	}, nil
}

func newTestHandler(t *testing.T) *OutlookHandler {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	cal := &stubCalendar{meetings: []time.Time{time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)}}
	uc := usecase.NewRateOutlookUseCase(
		cal, &stubMarket{}, fedwatch.New(),
		metrics.NewWithRegistry(prometheus.NewRegistry()), log,
	)
	return NewOutlookHandler(log, uc)
}

func doRequest(t *testing.T, h *OutlookHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type apiEnvelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestMeetingsEndpoint(t *testing.T) {
	rec := doRequest(t, newTestHandler(t), "/api/meetings")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var res models.MeetingsResponse
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(res.Meetings) != 1 || res.Meetings[0] != "2025-06-16" {
		t.Fatalf("meetings = %v", res.Meetings)
	}
	if res.Source != models.SourceFallback {
		t.Fatalf("source = %s", res.Source)
	}
}

func TestProbabilitiesEndpoint(t *testing.T) {
	rec := doRequest(t, newTestHandler(t), "/api/probabilities?count=4")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var res models.ProbabilitiesResponse
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(res.Rows))
	}
	if res.BandSource != models.SourceFallback {
		t.Fatalf("band source = %s", res.BandSource)
	}
}

func TestProbabilitiesEndpointRejectsBadCount(t *testing.T) {
	rec := doRequest(t, newTestHandler(t), "/api/probabilities?count=100")
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", env.Status)
	}
}

func TestPathEndpoint(t *testing.T) {
	rec := doRequest(t, newTestHandler(t), "/api/path")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var res models.PathResponse
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(res.Points) != 1 {
		t.Fatalf("got %d points, want 1", len(res.Points))
	}
}

func TestEvolutionEndpoint(t *testing.T) {
	rec := doRequest(t, newTestHandler(t), "/api/evolution?meeting=2025-06-16&lookback=30")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var res models.EvolutionResponse
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if res.Contract != "ZQM25.CBT" {
		t.Fatalf("contract = %q", res.Contract)
	}
	if len(res.Points) != 1 {
		t.Fatalf("got %d points, want 1", len(res.Points))
	}
}

func TestEvolutionEndpointRequiresMeeting(t *testing.T) {
	rec := doRequest(t, newTestHandler(t), "/api/evolution")
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", env.Status)
	}
}

func TestEvolutionEndpointUnknownMeeting(t *testing.T) {
	rec := doRequest(t, newTestHandler(t), "/api/evolution?meeting=2025-12-25")
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", env.Status)
	}
}
