package usecase

import (
	"context"
	"fmt"
	"time"

	"RateWatch/internal/domain/models"
	domrepo "RateWatch/internal/domain/repository"
	domsvc "RateWatch/internal/domain/service"
	"RateWatch/internal/services/fedwatch"
	xhttp "RateWatch/pkg/http"
	"RateWatch/pkg/logger"
	"RateWatch/pkg/util"
)

// RateOutlookUseCase composes the meeting calendar, the futures market data
// and the probability engine into the outlook views served over HTTP.
type RateOutlookUseCase struct {
	calendar domrepo.MeetingCalendar
	market   domrepo.MarketData
	engine   domsvc.ProbabilityEngine
	metrics  domrepo.Metrics
	log      *logger.Logger
}

func NewRateOutlookUseCase(
	calendar domrepo.MeetingCalendar,
	market domrepo.MarketData,
	engine domsvc.ProbabilityEngine,
	metrics domrepo.Metrics,
	log *logger.Logger,
) *RateOutlookUseCase {
	return &RateOutlookUseCase{
		calendar: calendar,
		market:   market,
		engine:   engine,
		metrics:  metrics,
		log:      log,
	}
}

// Meetings lists every known decision date with calendar provenance.
func (uc *RateOutlookUseCase) Meetings(ctx context.Context) *models.MeetingsResponse {
	all := uc.calendar.AllMeetings(ctx)
	labels := make([]string, 0, len(all))
	for _, m := range all {
		labels = append(labels, m.Format("2006-01-02"))
	}

	days, hasNext := uc.calendar.DaysUntilNextMeeting(ctx)
	return &models.MeetingsResponse{
		Meetings:       labels,
		Source:         uc.calendar.Source(),
		DaysUntilNext:  days,
		HasNextMeeting: hasNext,
	}
}

// Probabilities computes the probability table over the next count meetings.
// Missing market data yields an empty table, not an error.
func (uc *RateOutlookUseCase) Probabilities(ctx context.Context, count int) (*models.ProbabilitiesResponse, error) {
	started := time.Now()
	defer func() {
		uc.metrics.RecordLatency("probabilities", time.Since(started).Seconds())
	}()

	meetings := uc.calendar.UpcomingMeetings(ctx, count)
	band, bandSource := uc.market.TargetRate(ctx)

	quotes, err := uc.market.FuturesPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("futures prices: %w", err)
	}

	table := uc.engine.MeetingProbabilities(quotes, band, meetings)
	if table.Empty() {
		uc.log.Warn("probability table empty",
			logger.Int("quotes", len(quotes)),
			logger.Int("meetings", len(meetings)))
	}

	buckets := table.Buckets
	if buckets == nil {
		buckets = []string{}
	}
	rows := table.Rows
	if rows == nil {
		rows = []models.MeetingRow{}
	}

	return &models.ProbabilitiesResponse{
		Band:           band,
		BandSource:     bandSource,
		CalendarSource: uc.calendar.Source(),
		Buckets:        buckets,
		Rows:           rows,
	}, nil
}

// Path computes the probability-weighted expected rate at each of the next
// count meetings.
func (uc *RateOutlookUseCase) Path(ctx context.Context, count int) (*models.PathResponse, error) {
	started := time.Now()
	defer func() {
		uc.metrics.RecordLatency("path", time.Since(started).Seconds())
	}()

	meetings := uc.calendar.UpcomingMeetings(ctx, count)
	band, _ := uc.market.TargetRate(ctx)

	quotes, err := uc.market.FuturesPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("futures prices: %w", err)
	}

	table := uc.engine.MeetingProbabilities(quotes, band, meetings)
	points := uc.engine.ImpliedRatePath(table)
	if points == nil {
		points = []models.ImpliedPathPoint{}
	}

	return &models.PathResponse{Band: band, Points: points}, nil
}

// Evolution replays how the outcome distribution for one meeting moved over
// the lookback window. The meeting must be a known decision date.
func (uc *RateOutlookUseCase) Evolution(ctx context.Context, meetingDate string, lookbackDays int) (*models.EvolutionResponse, error) {
	started := time.Now()
	defer func() {
		uc.metrics.RecordLatency("evolution", time.Since(started).Seconds())
	}()

	meeting, ok := util.ParseDate(meetingDate)
	if !ok {
		return nil, xhttp.BadRequestErrorf("invalid meeting date %q", meetingDate)
	}

	all := uc.calendar.AllMeetings(ctx)
	if !containsDate(all, meeting) {
		return nil, xhttp.NotFoundErrorf("no meeting scheduled on %s", meetingDate)
	}

	band, _ := uc.market.TargetRate(ctx)

	// The meeting-month contract drives the unwind; late-month meetings
	// borrow the following month's contract.
	month, year := int(meeting.Month()), meeting.Year()
	nm, ny := util.NextMonth(month, year)
	contracts := []string{
		models.ContractTicker(month, year),
		models.ContractTicker(nm, ny),
	}

	hist, err := uc.market.HistoricalFutures(ctx, contracts, lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("historical futures: %w", err)
	}

	points := uc.engine.HistoricalProbabilities(meeting, hist, band, all)
	if points == nil {
		points = []models.EvolutionPoint{}
	}

	return &models.EvolutionResponse{
		Meeting:  util.MeetingLabel(meeting),
		Contract: contracts[0],
		Band:     band,
		Outcomes: fedwatch.OutcomeLabels,
		Points:   points,
	}, nil
}

func containsDate(dates []time.Time, d time.Time) bool {
	for _, x := range dates {
		if x.Year() == d.Year() && x.YearDay() == d.YearDay() {
			return true
		}
	}
	return false
}
