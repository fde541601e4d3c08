package service

import (
	"time"

	"RateWatch/internal/domain/models"
)

// ProbabilityEngine turns futures-implied rates into policy-rate outcome
// probabilities.
type ProbabilityEngine interface {
	// MeetingProbabilities forward-chains a distribution over rate buckets
	// through the given meetings.
	MeetingProbabilities(quotes []models.FuturesQuote, band models.TargetRateBand, meetings []time.Time) *models.ProbabilityTable

	// ImpliedRatePath collapses each meeting row into a probability-weighted
	// expected rate.
	ImpliedRatePath(table *models.ProbabilityTable) []models.ImpliedPathPoint

	// HistoricalProbabilities replays the unwind math day-by-day for one
	// meeting over a historical price window.
	HistoricalProbabilities(meeting time.Time, hist *models.HistoricalPrices, band models.TargetRateBand, meetings []time.Time) []models.EvolutionPoint
}
