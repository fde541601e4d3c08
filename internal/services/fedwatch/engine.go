// Package fedwatch converts fed-funds futures prices into probability
// distributions over policy-rate outcomes, CME FedWatch style: unwind the
// blended monthly average around each decision date, decompose the expected
// change onto the 25bp grid, and forward-chain the resulting action
// probabilities through every meeting in order.
package fedwatch

import (
	"math"
	"time"

	"RateWatch/internal/domain/models"
	domsvc "RateWatch/internal/domain/service"
	"RateWatch/pkg/util"
)

const (
	// RateStep is the policy action grid, 25bp.
	RateStep = 0.25

	// pruneThreshold drops branches carrying less than 0.01% mass so the
	// chained state cannot grow without bound across many meetings.
	pruneThreshold = 0.01

	// lateMonthPostDays: with a week or less of post-meeting days, the
	// monthly average carries too little signal to unwind.
	lateMonthPostDays = 7
)

type Engine struct {
	step  float64
	prune float64
}

func New() *Engine {
	return &Engine{step: RateStep, prune: pruneThreshold}
}

// MeetingProbabilities computes the bucket-probability table for the given
// meetings. Meetings must be chronologically ordered; a meeting whose month
// has no contract is skipped, not an error.
func (e *Engine) MeetingProbabilities(
	quotes []models.FuturesQuote,
	band models.TargetRateBand,
	meetings []time.Time,
) *models.ProbabilityTable {
	if len(quotes) == 0 || len(meetings) == 0 {
		return &models.ProbabilityTable{}
	}

	midpoint := band.Midpoint()

	// (month, year) -> implied rate
	lookup := make(map[monthKey]float64, len(quotes))
	for _, q := range quotes {
		lookup[monthKey{q.Month, q.Year}] = q.ImpliedRate
	}

	// Bucket grid bounds depend on the snapshot, not on a global constant.
	rates := make([]float64, 0, len(lookup)+1)
	for _, r := range lookup {
		rates = append(rates, r)
	}
	rates = append(rates, midpoint)
	grid := buildGrid(rates, e.step)

	// Initial EFFR: the contract for the month preceding the first meeting
	// approximates the realized rate before any decision happens.
	pm, py := util.PrevMonth(int(meetings[0].Month()), meetings[0].Year())
	ePre, ok := lookup[monthKey{pm, py}]
	if !ok {
		ePre = midpoint
	}

	// The evolving distribution lives on the bucket grid: one mass per
	// bucket center, starting as a point mass at the current midpoint.
	state := make([]float64, len(grid.buckets))
	state[grid.indexOf(midpoint)] = 100.0

	rows := make([]models.MeetingRow, 0, len(meetings))

	for _, meeting := range meetings {
		key := monthKey{int(meeting.Month()), meeting.Year()}
		implied, ok := lookup[key]
		if !ok {
			continue
		}

		totalDays := util.DaysInMonth(key.year, key.month)
		preDays := meeting.Day() - 1
		postDays := totalDays - preDays

		// Expected post-meeting rate.
		var ePost float64
		if postDays <= lateMonthPostDays {
			nm, ny := util.NextMonth(key.month, key.year)
			if next, ok := lookup[monthKey{nm, ny}]; ok {
				ePost = next
			} else {
				// No information; assume hold.
				ePost = implied
			}
		} else {
			// Unwind the blended monthly average: the contract prices the
			// average of pre-meeting days at ePre and post-meeting days at
			// the rate we are solving for.
			ePost = (implied*float64(totalDays) - ePre*float64(preDays)) / float64(postDays)
		}

		// Decompose the expected change onto the action grid.
		change := ePost - ePre
		lowerSteps := int(math.Floor(change / e.step))
		pUpper := (change - float64(lowerSteps)*e.step) / e.step

		// Futures noise can push change outside a single 25bp step.
		pUpper = math.Max(0.0, math.Min(1.0, pUpper))

		state = chainStep(state, lowerSteps, pUpper, e.prune)

		rows = append(rows, models.MeetingRow{
			Meeting: util.MeetingLabel(meeting),
			Date:    meeting,
			Probs:   grid.snapshot(state),
		})

		ePre = ePost
	}

	if len(rows) == 0 {
		return &models.ProbabilityTable{}
	}

	return &models.ProbabilityTable{
		Buckets: dropZeroColumns(grid, rows),
		Rows:    rows,
	}
}

// chainStep branches every pre-meeting bucket into its two possible
// post-meeting buckets. Mass shifted off the grid edge is dropped; the row
// snapshot renormalizes. Branches below the prune threshold are skipped.
func chainStep(state []float64, lowerSteps int, pUpper, prune float64) []float64 {
	pLower := 1.0 - pUpper
	next := make([]float64, len(state))
	for i, mass := range state {
		if mass < prune {
			continue
		}
		lo := i + lowerSteps
		hi := lo + 1
		if lo >= 0 && lo < len(next) {
			next[lo] += mass * pLower
		}
		if hi >= 0 && hi < len(next) {
			next[hi] += mass * pUpper
		}
	}
	return next
}

type monthKey struct {
	month int
	year  int
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

var _ domsvc.ProbabilityEngine = (*Engine)(nil)
