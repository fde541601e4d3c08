package fedwatch

import (
	"math"
	"sort"
	"time"

	"RateWatch/internal/domain/models"
	"RateWatch/pkg/util"
)

// OutcomeLabels are the evolution chart's fixed action buckets, from deepest
// cut to steepest hike.
var OutcomeLabels = []string{
	"Cut 75bp+",
	"Cut 50bp",
	"Cut 25bp",
	"Hold",
	"Hike 25bp",
	"Hike 50bp",
	"Hike 75bp+",
}

// HistoricalProbabilities replays the single-meeting unwind against each
// day's closing price of the meeting-month contract, classifying the implied
// change from the current target midpoint into the fixed outcome buckets.
// The current midpoint stands in for the pre-meeting rate on every day, so
// early points are approximations of what the market believed then.
func (e *Engine) HistoricalProbabilities(
	meeting time.Time,
	hist *models.HistoricalPrices,
	band models.TargetRateBand,
	meetings []time.Time,
) []models.EvolutionPoint {
	if hist.Empty() {
		return nil
	}

	midpoint := band.Midpoint()
	month, year := int(meeting.Month()), meeting.Year()

	ticker := models.ContractTicker(month, year)
	closes, ok := hist.Series[ticker]
	if !ok {
		return nil
	}

	nm, ny := util.NextMonth(month, year)
	nextCloses, hasNext := hist.Series[models.ContractTicker(nm, ny)]

	totalDays := util.DaysInMonth(year, month)
	preDays := meeting.Day() - 1
	postDays := totalDays - preDays
	lateMonth := postDays <= lateMonthPostDays

	points := make([]models.EvolutionPoint, 0, len(hist.Dates))
	for i, dateStr := range hist.Dates {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		date, ok := util.ParseDate(dateStr)
		if !ok {
			continue
		}
		implied := 100.0 - *closes[i]

		var ePost float64
		switch {
		case postDays <= 0 || lateMonth:
			if hasNext && i < len(nextCloses) && nextCloses[i] != nil {
				ePost = 100.0 - *nextCloses[i]
			} else {
				ePost = implied
			}
		default:
			ePost = (implied*float64(totalDays) - midpoint*float64(preDays)) / float64(postDays)
		}

		changeBp := int(math.Round((ePost - midpoint) * 100))
		points = append(points, models.EvolutionPoint{
			Date:     date,
			Outcomes: classifyRateChange(changeBp),
		})
	}

	sort.Slice(points, func(a, b int) bool {
		return points[a].Date.Before(points[b].Date)
	})
	return points
}

// classifyRateChange spreads an implied change (in basis points from the
// current midpoint) across adjacent outcome buckets by linear interpolation
// between the 25bp action levels. Boundaries sit halfway between actions,
// at +/-12, 37 and 62 bp.
func classifyRateChange(changeBp int) map[string]float64 {
	outcomes := make(map[string]float64, len(OutcomeLabels))
	for _, label := range OutcomeLabels {
		outcomes[label] = 0.0
	}

	bp := float64(changeBp)
	switch {
	case changeBp <= -62:
		outcomes["Cut 75bp+"] = 100.0
	case changeBp <= -37:
		frac := (bp + 37.0) / -25.0
		outcomes["Cut 75bp+"] = round1(frac * 100.0)
		outcomes["Cut 50bp"] = round1((1.0 - frac) * 100.0)
	case changeBp <= -12:
		frac := (bp + 12.0) / -25.0
		outcomes["Cut 50bp"] = round1(frac * 100.0)
		outcomes["Cut 25bp"] = round1((1.0 - frac) * 100.0)
	case changeBp <= 12:
		frac := (bp + 12.0) / 24.0
		outcomes["Cut 25bp"] = round1((1.0 - frac) * 100.0)
		outcomes["Hold"] = round1(frac * 100.0)
	case changeBp <= 37:
		frac := (bp - 12.0) / 25.0
		outcomes["Hold"] = round1((1.0 - frac) * 100.0)
		outcomes["Hike 25bp"] = round1(frac * 100.0)
	case changeBp <= 62:
		frac := (bp - 37.0) / 25.0
		outcomes["Hike 25bp"] = round1((1.0 - frac) * 100.0)
		outcomes["Hike 50bp"] = round1(frac * 100.0)
	default:
		outcomes["Hike 75bp+"] = 100.0
	}
	return outcomes
}
