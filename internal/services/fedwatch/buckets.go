package fedwatch

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"RateWatch/internal/domain/models"
)

// grid is the fixed 25bp bucket axis a probability table is computed over.
// Buckets are target-range bands labeled in basis points, "425-450" meaning
// 4.25%-4.50%; state vectors index into it by position.
type grid struct {
	buckets []string
	// lower bound of bucket 0, in percent
	base float64
	step float64
}

// buildGrid spans the observed implied rates with one step of padding on
// each side, so chained mass has room to move before falling off the edge.
func buildGrid(rates []float64, step float64) *grid {
	minRate, maxRate := rates[0], rates[0]
	for _, r := range rates[1:] {
		if r < minRate {
			minRate = r
		}
		if r > maxRate {
			maxRate = r
		}
	}
	minRate -= 1.0
	maxRate += 1.0

	base := float64(int(minRate/step)-1) * step
	top := float64(int(maxRate/step)+2) * step

	g := &grid{base: base, step: step}
	for low := base; low < top-1e-9; low += step {
		g.buckets = append(g.buckets, bucketLabel(low, step))
	}
	return g
}

func bucketLabel(low, step float64) string {
	return fmt.Sprintf("%d-%d", int(math.Round(low*100)), int(math.Round((low+step)*100)))
}

// indexOf returns the bucket whose center is nearest to rate, clamped to
// the grid. The current midpoint always sits on a bucket center in
// practice; the clamp guards off-grid inputs.
func (g *grid) indexOf(rate float64) int {
	firstCenter := g.base + g.step/2
	idx := int(math.Round((rate - firstCenter) / g.step))
	if idx < 0 {
		return 0
	}
	if idx >= len(g.buckets) {
		return len(g.buckets) - 1
	}
	return idx
}

// snapshot renders the chained state as a display row: rounded to a tenth
// of a percent, renormalized when pruning and edge loss push the total
// visibly away from 100.
func (g *grid) snapshot(state []float64) map[string]float64 {
	probs := make(map[string]float64, len(g.buckets))
	total := 0.0
	for i, label := range g.buckets {
		p := round1(state[i])
		probs[label] = p
		total += p
	}
	if total > 0 && math.Abs(total-100.0) > 0.5 {
		factor := 100.0 / total
		for label, p := range probs {
			probs[label] = round1(p * factor)
		}
	}
	return probs
}

// dropZeroColumns removes buckets no meeting assigns mass to, both from the
// returned bucket list and from every row.
func dropZeroColumns(g *grid, rows []models.MeetingRow) []string {
	kept := make([]string, 0, len(g.buckets))
	for _, label := range g.buckets {
		nonZero := false
		for _, row := range rows {
			if row.Probs[label] != 0 {
				nonZero = true
				break
			}
		}
		if nonZero {
			kept = append(kept, label)
			continue
		}
		for _, row := range rows {
			delete(row.Probs, label)
		}
	}
	return kept
}

// labelMidpoint recovers the bucket-center rate in percent from a label,
// e.g. "425-450" -> 4.375.
func labelMidpoint(label string) (float64, bool) {
	parts := strings.Split(label, "-")
	if len(parts) != 2 {
		return 0, false
	}
	low, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	high, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return float64(low+high) / 200.0, true
}
