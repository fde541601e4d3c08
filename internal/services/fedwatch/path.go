package fedwatch

import "RateWatch/internal/domain/models"

// ImpliedRatePath reduces each meeting's distribution to its
// probability-weighted expected rate. Rows whose labels cannot be parsed or
// that carry no mass are skipped.
func (e *Engine) ImpliedRatePath(table *models.ProbabilityTable) []models.ImpliedPathPoint {
	if table == nil || table.Empty() {
		return nil
	}

	path := make([]models.ImpliedPathPoint, 0, len(table.Rows))
	for _, row := range table.Rows {
		weighted := 0.0
		total := 0.0
		for _, label := range table.Buckets {
			p := row.Probs[label]
			if p <= 0 {
				continue
			}
			mid, ok := labelMidpoint(label)
			if !ok {
				continue
			}
			weighted += mid * p
			total += p
		}
		if total <= 0 {
			continue
		}
		path = append(path, models.ImpliedPathPoint{
			Meeting: row.Meeting,
			Date:    row.Date,
			Rate:    round4(weighted / total),
		})
	}
	return path
}
