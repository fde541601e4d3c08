package models

import "time"

// MeetingRow is one meeting's probability distribution over rate buckets,
// keyed by bucket label (e.g. "425-450"), values in percent.
type MeetingRow struct {
	Meeting string             `json:"meeting"`
	Date    time.Time          `json:"date"`
	Probs   map[string]float64 `json:"probs"`
}

// ProbabilityTable is the engine output: ordered bucket labels (columns)
// and one row per meeting with a usable futures contract.
type ProbabilityTable struct {
	Buckets []string     `json:"buckets"`
	Rows    []MeetingRow `json:"rows"`
}

// Empty reports whether the table carries no rows.
func (t *ProbabilityTable) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// ImpliedPathPoint is the probability-weighted expected rate at one meeting.
type ImpliedPathPoint struct {
	Meeting string    `json:"meeting"`
	Date    time.Time `json:"date"`
	Rate    float64   `json:"rate"`
}

// EvolutionPoint is one historical trading day's outcome-bucket distribution
// for a single selected meeting, values in percent.
type EvolutionPoint struct {
	Date     time.Time          `json:"date"`
	Outcomes map[string]float64 `json:"outcomes"`
}
