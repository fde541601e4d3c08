package models

// DataSource tells a consumer where a piece of market data came from, so
// fallback paths stay observable instead of silently blending with live data.
type DataSource string

const (
	SourceLive     DataSource = "live"
	SourceFallback DataSource = "fallback"
	SourceNone     DataSource = "none"
)

// FuturesQuote is one fed-funds futures contract snapshot.
// ImpliedRate = 100 - Price.
type FuturesQuote struct {
	Contract    string  `json:"contract"`
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	Price       float64 `json:"price"`
	ImpliedRate float64 `json:"implied_rate"`
}

// TargetRateBand is the policy target range in percent, e.g. (4.25, 4.50).
type TargetRateBand struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Midpoint is the only value the probability engine consumes from the band.
func (b TargetRateBand) Midpoint() float64 {
	return (b.Lower + b.Upper) / 2.0
}

// HistoricalPrices holds daily close series for a set of contracts, aligned
// on a shared ascending date axis. A nil entry means no trade that day.
type HistoricalPrices struct {
	Dates  []string              `json:"dates"` // ISO dates, ascending
	Series map[string][]*float64 `json:"series"`
}

// Empty reports whether the series carries no usable data.
func (h *HistoricalPrices) Empty() bool {
	return h == nil || len(h.Dates) == 0 || len(h.Series) == 0
}
