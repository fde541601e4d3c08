package models

// Requests for the rate-outlook HTTP endpoints. Defined in domain for consistency and reuse.

type ProbabilitiesRequest struct {
	Count int `query:"count" json:"count" default:"8" validate:"gte=1,lte=24"`
}

type PathRequest struct {
	Count int `query:"count" json:"count" default:"8" validate:"gte=1,lte=24"`
}

type EvolutionRequest struct {
	Meeting  string `query:"meeting" json:"meeting" validate:"required,datetime=2006-01-02"`
	Lookback int    `query:"lookback" json:"lookback" default:"90" validate:"gte=5,lte=365"`
}

// MeetingsResponse lists upcoming decision dates with calendar provenance.
type MeetingsResponse struct {
	Meetings       []string   `json:"meetings"`
	Source         DataSource `json:"source"`
	DaysUntilNext  int        `json:"days_until_next"`
	HasNextMeeting bool       `json:"has_next_meeting"`
}

// ProbabilitiesResponse is the per-meeting bucket probability table plus the
// inputs it was derived from.
type ProbabilitiesResponse struct {
	Band           TargetRateBand `json:"band"`
	BandSource     DataSource     `json:"band_source"`
	CalendarSource DataSource     `json:"calendar_source"`
	Buckets        []string       `json:"buckets"`
	Rows           []MeetingRow   `json:"rows"`
}

// PathResponse is the implied rate path across meetings.
type PathResponse struct {
	Band   TargetRateBand     `json:"band"`
	Points []ImpliedPathPoint `json:"points"`
}

// EvolutionResponse is the outcome-bucket time series for one meeting.
type EvolutionResponse struct {
	Meeting  string           `json:"meeting"`
	Contract string           `json:"contract"`
	Band     TargetRateBand   `json:"band"`
	Outcomes []string         `json:"outcomes"`
	Points   []EvolutionPoint `json:"points"`
}
