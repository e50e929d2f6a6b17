package domain

import "time"

// Load tiers for a capacity profile, in evaluation precedence.
const (
	LoadNoActivity = "no_activity"
	LoadHigh       = "high"
	LoadLow        = "low"
	LoadNormal     = "normal"
	LoadUnknown    = "unknown"
)

// Availability tiers derived from load and baseline comparison.
const (
	AvailabilityAbsent     = "absent_today"
	AvailabilityNoData     = "no_data"
	AvailabilityFree       = "can_take_more"
	AvailabilityOverloaded = "overloaded"
	AvailabilityAtCapacity = "at_capacity"
)

// Releasable verdicts for reassignment decisions.
const (
	ReleasableAvailable = "available"
	ReleasableNo        = "no"
	ReleasableYes       = "yes"
	ReleasableDepends   = "depends_on_priorities"
)

// CapacityProfile is the per-member load assessment. Every non-bot channel
// member gets one, including members with zero messages today.
type CapacityProfile struct {
	UserID             string
	Name               string
	Load               string
	LoadDetail         string
	Availability       string
	AvailabilityDetail string
	Blockers           []string
	Releasable         string
	ReleasableDetail   string
	MessagesToday      int
}

// Health status tiers.
const (
	HealthExcellent = "excellent"
	HealthGood      = "good"
	HealthFair      = "fair"
	HealthCritical  = "critical"
)

// TeamHealthScore is the weighted combination of the five health components.
// OverallScore is a convex combination, so it stays in [0,100] when every
// component does.
type TeamHealthScore struct {
	OverallScore float64
	Status       string
	Components   map[string]float64
	Summary      string
}

// AnalysisReport is the persisted summary of one report run, keyed on
// channel and date.
type AnalysisReport struct {
	RunID           string
	ChannelID       string
	Date            time.Time
	TotalMessages   int
	ActiveUsers     int
	UpdatesCount    int
	DecisionsCount  int
	BlockersCount   int
	SentimentScore  float64
	TeamHealthScore float64
	Content         string
	Sent            bool
}
