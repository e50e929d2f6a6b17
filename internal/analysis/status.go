package analysis

import (
	"fmt"

	"pulse/internal/domain"
	"pulse/internal/lexicon"
)

// Project status tiers.
const (
	StatusBlocked   = "blocked"
	StatusDelayed   = "delayed"
	StatusFastTrack = "fast_track"
	StatusOnTrack   = "on_track"
)

// Time sensitivity tiers.
const (
	SensitivityTimeSensitive = "time_sensitive"
	SensitivityNormal        = "non_time_sensitive"
)

// Resource-need tiers.
const (
	ResourcesAvailable = "capacity_available"
	ResourcesNeeded    = "needs_resources"
	ResourcesAdequate  = "adequate"
	ResourcesUnknown   = "unknown"
)

// Thresholds for the status state machine.
const (
	blockedCountThreshold     = 2
	delayedCountThreshold     = 1
	sensitivityCountThreshold = 3
	fastTrackFactor           = 1.5
	lowActivityFactor         = 0.6
	highActivityFactor        = 1.3
)

// StatusResult is the three independent classifications of project state.
type StatusResult struct {
	Status          string `json:"status"`
	StatusText      string `json:"status_text"`
	Sensitivity     string `json:"sensitivity"`
	SensitivityText string `json:"sensitivity_text"`
	Resources       string `json:"resources"`
	ResourcesText   string `json:"resources_text"`
}

// Summarize implements Signal.
func (r StatusResult) Summarize() string {
	return fmt.Sprintf("status %s, %s, resources %s", r.Status, r.Sensitivity, r.Resources)
}

// ProjectStatus classifies the project from keyword counts across all
// messages, with strict precedence: blocked beats delayed beats fast-track
// beats on-track. Sensitivity and resource need are classified independently.
func (a *Analyzer) ProjectStatus(messages []domain.Message, channelBaseline *domain.Baseline) StatusResult {
	var delayedCount, blockedCount, sensitivityCount int
	for _, msg := range messages {
		if a.lex.Matches(msg.Text, lexicon.Delayed) {
			delayedCount++
		}
		if a.lex.Matches(msg.Text, lexicon.BlockedStatus) {
			blockedCount++
		}
		if a.lex.Matches(msg.Text, lexicon.Sensitivity) {
			sensitivityCount++
		}
	}

	volume := float64(len(messages))
	var result StatusResult

	switch {
	case blockedCount > blockedCountThreshold:
		result.Status = StatusBlocked
		result.StatusText = "BLOCKED - needs immediate attention"
	case delayedCount > delayedCountThreshold:
		result.Status = StatusDelayed
		result.StatusText = "DELAYED - corrective action needed"
	case channelBaseline != nil && volume > channelBaseline.AvgMessagesPerDay*fastTrackFactor:
		result.Status = StatusFastTrack
		result.StatusText = "FAST TRACK - above the expected pace"
	default:
		result.Status = StatusOnTrack
		result.StatusText = "ON TRACK - normal progress"
	}

	if sensitivityCount > sensitivityCountThreshold {
		result.Sensitivity = SensitivityTimeSensitive
		result.SensitivityText = "TIME SENSITIVE - multiple deadlines/clients mentioned"
	} else {
		result.Sensitivity = SensitivityNormal
		result.SensitivityText = "NOT CRITICAL - no time pressure detected"
	}

	switch {
	case channelBaseline == nil:
		result.Resources = ResourcesUnknown
		result.ResourcesText = "UNKNOWN - no history to compare against"
	case volume < channelBaseline.AvgMessagesPerDay*lowActivityFactor:
		result.Resources = ResourcesAvailable
		result.ResourcesText = "CAPACITY AVAILABLE - activity below average"
	case volume > channelBaseline.AvgMessagesPerDay*highActivityFactor:
		result.Resources = ResourcesNeeded
		result.ResourcesText = "NEEDS MORE RESOURCES - activity well above average"
	default:
		result.Resources = ResourcesAdequate
		result.ResourcesText = "ADEQUATE RESOURCES - activity within the normal range"
	}

	return result
}
