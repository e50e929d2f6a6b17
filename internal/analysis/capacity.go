package analysis

import (
	"pulse/internal/domain"
	"pulse/internal/lexicon"
)

const (
	maxBlockersPerMember  = 3
	highLoadFactor        = 1.5
	lowLoadFactor         = 0.5
	availabilityThreshold = 40.0
	releaseMessageLimit   = 3
)

// MemberActivity is the prepared input for one channel member: today's
// messages joined with the member's baseline comparison. The caller resolves
// names and fetches baselines; the capacity analyzer itself stays pure.
type MemberActivity struct {
	UserID        string
	Name          string
	MessagesToday int
	Baseline      *domain.Baseline
	Comparison    domain.Comparison
	Messages      []domain.Message
}

// Capacity builds the capacity profile for one member. Covers members with
// zero messages today, which land in the no-activity tier and never count as
// overloaded.
func (a *Analyzer) Capacity(member MemberActivity) domain.CapacityProfile {
	profile := domain.CapacityProfile{
		UserID:        member.UserID,
		Name:          member.Name,
		MessagesToday: member.MessagesToday,
	}

	switch {
	case member.MessagesToday == 0:
		profile.Load = domain.LoadNoActivity
		profile.LoadDetail = "did not participate today"
	case member.Baseline != nil && member.Comparison.HasBaseline:
		avg := member.Baseline.AvgMessagesPerDay
		switch {
		case float64(member.MessagesToday) > avg*highLoadFactor:
			profile.Load = domain.LoadHigh
			profile.LoadDetail = "activity significantly elevated"
		case float64(member.MessagesToday) < avg*lowLoadFactor:
			profile.Load = domain.LoadLow
			profile.LoadDetail = "reduced activity"
		default:
			profile.Load = domain.LoadNormal
			profile.LoadDetail = "within the usual range"
		}
	default:
		profile.Load = domain.LoadUnknown
		profile.LoadDetail = "no history"
	}

	switch {
	case member.MessagesToday == 0 && member.Comparison.HasBaseline:
		profile.Availability = domain.AvailabilityAbsent
		profile.AvailabilityDetail = "absent today - check availability"
	case member.MessagesToday == 0:
		profile.Availability = domain.AvailabilityNoData
		profile.AvailabilityDetail = "unknown - no data"
	case member.Comparison.Direction == domain.DirectionBelow && member.Comparison.DiffPercentage > availabilityThreshold:
		profile.Availability = domain.AvailabilityFree
		profile.AvailabilityDetail = "activity well below average, can take more"
	case member.Comparison.Direction == domain.DirectionAbove && member.Comparison.DiffPercentage > availabilityThreshold:
		profile.Availability = domain.AvailabilityOverloaded
		profile.AvailabilityDetail = "already overloaded, cannot take more"
	default:
		profile.Availability = domain.AvailabilityAtCapacity
		profile.AvailabilityDetail = "limited capacity, at the usual level"
	}

	var blockers []string
	for _, msg := range member.Messages {
		if a.lex.Matches(msg.Text, lexicon.Blocker) {
			blockers = append(blockers, prefix(msg.Text, blockerContextLimit))
		}
	}
	if len(blockers) > maxBlockersPerMember {
		blockers = blockers[:maxBlockersPerMember]
	}
	hasBlockers := len(blockers) > 0
	profile.Blockers = blockers
	if !hasBlockers {
		profile.Blockers = []string{"none detected"}
	}
	switch {
	case member.MessagesToday == 0:
		profile.Releasable = domain.ReleasableAvailable
		profile.ReleasableDetail = "no activity detected"
	case hasBlockers:
		profile.Releasable = domain.ReleasableNo
		profile.ReleasableDetail = "has active blockers"
	case member.MessagesToday < releaseMessageLimit:
		profile.Releasable = domain.ReleasableYes
		profile.ReleasableDetail = "low activity, can be reassigned"
	default:
		profile.Releasable = domain.ReleasableDepends
		profile.ReleasableDetail = "possible, depends on priorities"
	}

	return profile
}
