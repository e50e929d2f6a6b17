package analysis

import (
	"fmt"
	"strings"

	"pulse/internal/lexicon"
)

// Urgency tiers in strict precedence order.
const (
	UrgencyCritical = "critical"
	UrgencyHigh     = "high"
	UrgencyMedium   = "medium"
	UrgencyLow      = "low"
)

// Tier scores are fixed per tier.
const (
	urgencyScoreCritical = 100
	urgencyScoreHigh     = 75
	urgencyScoreMedium   = 50
	urgencyScoreLow      = 25
)

// UrgencyResult classifies a single text blob into an urgency tier.
type UrgencyResult struct {
	Level     string   `json:"urgency_level"`
	Score     int      `json:"score"`
	Reasoning []string `json:"reasoning"`
	Summary   string   `json:"summary"`
}

// Summarize implements Signal.
func (r UrgencyResult) Summarize() string { return r.Summary }

// Urgency evaluates the four tiers critical > high > medium > low; the first
// tier with a keyword hit wins and short-circuits the rest. Two post-checks
// run regardless of the matched tier: an explicit deadline or a client-impact
// keyword floors the result at the high tier, never downgrading.
func (a *Analyzer) Urgency(context string) UrgencyResult {
	result := UrgencyResult{Level: UrgencyLow, Score: urgencyScoreLow}

	tiers := []struct {
		level  string
		score  int
		cat    lexicon.Category
		detail string
	}{
		{UrgencyCritical, urgencyScoreCritical, lexicon.UrgencyCritical, "immediate impact"},
		{UrgencyHigh, urgencyScoreHigh, lexicon.UrgencyHigh, "needs prompt attention"},
		{UrgencyMedium, urgencyScoreMedium, lexicon.UrgencyMedium, "plan soon"},
	}

	for _, tier := range tiers {
		if kw, ok := a.lex.FirstMatch(context, tier.cat); ok {
			result.Level = tier.level
			result.Score = tier.score
			result.Reasoning = append(result.Reasoning, fmt.Sprintf("detected %q - %s", kw, tier.detail))
			break
		}
	}

	if result.Level == UrgencyLow {
		if kw, ok := a.lex.FirstMatch(context, lexicon.UrgencyLow); ok {
			result.Reasoning = append(result.Reasoning, fmt.Sprintf("detected %q - no time pressure", kw))
		}
	}

	if a.lex.Matches(context, lexicon.Deadline) {
		result.Reasoning = append(result.Reasoning, "explicit deadline mentioned")
		result.floorAtHigh()
	}
	if a.lex.Matches(context, lexicon.ClientImpact) {
		result.Reasoning = append(result.Reasoning, "client impact mentioned")
		result.floorAtHigh()
	}

	if len(result.Reasoning) == 0 {
		result.Reasoning = append(result.Reasoning, "no clear urgency indicators")
	}

	result.Summary = fmt.Sprintf("urgency %s (score: %d/100)", strings.ToUpper(result.Level), result.Score)
	return result
}

func (r *UrgencyResult) floorAtHigh() {
	if r.Score < urgencyScoreHigh {
		r.Score = urgencyScoreHigh
		r.Level = UrgencyHigh
	}
}
