package analysis

import (
	"fmt"
	"strings"
	"time"

	"pulse/internal/domain"
	"pulse/internal/lexicon"
)

const (
	decisionExcerptLimit = 150
	decisionDetailLimit  = 200
	maxDecisions         = 5
	maxRisks             = 3
)

// Decision is a decision the team already made, with optional reasoning and
// next steps mined via connector-word heuristics.
type Decision struct {
	What       string    `json:"what"`
	WhoDecided string    `json:"who_decided"`
	Reasoning  string    `json:"reasoning"`
	NextSteps  string    `json:"next_steps"`
	Timestamp  time.Time `json:"timestamp"`
}

// PendingDecision is an open question nobody has resolved yet.
type PendingDecision struct {
	What      string    `json:"what"`
	WhoAsks   string    `json:"who_asks"`
	Timestamp time.Time `json:"timestamp"`
}

// DecisionReport groups made and pending decisions, capped at the top five
// of each.
type DecisionReport struct {
	TotalMade    int               `json:"total_decisions_made"`
	TotalPending int               `json:"total_decisions_pending"`
	Made         []Decision        `json:"decisions_made"`
	Pending      []PendingDecision `json:"decisions_pending"`
	Summary      string            `json:"summary"`
}

// Summarize implements Signal.
func (r DecisionReport) Summarize() string { return r.Summary }

// Decisions extracts made decisions (decision-keyword match) and pending
// ones (question mark or question phrase, unless already flagged as made).
func (a *Analyzer) Decisions(messages []domain.Message) DecisionReport {
	made := []Decision{}
	pending := []PendingDecision{}

	for _, msg := range messages {
		isDecision := a.lex.Matches(msg.Text, lexicon.Decision)
		if isDecision {
			reasoning := "not specified"
			if a.lex.Matches(msg.Text, lexicon.Reason) {
				reasoning = prefix(msg.Text, decisionDetailLimit)
			}
			nextSteps := "not specified"
			if a.lex.Matches(msg.Text, lexicon.NextSteps) {
				nextSteps = prefix(msg.Text, decisionDetailLimit)
			}
			made = append(made, Decision{
				What:       prefix(msg.Text, decisionExcerptLimit),
				WhoDecided: msg.UserName,
				Reasoning:  reasoning,
				NextSteps:  nextSteps,
				Timestamp:  msg.Timestamp,
			})
			continue
		}

		if strings.Contains(msg.Text, "?") || a.lex.Matches(msg.Text, lexicon.Question) {
			pending = append(pending, PendingDecision{
				What:      prefix(msg.Text, decisionExcerptLimit),
				WhoAsks:   msg.UserName,
				Timestamp: msg.Timestamp,
			})
		}
	}

	report := DecisionReport{
		TotalMade:    len(made),
		TotalPending: len(pending),
		Made:         made,
		Pending:      pending,
		Summary:      fmt.Sprintf("decisions made: %d, pending: %d", len(made), len(pending)),
	}
	if len(report.Made) > maxDecisions {
		report.Made = report.Made[:maxDecisions]
	}
	if len(report.Pending) > maxDecisions {
		report.Pending = report.Pending[:maxDecisions]
	}
	return report
}

// Risk is one high-impact risk with inferred probability and impact tiers.
type Risk struct {
	Description string `json:"description"`
	ReportedBy  string `json:"reported_by"`
	Probability string `json:"probability"`
	Impact      string `json:"impact"`
}

// Risks extracts critical risks only, capped at the top three. Impact and
// probability tiers are inferred from which keyword family matched.
func (a *Analyzer) Risks(messages []domain.Message) []Risk {
	risks := []Risk{}
	for _, msg := range messages {
		if !a.lex.Matches(msg.Text, lexicon.Risk) {
			continue
		}

		impact, probability := "medium-high", "medium"
		lowered := strings.ToLower(msg.Text)
		switch {
		case strings.Contains(lowered, "crítico") || strings.Contains(lowered, "critical"):
			impact, probability = "high", "high"
		case a.lex.Matches(msg.Text, lexicon.ClientImpact):
			impact, probability = "high", "medium"
		}

		risks = append(risks, Risk{
			Description: prefix(msg.Text, decisionDetailLimit),
			ReportedBy:  msg.UserName,
			Probability: probability,
			Impact:      impact,
		})
		if len(risks) == maxRisks {
			break
		}
	}
	return risks
}
