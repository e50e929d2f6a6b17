package analysis

import (
	"fmt"
	"math"

	"pulse/internal/domain"
	"pulse/internal/lexicon"
)

const healthContextLimit = 100

// HealthSignal is one keyword hit counted toward project health. Unlike the
// sentiment scorer, every keyword in the set is tested independently, so a
// single message can generate several signals; the score formula depends on
// this counting semantic.
type HealthSignal struct {
	User    string `json:"user"`
	Keyword string `json:"keyword"`
	Context string `json:"context"`
}

// HealthResult scores project health from positive vs negative signals.
type HealthResult struct {
	Score    int            `json:"score"`
	Positive []HealthSignal `json:"positive_signals"`
	Negative []HealthSignal `json:"negative_signals"`
	Summary  string         `json:"summary"`
}

// Summarize implements Signal.
func (r HealthResult) Summarize() string { return r.Summary }

// ProjectHealth counts every positive and negative keyword hit across the
// messages and the pre-filtered updates. Score is the positive share of all
// signals on a 0-100 scale; with no signals at all it defaults to a
// neutral-positive 75.
func (a *Analyzer) ProjectHealth(messages []domain.Message, updates []Update) HealthResult {
	type entry struct{ user, text string }

	entries := make([]entry, 0, len(messages)+len(updates))
	for _, msg := range messages {
		entries = append(entries, entry{msg.UserName, msg.Text})
	}
	for _, u := range updates {
		entries = append(entries, entry{u.UserName, u.Text})
	}

	positive := []HealthSignal{}
	negative := []HealthSignal{}
	for _, e := range entries {
		for _, kw := range a.lex.AllMatches(e.text, lexicon.Positive) {
			positive = append(positive, HealthSignal{User: e.user, Keyword: kw, Context: prefix(e.text, healthContextLimit)})
		}
		for _, kw := range a.lex.AllMatches(e.text, lexicon.Negative) {
			negative = append(negative, HealthSignal{User: e.user, Keyword: kw, Context: prefix(e.text, healthContextLimit)})
		}
	}

	score := 75
	if total := len(positive) + len(negative); total > 0 {
		score = int(math.Round(float64(len(positive)) / float64(total) * 100))
	}

	return HealthResult{
		Score:    score,
		Positive: positive,
		Negative: negative,
		Summary:  fmt.Sprintf("project health %d/100 (%d positive, %d negative signals)", score, len(positive), len(negative)),
	}
}
