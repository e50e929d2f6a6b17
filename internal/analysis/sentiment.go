package analysis

import (
	"fmt"

	"pulse/internal/domain"
	"pulse/internal/lexicon"
)

const maxDetectedKeywords = 10

// DetectedKeyword cites one keyword hit and the category it was counted for.
type DetectedKeyword struct {
	Category string `json:"category"`
	Keyword  string `json:"keyword"`
}

// SentimentResult scores the emotional tone of a batch of messages on a
// 0-100 scale, 50 being neutral.
type SentimentResult struct {
	Score     float64           `json:"overall_score"`
	Breakdown map[string]int    `json:"sentiment_breakdown"`
	Detected  []DetectedKeyword `json:"detected_keywords"`
	Summary   string            `json:"summary"`
}

// Summarize implements Signal.
func (r SentimentResult) Summarize() string { return r.Summary }

// Sentiment classifies each message against the frustration, enthusiasm and
// concern sets in that priority order; a message contributes to exactly one
// category (first category matched wins) or counts as neutral. The score is
// 50 plus the net positive share scaled to ±50, clamped to [0,100].
func (a *Analyzer) Sentiment(messages []domain.Message) SentimentResult {
	breakdown := map[string]int{
		"frustration": 0,
		"enthusiasm":  0,
		"concern":     0,
		"neutral":     0,
	}

	total := len(messages)
	if total == 0 {
		return SentimentResult{
			Score:     50,
			Breakdown: breakdown,
			Detected:  []DetectedKeyword{},
			Summary:   "no messages to analyze",
		}
	}

	categories := []struct {
		name string
		cat  lexicon.Category
	}{
		{"frustration", lexicon.Frustration},
		{"enthusiasm", lexicon.Enthusiasm},
		{"concern", lexicon.Concern},
	}

	detected := []DetectedKeyword{}
	for _, msg := range messages {
		matched := false
		for _, c := range categories {
			if kw, ok := a.lex.FirstMatch(msg.Text, c.cat); ok {
				breakdown[c.name]++
				detected = append(detected, DetectedKeyword{Category: c.name, Keyword: kw})
				matched = true
				break
			}
		}
		if !matched {
			breakdown["neutral"]++
		}
	}

	positive := breakdown["enthusiasm"]
	negative := breakdown["frustration"] + breakdown["concern"]

	delta := float64(positive-negative) / float64(total) * 50
	if delta > 50 {
		delta = 50
	}
	if delta < -50 {
		delta = -50
	}
	score := 50 + delta
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	dominant := "neutral"
	for _, name := range []string{"frustration", "enthusiasm", "concern"} {
		if breakdown[name] > breakdown[dominant] {
			dominant = name
		}
	}

	if len(detected) > maxDetectedKeywords {
		detected = detected[:maxDetectedKeywords]
	}

	return SentimentResult{
		Score:     score,
		Breakdown: breakdown,
		Detected:  detected,
		Summary:   fmt.Sprintf("dominant tone: %s (%d/%d messages)", dominant, breakdown[dominant], total),
	}
}
