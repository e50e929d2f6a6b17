package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"pulse/internal/domain"
	"pulse/internal/lexicon"
)

const minUpdateLength = 20

// Update is one message that reports project progress.
type Update struct {
	UserName  string    `json:"user_name"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Updates filters messages that look like progress reports: at least 20
// characters and at least one progress keyword. The result is sorted
// chronologically and intentionally not deduplicated; repeated identical
// updates are a signal by themselves.
func (a *Analyzer) Updates(messages []domain.Message) []Update {
	updates := []Update{}
	for _, msg := range messages {
		if len([]rune(msg.Text)) < minUpdateLength {
			continue
		}
		if !a.lex.Matches(msg.Text, lexicon.Update) {
			continue
		}
		updates = append(updates, Update{
			UserName:  msg.UserName,
			Text:      msg.Text,
			Timestamp: msg.Timestamp,
		})
	}

	sort.SliceStable(updates, func(i, j int) bool {
		return updates[i].Timestamp.Before(updates[j].Timestamp)
	})
	return updates
}

var (
	percentExpr  = regexp.MustCompile(`(\d+)%`)
	fractionExpr = regexp.MustCompile(`(\d+)\s+de\s+(\d+)`)
)

const progressExcerptLimit = 150

// ProgressResult carries free-text progress facts mined from conversations.
type ProgressResult struct {
	Objective       string `json:"objective"`
	Progress        string `json:"progress"`
	Deadline        string `json:"deadline"`
	DeviationReason string `json:"deviation_reason"`
}

// Summarize implements Signal.
func (r ProgressResult) Summarize() string {
	return fmt.Sprintf("progress: %s", r.Progress)
}

// Progress scans messages and updates for objective mentions, percentage or
// "N de M" completion figures, deadline mentions, and deviation reasons.
// Later mentions overwrite earlier ones, so the freshest figure wins.
func (a *Analyzer) Progress(messages []domain.Message, updates []Update) ProgressResult {
	result := ProgressResult{Progress: "not specified"}

	texts := make([]string, 0, len(messages)+len(updates))
	for _, msg := range messages {
		texts = append(texts, msg.Text)
	}
	for _, u := range updates {
		texts = append(texts, u.Text)
	}

	for _, text := range texts {
		if a.lex.Matches(text, lexicon.Objective) {
			result.Objective = prefix(text, progressExcerptLimit)
		}

		if m := percentExpr.FindStringSubmatch(text); m != nil {
			result.Progress = m[1] + "%"
		}
		if m := fractionExpr.FindStringSubmatch(text); m != nil {
			num, _ := strconv.Atoi(m[1])
			den, _ := strconv.Atoi(m[2])
			if den > 0 {
				result.Progress = fmt.Sprintf("%d/%d (%d%%)", num, den, num*100/den)
			}
		}

		if a.lex.Matches(text, lexicon.Deadline) {
			result.Deadline = prefix(text, progressExcerptLimit)
		}

		if a.lex.Matches(text, lexicon.Reason) && a.lex.Matches(text, lexicon.Deviation) {
			result.DeviationReason = prefix(text, progressExcerptLimit)
		}
	}

	return result
}
