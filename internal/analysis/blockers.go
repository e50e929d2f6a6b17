package analysis

import (
	"fmt"
	"time"

	"pulse/internal/domain"
	"pulse/internal/lexicon"
)

const (
	blockerReasonLimit  = 150
	blockerContextLimit = 100
)

// Blocker records one message whose author appears blocked.
type Blocker struct {
	WhoIsBlocked string    `json:"who_is_blocked"`
	Reason       string    `json:"reason"`
	BlockedBy    string    `json:"blocked_by"`
	Timestamp    time.Time `json:"timestamp"`
}

// Unblocker records one message whose author offers to unblock someone.
type Unblocker struct {
	WhoHelps string `json:"who_helps"`
	Context  string `json:"context"`
}

// BlockerReport is the output of the two independent blocker passes. A single
// message may appear in both lists.
type BlockerReport struct {
	TotalBlockers int         `json:"total_blockers"`
	Blockers      []Blocker   `json:"blockers"`
	Unblockers    []Unblocker `json:"unblockers"`
	Summary       string      `json:"summary"`
}

// Summarize implements Signal.
func (r BlockerReport) Summarize() string { return r.Summary }

// Blockers runs the blocker-keyword pass and the unblock-keyword pass over
// the messages. The passes share no state.
func (a *Analyzer) Blockers(messages []domain.Message) BlockerReport {
	blockers := []Blocker{}
	for _, msg := range messages {
		if !a.lex.Matches(msg.Text, lexicon.Blocker) {
			continue
		}

		blockedBy := "unspecified"
		switch {
		case hasMention(msg.Text):
			blockedBy = "mentions a user"
		case a.lex.Matches(msg.Text, lexicon.Waiting):
			blockedBy = "awaiting external response"
		}

		blockers = append(blockers, Blocker{
			WhoIsBlocked: msg.UserName,
			Reason:       prefix(msg.Text, blockerReasonLimit),
			BlockedBy:    blockedBy,
			Timestamp:    msg.Timestamp,
		})
	}

	unblockers := []Unblocker{}
	for _, msg := range messages {
		if !a.lex.Matches(msg.Text, lexicon.Unblock) {
			continue
		}
		unblockers = append(unblockers, Unblocker{
			WhoHelps: msg.UserName,
			Context:  prefix(msg.Text, blockerContextLimit),
		})
	}

	return BlockerReport{
		TotalBlockers: len(blockers),
		Blockers:      blockers,
		Unblockers:    unblockers,
		Summary:       fmt.Sprintf("detected %d active blockers and %d offers to help", len(blockers), len(unblockers)),
	}
}
