package analysis

import (
	"fmt"

	"pulse/internal/domain"
	"pulse/internal/lexicon"
)

// Inferred causes for anomalous user behavior.
const (
	CauseTotalAbsence    = "total_absence"
	CauseReportedAbsence = "reported_absence"
	CauseLowActivity     = "unusual_low_participation"
	CauseUnblockingTeam  = "unblocking_team"
	CausePossiblyBlocked = "possibly_blocked"
)

// UserActivity joins a user's message count for today with the comparison
// against that user's historical baseline.
type UserActivity struct {
	UserID        string
	Name          string
	MessagesToday int
	Comparison    domain.Comparison
}

// InferredCause attributes a likely cause to one user's behavior along with
// the evidence that produced it.
type InferredCause struct {
	UserID   string   `json:"user_id"`
	UserName string   `json:"user_name"`
	Cause    string   `json:"cause"`
	Evidence []string `json:"evidence"`
}

// Summarize implements Signal.
func (c InferredCause) Summarize() string {
	return fmt.Sprintf("%s: %s", c.UserName, c.Cause)
}

// InferCauses attributes a cause to each participation profile by combining
// it with the user's baseline comparison and personal messages. Rules are
// applied in a fixed order and a later match overwrites an earlier one, so
// the last matching rule wins. That precedence is deliberate and downstream
// consumers rely on it; see DESIGN.md before changing it.
func (a *Analyzer) InferCauses(messages []domain.Message, profiles []*ParticipationProfile, activity map[string]UserActivity) []InferredCause {
	causes := []InferredCause{}

	for _, p := range profiles {
		var cause string
		var evidence []string

		// Rule 1: no activity at all.
		if p.TotalMessages == 0 {
			cause = CauseTotalAbsence
			evidence = []string{"no activity in the period"}
		}

		// Rule 2: well below the personal baseline.
		if act, ok := activity[p.UserID]; ok && act.Comparison.HasBaseline &&
			act.Comparison.Direction == domain.DirectionBelow && act.Comparison.DiffPercentage > 50 {
			if a.userAnnouncedAbsence(messages, p.Name) {
				cause = CauseReportedAbsence
				evidence = []string{
					fmt.Sprintf("activity %.0f%% below the personal average", act.Comparison.DiffPercentage),
					"user announced an absence",
				}
			} else {
				cause = CauseLowActivity
				evidence = []string{
					fmt.Sprintf("activity %.0f%% below the personal average with no explanation", act.Comparison.DiffPercentage),
				}
			}
		}

		// Rule 3: high response volume with technical content.
		if p.Responses > 5 && p.Technical > 3 {
			cause = CauseUnblockingTeam
			evidence = []string{
				fmt.Sprintf("%d technical responses", p.Responses),
				"pattern of resolving questions for the team",
			}
		}

		// Rule 4: asking a lot, answered by nobody.
		if p.Questions > 3 && p.Responses == 0 {
			cause = CausePossiblyBlocked
			evidence = []string{
				fmt.Sprintf("%d questions without apparent answers", p.Questions),
				"seeking help without getting it",
			}
		}

		if cause != "" {
			causes = append(causes, InferredCause{
				UserID:   p.UserID,
				UserName: p.Name,
				Cause:    cause,
				Evidence: evidence,
			})
		}
	}

	return causes
}

func (a *Analyzer) userAnnouncedAbsence(messages []domain.Message, userName string) bool {
	for _, msg := range messages {
		if msg.UserName != userName {
			continue
		}
		if a.lex.Matches(msg.Text, lexicon.AbsenceNotice) {
			return true
		}
	}
	return false
}
