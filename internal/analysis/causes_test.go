package analysis

import (
	"testing"

	"pulse/internal/domain"
)

func belowBaseline(diff float64) domain.Comparison {
	return domain.Comparison{
		HasBaseline:    true,
		Direction:      domain.DirectionBelow,
		DiffPercentage: diff,
	}
}

func TestInferCausesReportedAbsence(t *testing.T) {
	t.Parallel()

	messages := []domain.Message{msg("ana", "estaré fuera por la tarde")}
	profiles := []*ParticipationProfile{{UserID: "ana", Name: "ana", TotalMessages: 1}}
	activity := map[string]UserActivity{
		"ana": {UserID: "ana", Name: "ana", MessagesToday: 1, Comparison: belowBaseline(80)},
	}

	causes := New(nil).InferCauses(messages, profiles, activity)
	if len(causes) != 1 || causes[0].Cause != CauseReportedAbsence {
		t.Fatalf("expected reported absence, got %+v", causes)
	}
	if len(causes[0].Evidence) != 2 {
		t.Fatalf("expected evidence for the cause, got %v", causes[0].Evidence)
	}
}

func TestInferCausesUnexplainedLowActivity(t *testing.T) {
	t.Parallel()

	messages := []domain.Message{msg("ben", "avanzo despacio")}
	profiles := []*ParticipationProfile{{UserID: "ben", Name: "ben", TotalMessages: 1}}
	activity := map[string]UserActivity{
		"ben": {UserID: "ben", Name: "ben", MessagesToday: 1, Comparison: belowBaseline(60)},
	}

	causes := New(nil).InferCauses(messages, profiles, activity)
	if len(causes) != 1 || causes[0].Cause != CauseLowActivity {
		t.Fatalf("expected unexplained low participation, got %+v", causes)
	}
}

func TestInferCausesLastMatchWins(t *testing.T) {
	t.Parallel()

	// A user far below baseline who also floods questions without responses:
	// the later possibly-blocked rule overwrites the low-participation one.
	profiles := []*ParticipationProfile{{
		UserID: "cris", Name: "cris", TotalMessages: 4, Questions: 4, Responses: 0,
	}}
	activity := map[string]UserActivity{
		"cris": {UserID: "cris", Name: "cris", MessagesToday: 4, Comparison: belowBaseline(70)},
	}

	causes := New(nil).InferCauses(nil, profiles, activity)
	if len(causes) != 1 || causes[0].Cause != CausePossiblyBlocked {
		t.Fatalf("expected last matching rule to win, got %+v", causes)
	}
}

func TestInferCausesUnblockingTeam(t *testing.T) {
	t.Parallel()

	profiles := []*ParticipationProfile{{
		UserID: "dev", Name: "dev", TotalMessages: 10, Responses: 6, Technical: 4,
	}}
	causes := New(nil).InferCauses(nil, profiles, map[string]UserActivity{})
	if len(causes) != 1 || causes[0].Cause != CauseUnblockingTeam {
		t.Fatalf("expected unblocking_team, got %+v", causes)
	}
}

func TestInferCausesNoMatch(t *testing.T) {
	t.Parallel()

	profiles := []*ParticipationProfile{{UserID: "e", Name: "e", TotalMessages: 5}}
	causes := New(nil).InferCauses(nil, profiles, map[string]UserActivity{})
	if len(causes) != 0 {
		t.Fatalf("expected no causes, got %+v", causes)
	}
}
