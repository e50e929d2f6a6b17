package report

import (
	"strings"
	"testing"
	"time"

	"pulse/internal/analysis"
	"pulse/internal/domain"
)

func mkMsg(user, text string) domain.Message {
	return domain.Message{
		ID:        text,
		UserID:    user,
		UserName:  user,
		Text:      text,
		Timestamp: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestTeamStateSplitsActiveAndInactive(t *testing.T) {
	t.Parallel()

	ctx := &Context{
		Capacities: []domain.CapacityProfile{
			{Name: "Ana", MessagesToday: 4},
			{Name: "Bruno", MessagesToday: 0},
			{Name: "Carla", MessagesToday: 0},
		},
		Causes: []analysis.InferredCause{
			{UserName: "Bruno", Cause: analysis.CauseReportedAbsence},
		},
	}

	active, inactive := ctx.TeamState()
	if active != 1 {
		t.Fatalf("active = %d, want 1", active)
	}
	if len(inactive) != 2 {
		t.Fatalf("inactive = %d, want 2", len(inactive))
	}
	if inactive[0].Name != "Bruno" || inactive[0].Reason != analysis.CauseReportedAbsence {
		t.Fatalf("Bruno = %+v, want reported absence", inactive[0])
	}
	if inactive[1].Reason != "unknown" {
		t.Fatalf("Carla reason = %q, want unknown", inactive[1].Reason)
	}
}

func TestPromptCarriesEverySection(t *testing.T) {
	t.Parallel()

	ctx := &Context{
		ChannelName:  "proj-apollo",
		WindowDays:   10,
		BaselineDays: 30,
		Messages: []domain.Message{
			mkMsg("Ana", "deploy finished, all green"),
		},
		Updates: []analysis.Update{
			{UserName: "Ana", Text: "deploy finished, all green", Timestamp: time.Now()},
		},
		Status: analysis.StatusResult{
			StatusText:      "on track",
			SensitivityText: "calm",
			ResourcesText:   "team is balanced",
		},
		Progress: analysis.ProgressResult{Progress: "75%"},
		Capacities: []domain.CapacityProfile{
			{Name: "Ana", MessagesToday: 1, LoadDetail: "normal", AvailabilityDetail: "at capacity", Blockers: []string{"none detected"}, ReleasableDetail: "depends on priorities"},
		},
		Meetings: analysis.MeetingReport{
			Detected: true,
			Mentions: 1,
			Attendees: []analysis.MeetingAttendee{
				{Name: "Ana", Context: "I'll be at the daily"},
			},
		},
		Health:    analysis.HealthResult{Score: 80, Summary: "health 80/100"},
		Sentiment: analysis.SentimentResult{Score: 60, Summary: "tone positive"},
		ChannelBaseline: &domain.Baseline{
			AvgMessagesPerDay: 2.0,
			DaysActive:        20,
			ParticipationRate: 66.7,
		},
		Users: []UserBaselineView{
			{
				Name:          "Ana",
				MessagesToday: 1,
				Baseline:      &domain.Baseline{AvgMessagesPerDay: 2, DaysActive: 20, ParticipationRate: 66.7},
				Comparison:    domain.Comparison{HasBaseline: true, Direction: domain.DirectionBelow, Message: "messages: 1 (below the average of 2.0)"},
			},
		},
	}

	prompt := ctx.Prompt()
	for _, want := range []string{
		"CHANNEL DATA #proj-apollo",
		"*Ana*: deploy finished, all green",
		"PROJECT UPDATES (pre-filtered)",
		"PROJECT STATE (automated analysis)",
		"- Status: on track",
		"Current progress: 75%",
		"CAPACITY PER PERSON",
		"AUTOMATED ANALYSIS",
		"*Project health:* 80/100",
		"Signal summaries",
		"tone positive",
		"SYNC MEETING ATTENDANCE",
		"Attending: Ana",
		"CHANNEL BASELINE (last 30 days)",
		"PER-USER BASELINE",
		"Days active: 20/30 (66.7%)",
		"CRITICAL INSTRUCTIONS",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestPromptWithoutUpdatesSkipsSection(t *testing.T) {
	t.Parallel()

	ctx := &Context{ChannelName: "proj", BaselineDays: 30}
	if strings.Contains(ctx.Prompt(), "PROJECT UPDATES (pre-filtered)") {
		t.Fatal("updates section rendered with no updates")
	}
}

func TestComposeFlattensModelMarkup(t *testing.T) {
	t.Parallel()

	metrics := CalculateMetrics([]domain.Message{mkMsg("Ana", "hello there everyone")}, 3)
	out := Compose("proj", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), metrics, 10, "**STATE**: fine", DeepLinks{})

	if strings.Contains(out, "**") {
		t.Fatalf("composed report still carries double markers: %q", out)
	}
	for _, want := range []string{
		"DAILY REPORT - #proj",
		"02/03/2026",
		"KEY METRICS (last 10 business days)",
		"*STATE*: fine",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("composed report missing %q", want)
		}
	}
}
