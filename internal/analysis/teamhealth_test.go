package analysis

import (
	"math"
	"testing"

	"pulse/internal/domain"
)

func TestTeamHealthWeightsSumToOne(t *testing.T) {
	t.Parallel()

	var sum float64
	for _, w := range healthWeights {
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("weights must sum to exactly 1.0, got %v", sum)
	}
}

func TestTeamHealthPerfectTeam(t *testing.T) {
	t.Parallel()

	score := TeamHealth(TeamData{
		TotalMembers:          4,
		ActiveMembers:         4,
		TotalMessages:         20,
		CollaborativeMessages: 20,
		MessagesPerUser:       []float64{5, 5, 5, 5},
		TotalBlockers:         0,
		SentimentScore:        100,
	})

	if score.OverallScore != 100 {
		t.Fatalf("expected 100, got %v", score.OverallScore)
	}
	if score.Status != domain.HealthExcellent {
		t.Fatalf("expected excellent, got %s", score.Status)
	}
}

func TestTeamHealthScoreWithinBounds(t *testing.T) {
	t.Parallel()

	score := TeamHealth(TeamData{
		TotalMembers:    10,
		ActiveMembers:   1,
		TotalMessages:   5,
		MessagesPerUser: []float64{50, 1},
		TotalBlockers:   9,
		SentimentScore:  0,
	})
	if score.OverallScore < 0 || score.OverallScore > 100 {
		t.Fatalf("score out of bounds: %v", score.OverallScore)
	}
	if score.Status != domain.HealthCritical {
		t.Fatalf("expected critical, got %s", score.Status)
	}
}

func TestWorkloadDistributionDefaults(t *testing.T) {
	t.Parallel()

	if got := workloadDistribution(nil); got != 50 {
		t.Fatalf("no counts: expected 50, got %v", got)
	}
	if got := workloadDistribution([]float64{7}); got != 50 {
		t.Fatalf("single count: expected 50, got %v", got)
	}
	// Invalid entries are filtered, leaving one valid count.
	if got := workloadDistribution([]float64{7, -3, math.NaN()}); got != 50 {
		t.Fatalf("after filtering: expected 50, got %v", got)
	}
}

func TestWorkloadDistributionEvenSpread(t *testing.T) {
	t.Parallel()

	if got := workloadDistribution([]float64{4, 4, 4}); got != 100 {
		t.Fatalf("zero variance should score 100, got %v", got)
	}

	uneven := workloadDistribution([]float64{20, 1, 1})
	even := workloadDistribution([]float64{8, 7, 7})
	if uneven >= even {
		t.Fatalf("uneven spread must score lower: uneven=%v even=%v", uneven, even)
	}
}

func TestTeamHealthBlockerSteps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		blockers int
		want     float64
	}{
		{0, 100}, {1, 70}, {2, 70}, {3, 40}, {5, 40}, {6, 20},
	}
	for _, tc := range cases {
		score := TeamHealth(TeamData{TotalBlockers: tc.blockers})
		if score.Components["blockers"] != tc.want {
			t.Fatalf("%d blockers: expected %v, got %v", tc.blockers, tc.want, score.Components["blockers"])
		}
	}
}
