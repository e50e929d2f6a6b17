package analysis

import (
	"fmt"
	"math"

	"pulse/internal/domain"
)

// Health component weights; they sum to 1.0 exactly, making the overall
// score a convex combination of the five components.
var healthWeights = map[string]float64{
	"participation":         0.25,
	"collaboration":         0.20,
	"workload_distribution": 0.20,
	"blockers":              0.20,
	"sentiment":             0.15,
}

// TeamData carries the pre-aggregated metrics the health score needs.
type TeamData struct {
	TotalMembers          int       `json:"total_members"`
	ActiveMembers         int       `json:"active_members"`
	TotalMessages         int       `json:"total_messages"`
	CollaborativeMessages int       `json:"collaborative_messages"`
	MessagesPerUser       []float64 `json:"messages_per_user"`
	TotalBlockers         int       `json:"total_blockers"`
	SentimentScore        float64   `json:"sentiment_score"`
}

// TeamHealth combines the five fixed components into a 0-100 score with a
// status tier. The workload component uses the coefficient of variation of
// per-user message counts; fewer than two valid counts defaults it to 50.
func TeamHealth(data TeamData) domain.TeamHealthScore {
	components := map[string]float64{}

	if data.TotalMembers > 0 {
		components["participation"] = float64(data.ActiveMembers) / float64(data.TotalMembers) * 100
	}

	if data.TotalMessages > 0 {
		rate := float64(data.CollaborativeMessages) / float64(data.TotalMessages) * 100
		components["collaboration"] = math.Min(rate, 100)
	}

	components["workload_distribution"] = workloadDistribution(data.MessagesPerUser)

	switch blockers := data.TotalBlockers; {
	case blockers == 0:
		components["blockers"] = 100
	case blockers <= 2:
		components["blockers"] = 70
	case blockers <= 5:
		components["blockers"] = 40
	default:
		components["blockers"] = 20
	}

	components["sentiment"] = data.SentimentScore

	var total float64
	for name, weight := range healthWeights {
		total += components[name] * weight
	}
	total = math.Round(total*10) / 10

	var status string
	switch {
	case total >= 80:
		status = domain.HealthExcellent
	case total >= 60:
		status = domain.HealthGood
	case total >= 40:
		status = domain.HealthFair
	default:
		status = domain.HealthCritical
	}

	return domain.TeamHealthScore{
		OverallScore: total,
		Status:       status,
		Components:   components,
		Summary:      fmt.Sprintf("team health: %s (%.1f/100)", status, total),
	}
}

// workloadDistribution scores how evenly messages spread across users: a
// low coefficient of variation means an even spread and a high score.
// Non-finite or negative counts are filtered out rather than rejected.
func workloadDistribution(counts []float64) float64 {
	valid := make([]float64, 0, len(counts))
	for _, c := range counts {
		if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
			continue
		}
		valid = append(valid, c)
	}
	if len(valid) < 2 {
		return 50
	}

	var sum float64
	for _, c := range valid {
		sum += c
	}
	mean := sum / float64(len(valid))
	if mean == 0 {
		return 50
	}

	var variance float64
	for _, c := range valid {
		variance += (c - mean) * (c - mean)
	}
	stdev := math.Sqrt(variance / float64(len(valid)-1))

	cv := stdev / mean
	return math.Max(0, 100-cv*50)
}
