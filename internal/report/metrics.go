package report

import (
	"fmt"
	"sort"
	"strings"

	"pulse/internal/domain"
)

const topPosterCount = 3

// Metrics is the channel activity snapshot shown at the top of the report.
type Metrics struct {
	TotalMessages int
	ActiveUsers   int
	TotalMembers  int
	TopPosters    []Poster
}

// Poster is one of the most active users in the window.
type Poster struct {
	Name  string
	Count int
}

// CalculateMetrics counts messages and distinct posters, and ranks the top
// posters by volume. totalMembers of zero falls back to the active count so
// the header never reads "3 of 0".
func CalculateMetrics(messages []domain.Message, totalMembers int) Metrics {
	counts := map[string]int{}
	names := map[string]string{}
	for _, msg := range messages {
		counts[msg.UserID]++
		names[msg.UserID] = msg.UserName
	}

	posters := make([]Poster, 0, len(counts))
	for id, count := range counts {
		posters = append(posters, Poster{Name: names[id], Count: count})
	}
	sort.Slice(posters, func(i, j int) bool {
		if posters[i].Count != posters[j].Count {
			return posters[i].Count > posters[j].Count
		}
		return posters[i].Name < posters[j].Name
	})
	if len(posters) > topPosterCount {
		posters = posters[:topPosterCount]
	}

	active := len(counts)
	if totalMembers <= 0 {
		totalMembers = active
	}

	return Metrics{
		TotalMessages: len(messages),
		ActiveUsers:   active,
		TotalMembers:  totalMembers,
		TopPosters:    posters,
	}
}

// Header renders the metrics block that opens the delivered report.
func (m Metrics) Header(windowDays int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *KEY METRICS (last %d business days)*\n", windowDays)
	b.WriteString("----------\n")
	fmt.Fprintf(&b, "📨 Messages: %d\n", m.TotalMessages)
	fmt.Fprintf(&b, "👥 Active users: %d of %d\n", m.ActiveUsers, m.TotalMembers)
	if len(m.TopPosters) > 0 {
		b.WriteString("🏅 Most active: ")
		parts := make([]string, 0, len(m.TopPosters))
		for _, p := range m.TopPosters {
			parts = append(parts, fmt.Sprintf("%s (%d)", p.Name, p.Count))
		}
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString("\n")
	}
	b.WriteString("----------\n\n")
	return b.String()
}
