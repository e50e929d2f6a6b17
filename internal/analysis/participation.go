package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"pulse/internal/domain"
	"pulse/internal/lexicon"
)

// Participation type tiers.
const (
	ParticipantObserver    = "observer"
	ParticipantFacilitator = "facilitator"
	ParticipantCoordinator = "coordinator"
	ParticipantContributor = "contributor"
)

const observerThreshold = 3

// ParticipationProfile aggregates one user's posting behavior.
type ParticipationProfile struct {
	UserID        string  `json:"user_id"`
	Name          string  `json:"name"`
	TotalMessages int     `json:"total_messages"`
	Questions     int     `json:"questions"`
	Responses     int     `json:"responses"`
	Technical     int     `json:"technical"`
	Coordination  int     `json:"coordination"`
	Kind          string  `json:"kind"`
	QuestionRatio float64 `json:"question_response_ratio"`
	Topics        string  `json:"topics"`
}

// Summarize implements Signal.
func (p ParticipationProfile) Summarize() string {
	return fmt.Sprintf("%s (%s): %d msgs - %s", p.Name, p.Kind, p.TotalMessages, p.Topics)
}

// Participation classifies each active poster. Classification is evaluated
// in order: few messages makes an observer; a majority of technical messages
// a facilitator; a majority of coordination messages a coordinator; anything
// else a contributor. The result is sorted by user id for determinism.
func (a *Analyzer) Participation(messages []domain.Message) []*ParticipationProfile {
	byUser := map[string]*ParticipationProfile{}
	var order []string

	for _, msg := range messages {
		p, ok := byUser[msg.UserID]
		if !ok {
			p = &ParticipationProfile{UserID: msg.UserID, Name: msg.UserName}
			byUser[msg.UserID] = p
			order = append(order, msg.UserID)
		}

		p.TotalMessages++
		if strings.Contains(msg.Text, "?") {
			p.Questions++
		}
		if hasMention(msg.Text) {
			p.Responses++
		}
		if a.lex.Matches(msg.Text, lexicon.Technical) {
			p.Technical++
		}
		if a.lex.Matches(msg.Text, lexicon.Coordination) {
			p.Coordination++
		}
	}

	sort.Strings(order)
	profiles := make([]*ParticipationProfile, 0, len(order))
	for _, id := range order {
		p := byUser[id]
		total := float64(p.TotalMessages)

		switch {
		case p.TotalMessages < observerThreshold:
			p.Kind = ParticipantObserver
		case float64(p.Technical)/total > 0.5:
			p.Kind = ParticipantFacilitator
		case float64(p.Coordination)/total > 0.5:
			p.Kind = ParticipantCoordinator
		default:
			p.Kind = ParticipantContributor
		}

		if p.Responses > 0 {
			p.QuestionRatio = math.Round(float64(p.Questions)/float64(p.Responses)*100) / 100
		}

		var topics []string
		if p.Technical > 0 {
			topics = append(topics, fmt.Sprintf("technical (%d)", p.Technical))
		}
		if p.Coordination > 0 {
			topics = append(topics, fmt.Sprintf("coordination (%d)", p.Coordination))
		}
		if p.Questions > 0 {
			topics = append(topics, fmt.Sprintf("questions (%d)", p.Questions))
		}
		p.Topics = "general"
		if len(topics) > 0 {
			p.Topics = strings.Join(topics, ", ")
		}

		profiles = append(profiles, p)
	}

	return profiles
}
