package analysis

import (
	"testing"

	"pulse/internal/domain"
)

func TestParticipationClassification(t *testing.T) {
	t.Parallel()

	var messages []domain.Message
	// observer: fewer than 3 messages
	messages = append(messages, msg("obs", "hola"))
	// facilitator: technical share above one half
	for i := 0; i < 4; i++ {
		messages = append(messages, msg("fac", "revisé el code del api"))
	}
	// coordinator: coordination share above one half
	for i := 0; i < 4; i++ {
		messages = append(messages, msg("coo", "agendamos el sprint sync"))
	}
	// contributor: everything else
	for i := 0; i < 4; i++ {
		messages = append(messages, msg("con", "avanzando con lo mío"))
	}

	profiles := New(nil).Participation(messages)
	kinds := map[string]string{}
	for _, p := range profiles {
		kinds[p.UserID] = p.Kind
	}

	want := map[string]string{
		"obs": ParticipantObserver,
		"fac": ParticipantFacilitator,
		"coo": ParticipantCoordinator,
		"con": ParticipantContributor,
	}
	for id, kind := range want {
		if kinds[id] != kind {
			t.Fatalf("user %s: expected %s, got %s", id, kind, kinds[id])
		}
	}
}

func TestParticipationRatioAndTopics(t *testing.T) {
	t.Parallel()

	profiles := New(nil).Participation([]domain.Message{
		msg("u", "qué opinas <@U1>?"),
		msg("u", "lo pruebo y te digo"),
		msg("u", "disponible para el daily?"),
	})

	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(profiles))
	}
	p := profiles[0]
	if p.Questions != 2 || p.Responses != 1 {
		t.Fatalf("unexpected counts: questions=%d responses=%d", p.Questions, p.Responses)
	}
	if p.QuestionRatio != 2 {
		t.Fatalf("expected ratio 2, got %v", p.QuestionRatio)
	}
	if p.Topics == "general" {
		t.Fatalf("expected topic summary, got %q", p.Topics)
	}
}

func TestParticipationRatioZeroWithoutResponses(t *testing.T) {
	t.Parallel()

	profiles := New(nil).Participation([]domain.Message{
		msg("u", "alguien sabe si el entorno está arriba?"),
	})
	if profiles[0].QuestionRatio != 0 {
		t.Fatalf("ratio must be 0 without responses, got %v", profiles[0].QuestionRatio)
	}
}
