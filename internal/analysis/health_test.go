package analysis

import (
	"testing"

	"pulse/internal/domain"
)

func TestProjectHealthCountsEveryKeyword(t *testing.T) {
	t.Parallel()

	// One message hitting two positive keywords must produce two signals;
	// this counting semantic differs from the sentiment scorer on purpose.
	result := New(nil).ProjectHealth([]domain.Message{
		msg("ana", "merged y completado"),
	}, nil)

	if len(result.Positive) != 2 {
		t.Fatalf("expected 2 positive signals, got %d", len(result.Positive))
	}
	if result.Score != 100 {
		t.Fatalf("expected score 100, got %d", result.Score)
	}
}

func TestProjectHealthNeutralDefault(t *testing.T) {
	t.Parallel()

	result := New(nil).ProjectHealth([]domain.Message{msg("a", "hola equipo")}, nil)
	if result.Score != 75 {
		t.Fatalf("expected neutral-positive default 75, got %d", result.Score)
	}
}

func TestProjectHealthMixedSignals(t *testing.T) {
	t.Parallel()

	result := New(nil).ProjectHealth([]domain.Message{
		msg("a", "pipeline resuelto"),
		msg("b", "nuevo bug en producción"),
	}, nil)

	// 1 positive, 1 negative -> round(1/2*100) = 50.
	if result.Score != 50 {
		t.Fatalf("expected 50, got %d", result.Score)
	}
	if result.Positive[0].User != "a" || result.Negative[0].User != "b" {
		t.Fatalf("signals attributed to wrong users: %+v", result)
	}
}

func TestProjectHealthIncludesUpdates(t *testing.T) {
	t.Parallel()

	result := New(nil).ProjectHealth(nil, []Update{{UserName: "c", Text: "release aprobado"}})
	if len(result.Positive) != 1 || result.Positive[0].User != "c" {
		t.Fatalf("updates must feed the health signals: %+v", result.Positive)
	}
}
