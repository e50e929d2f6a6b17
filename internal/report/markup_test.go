package report

import "testing"

func TestFlattenBoldReplacesDoubleMarkers(t *testing.T) {
	t.Parallel()

	got := FlattenBold("**Project state**: on track")
	want := "*Project state*: on track"
	if got != want {
		t.Fatalf("FlattenBold = %q, want %q", got, want)
	}
}

func TestFlattenBoldIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"**bold** and *italic*",
		"****quadruple****",
		"no markers at all",
		"*already flat*",
		"***odd run***",
	}
	for _, in := range inputs {
		once := FlattenBold(in)
		twice := FlattenBold(once)
		if once != twice {
			t.Fatalf("FlattenBold not idempotent for %q: once %q, twice %q", in, once, twice)
		}
	}
}
