package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"pulse/internal/analysis"
	"pulse/internal/ports"
)

func newTestAgent(model *fakeModel, notifier *fakeNotifier) *Agent {
	return NewAgent(PipelineDeps{
		Source:    &fakeSource{name: "proj", members: []string{"U1", "U2"}},
		Store:     &fakeStore{stored: channelMessages()},
		Directory: &fakeDirectory{profiles: testProfiles()},
		Model:     model,
		Notifier:  notifier,
		Logger:    testLogger(),
	}, DefaultTools(analysis.New(nil)), testConfig())
}

func toolRequest(name, args string) ports.ModelResponse {
	return ports.ModelResponse{
		Kind: ports.KindToolRequest,
		ToolCalls: []ports.ToolCall{
			{ID: "call-1", Name: name, Arguments: []byte(args)},
		},
	}
}

func TestAgentStopsAtRoundLimit(t *testing.T) {
	t.Parallel()

	// The model never stops asking for tools; the loop must cut it off.
	model := &fakeModel{responses: []ports.ModelResponse{
		toolRequest("analyze_sentiment", `{"messages":["everything is on fire"]}`),
	}}
	notifier := &fakeNotifier{}
	agent := newTestAgent(model, notifier)

	err := agent.Run(context.Background(), time.Now())
	if err == nil || !strings.Contains(err.Error(), "after 10 rounds") {
		t.Fatalf("want round-limit failure, got %v", err)
	}
	if len(model.requests) != maxAgentRounds {
		t.Fatalf("model calls = %d, want %d", len(model.requests), maxAgentRounds)
	}
	if notifier.calls != 0 {
		t.Fatal("no report must be delivered after round exhaustion")
	}
}

func TestAgentFeedsUnknownToolErrorBack(t *testing.T) {
	t.Parallel()

	model := &fakeModel{responses: []ports.ModelResponse{
		toolRequest("summon_oracle", `{}`),
		{Kind: ports.KindFinal, Text: "report body"},
	}}
	notifier := &fakeNotifier{}
	agent := newTestAgent(model, notifier)

	if err := agent.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(model.requests) != 2 {
		t.Fatalf("model calls = %d, want 2", len(model.requests))
	}
	history := model.requests[1].History
	last := history[len(history)-1]
	if len(last.ToolResults) != 1 {
		t.Fatalf("tool results = %d, want 1", len(last.ToolResults))
	}
	result := last.ToolResults[0]
	if !result.IsError {
		t.Fatal("unknown tool must yield an error result")
	}
	if !strings.Contains(result.Content, "unknown tool: summon_oracle") {
		t.Fatalf("error payload = %q", result.Content)
	}
	if result.CallID != "call-1" {
		t.Fatalf("CallID = %q, want call-1", result.CallID)
	}
	if notifier.calls != 1 {
		t.Fatal("the run must still finish with a delivered report")
	}
}

func TestAgentExecutesToolsAndDelivers(t *testing.T) {
	t.Parallel()

	model := &fakeModel{responses: []ports.ModelResponse{
		toolRequest("analyze_sentiment", `{"messages":["sigo bloqueado con el deploy"]}`),
		{Kind: ports.KindFinal, Text: "**TEAM HEALTH**: fair"},
	}}
	notifier := &fakeNotifier{}
	agent := newTestAgent(model, notifier)

	if err := agent.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	history := model.requests[1].History
	last := history[len(history)-1]
	if len(last.ToolResults) != 1 || last.ToolResults[0].IsError {
		t.Fatalf("tool result malformed: %+v", last.ToolResults)
	}
	if !strings.Contains(last.ToolResults[0].Content, "overall_score") {
		t.Fatalf("sentiment payload missing score: %q", last.ToolResults[0].Content)
	}

	if notifier.calls != 1 {
		t.Fatalf("notifier calls = %d, want 1", notifier.calls)
	}
	if strings.Contains(notifier.text, "**") {
		t.Fatal("delivered report still carries double markers")
	}
	if !strings.Contains(notifier.text, "*TEAM HEALTH*: fair") {
		t.Fatalf("report body missing: %q", notifier.text)
	}
}

func TestAgentAdvertisesAllTools(t *testing.T) {
	t.Parallel()

	model := &fakeModel{responses: []ports.ModelResponse{{Kind: ports.KindFinal, Text: "done"}}}
	agent := newTestAgent(model, &fakeNotifier{})

	if err := agent.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	defs := model.requests[0].Tools
	want := []string{
		"analyze_sentiment",
		"detect_blockers",
		"classify_urgency",
		"calculate_team_health",
		"extract_key_decisions",
	}
	if len(defs) != len(want) {
		t.Fatalf("tool definitions = %d, want %d", len(defs), len(want))
	}
	for i, name := range want {
		if defs[i].Name != name {
			t.Fatalf("tool %d = %q, want %q", i, defs[i].Name, name)
		}
	}
}
