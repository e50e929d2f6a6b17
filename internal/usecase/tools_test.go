package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"pulse/internal/analysis"
)

func TestDecodeMessagesAcceptsStringsAndObjects(t *testing.T) {
	t.Parallel()

	args := json.RawMessage(`{"messages":[
		"a bare string message",
		{"user_name":"Ana","text":"estamos bloqueados con la API","ts":"1741000000.123456"},
		{"user_name":"Bruno"},
		{"text":"no author on this one"}
	]}`)

	messages, err := decodeMessages(args)
	if err != nil {
		t.Fatalf("decodeMessages failed: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("messages = %d, want 3 (textless entry dropped)", len(messages))
	}
	if messages[0].UserName != "Unknown" {
		t.Fatalf("bare string author = %q, want Unknown", messages[0].UserName)
	}
	if messages[1].UserName != "Ana" || messages[1].Timestamp.IsZero() {
		t.Fatalf("object entry malformed: %+v", messages[1])
	}
	if messages[2].UserName != "Unknown" {
		t.Fatalf("authorless entry = %q, want Unknown", messages[2].UserName)
	}
}

func TestDecodeMessagesRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := decodeMessages(json.RawMessage(`{"messages":"not a list"}`)); err == nil {
		t.Fatal("non-list payload must fail")
	}
}

func TestDecodeCountsHandlesBothShapes(t *testing.T) {
	t.Parallel()

	list := decodeCounts(json.RawMessage(`[3, 5, "oops", 2]`))
	if len(list) != 3 {
		t.Fatalf("list counts = %v, want the 3 numeric entries", list)
	}

	byUser := decodeCounts(json.RawMessage(`{"U1": 4, "U2": "n/a", "U3": 1}`))
	if len(byUser) != 2 {
		t.Fatalf("map counts = %v, want the 2 numeric entries", byUser)
	}

	if got := decodeCounts(json.RawMessage(`"scalar"`)); got != nil {
		t.Fatalf("scalar payload = %v, want nil", got)
	}
}

func TestUrgencyToolClassifiesContext(t *testing.T) {
	t.Parallel()

	tool := urgencyTool{analysis.New(nil)}
	out, err := tool.Execute(context.Background(), json.RawMessage(`{"context":"client down, production is broken"}`))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out, `"urgency_level":"critical"`) {
		t.Fatalf("urgency payload = %q", out)
	}
	if !strings.Contains(out, `"score":100`) {
		t.Fatalf("urgency score missing: %q", out)
	}
}

func TestTeamHealthToolAcceptsMapCounts(t *testing.T) {
	t.Parallel()

	tool := teamHealthTool{}
	out, err := tool.Execute(context.Background(), json.RawMessage(`{"team_data":{
		"total_members": 4,
		"active_members": 4,
		"total_messages": 20,
		"collaborative_messages": 10,
		"messages_per_user": {"U1": 5, "U2": 5, "U3": 5, "U4": 5},
		"total_blockers": 0,
		"sentiment_score": 80
	}}`))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	var score struct {
		OverallScore float64 `json:"OverallScore"`
	}
	if err := json.Unmarshal([]byte(out), &score); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if score.OverallScore < 80 {
		t.Fatalf("OverallScore = %v, want a healthy team above 80", score.OverallScore)
	}
}

func TestToolRegistryResolveUnknown(t *testing.T) {
	t.Parallel()

	registry := NewToolRegistry()
	if _, err := registry.Resolve("nope"); err == nil {
		t.Fatal("unknown tool must not resolve")
	}
}
