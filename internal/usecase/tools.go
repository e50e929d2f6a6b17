package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pulse/internal/analysis"
	"pulse/internal/domain"
	"pulse/internal/ports"
)

// Tool exposes one extractor capability to the model during agentic runs.
type Tool interface {
	Name() string
	Definition() ports.ToolDefinition
	Execute(ctx context.Context, args json.RawMessage) (string, error)
}

// ToolRegistry keeps a mapping from tool names to their implementations,
// preserving registration order for the advertised definitions.
type ToolRegistry struct {
	tools map[string]Tool
	order []string
}

// NewToolRegistry builds an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: map[string]Tool{}}
}

// Register adds or replaces a tool implementation.
func (r *ToolRegistry) Register(tool Tool) {
	if r.tools == nil {
		r.tools = map[string]Tool{}
	}
	if _, exists := r.tools[tool.Name()]; !exists {
		r.order = append(r.order, tool.Name())
	}
	r.tools[tool.Name()] = tool
}

// Resolve returns a tool by name or an error if it is absent.
func (r *ToolRegistry) Resolve(name string) (Tool, error) {
	if tool, ok := r.tools[name]; ok {
		return tool, nil
	}
	return nil, fmt.Errorf("tool %s is not registered", name)
}

// Definitions lists every registered tool in registration order.
func (r *ToolRegistry) Definitions() []ports.ToolDefinition {
	defs := make([]ports.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// DefaultTools registers the five extractor tools backed by the analyzer.
func DefaultTools(analyzer *analysis.Analyzer) *ToolRegistry {
	registry := NewToolRegistry()
	registry.Register(sentimentTool{analyzer})
	registry.Register(blockersTool{analyzer})
	registry.Register(urgencyTool{analyzer})
	registry.Register(teamHealthTool{})
	registry.Register(decisionsTool{analyzer})
	return registry
}

func messagesSchema(description string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"messages": map[string]any{
				"type":        "array",
				"description": description,
			},
		},
		"required": []string{"messages"},
	}
}

// toolMessage is the loose message shape tools accept from the model. A bare
// string is also accepted and treated as anonymous text.
type toolMessage struct {
	UserName  string `json:"user_name"`
	Text      string `json:"text"`
	Timestamp string `json:"ts"`
}

func (m *toolMessage) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		m.Text = text
		return nil
	}
	type alias toolMessage
	var out alias
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*m = toolMessage(out)
	return nil
}

// decodeMessages coerces the model-supplied message list into domain
// messages, dropping entries that carry no text rather than failing.
func decodeMessages(args json.RawMessage) ([]domain.Message, error) {
	var payload struct {
		Messages []toolMessage `json:"messages"`
	}
	if err := json.Unmarshal(args, &payload); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	messages := make([]domain.Message, 0, len(payload.Messages))
	for _, raw := range payload.Messages {
		if raw.Text == "" {
			continue
		}
		name := raw.UserName
		if name == "" {
			name = "Unknown"
		}
		msg := domain.Message{UserName: name, Text: raw.Text}
		if secs, err := parseSlackTS(raw.Timestamp); err == nil {
			msg.Timestamp = secs
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func parseSlackTS(ts string) (time.Time, error) {
	if ts == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	var secs int64
	var micros int64
	if _, err := fmt.Sscanf(ts, "%d.%d", &secs, &micros); err != nil {
		if _, err := fmt.Sscanf(ts, "%d", &secs); err != nil {
			return time.Time{}, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
	}
	return time.Unix(secs, micros*1000).UTC(), nil
}

func marshalResult(v any) (string, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode tool result: %w", err)
	}
	return string(out), nil
}

type sentimentTool struct {
	analyzer *analysis.Analyzer
}

func (sentimentTool) Name() string { return "analyze_sentiment" }

func (sentimentTool) Definition() ports.ToolDefinition {
	return ports.ToolDefinition{
		Name:        "analyze_sentiment",
		Description: "Scores the emotional tone of the team's messages (frustration, enthusiasm, concern, neutral). Returns a 0-100 score and the detected keywords.",
		InputSchema: messagesSchema("List of messages or raw texts to score"),
	}
}

func (t sentimentTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	messages, err := decodeMessages(args)
	if err != nil {
		return "", err
	}
	return marshalResult(t.analyzer.Sentiment(messages))
}

type blockersTool struct {
	analyzer *analysis.Analyzer
}

func (blockersTool) Name() string { return "detect_blockers" }

func (blockersTool) Definition() ports.ToolDefinition {
	return ports.ToolDefinition{
		Name:        "detect_blockers",
		Description: "Identifies technical or process blockers: who is blocked, why, and who can unblock them.",
		InputSchema: messagesSchema("List of enriched messages with user_name, text, ts"),
	}
}

func (t blockersTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	messages, err := decodeMessages(args)
	if err != nil {
		return "", err
	}
	return marshalResult(t.analyzer.Blockers(messages))
}

type urgencyTool struct {
	analyzer *analysis.Analyzer
}

func (urgencyTool) Name() string { return "classify_urgency" }

func (urgencyTool) Definition() ports.ToolDefinition {
	return ports.ToolDefinition{
		Name:        "classify_urgency",
		Description: "Rates the real urgency level (critical/high/medium/low) from context: client impact, deadlines, dependencies.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"context": map[string]any{
					"type":        "string",
					"description": "Text or context to rate for urgency",
				},
			},
			"required": []string{"context"},
		},
	}
}

func (t urgencyTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var payload struct {
		Context string `json:"context"`
	}
	if err := json.Unmarshal(args, &payload); err != nil {
		return "", fmt.Errorf("decode context: %w", err)
	}
	return marshalResult(t.analyzer.Urgency(payload.Context))
}

type teamHealthTool struct{}

func (teamHealthTool) Name() string { return "calculate_team_health" }

func (teamHealthTool) Definition() ports.ToolDefinition {
	return ports.ToolDefinition{
		Name:        "calculate_team_health",
		Description: "Computes a 0-100 team health score from workload distribution, collaboration, blockers, sentiment and participation.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"team_data": map[string]any{
					"type":        "object",
					"description": "Team metrics: total_members, active_members, total_messages, collaborative_messages, messages_per_user, total_blockers, sentiment_score",
				},
			},
			"required": []string{"team_data"},
		},
	}
}

func (teamHealthTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var payload struct {
		TeamData struct {
			TotalMembers          int             `json:"total_members"`
			ActiveMembers         int             `json:"active_members"`
			TotalMessages         int             `json:"total_messages"`
			CollaborativeMessages int             `json:"collaborative_messages"`
			MessagesPerUser       json.RawMessage `json:"messages_per_user"`
			TotalBlockers         int             `json:"total_blockers"`
			SentimentScore        float64         `json:"sentiment_score"`
		} `json:"team_data"`
	}
	if err := json.Unmarshal(args, &payload); err != nil {
		return "", fmt.Errorf("decode team data: %w", err)
	}

	return marshalResult(analysis.TeamHealth(analysis.TeamData{
		TotalMembers:          payload.TeamData.TotalMembers,
		ActiveMembers:         payload.TeamData.ActiveMembers,
		TotalMessages:         payload.TeamData.TotalMessages,
		CollaborativeMessages: payload.TeamData.CollaborativeMessages,
		MessagesPerUser:       decodeCounts(payload.TeamData.MessagesPerUser),
		TotalBlockers:         payload.TeamData.TotalBlockers,
		SentimentScore:        payload.TeamData.SentimentScore,
	}))
}

// decodeCounts accepts per-user counts as either an array of numbers or a
// mapping from user to number. Non-numeric entries are dropped; the health
// scorer filters invalid values again on its side.
func decodeCounts(raw json.RawMessage) []float64 {
	if len(raw) == 0 {
		return nil
	}

	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		counts := make([]float64, 0, len(list))
		for _, entry := range list {
			if v, ok := entry.(float64); ok {
				counts = append(counts, v)
			}
		}
		return counts
	}

	var byUser map[string]any
	if err := json.Unmarshal(raw, &byUser); err == nil {
		counts := make([]float64, 0, len(byUser))
		for _, entry := range byUser {
			if v, ok := entry.(float64); ok {
				counts = append(counts, v)
			}
		}
		return counts
	}
	return nil
}

type decisionsTool struct {
	analyzer *analysis.Analyzer
}

func (decisionsTool) Name() string { return "extract_key_decisions" }

func (decisionsTool) Definition() ports.ToolDefinition {
	return ports.ToolDefinition{
		Name:        "extract_key_decisions",
		Description: "Extracts key decisions with full context: what was decided, by whom, why, and the next steps.",
		InputSchema: messagesSchema("List of enriched messages"),
	}
}

func (t decisionsTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	messages, err := decodeMessages(args)
	if err != nil {
		return "", err
	}
	return marshalResult(t.analyzer.Decisions(messages))
}
