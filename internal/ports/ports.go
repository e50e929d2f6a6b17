package ports

import (
	"context"
	"encoding/json"
	"time"

	"pulse/internal/domain"
)

// MessageSource pulls recent channel activity from the live chat platform.
type MessageSource interface {
	FetchRecent(ctx context.Context, channelID string, windowDays int) ([]domain.Message, error)
	ChannelName(ctx context.Context, channelID string) (string, error)
	ChannelMembers(ctx context.Context, channelID string) ([]string, error)
}

// UserDirectory resolves user identifiers to profiles.
type UserDirectory interface {
	ResolveUser(ctx context.Context, userID string) (domain.UserProfile, error)
}

// MessageStore persists channel history and serves baselines computed over
// a trailing window. The store is tried before the live source.
type MessageStore interface {
	Messages(ctx context.Context, channelID string, windowDays int) ([]domain.Message, error)
	SaveBatch(ctx context.Context, channelID string, messages []domain.Message) (int, error)
	UserBaseline(ctx context.Context, userID, channelID string, windowDays int) (*domain.Baseline, error)
	ChannelBaseline(ctx context.Context, channelID string, windowDays int) (*domain.Baseline, error)
	SaveReport(ctx context.Context, report domain.AnalysisReport) error
}

// Notifier delivers the finished report to the project lead.
type Notifier interface {
	SendDirectMessage(ctx context.Context, userID, text string) error
}

// Scheduler controls when report runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

// ToolDefinition describes one extractor exposed to the model as a tool.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// ToolCall is one tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolResult feeds one executed tool call back into the conversation.
// IsError marks structured error payloads for unknown or failed tools.
type ToolResult struct {
	CallID  string
	Content string
	IsError bool
}

// ModelTurn is one conversation turn. Assistant turns may carry tool calls;
// user turns may carry tool results.
type ModelTurn struct {
	Role        string
	Text        string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
}

// ResponseKind signals whether the model finished or wants tools executed.
type ResponseKind string

const (
	KindFinal       ResponseKind = "final_text"
	KindToolRequest ResponseKind = "tool_request"
)

// ModelRequest is one generation request: a prompt (first turn) or an
// accumulated conversation, with optional tool definitions.
type ModelRequest struct {
	System    string
	Prompt    string
	History   []ModelTurn
	Tools     []ToolDefinition
	MaxTokens int
}

// ModelResponse is the model's answer: final text, or a batch of tool calls
// to execute before re-invoking.
type ModelResponse struct {
	Kind      ResponseKind
	Text      string
	ToolCalls []ToolCall
}

// ModelClient produces text or tool-invocation requests from context.
type ModelClient interface {
	Generate(ctx context.Context, req ModelRequest) (ModelResponse, error)
}
