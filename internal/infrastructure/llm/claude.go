package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pulse/internal/config"
	"pulse/internal/ports"
)

const anthropicVersion = "2023-06-01"

// ClaudeClient implements ports.ModelClient against the Anthropic Messages
// API. One client instance serves both the direct single-shot call and the
// agentic tool-use conversation.
type ClaudeClient struct {
	endpoint   string
	model      string
	apiKey     string
	maxTokens  int
	httpClient *http.Client
}

var _ ports.ModelClient = (*ClaudeClient)(nil)

// NewClaudeClient builds a client from configuration.
func NewClaudeClient(cfg config.ModelConfig) *ClaudeClient {
	return &ClaudeClient{
		endpoint:  cfg.Endpoint,
		model:     cfg.Name,
		apiKey:    cfg.APIKey,
		maxTokens: cfg.MaxTokens,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type apiContentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   string          `json:"content,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type apiResponse struct {
	Content    []apiContentBlock `json:"content"`
	StopReason string            `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate issues one Messages API call and maps the stop reason onto the
// response kind: tool_use becomes a tool request, everything else is treated
// as a final answer.
func (c *ClaudeClient) Generate(ctx context.Context, req ports.ModelRequest) (ports.ModelResponse, error) {
	if c == nil {
		return ports.ModelResponse{}, fmt.Errorf("claude client is nil")
	}
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return ports.ModelResponse{}, fmt.Errorf("claude client misconfigured")
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	payload := map[string]any{
		"model":      c.model,
		"max_tokens": maxTokens,
		"messages":   buildMessages(req),
	}
	if req.System != "" {
		payload["system"] = req.System
	}
	if len(req.Tools) > 0 {
		payload["tools"] = buildTools(req.Tools)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return ports.ModelResponse{}, fmt.Errorf("marshal claude payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return ports.ModelResponse{}, fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return ports.ModelResponse{}, fmt.Errorf("call claude: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return ports.ModelResponse{}, fmt.Errorf("claude error %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return ports.ModelResponse{}, fmt.Errorf("decode claude response: %w", err)
	}
	if parsed.Error != nil {
		return ports.ModelResponse{}, fmt.Errorf("claude %s: %s", parsed.Error.Type, parsed.Error.Message)
	}

	return mapResponse(parsed), nil
}

func mapResponse(parsed apiResponse) ports.ModelResponse {
	var text strings.Builder
	var calls []ports.ToolCall
	for _, block := range parsed.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			calls = append(calls, ports.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: block.Input,
			})
		}
	}

	if parsed.StopReason == "tool_use" && len(calls) > 0 {
		return ports.ModelResponse{
			Kind:      ports.KindToolRequest,
			Text:      text.String(),
			ToolCalls: calls,
		}
	}
	return ports.ModelResponse{Kind: ports.KindFinal, Text: text.String()}
}

// buildMessages converts the request into the wire shape. A bare prompt
// becomes a single user message; a history is marshaled turn by turn with
// tool calls and tool results as content blocks.
func buildMessages(req ports.ModelRequest) []apiMessage {
	if len(req.History) == 0 {
		return []apiMessage{{Role: "user", Content: req.Prompt}}
	}

	messages := make([]apiMessage, 0, len(req.History))
	for _, turn := range req.History {
		switch {
		case len(turn.ToolResults) > 0:
			blocks := make([]apiContentBlock, 0, len(turn.ToolResults))
			for _, result := range turn.ToolResults {
				blocks = append(blocks, apiContentBlock{
					Type:      "tool_result",
					ToolUseID: result.CallID,
					Content:   result.Content,
					IsError:   result.IsError,
				})
			}
			messages = append(messages, apiMessage{Role: turn.Role, Content: blocks})

		case len(turn.ToolCalls) > 0:
			var blocks []apiContentBlock
			if turn.Text != "" {
				blocks = append(blocks, apiContentBlock{Type: "text", Text: turn.Text})
			}
			for _, call := range turn.ToolCalls {
				input := call.Arguments
				if len(input) == 0 {
					input = json.RawMessage(`{}`)
				}
				blocks = append(blocks, apiContentBlock{
					Type:  "tool_use",
					ID:    call.ID,
					Name:  call.Name,
					Input: input,
				})
			}
			messages = append(messages, apiMessage{Role: turn.Role, Content: blocks})

		default:
			messages = append(messages, apiMessage{Role: turn.Role, Content: turn.Text})
		}
	}
	return messages
}

func buildTools(defs []ports.ToolDefinition) []map[string]any {
	tools := make([]map[string]any, 0, len(defs))
	for _, def := range defs {
		schema := def.InputSchema
		if schema == nil {
			schema = map[string]any{"type": "object"}
		}
		tools = append(tools, map[string]any{
			"name":         def.Name,
			"description":  def.Description,
			"input_schema": schema,
		})
	}
	return tools
}
