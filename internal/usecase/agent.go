package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"pulse/internal/domain"
	"pulse/internal/ports"
	"pulse/internal/report"
)

// maxAgentRounds caps the number of model calls in one agentic run. A run
// still requesting tools after the last round fails with no report.
const maxAgentRounds = 10

// agentConversationLimit bounds the raw conversation excerpt embedded in the
// initial prompt.
const agentConversationLimit = 50

// agentState is the explicit state of the tool-use loop.
type agentState string

const (
	stateAwaitingModel  agentState = "awaiting_model"
	stateExecutingTools agentState = "executing_tools"
	stateDone           agentState = "done"
	stateFailed         agentState = "failed"
)

// Agent implements the agentic report mode: the model drives the extractors
// through tool calls until it produces a final answer.
type Agent struct {
	source   ports.MessageSource
	store    ports.MessageStore
	dir      ports.UserDirectory
	model    ports.ModelClient
	notifier ports.Notifier
	registry *ToolRegistry
	logger   *slog.Logger
	cfg      PipelineConfig
}

// NewAgent constructs the agentic orchestrator. The registry normally comes
// from DefaultTools.
func NewAgent(deps PipelineDeps, registry *ToolRegistry, cfg PipelineConfig) *Agent {
	return &Agent{
		source:   deps.Source,
		store:    deps.Store,
		dir:      deps.Directory,
		model:    deps.Model,
		notifier: deps.Notifier,
		registry: registry,
		logger:   deps.Logger,
		cfg:      cfg,
	}
}

// Run executes one agentic report cycle.
func (a *Agent) Run(ctx context.Context, now time.Time) error {
	messages, _ := fetchWindow(ctx, a.store, a.source, a.logger, a.cfg.ChannelID, a.cfg.WindowDays)
	if len(messages) == 0 {
		a.logger.Info("no messages in window, skipping run", "channel", a.cfg.ChannelID)
		return nil
	}

	if a.store != nil {
		if _, err := a.store.SaveBatch(ctx, a.cfg.ChannelID, messages); err != nil {
			a.logger.Warn("persist messages failed", "error", err)
		}
	}

	cache := NewNameCache(a.dir, a.logger)
	enrichNames(ctx, cache, messages)

	real := filterReal(messages)
	if len(real) == 0 {
		a.logger.Info("no real messages after filtering", "channel", a.cfg.ChannelID)
		return nil
	}

	channelName := a.channelName(ctx)
	members := a.channelMembers(ctx, real)

	body, err := a.converse(ctx, a.initialPrompt(channelName, real, len(members)))
	if err != nil {
		return err
	}

	metrics := report.CalculateMetrics(real, len(members))
	final := report.Compose(channelName, now, metrics, a.cfg.WindowDays, body, report.DeepLinks{})

	if err := a.notifier.SendDirectMessage(ctx, a.cfg.LeadUserID, final); err != nil {
		return fmt.Errorf("send report: %w", err)
	}

	if a.store != nil {
		row := domain.AnalysisReport{
			RunID:         uuid.NewString(),
			ChannelID:     a.cfg.ChannelID,
			Date:          now,
			TotalMessages: len(real),
			ActiveUsers:   metrics.ActiveUsers,
			Content:       final,
			Sent:          true,
		}
		if err := a.store.SaveReport(ctx, row); err != nil {
			a.logger.Warn("persist report failed", "error", err)
		}
	}

	a.logger.Info("agentic report delivered", "channel", a.cfg.ChannelID, "messages", len(real))
	return nil
}

// converse drives the tool-use loop as an explicit state machine. Rounds
// count model calls; the loop never exceeds maxAgentRounds of them.
func (a *Agent) converse(ctx context.Context, prompt string) (string, error) {
	history := []ports.ModelTurn{{Role: "user", Text: prompt}}

	var pending []ports.ToolCall
	var final string
	state := stateAwaitingModel
	round := 0

	for state == stateAwaitingModel || state == stateExecutingTools {
		switch state {
		case stateAwaitingModel:
			if round >= maxAgentRounds {
				state = stateFailed
				continue
			}
			round++
			a.logger.Debug("model round", "round", round, "max", maxAgentRounds)

			resp, err := a.model.Generate(ctx, ports.ModelRequest{
				History:   history,
				Tools:     a.registry.Definitions(),
				MaxTokens: a.cfg.MaxTokens,
			})
			if err != nil {
				return "", fmt.Errorf("model round %d: %w", round, err)
			}

			switch resp.Kind {
			case ports.KindFinal:
				final = resp.Text
				state = stateDone
			case ports.KindToolRequest:
				history = append(history, ports.ModelTurn{
					Role:      "assistant",
					Text:      resp.Text,
					ToolCalls: resp.ToolCalls,
				})
				pending = resp.ToolCalls
				state = stateExecutingTools
			default:
				a.logger.Warn("unexpected response kind", "kind", resp.Kind)
				state = stateFailed
			}

		case stateExecutingTools:
			results := a.executeTools(ctx, pending)
			history = append(history, ports.ModelTurn{Role: "user", ToolResults: results})
			pending = nil
			state = stateAwaitingModel
		}
	}

	if state != stateDone {
		return "", fmt.Errorf("agentic run failed after %d rounds without a final answer", round)
	}
	return final, nil
}

// executeTools runs every requested call. Unknown tools and tool failures
// produce structured error payloads fed back to the model instead of
// aborting the loop.
func (a *Agent) executeTools(ctx context.Context, calls []ports.ToolCall) []ports.ToolResult {
	results := make([]ports.ToolResult, 0, len(calls))
	for _, call := range calls {
		tool, err := a.registry.Resolve(call.Name)
		if err != nil {
			a.logger.Warn("unknown tool requested", "tool", call.Name)
			results = append(results, errorResult(call.ID, fmt.Sprintf("unknown tool: %s", call.Name)))
			continue
		}

		a.logger.Debug("executing tool", "tool", call.Name)
		out, err := tool.Execute(ctx, call.Arguments)
		if err != nil {
			a.logger.Warn("tool execution failed", "tool", call.Name, "error", err)
			results = append(results, errorResult(call.ID, err.Error()))
			continue
		}
		results = append(results, ports.ToolResult{CallID: call.ID, Content: out})
	}
	return results
}

func errorResult(callID, message string) ports.ToolResult {
	payload, _ := json.Marshal(map[string]string{"error": message})
	return ports.ToolResult{CallID: callID, Content: string(payload), IsError: true}
}

func (a *Agent) initialPrompt(channelName string, real []domain.Message, totalMembers int) string {
	active := map[string]bool{}
	for _, msg := range real {
		active[msg.UserID] = true
	}

	excerpt := real
	if len(excerpt) > agentConversationLimit {
		excerpt = excerpt[len(excerpt)-agentConversationLimit:]
	}
	lines := make([]string, 0, len(excerpt))
	for _, msg := range excerpt {
		lines = append(lines, fmt.Sprintf("*%s*: %s", msg.UserName, msg.Text))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert executive analyst. Analyze the activity of channel #%s over the last %d business days.\n\n", channelName, a.cfg.WindowDays)
	b.WriteString("CHANNEL DATA:\n----------\n")
	fmt.Fprintf(&b, "Total messages: %d\n", len(real))
	fmt.Fprintf(&b, "Active users: %d\n", len(active))
	fmt.Fprintf(&b, "Total members: %d\n\n", totalMembers)
	b.WriteString("RECENT CONVERSATIONS:\n----------\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n----------\n\n")
	b.WriteString(`YOUR TASK:
1. USE THE AVAILABLE TOOLS to analyze the messages in detail
2. Detect sentiment, blockers, urgency, decisions and team health
3. Produce a COMPLETE and SPECIFIC executive report with names, numbers and context

CRITICAL FORMAT, chat mrkdwn:
- Do NOT use # headings, the chat client ignores them
- Use asterisks for bold: *BOLD TEXT*
- Section titles: emoji plus *bold text*, for example "🎯 *PROJECT STATE*"
- Separate sections with lines of dashes: ----------

REPORT STRUCTURE:
🎯 *PROJECT STATE* (status, progress, urgency level with score)
📊 *TEAM HEALTH* (overall score, sentiment, participation, impact)
🚧 *BLOCKERS AND CRITICAL RISKS* (active blockers and who can unblock)
✅ *KEY DECISIONS* (made and pending)
👥 *PARTICIPATION AND COLLABORATION* (active users, averages, patterns)
💡 *RECOMMENDATIONS* (specific actions)

STRICT RULES:
- ALWAYS include specific names and numbers
- Do NOT invent information, use only what the tools detected
- Be concise but complete`)

	return b.String()
}

func (a *Agent) channelName(ctx context.Context) string {
	name, err := a.source.ChannelName(ctx, a.cfg.ChannelID)
	if err != nil || name == "" {
		a.logger.Warn("channel name lookup failed", "error", err)
		return "project"
	}
	return name
}

func (a *Agent) channelMembers(ctx context.Context, real []domain.Message) []string {
	members, err := a.source.ChannelMembers(ctx, a.cfg.ChannelID)
	if err != nil || len(members) == 0 {
		a.logger.Warn("member listing failed, using active posters", "error", err)
		seen := map[string]bool{}
		members = members[:0]
		for _, msg := range real {
			if !seen[msg.UserID] {
				seen[msg.UserID] = true
				members = append(members, msg.UserID)
			}
		}
	}
	return members
}
