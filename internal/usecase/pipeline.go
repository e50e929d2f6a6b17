package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"pulse/internal/analysis"
	"pulse/internal/domain"
	"pulse/internal/ports"
	"pulse/internal/report"
)

const minRealMessageLength = 15

// PipelineDeps wires all driven adapters into the direct-mode pipeline.
type PipelineDeps struct {
	Source    ports.MessageSource
	Store     ports.MessageStore
	Directory ports.UserDirectory
	Model     ports.ModelClient
	Notifier  ports.Notifier
	Analyzer  *analysis.Analyzer
	Logger    *slog.Logger
}

// PipelineConfig carries the run parameters shared by both modes.
type PipelineConfig struct {
	ChannelID    string
	LeadUserID   string
	WindowDays   int
	BaselineDays int
	MaxTokens    int
}

// Pipeline implements the direct report mode: run every extractor, assemble
// one structured context, issue a single model call and deliver the result.
type Pipeline struct {
	source    ports.MessageSource
	store     ports.MessageStore
	directory ports.UserDirectory
	model     ports.ModelClient
	notifier  ports.Notifier
	analyzer  *analysis.Analyzer
	logger    *slog.Logger
	cfg       PipelineConfig
}

// NewPipeline constructs the direct-mode orchestrator.
func NewPipeline(deps PipelineDeps, cfg PipelineConfig) *Pipeline {
	return &Pipeline{
		source:    deps.Source,
		store:     deps.Store,
		directory: deps.Directory,
		model:     deps.Model,
		notifier:  deps.Notifier,
		analyzer:  deps.Analyzer,
		logger:    deps.Logger,
		cfg:       cfg,
	}
}

// Run executes one full report cycle for the configured channel. Transient
// failures on the store, the directory and the member listing degrade to
// defaults; a failed model call or report delivery aborts the run.
func (p *Pipeline) Run(ctx context.Context, now time.Time) error {
	messages, fromStore := fetchWindow(ctx, p.store, p.source, p.logger, p.cfg.ChannelID, p.cfg.WindowDays)
	if len(messages) == 0 {
		p.logger.Info("no messages in window, skipping run", "channel", p.cfg.ChannelID)
		return nil
	}

	if p.store != nil {
		saved, err := p.store.SaveBatch(ctx, p.cfg.ChannelID, messages)
		if err != nil {
			p.logger.Warn("persist messages failed", "error", err)
		} else if !fromStore && saved == 0 {
			p.logger.Info("no new activity since last run", "channel", p.cfg.ChannelID)
			return nil
		}
	}

	cache := NewNameCache(p.directory, p.logger)
	enrichNames(ctx, cache, messages)

	real := filterReal(messages)
	if len(real) == 0 {
		p.logger.Info("no real messages after filtering", "channel", p.cfg.ChannelID)
		return nil
	}

	channelName := p.channelName(ctx)
	channelBaseline := p.channelBaseline(ctx)

	updates := p.analyzer.Updates(real)
	sentiment := p.analyzer.Sentiment(real)
	health := p.analyzer.ProjectHealth(real, updates)
	participation := p.analyzer.Participation(real)
	status := p.analyzer.ProjectStatus(real, channelBaseline)
	progress := p.analyzer.Progress(real, updates)
	decisions := p.analyzer.Decisions(real)
	risks := p.analyzer.Risks(real)
	meetings := p.analyzer.Meetings(real)
	blockers := p.analyzer.Blockers(real)

	members := p.channelMembers(ctx, real)
	activity, capacities, users := p.assessMembers(ctx, cache, members, real)
	causes := p.analyzer.InferCauses(real, participation, activity)

	teamHealth := p.teamHealth(real, capacities, blockers.TotalBlockers, sentiment.Score)

	reportCtx := &report.Context{
		ChannelName:     channelName,
		WindowDays:      p.cfg.WindowDays,
		BaselineDays:    p.cfg.BaselineDays,
		Messages:        real,
		Updates:         updates,
		Status:          status,
		Progress:        progress,
		Capacities:      capacities,
		Decisions:       decisions,
		Risks:           risks,
		Meetings:        meetings,
		Health:          health,
		Sentiment:       sentiment,
		Participation:   participation,
		Causes:          causes,
		ChannelBaseline: channelBaseline,
		Users:           users,
	}

	resp, err := p.model.Generate(ctx, ports.ModelRequest{
		Prompt:    reportCtx.Prompt(),
		MaxTokens: p.cfg.MaxTokens,
	})
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	if resp.Kind != ports.KindFinal {
		return fmt.Errorf("generate report: unexpected response kind %q", resp.Kind)
	}

	metrics := report.CalculateMetrics(real, len(members))
	links := report.BuildLinks(p.cfg.ChannelID, real, updates, p.analyzer.Lexicon())
	final := report.Compose(channelName, now, metrics, p.cfg.WindowDays, resp.Text, links)

	if err := p.notifier.SendDirectMessage(ctx, p.cfg.LeadUserID, final); err != nil {
		return fmt.Errorf("send report: %w", err)
	}

	p.saveReport(ctx, domain.AnalysisReport{
		RunID:           uuid.NewString(),
		ChannelID:       p.cfg.ChannelID,
		Date:            now,
		TotalMessages:   len(real),
		ActiveUsers:     metrics.ActiveUsers,
		UpdatesCount:    len(updates),
		DecisionsCount:  decisions.TotalMade + decisions.TotalPending,
		BlockersCount:   blockers.TotalBlockers,
		SentimentScore:  sentiment.Score,
		TeamHealthScore: teamHealth.OverallScore,
		Content:         final,
		Sent:            true,
	})

	p.logger.Info("report delivered",
		"channel", p.cfg.ChannelID,
		"messages", len(real),
		"active_users", metrics.ActiveUsers,
		"team_health", teamHealth.OverallScore,
	)
	return nil
}

// assessMembers builds per-member activity, capacity profiles and baseline
// views. Every channel member gets a capacity profile, including those with
// zero messages today; bot and deleted accounts are skipped.
func (p *Pipeline) assessMembers(
	ctx context.Context,
	cache *NameCache,
	members []string,
	real []domain.Message,
) (map[string]analysis.UserActivity, []domain.CapacityProfile, []report.UserBaselineView) {
	byUser := map[string][]domain.Message{}
	for _, msg := range real {
		byUser[msg.UserID] = append(byUser[msg.UserID], msg)
	}

	activity := map[string]analysis.UserActivity{}
	var capacities []domain.CapacityProfile
	var users []report.UserBaselineView

	for _, userID := range members {
		if profile, ok := cache.Profile(ctx, userID); ok && (profile.IsBot || profile.Deleted) {
			continue
		}
		name := cache.Resolve(ctx, userID)
		personal := byUser[userID]

		var baseline *domain.Baseline
		if p.store != nil {
			var err error
			baseline, err = p.store.UserBaseline(ctx, userID, p.cfg.ChannelID, p.cfg.BaselineDays)
			if err != nil {
				p.logger.Warn("user baseline lookup failed", "user_id", userID, "error", err)
				baseline = nil
			}
		}
		comparison := analysis.CompareToBaseline(float64(len(personal)), baseline, "messages")

		activity[userID] = analysis.UserActivity{
			UserID:        userID,
			Name:          name,
			MessagesToday: len(personal),
			Comparison:    comparison,
		}
		capacities = append(capacities, p.analyzer.Capacity(analysis.MemberActivity{
			UserID:        userID,
			Name:          name,
			MessagesToday: len(personal),
			Baseline:      baseline,
			Comparison:    comparison,
			Messages:      personal,
		}))
		if len(personal) > 0 {
			users = append(users, report.UserBaselineView{
				Name:          name,
				MessagesToday: len(personal),
				Baseline:      baseline,
				Comparison:    comparison,
			})
		}
	}
	return activity, capacities, users
}

func (p *Pipeline) teamHealth(real []domain.Message, capacities []domain.CapacityProfile, totalBlockers int, sentimentScore float64) domain.TeamHealthScore {
	counts := map[string]int{}
	collaborative := 0
	for _, msg := range real {
		counts[msg.UserID]++
		if strings.Contains(msg.Text, "@") {
			collaborative++
		}
	}

	perUser := make([]float64, 0, len(counts))
	for _, count := range counts {
		perUser = append(perUser, float64(count))
	}

	total := len(capacities)
	active := 0
	for _, cap := range capacities {
		if cap.MessagesToday > 0 {
			active++
		}
	}
	if total == 0 {
		total = len(counts)
		active = len(counts)
	}

	return analysis.TeamHealth(analysis.TeamData{
		TotalMembers:          total,
		ActiveMembers:         active,
		TotalMessages:         len(real),
		CollaborativeMessages: collaborative,
		MessagesPerUser:       perUser,
		TotalBlockers:         totalBlockers,
		SentimentScore:        sentimentScore,
	})
}

func (p *Pipeline) channelName(ctx context.Context) string {
	name, err := p.source.ChannelName(ctx, p.cfg.ChannelID)
	if err != nil || name == "" {
		p.logger.Warn("channel name lookup failed", "error", err)
		return "project"
	}
	return name
}

func (p *Pipeline) channelMembers(ctx context.Context, real []domain.Message) []string {
	members, err := p.source.ChannelMembers(ctx, p.cfg.ChannelID)
	if err != nil || len(members) == 0 {
		p.logger.Warn("member listing failed, using active posters", "error", err)
		seen := map[string]bool{}
		members = members[:0]
		for _, msg := range real {
			if !seen[msg.UserID] {
				seen[msg.UserID] = true
				members = append(members, msg.UserID)
			}
		}
		sort.Strings(members)
	}
	return members
}

func (p *Pipeline) channelBaseline(ctx context.Context) *domain.Baseline {
	if p.store == nil {
		return nil
	}
	baseline, err := p.store.ChannelBaseline(ctx, p.cfg.ChannelID, p.cfg.BaselineDays)
	if err != nil {
		p.logger.Warn("channel baseline lookup failed", "error", err)
		return nil
	}
	return baseline
}

func (p *Pipeline) saveReport(ctx context.Context, row domain.AnalysisReport) {
	if p.store == nil {
		return
	}
	if err := p.store.SaveReport(ctx, row); err != nil {
		p.logger.Warn("persist report failed", "error", err)
	}
}

// fetchWindow serves the message window, trying the store before the live
// source. Either side failing degrades to the other; both failing yields an
// empty window.
func fetchWindow(
	ctx context.Context,
	store ports.MessageStore,
	source ports.MessageSource,
	logger *slog.Logger,
	channelID string,
	windowDays int,
) (messages []domain.Message, fromStore bool) {
	if store != nil {
		stored, err := store.Messages(ctx, channelID, windowDays)
		if err != nil {
			logger.Warn("message store read failed", "error", err)
		} else if len(stored) > 0 {
			return stored, true
		}
	}

	live, err := source.FetchRecent(ctx, channelID, windowDays)
	if err != nil {
		logger.Error("live message fetch failed", "error", err)
		return nil, false
	}
	return live, false
}

// enrichNames stamps the resolved display name on every message in place.
func enrichNames(ctx context.Context, cache *NameCache, messages []domain.Message) {
	for i := range messages {
		messages[i].UserName = cache.Resolve(ctx, messages[i].UserID)
	}
}

// filterReal drops system noise: join notices, messages opening with a bare
// mention, and anything too short to carry signal.
func filterReal(messages []domain.Message) []domain.Message {
	real := make([]domain.Message, 0, len(messages))
	for _, msg := range messages {
		text := msg.Text
		if text == "" {
			continue
		}
		lowered := strings.ToLower(text)
		if strings.Contains(lowered, "se ha unido al canal") || strings.Contains(lowered, "has joined") {
			continue
		}
		if strings.HasPrefix(text, "<@") {
			continue
		}
		if len([]rune(text)) <= minRealMessageLength {
			continue
		}
		real = append(real, msg)
	}
	return real
}
