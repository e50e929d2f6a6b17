package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"pulse/internal/analysis"
	"pulse/internal/config"
	"pulse/internal/infrastructure/chat"
	"pulse/internal/infrastructure/llm"
	"pulse/internal/infrastructure/scheduler"
	"pulse/internal/infrastructure/storage"
	"pulse/internal/lexicon"
	"pulse/internal/logging"
	"pulse/internal/ports"
	"pulse/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	pipeline  *usecase.Pipeline
	agent     *usecase.Agent
	scheduler *usecase.Scheduler
	db        *sql.DB
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	slack := chat.NewSlackClient(cfg.Chat.BaseURL, cfg.Chat.BotToken)

	var db *sql.DB
	var store ports.MessageStore
	if cfg.Database.DSN != "" {
		var err error
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		store = storage.NewPostgresStore(db)
	} else {
		baseLogger.Warn("no database configured, baselines and history disabled")
	}

	lex := lexicon.Default()
	if len(cfg.Lexicon) > 0 {
		lex.Merge(cfg.Lexicon)
	}
	analyzer := analysis.New(lex)

	model := llm.NewClaudeClient(cfg.Model)

	deps := usecase.PipelineDeps{
		Source:    slack,
		Store:     store,
		Directory: slack,
		Model:     model,
		Notifier:  slack,
		Analyzer:  analyzer,
		Logger:    logging.Component(baseLogger, "pipeline"),
	}
	runCfg := usecase.PipelineConfig{
		ChannelID:    cfg.Chat.ChannelID,
		LeadUserID:   cfg.Chat.LeadUserID,
		WindowDays:   cfg.Report.WindowDays,
		BaselineDays: cfg.Report.BaselineDays,
		MaxTokens:    cfg.Model.MaxTokens,
	}

	pipeline := usecase.NewPipeline(deps, runCfg)

	agentDeps := deps
	agentDeps.Logger = logging.Component(baseLogger, "agent")
	agent := usecase.NewAgent(agentDeps, usecase.DefaultTools(analyzer), runCfg)

	driver := scheduler.NewDailyScheduler(cfg.Scheduler.Interval, cfg.Scheduler.RunAtBoot, cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, pipeline, logging.Component(baseLogger, "scheduler"))

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		pipeline:  pipeline,
		agent:     agent,
		scheduler: sched,
		db:        db,
	}, nil
}

// RunOnce executes a single direct-mode report run.
func (a *Application) RunOnce(ctx context.Context) error {
	now := time.Now().In(a.cfg.Scheduler.Location())
	return a.pipeline.Run(ctx, now)
}

// RunAgent executes a single agentic report run.
func (a *Application) RunAgent(ctx context.Context) error {
	now := time.Now().In(a.cfg.Scheduler.Location())
	return a.agent.Run(ctx, now)
}

// Serve starts the recurring scheduler and blocks until the context ends.
func (a *Application) Serve(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	<-ctx.Done()
	return a.scheduler.Stop(context.Background())
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
