package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pulse/internal/app"
	"pulse/internal/config"
	"pulse/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// runFlags override the loaded configuration for a single invocation.
type runFlags struct {
	channelID  string
	leadUserID string
	windowDays int
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.channelID, "channel", "", "channel id to analyze (overrides config)")
	cmd.Flags().StringVar(&f.leadUserID, "lead", "", "user id receiving the report (overrides config)")
	cmd.Flags().IntVar(&f.windowDays, "window", 0, "business days to analyze (overrides config)")
}

func (f *runFlags) apply(cfg *config.Config) {
	if f.channelID != "" {
		cfg.Chat.ChannelID = f.channelID
	}
	if f.leadUserID != "" {
		cfg.Chat.LeadUserID = f.leadUserID
	}
	if f.windowDays > 0 {
		cfg.Report.WindowDays = f.windowDays
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pulse",
		Short:         "Daily chat-activity reports for project leads",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newReportCmd(), newAgentCmd(), newServeCmd())
	return root
}

func newReportCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run one direct-mode report and deliver it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), &flags, func(ctx context.Context, application *app.Application) error {
				return application.RunOnce(ctx)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newAgentCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Run one agentic report where the model drives the extractors",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), &flags, func(ctx context.Context, application *app.Application) error {
				return application.RunAgent(ctx)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newServeCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the recurring report scheduler until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withApp(ctx, &flags, func(ctx context.Context, application *app.Application) error {
				return application.Serve(ctx)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func withApp(ctx context.Context, flags *runFlags, run func(context.Context, *app.Application) error) error {
	cfg := config.Load()
	flags.apply(&cfg)
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return err
	}
	defer application.Close()

	if err := run(ctx, application); err != nil {
		logger.Error("run failed", "error", err)
		return err
	}
	return nil
}
