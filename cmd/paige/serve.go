package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"paige/internal/analytics"
	"paige/internal/events"
	"paige/internal/interaction"
	"paige/internal/scheduler"
	"paige/internal/selection"
	"paige/internal/web"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the reader backend (HTTP API and state stream)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := setup(ctx)
	if err != nil {
		return err
	}
	defer rt.close()
	cfg, lg := rt.cfg, rt.log

	client, err := newBackendClient(cfg, lg)
	if err != nil {
		return err
	}
	prompts, err := interaction.LoadQuickPrompts(cfg.QuickPromptsPath)
	if err != nil {
		return err
	}

	bus := events.NewBus(lg)
	defer func() { _ = bus.Close() }()

	ctrl := interaction.NewController(client, rt.store,
		interaction.WithNotifier(bus),
		interaction.WithQuickPrompts(prompts),
		interaction.WithLogger(lg),
	)

	dispatcher := selection.NewDispatcher()
	monitor := selection.NewMonitor(selection.ContainerViewport{ID: cfg.ViewportID}, ctrl, lg)
	monitor.Start(dispatcher)
	defer monitor.Stop()

	hub := web.NewHub(lg)
	states, err := bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	go hub.Run(states)

	sched := scheduler.New(cfg.ReportSchedule, lg)
	sched.SetReportFunction(func(ctx context.Context) error {
		stats := analytics.AnalyzeDaily(rt.store.All(), time.Now().UTC(), promptTexts(prompts))
		lg.Info("daily reading report",
			zap.String("date", stats.Date),
			zap.Int("conversations", stats.TotalConversations),
			zap.String("summary", stats.Summary()),
		)
		return nil
	})
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	srv := web.NewServer(ctrl, dispatcher, hub, web.Options{
		Addr:         cfg.HTTPAddr,
		DocumentPath: cfg.DocumentPath,
	}, lg)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
		lg.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(sctx); err != nil {
		lg.Warn("http shutdown incomplete", zap.Error(err))
	}
	// let a pending answer reach the log before exiting
	if err := ctrl.Wait(sctx); err != nil {
		lg.Warn("pending request abandoned at shutdown", zap.Error(err))
	}
	return nil
}

func promptTexts(prompts []interaction.QuickPrompt) []string {
	out := make([]string, 0, len(prompts))
	for _, p := range prompts {
		out = append(out, p.Text)
	}
	return out
}
