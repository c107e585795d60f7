package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the periodic reading report.
type Scheduler struct {
	cron       *cron.Cron
	ctx        context.Context
	cancel     context.CancelFunc
	spec       string
	reportFunc func(ctx context.Context) error
	log        *zap.Logger
}

// New creates a scheduler firing on spec (standard 5-field cron, UTC).
func New(spec string, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
		spec:   spec,
		log:    log.With(zap.String("component", "scheduler")),
	}
}

func (s *Scheduler) SetReportFunction(f func(ctx context.Context) error) {
	s.reportFunc = f
}

func (s *Scheduler) Start() error {
	if s.reportFunc == nil {
		s.log.Warn("report function not set, scheduler will not generate reports")
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		s.log.Info("generating reading report")
		if err := s.reportFunc(s.ctx); err != nil {
			s.log.Error("reading report failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid report schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.log.Info("scheduler started", zap.String("schedule", s.spec))
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
