package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"SharePulse/internal/usecase"
	applogger "SharePulse/pkg/logger"
	"SharePulse/pkg/queue"
)

// Config drives the daily refresh schedule.
type Config struct {
	Spec    string // cron expression, e.g. "0 18 * * MON-FRI" (after JSE close)
	Symbols []string
	Months  int
	Monthly float64
	Model   string
}

// Scheduler enqueues one refresh job per configured symbol on the cron
// spec. Without a queue it runs the refreshes inline.
type Scheduler struct {
	cfg  Config
	cron *cron.Cron
	q    queue.QueueService
	job  *usecase.RefreshJob
	l    *applogger.Logger
}

func New(cfg Config, q queue.QueueService, job *usecase.RefreshJob, lgr *applogger.Logger) *Scheduler {
	if cfg.Spec == "" {
		cfg.Spec = "0 18 * * MON-FRI"
	}
	if cfg.Months <= 0 {
		cfg.Months = 6
	}
	if cfg.Monthly <= 0 {
		cfg.Monthly = 1000
	}
	return &Scheduler{
		cfg:  cfg,
		cron: cron.New(),
		q:    q,
		job:  job,
		l:    lgr,
	}
}

// Start registers the refresh entry and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Spec, s.refreshAll); err != nil {
		return err
	}
	s.cron.Start()
	s.l.Info("scheduler started",
		applogger.String("spec", s.cfg.Spec),
		applogger.Int("symbols", len(s.cfg.Symbols)))
	return nil
}

// Stop halts the cron loop and waits for a running refresh to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunNow triggers a full refresh outside the schedule.
func (s *Scheduler) RunNow() { s.refreshAll() }

func (s *Scheduler) refreshAll() {
	start := time.Now()
	for _, symbol := range s.cfg.Symbols {
		payload := usecase.RefreshPayload{
			Symbol:  symbol,
			Months:  s.cfg.Months,
			Monthly: s.cfg.Monthly,
			Model:   s.cfg.Model,
		}

		if s.q != nil {
			if err := s.q.PublishMessage(context.Background(), usecase.RefreshJobType, payload); err != nil {
				s.l.Error("refresh enqueue failed",
					applogger.String("symbol", symbol),
					applogger.Error(err))
			}
			continue
		}

		if s.job != nil {
			if err := s.job.Handle(context.Background(), payload); err != nil {
				s.l.Error("inline refresh failed",
					applogger.String("symbol", symbol),
					applogger.Error(err))
			}
		}
	}
	s.l.Info("refresh cycle dispatched",
		applogger.Int("symbols", len(s.cfg.Symbols)),
		applogger.Duration("duration_ms", time.Since(start)))
}
