package scheduler

import (
	"context"
	"sync"
	"testing"

	"SharePulse/internal/usecase"
	applogger "SharePulse/pkg/logger"
	"SharePulse/pkg/queue"
)

type captureQueue struct {
	mu       sync.Mutex
	payloads []usecase.RefreshPayload
}

func (q *captureQueue) PublishMessage(_ context.Context, msgType string, payload interface{}) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if msgType != usecase.RefreshJobType {
		return nil
	}
	if p, ok := payload.(usecase.RefreshPayload); ok {
		q.payloads = append(q.payloads, p)
	}
	return nil
}

var _ queue.QueueService = (*captureQueue)(nil)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestRunNowEnqueuesAllSymbols(t *testing.T) {
	q := &captureQueue{}
	s := New(Config{
		Symbols: []string{"AGL", "SOL", "NPN"},
		Months:  6,
		Monthly: 1000,
		Model:   "linear",
	}, q, nil, testLogger(t))

	s.RunNow()

	if len(q.payloads) != 3 {
		t.Fatalf("expected 3 enqueued refreshes, got %d", len(q.payloads))
	}
	if q.payloads[0].Symbol != "AGL" || q.payloads[0].Months != 6 {
		t.Fatalf("unexpected payload: %+v", q.payloads[0])
	}
}

func TestConfigDefaults(t *testing.T) {
	s := New(Config{Symbols: []string{"AGL"}}, &captureQueue{}, nil, testLogger(t))

	if s.cfg.Spec == "" {
		t.Fatal("expected a default cron spec")
	}
	if s.cfg.Months != 6 || s.cfg.Monthly != 1000 {
		t.Fatalf("expected defaults for months and monthly, got %+v", s.cfg)
	}
}

func TestStartStop(t *testing.T) {
	s := New(Config{Symbols: []string{"AGL"}, Spec: "0 18 * * MON-FRI"}, &captureQueue{}, nil, testLogger(t))

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
