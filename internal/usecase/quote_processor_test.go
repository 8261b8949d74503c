package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"SharePulse/internal/domain/models"
)

type memPublisher struct {
	quotes  []*models.Quote
	reports []*models.AnalysisReport
	fail    bool
}

func (p *memPublisher) PublishQuote(_ context.Context, q *models.Quote) error {
	if p.fail {
		return fmt.Errorf("broker down")
	}
	p.quotes = append(p.quotes, q)
	return nil
}

func (p *memPublisher) PublishQuoteBatch(_ context.Context, quotes []*models.Quote) error {
	if p.fail {
		return fmt.Errorf("broker down")
	}
	p.quotes = append(p.quotes, quotes...)
	return nil
}

func (p *memPublisher) PublishReport(_ context.Context, r *models.AnalysisReport) error {
	if p.fail {
		return fmt.Errorf("broker down")
	}
	p.reports = append(p.reports, r)
	return nil
}

func (p *memPublisher) Close() error { return nil }

type memStorage struct {
	quotes []*models.Quote
}

func (s *memStorage) Init(context.Context) error { return nil }

func (s *memStorage) Store(_ context.Context, q *models.Quote) error {
	s.quotes = append(s.quotes, q)
	return nil
}

func (s *memStorage) StoreBatch(_ context.Context, quotes []*models.Quote) error {
	s.quotes = append(s.quotes, quotes...)
	return nil
}

func (s *memStorage) Query(context.Context, string, time.Time, time.Time, int) ([]*models.Quote, error) {
	return nil, nil
}

func (s *memStorage) Health(context.Context) error { return nil }
func (s *memStorage) Close() error                 { return nil }

type nullMetrics struct {
	errors map[string]int
	sent   int
}

func newNullMetrics() *nullMetrics { return &nullMetrics{errors: make(map[string]int)} }

func (m *nullMetrics) RecordMessageSent(string, string)   { m.sent++ }
func (m *nullMetrics) RecordError(kind string)            { m.errors[kind]++ }
func (m *nullMetrics) RecordLastPrice(string, float64)    {}
func (m *nullMetrics) RecordLatency(op string, s float64) {}

func TestProcessRoutesToKafka(t *testing.T) {
	pub := &memPublisher{}
	met := newNullMetrics()
	p := NewQuoteProcessor(pub, nil, met, "kafka", 100, 0)

	q := &models.Quote{Symbol: "AGL", Price: 425.5, Volume: 100, Timestamp: 1700000000000}
	if err := p.Process(context.Background(), q); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(pub.quotes) != 1 || pub.quotes[0].Symbol != "AGL" {
		t.Fatalf("expected 1 published quote, got %+v", pub.quotes)
	}
	if met.sent != 1 {
		t.Fatalf("expected 1 sent metric, got %d", met.sent)
	}
}

func TestProcessRoutesToClickHouse(t *testing.T) {
	store := &memStorage{}
	p := NewQuoteProcessor(nil, store, newNullMetrics(), "clickhouse", 100, 0)

	q := &models.Quote{Symbol: "SOL", Price: 612.0, Volume: 50, Timestamp: 1700000000000}
	if err := p.Process(context.Background(), q); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(store.quotes) != 1 || store.quotes[0].Symbol != "SOL" {
		t.Fatalf("expected 1 stored quote, got %+v", store.quotes)
	}
}

func TestProcessUnknownBackend(t *testing.T) {
	met := newNullMetrics()
	p := NewQuoteProcessor(&memPublisher{}, &memStorage{}, met, "postgres", 100, 0)

	err := p.Process(context.Background(), &models.Quote{Symbol: "NPN", Price: 1, Timestamp: 1})
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if met.errors["process"] != 1 {
		t.Fatalf("expected process error metric, got %v", met.errors)
	}
}

func TestProcessMissingBackendDeps(t *testing.T) {
	met := newNullMetrics()
	q := &models.Quote{Symbol: "AGL", Price: 425, Timestamp: 1700000000000}

	p := NewQuoteProcessor(nil, nil, met, "clickhouse", 0, 0)
	if err := p.Process(context.Background(), q); err == nil {
		t.Fatal("expected error when clickhouse backend has no storage")
	}
	if err := p.ProcessBatch(context.Background(), []*models.Quote{q}); err == nil {
		t.Fatal("expected batch error when clickhouse backend has no storage")
	}

	p = NewQuoteProcessor(nil, &memStorage{}, met, "kafka", 0, 0)
	if err := p.Process(context.Background(), q); err == nil {
		t.Fatal("expected error when kafka backend has no publisher")
	}
}

func TestProcessNilQuote(t *testing.T) {
	p := NewQuoteProcessor(&memPublisher{}, nil, newNullMetrics(), "kafka", 100, 0)
	if err := p.Process(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil quote")
	}
}

func TestProcessBatch(t *testing.T) {
	pub := &memPublisher{}
	p := NewQuoteProcessor(pub, nil, newNullMetrics(), "kafka", 100, 0)

	quotes := []*models.Quote{
		{Symbol: "AGL", Price: 425, Timestamp: 1},
		{Symbol: "AGL", Price: 426, Timestamp: 2},
		{Symbol: "SOL", Price: 612, Timestamp: 3},
	}
	if err := p.ProcessBatch(context.Background(), quotes); err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(pub.quotes) != 3 {
		t.Fatalf("expected 3 published quotes, got %d", len(pub.quotes))
	}
}
