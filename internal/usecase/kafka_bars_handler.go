package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"SharePulse/internal/domain/models"
	domrepo "SharePulse/internal/domain/repository"
	pkgkafka "SharePulse/pkg/kafka"
	"SharePulse/pkg/util"
)

// KafkaBarsHandler consumes end-of-day bar messages and writes them to
// the bar store.
type KafkaBarsHandler struct {
	topic   string
	writer  domrepo.BarWriter
	metrics domrepo.Metrics
}

func NewKafkaBarsHandler(topic string, writer domrepo.BarWriter, metrics domrepo.Metrics) *KafkaBarsHandler {
	return &KafkaBarsHandler{topic: topic, writer: writer, metrics: metrics}
}

func (h *KafkaBarsHandler) Topic() string { return h.topic }

// incoming message schema: {symbol, date, open, high, low, close, volume}
func (h *KafkaBarsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Symbol string  `json:"symbol"`
		Date   string  `json:"date"`
		Open   float64 `json:"open"`
		High   float64 `json:"high"`
		Low    float64 `json:"low"`
		Close  float64 `json:"close"`
		Volume float64 `json:"volume"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.Symbol == "" {
		h.metrics.RecordError("consumer_validate")
		return fmt.Errorf("bar message missing symbol")
	}
	date, ok := util.ParseTime(m.Date)
	if !ok {
		h.metrics.RecordError("consumer_validate")
		return fmt.Errorf("bar message bad date: %q", m.Date)
	}

	start := time.Now()
	err := h.writer.StoreBars(ctx, []models.Bar{{
		Symbol: m.Symbol,
		Date:   util.DayStart(date),
		Open:   m.Open,
		High:   m.High,
		Low:    m.Low,
		Close:  m.Close,
		Volume: m.Volume,
	}})
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordMessageSent("clickhouse", m.Symbol)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaBarsHandler)(nil)
