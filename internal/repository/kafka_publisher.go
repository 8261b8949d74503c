package repository

import (
	"context"

	"SharePulse/internal/domain/models"
	"SharePulse/internal/domain/repository"
	pkgkafka "SharePulse/pkg/kafka"
)

// KafkaPublisher implements Publisher for Kafka. Quotes are keyed by
// symbol so per-symbol ordering survives partitioning; reports go to a
// separate topic.
type KafkaPublisher struct {
	producer     *pkgkafka.Producer
	quotesTopic  string
	reportsTopic string
}

// NewKafkaPublisher creates a Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, quotesTopic, reportsTopic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, quotesTopic: quotesTopic, reportsTopic: reportsTopic}
}

func (p *KafkaPublisher) PublishQuote(ctx context.Context, q *models.Quote) error {
	return p.producer.Publish(ctx, p.quotesTopic, []byte(q.Symbol), quotePayload(q))
}

func (p *KafkaPublisher) PublishQuoteBatch(ctx context.Context, quotes []*models.Quote) error {
	if len(quotes) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(quotes))
	for i, q := range quotes {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(q.Symbol),
			Value: quotePayload(q),
		}
	}
	return p.producer.PublishBatch(ctx, p.quotesTopic, msgs)
}

func (p *KafkaPublisher) PublishReport(ctx context.Context, r *models.AnalysisReport) error {
	return p.producer.Publish(ctx, p.reportsTopic, []byte(r.Symbol), r)
}

// PublishMessage sends an unkeyed payload to an arbitrary topic. It
// also satisfies the logger's collection publisher.
func (p *KafkaPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

func quotePayload(q *models.Quote) map[string]interface{} {
	return map[string]interface{}{
		"symbol": q.Symbol,
		"t":      q.Timestamp,
		"c":      q.Price,
		"v":      q.Volume,
	}
}
