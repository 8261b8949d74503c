package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"SharePulse/internal/domain/models"
	"SharePulse/internal/domain/repository"
	pkgch "SharePulse/pkg/clickhouse"
)

// intradayQuotesSchema creates the quotes table. ReplacingMergeTree on
// (symbol, ts, event_id) keeps re-delivered ticks idempotent.
var intradayQuotesSchema = []string{
	`CREATE DATABASE IF NOT EXISTS sharepulse`,
	`CREATE TABLE IF NOT EXISTS sharepulse.intraday_quotes (
		ts       DateTime64(3),
		symbol   LowCardinality(String),
		price    Float64,
		volume   Float64,
		source   LowCardinality(String),
		event_id String
	) ENGINE = ReplacingMergeTree
	PARTITION BY toYYYYMM(ts)
	ORDER BY (symbol, ts, event_id)`,
}

// ClickHouseStorage implements Storage for intraday quotes.
type ClickHouseStorage struct {
	ch    *pkgch.Client
	table string
}

// NewClickHouseStorage creates ClickHouse quote storage.
func NewClickHouseStorage(ch *pkgch.Client, table string) repository.Storage {
	if table == "" {
		table = "sharepulse.intraday_quotes"
	}
	return &ClickHouseStorage{ch: ch, table: table}
}

func (s *ClickHouseStorage) Init(ctx context.Context) error {
	return s.ch.InitSchema(ctx, intradayQuotesSchema)
}

func (s *ClickHouseStorage) Store(ctx context.Context, q *models.Quote) error {
	stmt := fmt.Sprintf("INSERT INTO %s (ts, symbol, price, volume, source, event_id) VALUES (?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.ch.DB().ExecContext(ctx, stmt,
		time.UnixMilli(q.Timestamp),
		q.Symbol,
		q.Price,
		q.Volume,
		"feed",
		eventID(q),
	)
	return err
}

func (s *ClickHouseStorage) StoreBatch(ctx context.Context, quotes []*models.Quote) error {
	if len(quotes) == 0 {
		return nil
	}
	// Multi-row VALUES inserts, chunked to bound statement size.
	const chunkSize = 2000
	for start := 0; start < len(quotes); start += chunkSize {
		end := start + chunkSize
		if end > len(quotes) {
			end = len(quotes)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*6)
		for _, q := range quotes[start:end] {
			if q == nil || q.Symbol == "" || q.Timestamp == 0 {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?)")
			args = append(args,
				time.UnixMilli(q.Timestamp),
				q.Symbol,
				q.Price,
				q.Volume,
				"feed",
				eventID(q),
			)
		}
		if len(values) == 0 {
			continue
		}
		stmt := fmt.Sprintf("INSERT INTO %s (ts, symbol, price, volume, source, event_id) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.ch.DB().ExecContext(ctx, stmt, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseStorage) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.Quote, error) {
	stmt := fmt.Sprintf("SELECT symbol, ts, price, volume FROM %s WHERE symbol = ? AND ts >= ? AND ts <= ? ORDER BY ts DESC LIMIT ?", s.table)
	rows, err := s.ch.DB().QueryContext(ctx, stmt, symbol, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []*models.Quote
	for rows.Next() {
		var q models.Quote
		var ts time.Time
		if err := rows.Scan(&q.Symbol, &ts, &q.Price, &q.Volume); err != nil {
			return nil, err
		}
		q.Timestamp = ts.UnixMilli()
		quotes = append(quotes, &q)
	}
	return quotes, rows.Err()
}

func (s *ClickHouseStorage) Health(ctx context.Context) error {
	return s.ch.Health(ctx)
}

func (s *ClickHouseStorage) Close() error {
	return nil // connection pool owned by pkg client
}

func eventID(q *models.Quote) string {
	return fmt.Sprintf("%s-%d", q.Symbol, q.Timestamp)
}
