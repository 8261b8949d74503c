package di

import (
	"fmt"
	"time"

	domrepo "SharePulse/internal/domain/repository"
	domsvc "SharePulse/internal/domain/service"
	"SharePulse/internal/handler/api"
	mid "SharePulse/internal/middleware"
	internalrepo "SharePulse/internal/repository"
	"SharePulse/internal/scheduler"
	svccache "SharePulse/internal/service/cache"
	"SharePulse/internal/service/marketdata"
	"SharePulse/internal/service/quotefeed"
	"SharePulse/internal/service/ratelimit"
	"SharePulse/internal/services/forecast"
	"SharePulse/internal/usecase"
	pkgcache "SharePulse/pkg/cache"
	pkgch "SharePulse/pkg/clickhouse"
	"SharePulse/pkg/config"
	xhttp "SharePulse/pkg/http"
	pkgkafka "SharePulse/pkg/kafka"
	applogger "SharePulse/pkg/logger"
	"SharePulse/pkg/metrics"
	pkgqueue "SharePulse/pkg/queue"
	"SharePulse/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return l, nil
}

// ProvideMetricsRecorder creates the Prometheus metrics recorder.
func ProvideMetricsRecorder() domrepo.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when no
// host is configured.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.ClickHouse.Host == "" {
		return nil, nil
	}
	ch, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("create clickhouse client: %w", err)
	}
	return ch, nil
}

// ProvideStorage creates the intraday quote storage when ClickHouse is
// configured.
func ProvideStorage(ch *pkgch.Client) domrepo.Storage {
	if ch == nil {
		return nil
	}
	return internalrepo.NewClickHouseStorage(ch, "")
}

// ProvideBarStore creates the daily bar store when ClickHouse is
// configured.
func ProvideBarStore(ch *pkgch.Client, lgr *applogger.Logger) *internalrepo.CHBarStore {
	if ch == nil {
		return nil
	}
	s := internalrepo.NewCHBarStore(ch)
	s.SetLogger(lgr)
	return s
}

// ProvideBarWriter exposes the bar store as a writer, avoiding a typed
// nil interface when ClickHouse is absent.
func ProvideBarWriter(store *internalrepo.CHBarStore) domrepo.BarWriter {
	if store == nil {
		return nil
	}
	return store
}

// ProvideBarReader exposes the bar store for the history API.
func ProvideBarReader(store *internalrepo.CHBarStore) domrepo.BarStore {
	if store == nil {
		return nil
	}
	return store
}

// ProvideKafkaProducer creates the Kafka producer, or nil when no
// brokers are configured.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	p, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return p, nil
}

// ProvideKafkaConsumer creates the Kafka consumer for bar ingestion, or
// nil when brokers or the bars topic are absent.
func ProvideKafkaConsumer(cfg *config.Config, rec domrepo.Metrics) (*pkgkafka.Consumer, error) {
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.BarsTopic == "" {
		return nil, nil
	}
	c, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	c.WithConsumerHook(pkgkafka.MetricsHook(func(topic string) {
		rec.RecordError("kafka_consume_" + topic)
	}))
	return c, nil
}

// ProvidePublisher creates the Kafka publisher for quotes and reports.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.QuotesTopic, cfg.Kafka.ReportsTopic)
}

// ProvideQuoteFeed creates the websocket quote feed client, or nil when
// no websocket URL is configured.
func ProvideQuoteFeed(cfg *config.Config) domrepo.QuoteFeed {
	if cfg.Provider.WebSocketURL == "" {
		return nil
	}
	return quotefeed.New(
		cfg.Provider.APIKey,
		cfg.Provider.WebSocketURL,
		cfg.Provider.Symbols,
		cfg.Provider.PriceScale,
		cfg.Provider.ReconnectDelay,
		cfg.Provider.PingInterval,
	)
}

// ProvideHTTPClient creates the outbound HTTP client for the provider.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(cfg.Provider.Timeout))
}

// ProvideRedisCache creates the Redis cache, or nil when Redis is
// disabled.
func ProvideRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisAddr(cfg.Redis.Addr),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
		pkgcache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("create redis cache: %w", err)
	}
	return rc, nil
}

// ProvideProviderCache builds the byte cache backing provider responses
// and analysis reports. With Redis available it is layered (memory in
// front of Redis); otherwise an in-process TTL cache.
func ProvideProviderCache(rc *pkgcache.RedisCache) svccache.BytesCache {
	if rc != nil {
		return svccache.NewServiceBytes(pkgcache.NewLayeredCache(rc))
	}
	return svccache.NewTTLCache()
}

// ProvideMarketData creates the REST market data client.
func ProvideMarketData(cfg *config.Config, hc *xhttp.Client, bc svccache.BytesCache, lgr *applogger.Logger) domsvc.MarketData {
	return marketdata.New(marketdata.Config{
		BaseURL:         cfg.Provider.BaseURL,
		APIKey:          cfg.Provider.APIKey,
		PriceScale:      cfg.Provider.PriceScale,
		RequestsPerSec:  cfg.Provider.RequestsPerSec,
		Burst:           cfg.Provider.Burst,
		SeriesTTL:       cfg.Cache.SeriesTTL,
		FundamentalsTTL: cfg.Cache.FundamentalsTTL,
	}, hc, bc, ratelimit.New(), lgr)
}

// ProvideAnalyzer creates the stock analyzer with both forecast models.
func ProvideAnalyzer(cfg *config.Config, market domsvc.MarketData, pub domrepo.Publisher, bc svccache.BytesCache, lgr *applogger.Logger) *usecase.StockAnalyzer {
	linear := forecast.New(forecast.Config{
		Model:      forecast.KindLinear,
		Bands:      cfg.Forecast.Bands,
		Confidence: cfg.Forecast.Confidence,
	}, lgr)
	ensemble := forecast.New(forecast.Config{
		Model:       forecast.KindEnsemble,
		Bands:       cfg.Forecast.Bands,
		Confidence:  cfg.Forecast.Confidence,
		Simulations: cfg.Forecast.Simulations,
		Seed:        cfg.Forecast.Seed,
		Trees:       cfg.Forecast.Trees,
		MaxDepth:    cfg.Forecast.MaxDepth,
	}, lgr)

	opts := []usecase.AnalyzerOption{
		usecase.WithRange(cfg.Provider.Range),
		usecase.WithReportCache(bc, cfg.Cache.ReportTTL),
	}
	if pub != nil {
		opts = append(opts, usecase.WithPublisher(pub))
	}
	return usecase.NewStockAnalyzer(market, linear, ensemble, lgr, opts...)
}

// ProvidePortfolio creates the portfolio aggregation use case.
func ProvidePortfolio(analyzer *usecase.StockAnalyzer) *usecase.PortfolioUseCase {
	return usecase.NewPortfolioUseCase(analyzer)
}

// ProvideHistory creates the stored-bar history use case.
func ProvideHistory(store domrepo.BarStore) *usecase.HistoryUseCase {
	return usecase.NewHistoryUseCase(store)
}

// ProvideHandler creates the Echo API handler.
func ProvideHandler(lgr *applogger.Logger, analyzer *usecase.StockAnalyzer, portfolio *usecase.PortfolioUseCase, history *usecase.HistoryUseCase) xhttp.Handler {
	return api.NewAnalysisEchoHandler(lgr, analyzer, portfolio, history)
}

// ProvideQuoteProcessor creates the backend-routing quote processor.
func ProvideQuoteProcessor(pub domrepo.Publisher, store domrepo.Storage, rec domrepo.Metrics, cfg *config.Config) *usecase.QuoteProcessor {
	return usecase.NewQuoteProcessor(pub, store, rec, cfg.Backend.Type, cfg.Backend.BatchSize, cfg.Backend.BatchTimeout)
}

// ProvideQuotePipeline creates the validation and throttling pipeline
// in front of the processor.
func ProvideQuotePipeline(proc *usecase.QuoteProcessor, rec domrepo.Metrics) *mid.QuotePipeline {
	return mid.NewQuotePipeline(proc, rec)
}

// ProvideQuoteCollector creates the live feed collector, or nil without
// a feed.
func ProvideQuoteCollector(feed domrepo.QuoteFeed, proc *usecase.QuoteProcessor, rec domrepo.Metrics, pipe *mid.QuotePipeline) *usecase.QuoteCollector {
	if feed == nil {
		return nil
	}
	return usecase.NewQuoteCollector(feed, proc, rec, pipe)
}

// ProvideBarsHandler creates the Kafka handler ingesting daily bars, or
// nil without a bar writer.
func ProvideBarsHandler(cfg *config.Config, writer domrepo.BarWriter, rec domrepo.Metrics) pkgkafka.MessageHandler {
	if writer == nil || cfg.Kafka.BarsTopic == "" {
		return nil
	}
	return usecase.NewKafkaBarsHandler(cfg.Kafka.BarsTopic, writer, rec)
}

// ProvideRefreshJob creates the scheduled symbol refresh job.
func ProvideRefreshJob(analyzer *usecase.StockAnalyzer, writer domrepo.BarWriter, lgr *applogger.Logger) *usecase.RefreshJob {
	return usecase.NewRefreshJob(analyzer, writer, lgr)
}

// ProvideQueue creates the Redis-backed job queue with the refresh job
// registered, or nil when Redis is disabled.
func ProvideQueue(cfg *config.Config, rc *pkgcache.RedisCache, job *usecase.RefreshJob, lgr *applogger.Logger) *pkgqueue.RedisQueue {
	if rc == nil {
		return nil
	}
	q := pkgqueue.NewRedisQueue(lgr, &pkgqueue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}, rc.Client(), pkgqueue.ModeProducerConsumer)
	q.RegisterJob(job)
	return q
}

// ProvideScheduler creates the cron refresh scheduler, or nil when
// disabled.
func ProvideScheduler(cfg *config.Config, q *pkgqueue.RedisQueue, job *usecase.RefreshJob, lgr *applogger.Logger) *scheduler.Scheduler {
	if !cfg.Scheduler.Enabled {
		return nil
	}
	var svc pkgqueue.QueueService
	if q != nil {
		svc = q
	}
	return scheduler.New(scheduler.Config{
		Spec:    cfg.Scheduler.RefreshSpec,
		Symbols: cfg.Provider.Symbols,
		Months:  cfg.Forecast.HorizonMonths,
		Monthly: cfg.Invest.MonthlyAmount,
		Model:   cfg.Forecast.Model,
	}, svc, job, lgr)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	lgr *applogger.Logger,
	collector *usecase.QuoteCollector,
	consumer *pkgkafka.Consumer,
	barsHandler pkgkafka.MessageHandler,
	q *pkgqueue.RedisQueue,
	sched *scheduler.Scheduler,
	ch *pkgch.Client,
	storage domrepo.Storage,
	barStore *internalrepo.CHBarStore,
	handler xhttp.Handler,
	proc *usecase.QuoteProcessor,
	pub domrepo.Publisher,
) *server.App {
	if lp, ok := pub.(applogger.Publisher); ok && pub != nil {
		lgr.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          "error_logs",
			Publisher:      lp,
		})
	}
	app := server.New(cfg, lgr, collector, consumer, barsHandler, q, sched, ch, storage, barStore, handler)
	app.QuoteProc = proc
	return app
}
