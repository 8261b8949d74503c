package server

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "SharePulse/internal/domain/repository"
	internalrepo "SharePulse/internal/repository"
	"SharePulse/internal/scheduler"
	"SharePulse/internal/usecase"
	pkgch "SharePulse/pkg/clickhouse"
	"SharePulse/pkg/config"
	xhttp "SharePulse/pkg/http"
	pkgkafka "SharePulse/pkg/kafka"
	applogger "SharePulse/pkg/logger"
	pkgqueue "SharePulse/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	collector   *usecase.QuoteCollector
	consumer    *pkgkafka.Consumer
	barsHandler pkgkafka.MessageHandler
	queue       *pkgqueue.RedisQueue
	sched       *scheduler.Scheduler
	chClient    *pkgch.Client
	storage     domrepo.Storage
	barStore    *internalrepo.CHBarStore
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	QuoteProc   *usecase.QuoteProcessor
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	lgr *applogger.Logger,
	collector *usecase.QuoteCollector,
	consumer *pkgkafka.Consumer,
	barsHandler pkgkafka.MessageHandler,
	q *pkgqueue.RedisQueue,
	sched *scheduler.Scheduler,
	chClient *pkgch.Client,
	storage domrepo.Storage,
	barStore *internalrepo.CHBarStore,
	httpHandler xhttp.Handler,
) *App {
	return &App{
		cfg:         cfg,
		logger:      lgr,
		collector:   collector,
		consumer:    consumer,
		barsHandler: barsHandler,
		queue:       q,
		sched:       sched,
		chClient:    chClient,
		storage:     storage,
		barStore:    barStore,
		httpHandler: httpHandler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.logger
	if l == nil {
		var err error
		l, err = applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
		if err != nil {
			log.Printf("failed to create logger: %v", err)
			return err
		}
		a.logger = l
	}

	// Ensure ClickHouse schemas before anything reads or writes.
	if a.chClient != nil {
		initCtx, initCancel := context.WithTimeout(ctx, 10*time.Second)
		if a.storage != nil {
			if err := a.storage.Init(initCtx); err != nil {
				initCancel()
				l.Error("quote storage init failed", applogger.Error(err))
				return err
			}
		}
		if a.barStore != nil {
			if err := a.barStore.Init(initCtx); err != nil {
				initCancel()
				l.Error("bar store init failed", applogger.Error(err))
				return err
			}
		}
		initCancel()
	}

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(a.cfg.Metrics.Path),
	)

	if a.collector != nil {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				l.Error("quote collector error", applogger.Error(err))
			}
		}()
		l.Info("quote collector started", applogger.Strings("symbols", a.cfg.Provider.Symbols))
	}

	if a.consumer != nil && a.barsHandler != nil {
		a.consumer.RegisterHandler(a.barsHandler)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.barsHandler.Topic()))
	}

	if a.queue != nil {
		if err := a.queue.Start(); err != nil {
			l.Error("queue start error", applogger.Error(err))
			return err
		}
	}

	if a.sched != nil {
		if err := a.sched.Start(); err != nil {
			l.Error("scheduler start error", applogger.Error(err))
			return err
		}
	}

	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services in reverse start order.
func (a *App) shutdown(ctx context.Context) error {
	l := a.logger

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.sched != nil {
		if err := a.sched.Stop(shutdownCtx); err != nil {
			l.Warn("scheduler stop error", applogger.Error(err))
		}
	}

	if a.collector != nil {
		if err := a.collector.Shutdown(shutdownCtx); err != nil {
			l.Warn("collector stop error", applogger.Error(err))
		}
	}

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	if a.queue != nil {
		if err := a.queue.Stop(shutdownCtx); err != nil {
			l.Warn("queue stop error", applogger.Error(err))
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close processor resources (publisher/storage), then the pool.
	if a.QuoteProc != nil {
		a.QuoteProc.Close()
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.RemoveCollector()
	l.Info("shutdown complete")
	return nil
}
