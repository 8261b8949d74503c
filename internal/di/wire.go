//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"SharePulse/pkg/config"
	"SharePulse/pkg/server"
)

// InitializeApp wires the full application graph from config.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetricsRecorder,
		ProvideClickHouseClient,
		ProvideStorage,
		ProvideBarStore,
		ProvideBarWriter,
		ProvideBarReader,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvidePublisher,
		ProvideQuoteFeed,
		ProvideHTTPClient,
		ProvideRedisCache,
		ProvideProviderCache,
		ProvideMarketData,
		ProvideAnalyzer,
		ProvidePortfolio,
		ProvideHistory,
		ProvideHandler,
		ProvideQuoteProcessor,
		ProvideQuotePipeline,
		ProvideQuoteCollector,
		ProvideBarsHandler,
		ProvideRefreshJob,
		ProvideQueue,
		ProvideScheduler,
		ProvideApp,
	)
	return nil, nil
}
