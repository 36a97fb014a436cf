//go:build wireinject
// +build wireinject

package di

import (
	"LiqCast/pkg/config"
	"LiqCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideCache,

		// Repositories
		ProvideBookingStorage,
		ProvideBookingPublisher,
		ProvideAlertPublisher,
		ProvideBankfeedStream,

		// Forecast engine
		ProvideProjector,
		ProvideNarrativeEnricher,

		// Use cases
		ProvideBookingProcessor,
		ProvideBookingCollector,
		ProvideKafkaBookingsHandler,
		ProvideForecastUseCase,
		ProvideBookingsUseCase,

		// HTTP
		ProvideForecastHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
