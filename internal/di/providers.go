package di

import (
	"context"
	"fmt"
	"time"

	"LiqCast/internal/domain/repository"
	domsvc "LiqCast/internal/domain/service"
	"LiqCast/internal/handler/api"
	mid "LiqCast/internal/middleware"
	internalrepo "LiqCast/internal/repository"
	"LiqCast/internal/service/bankfeed"
	svccache "LiqCast/internal/service/cache"
	"LiqCast/internal/services/categorize"
	"LiqCast/internal/services/forecast"
	"LiqCast/internal/services/narrative"
	"LiqCast/internal/services/patterns"
	"LiqCast/internal/services/stats"
	"LiqCast/internal/usecase"
	pkgch "LiqCast/pkg/clickhouse"
	"LiqCast/pkg/config"
	pkgkafka "LiqCast/pkg/kafka"
	applogger "LiqCast/pkg/logger"
	"LiqCast/pkg/metrics"
	"LiqCast/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + db + ".bookings (" +
			"event_id String, booked_at DateTime, amount Float64, " +
			"account UInt32, counterparty String, description String" +
			") ENGINE=MergeTree ORDER BY (account, booked_at)",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBookingStorage creates the ClickHouse booking store.
func ProvideBookingStorage(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) repository.Storage {
	store := internalrepo.NewClickHouseBookingStore(chClient.DB(), cfg.ClickHouse.Database+".bookings")
	if s, ok := store.(interface{ SetLogger(*applogger.Logger) }); ok {
		s.SetLogger(l)
	}
	return store
}

// ProvideBookingPublisher creates the Kafka booking publisher.
func ProvideBookingPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaBookingPublisher(producer, cfg.Kafka.BookingsTopic)
}

// ProvideAlertPublisher creates the Kafka alert publisher.
func ProvideAlertPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.AlertPublisher {
	return internalrepo.NewKafkaAlertPublisher(producer, cfg.Kafka.AlertsTopic)
}

// ProvideBankfeedStream creates the bank aggregation WebSocket stream.
func ProvideBankfeedStream(cfg *config.Config) repository.BookingStream {
	return bankfeed.New(
		cfg.Bankfeed.APIKey,
		cfg.Bankfeed.WebSocketURL,
		cfg.Bankfeed.ReconnectDelay,
		cfg.Bankfeed.PingInterval,
	)
}

// ProvideBookingProcessor creates the booking processor use case.
func ProvideBookingProcessor(
	pub repository.Publisher,
	store repository.Storage,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.BookingProcessor {
	return usecase.NewBookingProcessor(
		pub,
		store,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideBookingCollector creates the collector with the realtime pipeline
// between the WebSocket stream and the backend.
func ProvideBookingCollector(
	stream repository.BookingStream,
	processor *usecase.BookingProcessor,
	metrics repository.Metrics,
) *usecase.BookingCollector {
	pipe := mid.NewRealtimePipeline(processor, metrics,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewBookingCollector(stream, processor, metrics, pipe)
}

// ProvideKafkaBookingsHandler registers the handler for the bookings topic.
func ProvideKafkaBookingsHandler(store repository.Storage, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaBookingsHandler {
	return usecase.NewKafkaBookingsHandler(cfg.Kafka.BookingsTopic, store, metrics)
}

// ProvideProjector assembles the pure forecasting engine from config.
func ProvideProjector(cfg *config.Config) *forecast.Projector {
	categorizer := categorize.New(cfg.Forecast.BoundaryAccount)
	estimator := stats.NewEstimator(categorizer, cfg.Forecast.VarianceFallback)
	detector := patterns.NewDetector(categorizer, patterns.DefaultBands())

	rules := forecast.DefaultRules()
	rules.DefaultThreshold = cfg.Forecast.DefaultThreshold
	rules.DefaultWeeks = cfg.Forecast.DefaultWeeks
	rules.LargeDrop = cfg.Forecast.LargeDropThreshold

	return forecast.NewProjector(detector, estimator, categorizer, rules)
}

// ProvideNarrativeEnricher creates the HTTP narrative client, or nil when no
// service URL is configured.
func ProvideNarrativeEnricher(cfg *config.Config) domsvc.NarrativeEnricher {
	if cfg.Forecast.Narrative.ServiceURL == "" {
		return nil
	}
	return narrative.NewHTTPEnricher(cfg)
}

// ProvideCache selects the layered Redis cache when enabled, in-process TTL
// cache otherwise.
func ProvideCache(cfg *config.Config) (svccache.BytesCache, error) {
	if cfg.Forecast.Redis.Enabled {
		rc, err := svccache.NewRedisCache(svccache.RedisConfig{
			Addr:     cfg.Forecast.Redis.Addr,
			Password: cfg.Forecast.Redis.Password,
			DB:       cfg.Forecast.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	return svccache.NewTTLCache(), nil
}

// ProvideForecastUseCase creates the forecast orchestrator.
func ProvideForecastUseCase(
	store repository.Storage,
	projector *forecast.Projector,
	alerts repository.AlertPublisher,
	enricher domsvc.NarrativeEnricher,
	metrics repository.Metrics,
	cache svccache.BytesCache,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.ForecastUseCase {
	return usecase.NewForecastUseCase(
		store,
		projector,
		alerts,
		enricher,
		metrics,
		cache,
		cfg.Forecast.HistoryCacheTTL,
		cfg.Forecast.Narrative.Timeout,
		l,
	)
}

// ProvideBookingsUseCase creates the booking history query use case.
func ProvideBookingsUseCase(store repository.Storage) *usecase.BookingsUseCase {
	return usecase.NewBookingsUseCase(store)
}

// ProvideForecastHandler creates the Echo HTTP handler.
func ProvideForecastHandler(
	l *applogger.Logger,
	fc *usecase.ForecastUseCase,
	bk *usecase.BookingsUseCase,
	cache svccache.BytesCache,
	stream repository.BookingStream,
) *api.ForecastEchoHandler {
	h := api.NewForecastEchoHandler(l, fc, bk)
	h.SetCache(cache)
	h.SetHealthCheck(stream.IsConnected)
	return h
}

// opsLogPublisher adapts the Kafka producer to the log collector transport.
type opsLogPublisher struct {
	p *pkgkafka.Producer
}

func (o opsLogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return o.p.Publish(ctx, topic, nil, payload)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	collector *usecase.BookingCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaBookingsHandler,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	handler *api.ForecastEchoHandler,
	l *applogger.Logger,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	if cfg.Kafka.OpsLogTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.OpsLogTopic,
			Publisher:      opsLogPublisher{p: producer},
		})
	}
	app := server.New(cfg, collector, consumer, kh, chClient, l)
	app.SetHTTPHandler(handler)
	app.BookingProc = collector.Processor()
	return app
}
