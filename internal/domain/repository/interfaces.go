package repository

import (
	"context"
	"time"

	"LiqCast/internal/domain/models"
)

// BookingStream is a live feed of booking events from a bank aggregation service.
type BookingStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Booking, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher publishes booking events to a message backend.
type Publisher interface {
	Publish(ctx context.Context, b *models.Booking) error
	PublishBatch(ctx context.Context, bookings []*models.Booking) error
	Close() error
}

// AlertPublisher fans generated liquidity alerts out to the alerts topic.
type AlertPublisher interface {
	PublishAlerts(ctx context.Context, alerts []models.LiquidityAlert) error
	Close() error
}

// Storage persists and serves booking history.
type Storage interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, b *models.Booking) error
	StoreBatch(ctx context.Context, bookings []*models.Booking) error
	Query(ctx context.Context, from, to time.Time, limit int) ([]models.Booking, error)
	QueryAll(ctx context.Context) ([]models.Booking, error)
	Health(ctx context.Context) error // ping
	Close() error
}

type Metrics interface {
	RecordBookingIngested(backend, source string)
	RecordError(kind string)
	RecordMinProjectedBalance(balance float64)
	RecordLatency(op string, seconds float64)
}
