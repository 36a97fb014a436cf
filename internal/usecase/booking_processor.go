package usecase

import (
	"context"
	"fmt"
	"time"

	"LiqCast/internal/domain/models"
	drepo "LiqCast/internal/domain/repository"
)

// BookingProcessor routes booking events to the configured backend.
type BookingProcessor struct {
	pub     drepo.Publisher
	store   drepo.Storage
	metrics drepo.Metrics
	backend string
	batchSz int
	batchTO time.Duration
}

// NewBookingProcessor creates a new BookingProcessor instance.
func NewBookingProcessor(
	pub drepo.Publisher,
	store drepo.Storage,
	metrics drepo.Metrics,
	backend string,
	batchSz int,
	batchTO time.Duration,
) *BookingProcessor {
	return &BookingProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
		batchSz: batchSz,
		batchTO: batchTO,
	}
}

// Process routes a single booking to the configured backend.
func (p *BookingProcessor) Process(ctx context.Context, b *models.Booking) error {
	if b == nil {
		return fmt.Errorf("booking is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, b)
	case "clickhouse":
		err = p.store.Store(ctx, b)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process booking: %w", err)
	}

	p.metrics.RecordBookingIngested(p.backend, "bankfeed")
	p.metrics.RecordLatency("process", time.Since(start).Seconds())

	return nil
}

// ProcessBatch routes multiple bookings in one batch.
func (p *BookingProcessor) ProcessBatch(ctx context.Context, bookings []*models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, bookings)
	case "clickhouse":
		err = p.store.StoreBatch(ctx, bookings)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for range bookings {
		p.metrics.RecordBookingIngested(p.backend, "bankfeed")
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())

	return nil
}

// Close closes underlying resources if available.
func (p *BookingProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
