package usecase

import (
	"context"

	"LiqCast/internal/domain/models"
	drepo "LiqCast/internal/domain/repository"
	mid "LiqCast/internal/middleware"
)

// BookingCollector collects bookings from the bank feed and processes them.
type BookingCollector struct {
	stream  drepo.BookingStream
	proc    *BookingProcessor
	metrics drepo.Metrics
	pipe    *mid.RealtimePipeline
}

// NewBookingCollector creates a new BookingCollector instance.
func NewBookingCollector(stream drepo.BookingStream, proc *BookingProcessor, metrics drepo.Metrics, pipe *mid.RealtimePipeline) *BookingCollector {
	return &BookingCollector{stream: stream, proc: proc, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the bank feed is connected.
func (c *BookingCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *BookingCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	bkCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, bkCh, errCh)
	return nil
}

func (c *BookingCollector) consume(ctx context.Context, bkCh <-chan *models.Booking, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case b := <-bkCh:
			if b == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, b)
			} else {
				_ = c.proc.Process(ctx, b)
			}
		}
	}
}

func (c *BookingCollector) Stop() error { return c.stream.Close() }

// Processor returns the underlying BookingProcessor for lifecycle management.
func (c *BookingCollector) Processor() *BookingProcessor { return c.proc }

// Shutdown stops the pipeline and closes the stream.
func (c *BookingCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
