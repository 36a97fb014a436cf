package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"LiqCast/internal/domain/models"
	domrepo "LiqCast/internal/domain/repository"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, b *models.Booking) error
}

// RealtimePipeline sits between the bank feed and the ingestion backend.
// It validates, throttles per account, optionally transforms, and buffers
// bookings when downstream is unavailable.
type RealtimePipeline struct {
	proc     Proc
	metrics  domrepo.Metrics
	maxRPS   int
	bufSize  int
	bufCh    chan *models.Booking
	stopCh   chan struct{}
	started  bool
	mu       sync.Mutex
	lastSeen map[int]time.Time // per-account last accepted time
	// optional format transform hook
	transform func(*models.Booking) *models.Booking
	// metrics
	bufDepthGauge func(int)
	throttleWarn  func(int)
}

type PipelineOption func(*RealtimePipeline)

// WithMaxRPS sets the max bookings per second per account.
func WithMaxRPS(n int) PipelineOption {
	return func(p *RealtimePipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *RealtimePipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithTransform sets a transformation hook to modify booking format.
func WithTransform(fn func(*models.Booking) *models.Booking) PipelineOption {
	return func(p *RealtimePipeline) { p.transform = fn }
}

// NewRealtimePipeline creates a new pipeline.
func NewRealtimePipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *RealtimePipeline {
	p := &RealtimePipeline{
		proc:     proc,
		metrics:  metrics,
		maxRPS:   20,   // default throttle per account
		bufSize:  1000, // default buffer
		bufCh:    make(chan *models.Booking, 1000),
		stopCh:   make(chan struct{}),
		lastSeen: make(map[int]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.Booking, p.bufSize)
	}
	p.bufDepthGauge = func(n int) { p.metrics.RecordLatency("pipeline_buffer_depth", float64(n)) }
	p.throttleWarn = func(account int) { p.metrics.RecordError("pipeline_throttle_" + strconv.Itoa(account)) }
	return p
}

// Start launches background flushing of buffered bookings.
func (p *RealtimePipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case b := <-p.bufCh:
				if b == nil {
					continue
				}
				if err := p.proc.Process(ctx, b); err != nil {
					// exponential backoff with cap
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- b:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *RealtimePipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, throttles, and forwards a booking downstream,
// buffering on errors.
func (p *RealtimePipeline) Process(ctx context.Context, b *models.Booking) error {
	start := time.Now()
	if err := validateBooking(b); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if p.transform != nil {
		b = p.transform(b)
		if err := validateBooking(b); err != nil {
			p.metrics.RecordError("pipeline_transform_invalid")
			return err
		}
	}
	if !p.allow(b.Account, start) {
		// throttled; record and drop silently
		p.metrics.RecordError("pipeline_throttle")
		if p.throttleWarn != nil {
			p.throttleWarn(b.Account)
		}
		return nil
	}

	if err := p.proc.Process(ctx, b); err != nil {
		p.metrics.RecordError("pipeline_process")
		// buffer non-blocking
		select {
		case p.bufCh <- b:
			if p.bufDepthGauge != nil {
				p.bufDepthGauge(len(p.bufCh))
			}
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateBooking(b *models.Booking) error {
	if b == nil {
		return fmt.Errorf("booking nil")
	}
	if b.BookedAt.IsZero() {
		return fmt.Errorf("booking date invalid")
	}
	if b.Account <= 0 {
		return fmt.Errorf("account invalid")
	}
	if b.Amount == 0 {
		return fmt.Errorf("amount zero")
	}
	return nil
}

func (p *RealtimePipeline) allow(account int, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	// at most maxRPS per second per account
	last := p.lastSeen[account]
	if last.IsZero() {
		p.lastSeen[account] = now
		return true
	}
	if now.Sub(last) < time.Second/time.Duration(p.maxRPS) {
		return false
	}
	p.lastSeen[account] = now
	return true
}
