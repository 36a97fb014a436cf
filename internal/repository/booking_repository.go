package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"LiqCast/internal/domain/models"
	domrepo "LiqCast/internal/domain/repository"
	pkgkafka "LiqCast/pkg/kafka"
	applogger "LiqCast/pkg/logger"
)

// queryAllCap bounds full-history reads; forecasts never need more rows.
const queryAllCap = 100000

// ClickHouseBookingStore implements Storage for ClickHouse.
type ClickHouseBookingStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

// NewClickHouseBookingStore creates ClickHouse booking storage.
func NewClickHouseBookingStore(db *sql.DB, table string) domrepo.Storage {
	return &ClickHouseBookingStore{db: db, table: table}
}

// SetLogger injects a structured logger.
func (s *ClickHouseBookingStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *ClickHouseBookingStore) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseBookingStore) Store(ctx context.Context, b *models.Booking) error {
	q := fmt.Sprintf("INSERT INTO %s (event_id, booked_at, amount, account, counterparty, description) VALUES (?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		eventID(b),
		b.BookedAt,
		b.Amount,
		b.Account,
		b.Counterparty,
		b.Description,
	)
	return err
}

func (s *ClickHouseBookingStore) StoreBatch(ctx context.Context, bookings []*models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	// Multi-row VALUES inserts to reduce round-trips, chunked at 2000 rows.
	const chunkSize = 2000
	for start := 0; start < len(bookings); start += chunkSize {
		end := start + chunkSize
		if end > len(bookings) {
			end = len(bookings)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*6)
		for _, b := range bookings[start:end] {
			if b == nil || b.BookedAt.IsZero() || b.Account <= 0 {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?)")
			args = append(args,
				eventID(b),
				b.BookedAt,
				b.Amount,
				b.Account,
				b.Counterparty,
				b.Description,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (event_id, booked_at, amount, account, counterparty, description) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseBookingStore) Query(ctx context.Context, from, to time.Time, limit int) ([]models.Booking, error) {
	start := time.Now()
	q := fmt.Sprintf("SELECT event_id, booked_at, amount, account, counterparty, description FROM %s WHERE booked_at >= ? AND booked_at <= ? ORDER BY booked_at ASC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, from, to, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse bookings query error", applogger.Error(err))
		}
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	out, err := scanBookings(rows)
	if err != nil {
		return nil, err
	}
	if s.l != nil {
		s.l.Info("clickhouse bookings query ok",
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *ClickHouseBookingStore) QueryAll(ctx context.Context) ([]models.Booking, error) {
	q := fmt.Sprintf("SELECT event_id, booked_at, amount, account, counterparty, description FROM %s ORDER BY booked_at ASC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, queryAllCap)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse bookings query_all error", applogger.Error(err))
		}
		return nil, fmt.Errorf("query all bookings: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (s *ClickHouseBookingStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseBookingStore) Close() error {
	return nil // Managed by pkg
}

func scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	out := make([]models.Booking, 0, 1024)
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.EventID, &b.BookedAt, &b.Amount, &b.Account, &b.Counterparty, &b.Description); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// eventID derives an idempotency key when the feed supplied none.
func eventID(b *models.Booking) string {
	if b.EventID != "" {
		return b.EventID
	}
	return fmt.Sprintf("%d-%d-%.2f", b.Account, b.BookedAt.Unix(), b.Amount)
}

// KafkaBookingPublisher implements Publisher for Kafka.
type KafkaBookingPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaBookingPublisher creates a Kafka bookings publisher.
func NewKafkaBookingPublisher(producer *pkgkafka.Producer, topic string) domrepo.Publisher {
	return &KafkaBookingPublisher{producer: producer, topic: topic}
}

func (p *KafkaBookingPublisher) Publish(ctx context.Context, b *models.Booking) error {
	return p.producer.Publish(ctx, p.topic, bookingKey(b), b)
}

func (p *KafkaBookingPublisher) PublishBatch(ctx context.Context, bookings []*models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(bookings))
	for i, b := range bookings {
		msgs[i] = pkgkafka.Message{
			Key:   bookingKey(b),
			Value: b,
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaBookingPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// Partition by account so per-account ordering survives the broker.
func bookingKey(b *models.Booking) []byte {
	return []byte(fmt.Sprintf("%d", b.Account))
}
