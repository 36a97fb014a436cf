package usecase

import (
	"context"
	"encoding/json"
	"time"

	"LiqCast/internal/domain/models"
	domrepo "LiqCast/internal/domain/repository"
	pkgkafka "LiqCast/pkg/kafka"
)

// KafkaBookingsHandler consumes booking messages and writes them to storage.
type KafkaBookingsHandler struct {
	topic   string
	storage domrepo.Storage
	metrics domrepo.Metrics
}

func NewKafkaBookingsHandler(topic string, storage domrepo.Storage, metrics domrepo.Metrics) *KafkaBookingsHandler {
	return &KafkaBookingsHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *KafkaBookingsHandler) Topic() string { return h.topic }

// Handle unmarshals a booking event and persists it.
func (h *KafkaBookingsHandler) Handle(ctx context.Context, b []byte) error {
	var m models.Booking
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.BookedAt.IsZero() || m.Account <= 0 {
		h.metrics.RecordError("consumer_invalid")
		return nil // poison message, do not retry
	}

	start := time.Now()
	err := h.storage.Store(ctx, &m)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordBookingIngested("clickhouse", "kafka")
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaBookingsHandler)(nil)
