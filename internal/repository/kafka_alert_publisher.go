package repository

import (
	"context"
	"fmt"

	"LiqCast/internal/domain/models"
	domrepo "LiqCast/internal/domain/repository"
	pkgkafka "LiqCast/pkg/kafka"
)

// KafkaAlertPublisher fans liquidity alerts out to the alerts topic.
// Publishing is fire-and-forget from the forecast path; a broker outage
// must never fail a forecast request.
type KafkaAlertPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaAlertPublisher creates a Kafka alert publisher.
func NewKafkaAlertPublisher(producer *pkgkafka.Producer, topic string) domrepo.AlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic}
}

func (p *KafkaAlertPublisher) PublishAlerts(ctx context.Context, alerts []models.LiquidityAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(alerts))
	for i, a := range alerts {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(fmt.Sprintf("%s-%s", a.CalendarWeek, a.Severity)),
			Value: a,
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaAlertPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
