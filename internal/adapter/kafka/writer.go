package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/cacareco/plant-data-etl/internal/config"
	"github.com/cacareco/plant-data-etl/internal/domain"
)

// AlertPublisher produces health alerts to a Kafka topic.
// It implements health.Notifier.
type AlertPublisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewAlertPublisher creates a Kafka producer for the configured alert topic.
func NewAlertPublisher(cfg *config.Config, logger *slog.Logger) *AlertPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAlertTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &AlertPublisher{writer: w, logger: logger}
}

// Notify serializes and publishes a batch of alerts in a single
// WriteMessages call for efficiency.
func (p *AlertPublisher) Notify(ctx context.Context, alerts []domain.AlertRecord) error {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(alerts))
	for i := range alerts {
		msg, err := serializeAlert(alerts[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *AlertPublisher) Close() error {
	return p.writer.Close()
}

// serializeAlert marshals an AlertRecord into a Kafka message, keyed by plant
// name so one plant's alerts stay in partition order.
func serializeAlert(alert domain.AlertRecord) (kafkago.Message, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(alert.PlantName),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "issue", Value: []byte(alert.Issue)},
			{Key: "generated_at", Value: []byte(alert.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
