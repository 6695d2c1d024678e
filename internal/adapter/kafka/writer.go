package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/solarsite-service/internal/config"
	"github.com/couchcryptid/solarsite-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// LeadWriter produces lead events to a Kafka topic.
// It implements pipeline.BatchLoader.
type LeadWriter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewLeadWriter creates a Kafka producer for the configured lead topic.
func NewLeadWriter(cfg *config.Config, logger *slog.Logger) *LeadWriter {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaLeadTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &LeadWriter{writer: w, logger: logger}
}

// LoadBatch serializes and publishes leads in a single WriteMessages call.
func (w *LeadWriter) LoadBatch(ctx context.Context, leads []domain.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(leads))
	for i := range leads {
		msg, err := serializeToMessage(leads[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write leads: %w", err)
	}
	w.logger.Debug("leads published", "count", len(leads), "topic", w.writer.Topic)
	return nil
}

func (w *LeadWriter) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Lead into a Kafka message keyed by lead id.
func serializeToMessage(lead domain.Lead) (kafkago.Message, error) {
	data, err := json.Marshal(lead)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize lead: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(lead.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "lead_kind", Value: []byte(lead.Kind)},
			{Key: "submitted_at", Value: []byte(lead.SubmittedAt.Format(time.RFC3339))},
		},
	}, nil
}

// LogLoader records leads in the service log instead of publishing them. It
// is used when lead publishing is disabled.
type LogLoader struct {
	logger *slog.Logger
}

// NewLogLoader creates a loader that only logs.
func NewLogLoader(logger *slog.Logger) *LogLoader {
	return &LogLoader{logger: logger}
}

func (l *LogLoader) LoadBatch(_ context.Context, leads []domain.Lead) error {
	for _, lead := range leads {
		l.logger.Info("lead received",
			"id", lead.ID,
			"kind", lead.Kind,
			"name", lead.Name,
			"organization", lead.Organization,
			"submitted_at", lead.SubmittedAt,
		)
	}
	return nil
}
