package kafka

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/thermal-storage-etl/internal/config"
	"github.com/couchcryptid/thermal-storage-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes sized loads to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	runID  string
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic. Every
// message carries runID so consumers can tell sizing runs apart.
func NewWriter(cfg *config.Config, runID string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSinkTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, runID: runID, logger: logger}
}

// LoadBatch serializes and publishes the loads in a single WriteMessages call.
// Messages are keyed by load ID so replays of a site land on one partition.
func (w *Writer) LoadBatch(ctx context.Context, loads []domain.LocationLoad) error {
	if len(loads) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(loads))
	for i := range loads {
		msg, err := serializeToMessage(loads[i], w.runID)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return err
	}
	w.logger.Debug("published sized loads", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a LocationLoad into a Kafka message.
func serializeToMessage(load domain.LocationLoad, runID string) (kafkago.Message, error) {
	out, err := domain.SerializeLocationLoad(load)
	if err != nil {
		return kafkago.Message{}, err
	}
	return kafkago.Message{
		Key:   out.Key,
		Value: out.Value,
		Headers: []kafkago.Header{
			{Key: "site", Value: []byte(out.Headers["site"])},
			{Key: "processed_at", Value: []byte(out.Headers["processed_at"])},
			{Key: "run_id", Value: []byte(runID)},
		},
	}, nil
}
