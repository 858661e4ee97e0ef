package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/couchcryptid/geothermal-site-service/internal/config"
	"github.com/couchcryptid/geothermal-site-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes fused locations to a Kafka topic, one message per
// location keyed by its quantized coordinate. It implements
// pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishLocations serializes every location and writes them in a single
// WriteMessages call. Keys are stable across reloads, so a compacted topic
// keeps the latest measurements per site.
func (w *Writer) PublishLocations(ctx context.Context, locations []domain.FusedLocation) error {
	if len(locations) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(locations))
	for i := range locations {
		msg, err := serializeToMessage(locations[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write locations: %w", err)
	}
	w.logger.Debug("locations published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a FusedLocation into a Kafka message.
func serializeToMessage(loc domain.FusedLocation) (kafkago.Message, error) {
	data, err := json.Marshal(loc)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize location: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(loc.Key.String()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "dimensions", Value: []byte(strconv.Itoa(loc.CountPresent()))},
			{Key: "complete", Value: []byte(strconv.FormatBool(loc.CountPresent() == domain.MinComplete))},
		},
	}, nil
}
