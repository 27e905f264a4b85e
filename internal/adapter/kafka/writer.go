package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/seghersnico/radar-cell-tracking/internal/domain"
)

// Writer publishes frame results to a Kafka topic for downstream consumers
// (tracker, renderer). It implements pipeline.Loader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a producer for the sink topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadFrame publishes one message per frame, keyed by the frame timestamp so
// a partitioned sink keeps each instant's results together. Empty frames are
// published too: zero cells at a time step is data, not an error.
func (w *Writer) LoadFrame(ctx context.Context, res domain.FrameResult) error {
	msg, err := serializeFrameMessage(res)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish frame result: %w", err)
	}
	w.logger.Debug("frame result published", "key", string(msg.Key), "cells", len(res.Cells))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeFrameMessage marshals a frame result into a Kafka message.
func serializeFrameMessage(res domain.FrameResult) (kafkago.Message, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize frame result: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(res.Timestamp.UTC().Format(time.RFC3339)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "cell_count", Value: []byte(strconv.Itoa(len(res.Cells)))},
			{Key: "processed_at", Value: []byte(res.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
