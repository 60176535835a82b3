package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/i474232898/flight-weather-insights/internal/table"
)

// MessageWriter is the part of *kafka.Writer the sink needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes one message per row. The key is the row's first column (the trip or
// location id), so a compacted topic keeps the latest version of every row.
type KafkaSink struct {
	writer MessageWriter
	topic  string
	now    func() time.Time
}

// NewKafkaSink builds a sink writing to topic on brokers.
func NewKafkaSink(brokers []string, topic string) (*KafkaSink, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return NewKafkaSinkWithWriter(w, topic), nil
}

// NewKafkaSinkWithWriter wraps an existing writer.
func NewKafkaSinkWithWriter(w MessageWriter, topic string) *KafkaSink {
	return &KafkaSink{writer: w, topic: topic, now: time.Now}
}

// Save implements Sink.
func (s *KafkaSink) Save(ctx context.Context, t *table.Table) error {
	columns := t.Columns()
	rows := t.Rows()
	if len(rows) == 0 {
		return nil
	}

	ts := s.now()
	msgs := make([]kafka.Message, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]string, len(columns))
		for i, c := range columns {
			rec[c] = row[i]
		}
		value, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to serialize row: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Topic: s.topic,
			Key:   []byte(row[0]),
			Value: value,
			Headers: []kafka.Header{
				{Key: "table", Value: []byte(t.Name())},
				{Key: "file", Value: []byte(FileName(t))},
			},
			Time: ts,
		})
	}

	if err := s.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish %s: %w", t.Name(), err)
	}
	return nil
}

// Close flushes and closes the writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
