package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"
)

// KafkaRecorder publishes every calculation as a JSON message keyed by user
// id, so one user's events stay on one partition.
type KafkaRecorder struct {
	w *kafka.Writer
}

func NewKafkaRecorder(brokers []string, topic string) *KafkaRecorder {
	return &KafkaRecorder{w: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}}
}

func (r *KafkaRecorder) AppendCalculation(ctx context.Context, c Calculation) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal calculation: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(c.UserID, 10)),
		Value: data,
		Time:  c.Timestamp,
	}
	if err := r.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish calculation: %w", err)
	}
	return nil
}

func (r *KafkaRecorder) Close() error {
	return r.w.Close()
}
