// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/danielhkuo/ballot-station/ballot"
)

var _ ballot.AuditSink = (*KafkaLog)(nil)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaLog publishes each accepted vote as a JSON message keyed by
// reference ID.
type KafkaLog struct {
	writer messageWriter
	topic  string
}

func NewKafkaLog(brokers []string, topic string) *KafkaLog {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	return &KafkaLog{writer: w, topic: topic}
}

func (l *KafkaLog) Append(ctx context.Context, rec ballot.AuditRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("error marshalling audit record: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(rec.ReferenceID),
		Value: payload,
		Time:  rec.CastAt,
	}
	if err := l.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("error publishing audit record to %q: %w", l.topic, err)
	}
	return nil
}

func (l *KafkaLog) Close() error {
	if err := l.writer.Close(); err != nil {
		return fmt.Errorf("error closing kafka writer: %w", err)
	}
	return nil
}
