// Package kafka forwards audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"abacus/internal/audit"
	"abacus/internal/platform/config"
)

// recordClient is the subset of *kgo.Client the sink uses.
type recordClient interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
	Flush(ctx context.Context) error
	Close()
}

// Sink produces each audit event as a JSON record keyed by calculator id, so
// one calculator's events stay ordered within a partition.
type Sink struct {
	client recordClient
	topic  string
	logger *slog.Logger
}

// NewSink connects to the configured brokers and makes sure the topic exists.
func NewSink(ctx context.Context, cfg config.KafkaConfig, logger *slog.Logger) (*Sink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	if err := EnsureTopic(ctx, kadm.NewClient(client), cfg); err != nil {
		client.Close()
		return nil, err
	}
	return newSink(client, cfg.Topic, logger), nil
}

func newSink(client recordClient, topic string, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{client: client, topic: topic, logger: logger}
}

// topicCreator is the subset of *kadm.Client EnsureTopic uses.
type topicCreator interface {
	CreateTopics(ctx context.Context, partitions int32, replicationFactor int16, configs map[string]*string, topics ...string) (kadm.CreateTopicResponses, error)
}

// EnsureTopic creates the audit topic, treating an existing topic as success.
func EnsureTopic(ctx context.Context, admin topicCreator, cfg config.KafkaConfig) error {
	resp, err := admin.CreateTopics(ctx, cfg.Partitions, cfg.ReplicationFactor, nil, cfg.Topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", cfg.Topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// Append produces the event asynchronously. Delivery failures are logged from
// the produce callback. The record outlives ctx: cancelling the worker on
// shutdown must not abort records that Close is about to flush.
func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.CalculatorID),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	s.client.Produce(context.WithoutCancel(ctx), record, func(r *kgo.Record, err error) {
		if err != nil {
			s.logger.Error("failed to produce audit event",
				"event_id", event.ID,
				"topic", r.Topic,
				"error", err,
			)
		}
	})
	return nil
}

// Close flushes buffered records and closes the client.
func (s *Sink) Close(ctx context.Context) error {
	err := s.client.Flush(ctx)
	s.client.Close()
	if err != nil {
		return fmt.Errorf("flush audit events: %w", err)
	}
	return nil
}
