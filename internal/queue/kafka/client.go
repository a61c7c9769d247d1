package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/config"
	"github.com/yildizemre/visapa/internal/dto"
	"github.com/yildizemre/visapa/internal/queue"
)

// fetchWindow bounds how long Receive waits for more messages after the first
const fetchWindow = 200 * time.Millisecond

// Reader is the subset of kafka.Reader the source uses
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Writer is the subset of kafka.Writer the publisher uses
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Source pulls telemetry from a Kafka topic as part of a consumer group
type Source struct {
	reader Reader
	log    *zap.Logger
}

var _ queue.Source = (*Source)(nil)

// NewSource creates a consumer-group reader for the telemetry topic
func NewSource(cfg *config.KafkaConfig, log *zap.Logger) *Source {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    1e3,  // 1KB
		MaxBytes:    10e6, // 10MB
		StartOffset: kafka.FirstOffset,
	})

	log.Info("Kafka source created",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
		zap.String("group", cfg.ConsumerGroup))

	return NewSourceWithReader(reader, log)
}

// NewSourceWithReader wraps an existing reader
func NewSourceWithReader(reader Reader, log *zap.Logger) *Source {
	return &Source{reader: reader, log: log}
}

// Receive blocks for the first message, then collects whatever else arrives
// within a short window, up to max.
func (s *Source) Receive(ctx context.Context, max int) ([]queue.Message, error) {
	if max <= 0 {
		max = 1
	}

	first, err := s.reader.FetchMessage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message from Kafka: %w", err)
	}
	messages := []queue.Message{s.wrap(first)}

	windowCtx, cancel := context.WithTimeout(ctx, fetchWindow)
	defer cancel()
	for len(messages) < max {
		m, err := s.reader.FetchMessage(windowCtx)
		if err != nil {
			if !errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				s.log.Warn("Kafka fetch interrupted", zap.Error(err))
			}
			break
		}
		messages = append(messages, s.wrap(m))
	}

	return messages, nil
}

func (s *Source) wrap(m kafka.Message) queue.Message {
	return queue.Message{
		ID:   fmt.Sprintf("%s/%d/%d", m.Topic, m.Partition, m.Offset),
		Body: m.Value,
		Ack: func(ctx context.Context) error {
			if err := s.reader.CommitMessages(ctx, m); err != nil {
				return fmt.Errorf("failed to commit offset %d: %w", m.Offset, err)
			}
			return nil
		},
	}
}

// Close closes the underlying reader
func (s *Source) Close() error {
	return s.reader.Close()
}

// Publisher writes telemetry to a Kafka topic keyed by owner
type Publisher struct {
	writer Writer
	log    *zap.Logger
}

var _ queue.Publisher = (*Publisher)(nil)

// NewPublisher creates a synchronous writer for the telemetry topic
func NewPublisher(cfg *config.KafkaConfig, log *zap.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return NewPublisherWithWriter(writer, log)
}

// NewPublisherWithWriter wraps an existing writer
func NewPublisherWithWriter(writer Writer, log *zap.Logger) *Publisher {
	return &Publisher{writer: writer, log: log}
}

// PublishTelemetry writes one event; events of one owner share a partition
func (p *Publisher) PublishTelemetry(ctx context.Context, event *dto.TelemetryRequest) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal telemetry: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OwnerID, 10)),
		Value: body,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(event.Kind)},
		},
	})
	if err != nil {
		p.log.Error("Failed to write message to Kafka",
			zap.String("id", event.ID),
			zap.String("kind", event.Kind),
			zap.Error(err))
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	p.log.Debug("Telemetry published to Kafka",
		zap.String("id", event.ID),
		zap.String("kind", event.Kind))
	return nil
}

// Close flushes and closes the writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}
