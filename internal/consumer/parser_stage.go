package consumer

import (
	"context"

	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/metrics"
	"github.com/yildizemre/visapa/internal/queue"
	"github.com/yildizemre/visapa/internal/repository"
)

// Deduplicator skips records that were already written. A nil store disables it.
type Deduplicator struct {
	store    repository.IdempotencyStore
	failOpen bool
}

// NewDeduplicator creates a deduplicator; with failOpen set, store errors let the record through
func NewDeduplicator(store repository.IdempotencyStore, failOpen bool) *Deduplicator {
	return &Deduplicator{store: store, failOpen: failOpen}
}

// ParserStage handles parsing queue messages into record envelopes
type ParserStage struct {
	parser  MessageParser
	dedup   *Deduplicator
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewParserStage creates a new parser stage; dedup and m may be nil
func NewParserStage(parser MessageParser, dedup *Deduplicator, m *metrics.Metrics, log *zap.Logger) *ParserStage {
	return &ParserStage{
		parser:  parser,
		dedup:   dedup,
		metrics: m,
		log:     log,
	}
}

// Start begins parsing messages and outputs envelopes
func (p *ParserStage) Start(ctx context.Context, in <-chan queue.Message, out chan<- *Envelope) {
	defer close(out)

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Parser stage shutting down")
			return
		case msg, ok := <-in:
			if !ok {
				p.log.Info("Parser stage input channel closed")
				return
			}

			envelope := p.parseMessage(ctx, msg)
			if envelope == nil {
				continue
			}

			select {
			case <-ctx.Done():
				return
			case out <- envelope:
			}
		}
	}
}

// parseMessage parses a single message into an envelope. Malformed and
// duplicate messages are acked and dropped.
func (p *ParserStage) parseMessage(ctx context.Context, msg queue.Message) *Envelope {
	record, err := p.parser.Parse(msg.Body)
	if err != nil {
		p.log.Warn("Failed to parse message",
			zap.String("message_id", msg.ID),
			zap.Error(err))
		if p.metrics != nil {
			p.metrics.MessagesMalformed.Inc()
		}
		p.ack(ctx, msg)
		return nil
	}

	var nack func(context.Context) error
	if p.dedup != nil && p.dedup.store != nil {
		key := domain.RecordKey(record)
		fresh, err := p.dedup.store.MarkProcessed(ctx, key)
		switch {
		case err != nil && !p.dedup.failOpen:
			// left unacked for redelivery once the store recovers
			p.log.Error("Idempotency check failed",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			return nil
		case err != nil:
			p.log.Warn("Idempotency check failed, processing anyway",
				zap.String("message_id", msg.ID),
				zap.Error(err))
		case !fresh:
			p.log.Info("Skipping duplicate message",
				zap.String("message_id", msg.ID),
				zap.String("record_key", key))
			if p.metrics != nil {
				p.metrics.MessagesDuplicate.Inc()
			}
			p.ack(ctx, msg)
			return nil
		default:
			store := p.dedup.store
			nack = func(ctx context.Context) error {
				return store.Release(ctx, key)
			}
		}
	}

	return NewEnvelope(record, msg.Ack, nack)
}

func (p *ParserStage) ack(ctx context.Context, msg queue.Message) {
	if msg.Ack == nil {
		return
	}
	if err := msg.Ack(ctx); err != nil {
		p.log.Error("Failed to ack dropped message",
			zap.String("message_id", msg.ID),
			zap.Error(err))
	}
}
