package consumer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/metrics"
	"github.com/yildizemre/visapa/internal/queue"
)

// ReceiverConfig configures the receiver
type ReceiverConfig struct {
	MaxMessages  int
	ErrorBackoff time.Duration
}

// Receiver pulls messages from the queue source
type Receiver struct {
	source  queue.Source
	config  ReceiverConfig
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewReceiver creates a new receiver; m may be nil
func NewReceiver(source queue.Source, config ReceiverConfig, m *metrics.Metrics, log *zap.Logger) *Receiver {
	if config.ErrorBackoff <= 0 {
		config.ErrorBackoff = time.Second
	}
	return &Receiver{
		source:  source,
		config:  config,
		metrics: m,
		log:     log,
	}
}

// Start begins receiving messages and sends them to the output channel
func (r *Receiver) Start(ctx context.Context, out chan<- queue.Message) {
	defer close(out)

	for {
		select {
		case <-ctx.Done():
			r.log.Info("Receiver shutting down")
			return
		default:
			messages, err := r.source.Receive(ctx, r.config.MaxMessages)
			if err != nil {
				if ctx.Err() != nil {
					r.log.Info("Receiver shutting down")
					return
				}
				r.log.Error("Error receiving messages", zap.Error(err))
				select {
				case <-ctx.Done():
				case <-time.After(r.config.ErrorBackoff):
				}
				continue
			}

			if len(messages) == 0 {
				continue
			}

			r.log.Debug("Received messages", zap.Int("message_count", len(messages)))
			if r.metrics != nil {
				r.metrics.MessagesReceived.Add(float64(len(messages)))
			}

			// Send messages to the next stage
			for _, msg := range messages {
				select {
				case <-ctx.Done():
					r.log.Info("Receiver shutting down while sending messages")
					return
				case out <- msg:
				}
			}
		}
	}
}
