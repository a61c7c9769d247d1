package queue

import (
	"context"

	"github.com/yildizemre/visapa/internal/dto"
)

// Message is a telemetry message pulled from a broker. Ack removes it from the
// broker; a message that is never acked is redelivered.
type Message struct {
	ID   string
	Body []byte
	Ack  func(ctx context.Context) error
}

// Publisher defines the interface for publishing telemetry to a queue
type Publisher interface {
	PublishTelemetry(ctx context.Context, event *dto.TelemetryRequest) error
	Close() error
}

// Source defines the interface for pulling telemetry messages from a queue
type Source interface {
	// Receive blocks until at least one message arrives, the wait window ends, or ctx is done
	Receive(ctx context.Context, max int) ([]Message, error)
	Close() error
}
