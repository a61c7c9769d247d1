package consumer

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/yildizemre/visapa/internal/domain"
)

// ErrAlreadySettled is returned when an envelope is acked or nacked twice
var ErrAlreadySettled = errors.New("envelope already settled")

// Envelope carries a parsed telemetry record through the pipeline together with
// the callbacks that settle its queue message. Exactly one of Ack or Nack runs.
type Envelope struct {
	Record  domain.Record
	ack     func(context.Context) error
	nack    func(context.Context) error
	settled atomic.Bool
}

// NewEnvelope wraps a record; either callback may be nil
func NewEnvelope(record domain.Record, ack, nack func(context.Context) error) *Envelope {
	return &Envelope{
		Record: record,
		ack:    ack,
		nack:   nack,
	}
}

// Ack removes the message from the queue after a successful write
func (e *Envelope) Ack(ctx context.Context) error {
	return e.settle(ctx, e.ack)
}

// Nack leaves the message for redelivery
func (e *Envelope) Nack(ctx context.Context) error {
	return e.settle(ctx, e.nack)
}

func (e *Envelope) settle(ctx context.Context, fn func(context.Context) error) error {
	if !e.settled.CompareAndSwap(false, true) {
		return ErrAlreadySettled
	}
	if fn == nil {
		return nil
	}
	return fn(ctx)
}
