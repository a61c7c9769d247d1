package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/dto"
	"github.com/yildizemre/visapa/internal/queue"
)

// futureSkew is how far ahead of the server clock a device timestamp may be
const futureSkew = 5 * time.Minute

// TimestampParser parses the wire timestamp of a telemetry event
type TimestampParser func(string) (time.Time, error)

// TelemetryService publishes device telemetry to the queue on behalf of a store
type TelemetryService struct {
	publisher queue.Publisher
	parseTime TimestampParser
	log       *zap.Logger
	now       func() time.Time
}

// NewTelemetryService creates a new telemetry service
func NewTelemetryService(publisher queue.Publisher, parseTime TimestampParser, log *zap.Logger) *TelemetryService {
	return &TelemetryService{
		publisher: publisher,
		parseTime: parseTime,
		log:       log,
		now:       time.Now,
	}
}

// PublishTelemetry stamps the event with its owner and an id, then publishes it
func (s *TelemetryService) PublishTelemetry(ctx context.Context, caller int64, event *dto.TelemetryRequest) (string, error) {
	if caller <= 0 {
		return "", domain.ErrUnauthenticated
	}
	if _, ok := domain.ParseKind(event.Kind); !ok {
		return "", fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidQuery, event.Kind)
	}

	if outOfRange(event.WaitTime) || outOfRange(event.Intensity) {
		return "", fmt.Errorf("%w: wait_time and intensity must be within [0, %d]", domain.ErrInvalidQuery, domain.MaxMeasure)
	}

	if event.Timestamp != "" {
		ts, err := s.parseTime(event.Timestamp)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
		}
		if ts.After(s.now().Add(futureSkew)) {
			s.log.Warn("Timestamp validation failed: future timestamp",
				zap.Time("timestamp", ts),
				zap.String("kind", event.Kind))
			return "", fmt.Errorf("%w: timestamp %s is in the future", domain.ErrInvalidQuery, event.Timestamp)
		}
	}

	msg := *event
	msg.OwnerID = caller
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	if err := s.publisher.PublishTelemetry(ctx, &msg); err != nil {
		return "", unavailable(fmt.Errorf("failed to publish telemetry to queue: %w", err))
	}

	return msg.ID, nil
}

// PublishBulkTelemetry publishes every event and reports per-event failures
func (s *TelemetryService) PublishBulkTelemetry(ctx context.Context, caller int64, events []dto.TelemetryRequest) ([]string, []string, error) {
	if caller <= 0 {
		return nil, nil, domain.ErrUnauthenticated
	}

	var ids []string
	var errs []string

	for i := range events {
		id, err := s.PublishTelemetry(ctx, caller, &events[i])
		if err != nil {
			errs = append(errs, fmt.Sprintf("event %d: %v", i, err))
			s.log.Warn("Failed to publish event in bulk",
				zap.Int("index", i),
				zap.String("kind", events[i].Kind),
				zap.Error(err))
			continue
		}
		ids = append(ids, id)
	}

	return ids, errs, nil
}

func outOfRange(v *float64) bool {
	return v != nil && (*v < 0 || *v > domain.MaxMeasure)
}
