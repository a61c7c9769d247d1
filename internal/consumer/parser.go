package consumer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/dto"
)

// timestampLayouts are tried in order for the wire timestamp
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// JSONTelemetryParser implements MessageParser for JSON telemetry messages
type JSONTelemetryParser struct {
	now func() time.Time
}

// NewJSONTelemetryParser creates a new JSON telemetry parser
func NewJSONTelemetryParser() *JSONTelemetryParser {
	return &JSONTelemetryParser{now: time.Now}
}

// Parse parses a JSON message body into a footfall, queue or zone record
func (p *JSONTelemetryParser) Parse(body []byte) (domain.Record, error) {
	var msg dto.TelemetryRequest
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	kind, ok := domain.ParseKind(msg.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown telemetry kind %q", msg.Kind)
	}
	if msg.OwnerID <= 0 {
		return nil, errors.New("telemetry message has no owner")
	}

	id := msg.ID
	if id == "" {
		id = uuid.NewString()
	}

	now := p.now().UTC()
	ts := now
	if msg.Timestamp != "" {
		parsed, err := ParseTimestamp(msg.Timestamp)
		if err != nil {
			return nil, err
		}
		ts = parsed
	}

	switch kind {
	case domain.KindFootfall:
		return &domain.FootfallEvent{
			ID:             id,
			OwnerID:        msg.OwnerID,
			Timestamp:      &ts,
			CreatedAt:      &now,
			Entered:        msg.Entered,
			Exited:         msg.Exited,
			MaleCount:      msg.MaleCount,
			FemaleCount:    msg.FemaleCount,
			Age18To30:      msg.Age18To30,
			Age30To50:      msg.Age30To50,
			Age50Plus:      msg.Age50Plus,
			Zone:           msg.Zone,
			CameraID:       msg.CameraID,
			Location:       msg.Location,
			PurchaseAmount: msg.PurchaseAmount,
		}, nil

	case domain.KindQueue:
		customers := int64(1)
		if msg.TotalCustomers != nil {
			customers = *msg.TotalCustomers
		}
		return &domain.QueueEvent{
			ID:             id,
			OwnerID:        msg.OwnerID,
			RecordedAt:     &ts,
			CreatedAt:      &now,
			WaitTime:       msg.WaitTime,
			CashierID:      msg.CashierID,
			TotalCustomers: &customers,
		}, nil

	default:
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
		if msg.DateRecorded != "" {
			d, err := time.ParseInLocation("2006-01-02", msg.DateRecorded, time.UTC)
			if err != nil {
				return nil, fmt.Errorf("invalid date_recorded %q: %w", msg.DateRecorded, err)
			}
			day = d
		}
		return &domain.ZoneEvent{
			ID:           id,
			OwnerID:      msg.OwnerID,
			Zone:         msg.Zone,
			RecordedAt:   &ts,
			CreatedAt:    &now,
			DateRecorded: &day,
			VisitorCount: msg.VisitorCount,
			Intensity:    msg.Intensity,
			HeatmapType:  msg.HeatmapType,
			CameraID:     msg.CameraID,
		}, nil
	}
}

// ParseTimestamp accepts RFC 3339 or a "YYYY-MM-DD[ HH:MM[:SS]]" wall time.
// Wall times are read as UTC and the result is always in UTC, the zone the
// event tables store.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
