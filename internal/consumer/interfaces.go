package consumer

import (
	"github.com/yildizemre/visapa/internal/domain"
)

// MessageParser defines the interface for parsing raw message bytes into telemetry records
type MessageParser interface {
	Parse(body []byte) (domain.Record, error)
}
