package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/dto"
	"github.com/yildizemre/visapa/internal/repository"
)

const (
	dateLayout = "2006-01-02"
	// allDimensions is the selector value the dashboard sends for "no filter"
	allDimensions = "all"
)

// dateFilter builds the date filter of a query. date_from takes precedence over
// date; date_to is optional. An unparsable bound drops the whole filter.
func dateFilter(q *dto.AnalyticsQuery, log *zap.Logger) repository.DateFilter {
	start := q.DateFrom
	if start == "" {
		start = q.Date
	}
	if start == "" {
		return repository.DateFilter{}
	}

	from, err := time.Parse(dateLayout, start)
	if err != nil {
		log.Warn("Ignoring malformed date filter", zap.String("date", start), zap.Error(err))
		return repository.DateFilter{}
	}
	if q.DateTo == "" {
		return repository.SingleDay(from)
	}

	to, err := time.Parse(dateLayout, q.DateTo)
	if err != nil {
		log.Warn("Ignoring malformed date filter", zap.String("date_to", q.DateTo), zap.Error(err))
		return repository.DateFilter{}
	}
	return repository.DateFilter{From: from, To: to}
}

// dimension normalizes a camera, cashier or zone selector
func dimension(v string) string {
	v = strings.TrimSpace(v)
	if v == allDimensions {
		return ""
	}
	return v
}

// parseKinds reads the comma-separated kinds list; empty means all three
func parseKinds(s string) ([]domain.Kind, error) {
	if strings.TrimSpace(s) == "" {
		return []domain.Kind{domain.KindFootfall, domain.KindQueue, domain.KindZone}, nil
	}

	seen := make(map[domain.Kind]bool)
	var kinds []domain.Kind
	for _, part := range strings.Split(s, ",") {
		kind, ok := domain.ParseKind(strings.TrimSpace(part))
		if !ok {
			return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidQuery, part)
		}
		if !seen[kind] {
			seen[kind] = true
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}
