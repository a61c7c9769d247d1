package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/dto"
	"github.com/yildizemre/visapa/internal/metrics"
	"github.com/yildizemre/visapa/internal/repository"
	"github.com/yildizemre/visapa/internal/rollup"
	"github.com/yildizemre/visapa/internal/scope"
)

// AnalyticsService serves rollups and record corrections over the caller's scope
type AnalyticsService struct {
	resolver   ScopeResolver
	repository repository.TelemetryRepository
	metrics    *metrics.Metrics
	log        *zap.Logger
	now        func() time.Time
}

// NewAnalyticsService creates a new analytics service; m may be nil
func NewAnalyticsService(resolver ScopeResolver, repo repository.TelemetryRepository, m *metrics.Metrics, log *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		resolver:   resolver,
		repository: repo,
		metrics:    m,
		log:        log,
		now:        time.Now,
	}
}

func (s *AnalyticsService) scopeFor(ctx context.Context, caller, storeID int64) (scope.Scope, error) {
	return resolveScope(ctx, s.resolver, caller, storeID, s.log)
}

// resolveScope resolves the caller and applies the optional store narrowing
func resolveScope(ctx context.Context, resolver ScopeResolver, caller, storeID int64, log *zap.Logger) (scope.Scope, error) {
	sc, err := resolver.Resolve(ctx, caller)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return scope.Scope{}, err
		}
		return scope.Scope{}, unavailable(err)
	}

	narrowed, err := sc.Narrow(storeID)
	if err != nil {
		log.Warn("Store outside caller scope",
			zap.Int64("caller", caller),
			zap.Int64("store_id", storeID))
		return scope.Scope{}, err
	}
	return narrowed, nil
}

func (s *AnalyticsService) telemetryQuery(ctx context.Context, caller int64, q *dto.AnalyticsQuery, dim string) (repository.TelemetryQuery, error) {
	sc, err := s.scopeFor(ctx, caller, q.StoreID)
	if err != nil {
		return repository.TelemetryQuery{}, err
	}
	return repository.TelemetryQuery{
		Owners:    sc.Owners,
		Dates:     dateFilter(q, s.log),
		Dimension: dimension(dim),
	}, nil
}

// CustomerSummary returns the footfall rollup with the camera catalogue
func (s *AnalyticsService) CustomerSummary(ctx context.Context, caller int64, q *dto.AnalyticsQuery) (*rollup.FootfallSummary, error) {
	tq, err := s.telemetryQuery(ctx, caller, q, q.CameraID)
	if err != nil {
		return nil, err
	}

	summary, err := s.footfallSummary(ctx, tq)
	s.observe(domain.KindFootfall, err)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// FlowData returns entered/exited per date and hour
func (s *AnalyticsService) FlowData(ctx context.Context, caller int64, q *dto.AnalyticsQuery) (*rollup.FlowData, error) {
	tq, err := s.telemetryQuery(ctx, caller, q, q.CameraID)
	if err != nil {
		return nil, err
	}

	events, err := s.repository.FootfallEvents(ctx, tq)
	if err != nil {
		s.observe(domain.KindFootfall, err)
		return nil, unavailable(fmt.Errorf("failed to read footfall events: %w", err))
	}
	s.counted(domain.KindFootfall, len(events))

	flow := rollup.AggregateFlow(events)
	return &flow, nil
}

// QueueSummary returns the queue rollup with the cashier catalogue
func (s *AnalyticsService) QueueSummary(ctx context.Context, caller int64, q *dto.AnalyticsQuery) (*rollup.QueueSummary, error) {
	tq, err := s.telemetryQuery(ctx, caller, q, q.CashierIDs)
	if err != nil {
		return nil, err
	}

	summary, err := s.queueSummary(ctx, tq)
	s.observe(domain.KindQueue, err)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// ZoneSummary returns the zone rollup with the zone catalogue
func (s *AnalyticsService) ZoneSummary(ctx context.Context, caller int64, q *dto.AnalyticsQuery) (*rollup.ZoneSummary, error) {
	tq, err := s.telemetryQuery(ctx, caller, q, q.ZoneIDs)
	if err != nil {
		return nil, err
	}

	summary, err := s.zoneSummary(ctx, tq)
	s.observe(domain.KindZone, err)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// Rollup assembles the requested kinds into one response. Each kind reads
// with its own dimension selector.
func (s *AnalyticsService) Rollup(ctx context.Context, caller int64, q *dto.AnalyticsQuery) (*rollup.Response, error) {
	kinds, err := parseKinds(q.Kinds)
	if err != nil {
		return nil, err
	}

	sc, err := s.scopeFor(ctx, caller, q.StoreID)
	if err != nil {
		return nil, err
	}
	base := repository.TelemetryQuery{Owners: sc.Owners, Dates: dateFilter(q, s.log)}

	builder := rollup.NewBuilder()
	for _, kind := range kinds {
		tq := base
		switch kind {
		case domain.KindFootfall:
			tq.Dimension = dimension(q.CameraID)
			summary, err := s.footfallSummary(ctx, tq)
			s.observe(kind, err)
			if err != nil {
				return nil, err
			}
			builder.WithFootfall(summary)
		case domain.KindQueue:
			tq.Dimension = dimension(q.CashierIDs)
			summary, err := s.queueSummary(ctx, tq)
			s.observe(kind, err)
			if err != nil {
				return nil, err
			}
			builder.WithQueue(summary)
		case domain.KindZone:
			tq.Dimension = dimension(q.ZoneIDs)
			summary, err := s.zoneSummary(ctx, tq)
			s.observe(kind, err)
			if err != nil {
				return nil, err
			}
			builder.WithZone(summary)
		}
	}

	resp := builder.Build()
	return &resp, nil
}

// WeeklyOverview returns the dashboard's seven-day totals and daily series
func (s *AnalyticsService) WeeklyOverview(ctx context.Context, caller int64, storeID int64) (*rollup.Weekly, error) {
	sc, err := s.scopeFor(ctx, caller, storeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tq := repository.TelemetryQuery{
		Owners: sc.Owners,
		Dates:  repository.DateFilter{From: rollup.WeekStart(end), To: end},
	}

	footfall, err := s.repository.FootfallEvents(ctx, tq)
	if err != nil {
		return nil, unavailable(fmt.Errorf("failed to read footfall events: %w", err))
	}
	queue, err := s.repository.QueueEvents(ctx, tq)
	if err != nil {
		return nil, unavailable(fmt.Errorf("failed to read queue events: %w", err))
	}
	s.counted(domain.KindFootfall, len(footfall))
	s.counted(domain.KindQueue, len(queue))

	weekly := rollup.WeeklyOverview(footfall, queue, end)
	return &weekly, nil
}

func (s *AnalyticsService) footfallSummary(ctx context.Context, tq repository.TelemetryQuery) (rollup.FootfallSummary, error) {
	events, err := s.repository.FootfallEvents(ctx, tq)
	if err != nil {
		return rollup.FootfallSummary{}, unavailable(fmt.Errorf("failed to read footfall events: %w", err))
	}
	cameras, err := s.repository.DistinctValues(ctx, domain.KindFootfall, tq)
	if err != nil {
		return rollup.FootfallSummary{}, unavailable(err)
	}
	s.counted(domain.KindFootfall, len(events))
	return rollup.BuildFootfallSummary(events, cameras), nil
}

func (s *AnalyticsService) queueSummary(ctx context.Context, tq repository.TelemetryQuery) (rollup.QueueSummary, error) {
	events, err := s.repository.QueueEvents(ctx, tq)
	if err != nil {
		return rollup.QueueSummary{}, unavailable(fmt.Errorf("failed to read queue events: %w", err))
	}
	cashiers, err := s.repository.DistinctValues(ctx, domain.KindQueue, tq)
	if err != nil {
		return rollup.QueueSummary{}, unavailable(err)
	}
	s.counted(domain.KindQueue, len(events))
	return rollup.BuildQueueSummary(events, cashiers), nil
}

func (s *AnalyticsService) zoneSummary(ctx context.Context, tq repository.TelemetryQuery) (rollup.ZoneSummary, error) {
	events, err := s.repository.ZoneEvents(ctx, tq)
	if err != nil {
		return rollup.ZoneSummary{}, unavailable(fmt.Errorf("failed to read zone events: %w", err))
	}
	zones, err := s.repository.DistinctValues(ctx, domain.KindZone, tq)
	if err != nil {
		return rollup.ZoneSummary{}, unavailable(err)
	}
	s.counted(domain.KindZone, len(events))
	return rollup.BuildZoneSummary(events, zones), nil
}

// UpdateRecord applies a correction to one record inside the caller's scope
func (s *AnalyticsService) UpdateRecord(ctx context.Context, caller int64, storeID int64, kind domain.Kind, id string, patch dto.RecordPatchRequest) error {
	p, err := patch.ToRecordPatch(kind)
	if err != nil {
		return err
	}

	rec, err := s.scopedRecord(ctx, caller, storeID, kind, id)
	if err != nil {
		return err
	}

	if err := p.Apply(rec); err != nil {
		return err
	}

	if err := s.repository.SaveRecord(ctx, rec, false); err != nil {
		return unavailable(err)
	}

	s.log.Info("Record corrected",
		zap.Int64("caller", caller),
		zap.String("kind", string(kind)),
		zap.String("id", id))
	return nil
}

// DeleteRecord removes one record inside the caller's scope
func (s *AnalyticsService) DeleteRecord(ctx context.Context, caller int64, storeID int64, kind domain.Kind, id string) error {
	rec, err := s.scopedRecord(ctx, caller, storeID, kind, id)
	if err != nil {
		return err
	}

	if err := s.repository.SaveRecord(ctx, rec, true); err != nil {
		return unavailable(err)
	}

	s.log.Info("Record deleted",
		zap.Int64("caller", caller),
		zap.String("kind", string(kind)),
		zap.String("id", id))
	return nil
}

// scopedRecord loads a record and rejects it when its owner is outside the scope
func (s *AnalyticsService) scopedRecord(ctx context.Context, caller, storeID int64, kind domain.Kind, id string) (domain.Record, error) {
	sc, err := s.scopeFor(ctx, caller, storeID)
	if err != nil {
		return nil, err
	}

	rec, err := s.repository.GetRecord(ctx, kind, id, sc.Owners)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}
		return nil, unavailable(fmt.Errorf("failed to load %s record: %w", kind, err))
	}

	if !sc.Contains(rec.Owner()) {
		s.log.Warn("Record outside caller scope",
			zap.Int64("caller", caller),
			zap.String("kind", string(kind)),
			zap.String("id", id),
			zap.Int64("owner", rec.Owner()))
		return nil, domain.ErrScopeViolation
	}
	return rec, nil
}

func (s *AnalyticsService) observe(kind domain.Kind, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.RollupsTotal.WithLabelValues(string(kind), outcome).Inc()
}

func (s *AnalyticsService) counted(kind domain.Kind, n int) {
	if s.metrics != nil {
		s.metrics.RecordsAggregated.WithLabelValues(string(kind)).Add(float64(n))
	}
}

// unavailable tags a backing-store failure
func unavailable(err error) error {
	if errors.Is(err, domain.ErrDataUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
}
