package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/dto"
	"github.com/yildizemre/visapa/internal/metrics"
	"github.com/yildizemre/visapa/internal/repository"
	"github.com/yildizemre/visapa/internal/scope"
)

var managerScope = scope.Scope{Caller: 1, Owners: []int64{1, 12, 11}}

func day(s string) time.Time {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func at(hour int) *time.Time {
	t := time.Date(2025, 3, 1, hour, 15, 0, 0, time.UTC)
	return &t
}

func strPtr(s string) *string { return &s }

func f64Ptr(v float64) *float64 { return &v }

func i64Ptr(v int64) *int64 { return &v }

func newAnalytics(resolver *MockScopeResolver, repo *MockTelemetryRepository, m *metrics.Metrics) *AnalyticsService {
	return NewAnalyticsService(resolver, repo, m, zap.NewNop())
}

func TestAnalyticsService_CustomerSummary_Success(t *testing.T) {
	resolver := new(MockScopeResolver)
	repo := new(MockTelemetryRepository)
	m := metrics.New()
	svc := newAnalytics(resolver, repo, m)

	resolver.On("Resolve", mock.Anything, int64(1)).Return(managerScope, nil)

	want := repository.TelemetryQuery{
		Owners: []int64{1, 12, 11},
		Dates:  repository.SingleDay(day("2025-03-01")),
	}
	repo.On("FootfallEvents", mock.Anything, want).Return([]domain.FootfallEvent{
		{ID: "a", OwnerID: 12, Timestamp: at(10), Entered: 4, Exited: 1, MaleCount: 2},
		{ID: "b", OwnerID: 11, Timestamp: at(10), Entered: 3},
	}, nil)
	repo.On("DistinctValues", mock.Anything, domain.KindFootfall, want).Return([]string{"cam-2", "cam-1", "cam-2"}, nil)

	got, err := svc.CustomerSummary(context.Background(), 1, &dto.AnalyticsQuery{Date: "2025-03-01", CameraID: "all"})

	require.NoError(t, err)
	assert.Equal(t, int64(7), got.OverallStats.TotalEntered)
	assert.Len(t, got.HourlySummary, 13)
	assert.Equal(t, "a", *got.HourlySummary[0].EditableID)
	assert.Equal(t, []string{"cam-1", "cam-2"}, got.AllCameras)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RollupsTotal.WithLabelValues("footfall", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RecordsAggregated.WithLabelValues("footfall")))
}

func TestAnalyticsService_CustomerSummary_MalformedDateDropsFilter(t *testing.T) {
	resolver := new(MockScopeResolver)
	repo := new(MockTelemetryRepository)
	svc := newAnalytics(resolver, repo, nil)

	resolver.On("Resolve", mock.Anything, int64(7)).Return(scope.Single(7), nil)

	unfiltered := repository.TelemetryQuery{Owners: []int64{7}, Dimension: "cam-1"}
	repo.On("FootfallEvents", mock.Anything, unfiltered).Return([]domain.FootfallEvent{}, nil)
	repo.On("DistinctValues", mock.Anything, domain.KindFootfall, unfiltered).Return([]string{}, nil)

	got, err := svc.CustomerSummary(context.Background(), 7, &dto.AnalyticsQuery{Date: "01/03/2025", CameraID: "cam-1"})

	require.NoError(t, err)
	assert.Empty(t, got.Data)
	assert.NotNil(t, got.AllCameras)
	repo.AssertExpectations(t)
}

func TestAnalyticsService_QueueSummary_RangeAndCashier(t *testing.T) {
	resolver := new(MockScopeResolver)
	repo := new(MockTelemetryRepository)
	svc := newAnalytics(resolver, repo, nil)

	resolver.On("Resolve", mock.Anything, int64(7)).Return(scope.Single(7), nil)

	want := repository.TelemetryQuery{
		Owners:    []int64{7},
		Dates:     repository.DateFilter{From: day("2025-03-01"), To: day("2025-03-03")},
		Dimension: "Kasa-1",
	}
	repo.On("QueueEvents", mock.Anything, want).Return([]domain.QueueEvent{
		{ID: "q1", OwnerID: 7, RecordedAt: at(12), WaitTime: f64Ptr(30), CashierID: strPtr("Kasa-1"), TotalCustomers: i64Ptr(2)},
	}, nil)
	repo.On("DistinctValues", mock.Anything, domain.KindQueue, want).Return([]string{"Kasa-2", "Kasa-1"}, nil)

	got, err := svc.QueueSummary(context.Background(), 7, &dto.AnalyticsQuery{
		DateFrom: "2025-03-01", DateTo: "2025-03-03", CashierIDs: "Kasa-1",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), got.OverallStats.TotalCustomers)
	assert.Equal(t, []string{"Kasa-1", "Kasa-2"}, got.AllCashiers)
	assert.Equal(t, got.AllCashiers, got.AvailableCashiers)
}

func TestAnalyticsService_QueueSummary_MalformedDateToDropsWholeFilter(t *testing.T) {
	resolver := new(MockScopeResolver)
	repo := new(MockTelemetryRepository)
	svc := newAnalytics(resolver, repo, nil)

	resolver.On("Resolve", mock.Anything, int64(7)).Return(scope.Single(7), nil)

	unfiltered := repository.TelemetryQuery{Owners: []int64{7}}
	repo.On("QueueEvents", mock.Anything, unfiltered).Return([]domain.QueueEvent{}, nil)
	repo.On("DistinctValues", mock.Anything, domain.KindQueue, unfiltered).Return([]string{}, nil)

	_, err := svc.QueueSummary(context.Background(), 7, &dto.AnalyticsQuery{DateFrom: "2025-03-01", DateTo: "soon"})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestAnalyticsService_ZoneSummary_StoreNarrowing(t *testing.T) {
	resolver := new(MockScopeResolver)
	repo := new(MockTelemetryRepository)
	svc := newAnalytics(resolver, repo, nil)

	resolver.On("Resolve", mock.Anything, int64(1)).Return(managerScope, nil)

	want := repository.TelemetryQuery{Owners: []int64{12}, Dates: repository.SingleDay(day("2025-03-01"))}
	repo.On("ZoneEvents", mock.Anything, want).Return([]domain.ZoneEvent{
		{ID: "z1", OwnerID: 12, Zone: strPtr("Giris"), RecordedAt: at(11), VisitorCount: i64Ptr(5), Intensity: f64Ptr(12)},
	}, nil)
	repo.On("DistinctValues", mock.Anything, domain.KindZone, want).Return([]string{"Giris"}, nil)

	got, err := svc.ZoneSummary(context.Background(), 1, &dto.AnalyticsQuery{Date: "2025-03-01", StoreID: 12})

	require.NoError(t, err)
	assert.Equal(t, "Giris", got.OverallStats.BusiestZone)
	assert.Equal(t, []string{"Giris"}, got.AllZones)
}

func TestAnalyticsService_StoreOutsideScope(t *testing.T) {
	resolver := new(MockScopeResolver)
	repo := new(MockTelemetryRepository)
	svc := newAnalytics(resolver, repo, nil)

	resolver.On("Resolve", mock.Anything, int64(1)).Return(managerScope, nil)

	_, err := svc.ZoneSummary(context.Background(), 1, &dto.AnalyticsQuery{StoreID: 99})

	assert.ErrorIs(t, err, domain.ErrScopeViolation)
	repo.AssertNotCalled(t, "ZoneEvents", mock.Anything, mock.Anything)
}

func TestAnalyticsService_ResolverFailure(t *testing.T) {
	resolver := new(MockScopeResolver)
	svc := newAnalytics(resolver, new(MockTelemetryRepository), nil)

	resolver.On("Resolve", mock.Anything, int64(1)).Return(scope.Scope{}, errors.New("postgres down"))

	_, err := svc.QueueSummary(context.Background(), 1, &dto.AnalyticsQuery{})

	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestAnalyticsService_Unauthenticated(t *testing.T) {
	resolver := new(MockScopeResolver)
	svc := newAnalytics(resolver, new(MockTelemetryRepository), nil)

	resolver.On("Resolve", mock.Anything, int64(0)).Return(scope.Scope{}, domain.ErrUnauthenticated)

	_, err := svc.CustomerSummary(context.Background(), 0, &dto.AnalyticsQuery{})

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.NotErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestAnalyticsService_RepositoryFailure(t *testing.T) {
	resolver := new(MockScopeResolver)
	repo := new(MockTelemetryRepository)
	m := metrics.New()
	svc := newAnalytics(resolver, repo, m)

	dbErr := errors.New("clickhouse timeout")
	resolver.On("Resolve", mock.Anything, int64(7)).Return(scope.Single(7), nil)
	repo.On("ZoneEvents", mock.Anything, mock.Anything).Return(nil, dbErr)

	_, err := svc.ZoneSummary(context.Background(), 7, &dto.AnalyticsQuery{})

	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
	assert.ErrorIs(t, err, dbErr)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RollupsTotal.WithLabelValues("zone", "error")))
}

func TestAnalyticsService_FlowData(t *testing.T) {
	resolver := new(MockScopeResolver)
	repo := new(MockTelemetryRepository)
	svc := newAnalytics(resolver, repo, nil)

	resolver.On("Resolve", mock.Anything, int64(7)).Return(scope.Single(7), nil)
	repo.On("FootfallEvents", mock.Anything, mock.Anything).Return([]domain.FootfallEvent{
		{ID: "a", OwnerID: 7, Timestamp: at(10), Entered: 2},
		{ID: "b", OwnerID: 7, Timestamp: at(22), Exited: 5},
	}, nil)

	got, err := svc.FlowData(context.Background(), 7, &dto.AnalyticsQuery{DateFrom: "2025-03-01"})

	require.NoError(t, err)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "2025-03-01", got.Data[0].Date)
	assert.Equal(t, int64(2), got.Data[0].Summary.TotalEntered)
	assert.Equal(t, int64(5), got.Data[0].Summary.TotalExited)
	repo.AssertNotCalled(t, "DistinctValues", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyticsService_Rollup_SelectedKinds(t *testing.T) {
	resolver := new(MockScopeResolver)
	repo := new(MockTelemetryRepository)
	svc := newAnalytics(resolver, repo, nil)

	resolver.On("Resolve", mock.Anything, int64(7)).Return(scope.Single(7), nil)
	repo.On("QueueEvents", mock.Anything, repository.TelemetryQuery{Owners: []int64{7}, Dimension: "Kasa-1"}).
		Return([]domain.QueueEvent{}, nil)
	repo.On("DistinctValues", mock.Anything, domain.KindQueue, mock.Anything).Return([]string{}, nil)
	repo.On("ZoneEvents", mock.Anything, repository.TelemetryQuery{Owners: []int64{7}}).
		Return([]domain.ZoneEvent{}, nil)
	repo.On("DistinctValues", mock.Anything, domain.KindZone, mock.Anything).Return([]string{}, nil)

	got, err := svc.Rollup(context.Background(), 7, &dto.AnalyticsQuery{Kinds: "queues, zone,queue", CashierIDs: "Kasa-1"})

	require.NoError(t, err)
	assert.Nil(t, got.Footfall)
	require.NotNil(t, got.Queue)
	require.NotNil(t, got.Zone)
	assert.Equal(t, "N/A", got.Zone.OverallStats.BusiestZone)
	repo.AssertNotCalled(t, "FootfallEvents", mock.Anything, mock.Anything)
	repo.AssertNumberOfCalls(t, "QueueEvents", 1)
}

func TestAnalyticsService_Rollup_UnknownKind(t *testing.T) {
	svc := newAnalytics(new(MockScopeResolver), new(MockTelemetryRepository), nil)

	_, err := svc.Rollup(context.Background(), 7, &dto.AnalyticsQuery{Kinds: "footfall,doors"})

	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}

func TestAnalyticsService_WeeklyOverview(t *testing.T) {
	resolver := new(MockScopeResolver)
	repo := new(MockTelemetryRepository)
	svc := newAnalytics(resolver, repo, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 8, 15, 30, 0, 0, time.UTC) }

	end := day("2025-03-08")
	want := repository.TelemetryQuery{Owners: []int64{7}, Dates: repository.DateFilter{From: day("2025-03-01"), To: end}}

	resolver.On("Resolve", mock.Anything, int64(7)).Return(scope.Single(7), nil)
	repo.On("FootfallEvents", mock.Anything, want).Return([]domain.FootfallEvent{
		{ID: "a", OwnerID: 7, Timestamp: at(12), Entered: 9, Age30To50: 4},
	}, nil)
	repo.On("QueueEvents", mock.Anything, want).Return([]domain.QueueEvent{
		{ID: "q", OwnerID: 7, RecordedAt: at(12), WaitTime: f64Ptr(40)},
	}, nil)

	got, err := svc.WeeklyOverview(context.Background(), 7, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(9), got.Totals.Customers.TotalEntered)
	assert.Equal(t, "30-50", got.Totals.Customers.BusiestAgeGroup)
	assert.Equal(t, int64(1), got.Totals.Queues.TotalQueues)
	assert.Len(t, got.Timeseries.DailyCustomerFlow, 7)
	assert.Equal(t, "2025-03-02", got.Timeseries.DailyCustomerFlow[0].Date)
	assert.Equal(t, "2025-03-08", got.Timeseries.DailyCustomerFlow[6].Date)
}

func TestAnalyticsService_UpdateRecord_InScope(t *testing.T) {
	resolver := new(MockScopeResolver)
	repo := new(MockTelemetryRepository)
	svc := newAnalytics(resolver, repo, nil)

	rec := &domain.FootfallEvent{ID: "f1", OwnerID: 12, Entered: 3, Exited: 2}
	resolver.On("Resolve", mock.Anything, int64(1)).Return(managerScope, nil)
	repo.On("GetRecord", mock.Anything, domain.KindFootfall, "f1", managerScope.Owners).Return(rec, nil)
	repo.On("SaveRecord", mock.Anything, mock.MatchedBy(func(r domain.Record) bool {
		f, ok := r.(*domain.FootfallEvent)
		return ok && f.Entered == 10 && f.Exited == 0
	}), false).Return(nil)

	err := svc.UpdateRecord(context.Background(), 1, 0, domain.KindFootfall, "f1",
		dto.RecordPatchRequest{"entering": float64(10), "exiting": nil})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestAnalyticsService_UpdateRecord_OutsideScope(t *testing.T) {
	resolver := new(MockScopeResolver)
	repo := new(MockTelemetryRepository)
	svc := newAnalytics(resolver, repo, nil)

	resolver.On("Resolve", mock.Anything, int64(7)).Return(scope.Single(7), nil)
	repo.On("GetRecord", mock.Anything, domain.KindQueue, "q1", []int64{7}).Return(&domain.QueueEvent{ID: "q1", OwnerID: 8}, nil)

	err := svc.UpdateRecord(context.Background(), 7, 0, domain.KindQueue, "q1", dto.RecordPatchRequest{"avgWaitTime": float64(5)})

	assert.ErrorIs(t, err, domain.ErrScopeViolation)
	repo.AssertNotCalled(t, "SaveRecord", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyticsService_UpdateRecord_NotFound(t *testing.T) {
	resolver := new(MockScopeResolver)
	repo := new(MockTelemetryRepository)
	svc := newAnalytics(resolver, repo, nil)

	resolver.On("Resolve", mock.Anything, int64(7)).Return(scope.Single(7), nil)
	repo.On("GetRecord", mock.Anything, domain.KindZone, "nope", mock.Anything).Return(nil, domain.ErrRecordNotFound)

	err := svc.UpdateRecord(context.Background(), 7, 0, domain.KindZone, "nope", dto.RecordPatchRequest{"totalVisitors": float64(1)})

	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestAnalyticsService_UpdateRecord_InvalidPatch(t *testing.T) {
	repo := new(MockTelemetryRepository)
	svc := newAnalytics(new(MockScopeResolver), repo, nil)

	err := svc.UpdateRecord(context.Background(), 7, 0, domain.KindZone, "z1", dto.RecordPatchRequest{"entered": float64(1)})

	assert.ErrorIs(t, err, domain.ErrInvalidPatch)
	repo.AssertNotCalled(t, "GetRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyticsService_UpdateRecord_NegativeValue(t *testing.T) {
	resolver := new(MockScopeResolver)
	repo := new(MockTelemetryRepository)
	svc := newAnalytics(resolver, repo, nil)

	resolver.On("Resolve", mock.Anything, int64(7)).Return(scope.Single(7), nil)
	repo.On("GetRecord", mock.Anything, domain.KindQueue, "q1", mock.Anything).Return(&domain.QueueEvent{ID: "q1", OwnerID: 7}, nil)

	err := svc.UpdateRecord(context.Background(), 7, 0, domain.KindQueue, "q1", dto.RecordPatchRequest{"avgWaitTime": float64(-3)})

	assert.ErrorIs(t, err, domain.ErrInvalidPatch)
	repo.AssertNotCalled(t, "SaveRecord", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyticsService_DeleteRecord(t *testing.T) {
	resolver := new(MockScopeResolver)
	repo := new(MockTelemetryRepository)
	svc := newAnalytics(resolver, repo, nil)

	rec := &domain.ZoneEvent{ID: "z1", OwnerID: 11}
	resolver.On("Resolve", mock.Anything, int64(1)).Return(managerScope, nil)
	repo.On("GetRecord", mock.Anything, domain.KindZone, "z1", []int64{11}).Return(rec, nil)
	repo.On("SaveRecord", mock.Anything, rec, true).Return(nil)

	err := svc.DeleteRecord(context.Background(), 1, 11, domain.KindZone, "z1")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestAnalyticsService_DeleteRecord_NarrowedAway(t *testing.T) {
	resolver := new(MockScopeResolver)
	repo := new(MockTelemetryRepository)
	svc := newAnalytics(resolver, repo, nil)

	resolver.On("Resolve", mock.Anything, int64(1)).Return(managerScope, nil)
	repo.On("GetRecord", mock.Anything, domain.KindZone, "z1", mock.Anything).Return(&domain.ZoneEvent{ID: "z1", OwnerID: 11}, nil)

	err := svc.DeleteRecord(context.Background(), 1, 12, domain.KindZone, "z1")

	assert.ErrorIs(t, err, domain.ErrScopeViolation)
}

func TestAnalyticsService_DeleteRecord_SaveFailure(t *testing.T) {
	resolver := new(MockScopeResolver)
	repo := new(MockTelemetryRepository)
	svc := newAnalytics(resolver, repo, nil)

	resolver.On("Resolve", mock.Anything, int64(7)).Return(scope.Single(7), nil)
	repo.On("GetRecord", mock.Anything, domain.KindFootfall, "f1", mock.Anything).Return(&domain.FootfallEvent{ID: "f1", OwnerID: 7}, nil)
	repo.On("SaveRecord", mock.Anything, mock.Anything, true).Return(errors.New("write timeout"))

	err := svc.DeleteRecord(context.Background(), 7, 0, domain.KindFootfall, "f1")

	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}
