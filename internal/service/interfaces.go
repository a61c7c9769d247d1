package service

import (
	"context"
	"time"

	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/dto"
	"github.com/yildizemre/visapa/internal/rollup"
	"github.com/yildizemre/visapa/internal/scope"
)

// ScopeResolver resolves a caller into its read scope
type ScopeResolver interface {
	Resolve(ctx context.Context, caller int64) (scope.Scope, error)
}

// AnalyticsServicer defines the interface for rollup and correction operations
type AnalyticsServicer interface {
	CustomerSummary(ctx context.Context, caller int64, q *dto.AnalyticsQuery) (*rollup.FootfallSummary, error)
	FlowData(ctx context.Context, caller int64, q *dto.AnalyticsQuery) (*rollup.FlowData, error)
	QueueSummary(ctx context.Context, caller int64, q *dto.AnalyticsQuery) (*rollup.QueueSummary, error)
	ZoneSummary(ctx context.Context, caller int64, q *dto.AnalyticsQuery) (*rollup.ZoneSummary, error)
	Rollup(ctx context.Context, caller int64, q *dto.AnalyticsQuery) (*rollup.Response, error)
	WeeklyOverview(ctx context.Context, caller int64, storeID int64) (*rollup.Weekly, error)
	UpdateRecord(ctx context.Context, caller int64, storeID int64, kind domain.Kind, id string, patch dto.RecordPatchRequest) error
	DeleteRecord(ctx context.Context, caller int64, storeID int64, kind domain.Kind, id string) error
}

// TelemetryServicer defines the interface for the write-path publish operations
type TelemetryServicer interface {
	PublishTelemetry(ctx context.Context, caller int64, event *dto.TelemetryRequest) (string, error)
	PublishBulkTelemetry(ctx context.Context, caller int64, events []dto.TelemetryRequest) ([]string, []string, error)
}

// HeartbeatServicer defines the interface for edge-service liveness
type HeartbeatServicer interface {
	Ping(ctx context.Context, caller int64) (time.Time, error)
	Status(ctx context.Context, caller int64, storeID int64) (*dto.HeartbeatStatusResponse, error)
}

// DirectoryServicer defines the interface for the staff and report listings
type DirectoryServicer interface {
	ListStaff(ctx context.Context, caller int64, q *dto.ListQuery) (*dto.StaffListResponse, error)
	CreateStaff(ctx context.Context, caller int64, req *dto.CreateStaffRequest) (int64, error)
	ListReports(ctx context.Context, caller int64, q *dto.ListQuery) (*dto.ReportListResponse, error)
	CreateReport(ctx context.Context, caller int64, req *dto.CreateReportRequest) (*dto.CreateReportResponse, error)
}
