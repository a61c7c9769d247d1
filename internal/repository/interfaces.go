package repository

import (
	"context"
	"time"

	"github.com/yildizemre/visapa/internal/domain"
)

// DateFilter bounds a telemetry read by calendar date, both ends inclusive.
// A zero From means no date filter.
type DateFilter struct {
	From time.Time
	To   time.Time
}

// SingleDay returns a filter covering one calendar date
func SingleDay(d time.Time) DateFilter {
	return DateFilter{From: d, To: d}
}

// IsZero reports whether the filter is unset
func (f DateFilter) IsZero() bool {
	return f.From.IsZero()
}

// TelemetryQuery represents the parameters of a raw telemetry read
type TelemetryQuery struct {
	// Owners is the ordered scope; rows are returned in scope order on time ties
	Owners []int64
	Dates  DateFilter
	// Dimension is the camera, cashier or zone to restrict to; empty means all
	Dimension string
}

// TelemetryRepository defines the interface for telemetry storage operations
type TelemetryRepository interface {
	// FootfallEvents returns footfall rows ordered by (resolved time, owner position, id)
	FootfallEvents(ctx context.Context, q TelemetryQuery) ([]domain.FootfallEvent, error)

	// QueueEvents returns queue rows ordered by (resolved time, owner position, id)
	QueueEvents(ctx context.Context, q TelemetryQuery) ([]domain.QueueEvent, error)

	// ZoneEvents returns zone rows ordered by (resolved time, owner position, id)
	ZoneEvents(ctx context.Context, q TelemetryQuery) ([]domain.ZoneEvent, error)

	// DistinctValues lists the dimension values seen for a kind, ignoring q.Dimension
	DistinctValues(ctx context.Context, kind domain.Kind, q TelemetryQuery) ([]string, error)

	// GetRecord loads the live version of one record, or domain.ErrRecordNotFound.
	// When several owners share the id, a record owned within owners wins.
	GetRecord(ctx context.Context, kind domain.Kind, id string, owners []int64) (domain.Record, error)

	// SaveRecord writes a new version of a record, as a tombstone when deleted is set
	SaveRecord(ctx context.Context, rec domain.Record, deleted bool) error

	// InsertBatch inserts a batch of records of any kind into the storage
	InsertBatch(ctx context.Context, records []domain.Record) (int, error)

	// InitSchema initializes the database schema (creates tables if they don't exist)
	InitSchema(ctx context.Context) error

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources
	Close() error
}

// ScopeStore reads users and their managed-store links
type ScopeStore interface {
	// GetUser returns the user or domain.ErrUserNotFound
	GetUser(ctx context.Context, id int64) (*domain.User, error)

	// ListManagedStores returns the store ids linked to a manager in link-creation order
	ListManagedStores(ctx context.Context, managerID int64) ([]int64, error)

	Ping(ctx context.Context) error
	Close()
}

// Page selects a window of a listing ordered newest first
type Page struct {
	Number  int
	PerPage int
}

// Offset returns the number of rows before the page
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// StaffQuery represents the parameters of a staff listing
type StaffQuery struct {
	Owners []int64
	// Status restricts the listing to one status; empty means all
	Status string
	Page   Page
}

// DirectoryStore keeps the staff and report records of each store
type DirectoryStore interface {
	// ListStaff returns one page of staff owned within q.Owners and the total match count
	ListStaff(ctx context.Context, q StaffQuery) ([]domain.StaffMember, int64, error)

	// CreateStaff inserts a staff record and fills in its id and creation time
	CreateStaff(ctx context.Context, m *domain.StaffMember) error

	// ListReports returns one page of reports owned within owners and the total count
	ListReports(ctx context.Context, owners []int64, page Page) ([]domain.Report, int64, error)

	// CreateReport inserts a report and fills in its id and creation time
	CreateReport(ctx context.Context, r *domain.Report) error
}

// ScopeCache caches resolved owner lists per caller
type ScopeCache interface {
	GetScope(ctx context.Context, caller int64) ([]int64, bool, error)
	SetScope(ctx context.Context, caller int64, owners []int64) error
}

// HeartbeatStore keeps the last ping time of each store's edge service
type HeartbeatStore interface {
	Touch(ctx context.Context, owner int64, at time.Time) error
	LastSeen(ctx context.Context, owner int64) (time.Time, bool, error)
}

// IdempotencyStore remembers processed record keys
type IdempotencyStore interface {
	// MarkProcessed records the id and reports whether it was new
	MarkProcessed(ctx context.Context, messageID string) (bool, error)

	// Release forgets an id so a redelivery is processed again
	Release(ctx context.Context, messageID string) error
}
