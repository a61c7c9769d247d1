package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/repository"
)

// Repository implements TelemetryRepository for ClickHouse
type Repository struct {
	client *Client
	log    *zap.Logger
}

var _ repository.TelemetryRepository = (*Repository)(nil)

// NewRepository creates a new ClickHouse repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema creates the three telemetry tables. Each uses ReplacingMergeTree
// keyed on version so that corrections and deletes are plain inserts.
func (r *Repository) InitSchema(ctx context.Context) error {
	for _, ddl := range schema {
		if err := r.client.Conn().Exec(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create telemetry table: %w", err)
		}
	}

	r.log.Info("ClickHouse schema initialized successfully")
	return nil
}

// FootfallEvents returns live footfall rows for the query scope
func (r *Repository) FootfallEvents(ctx context.Context, q repository.TelemetryQuery) ([]domain.FootfallEvent, error) {
	query, args := tables[domain.KindFootfall].selectQuery(q)
	return selectRows(ctx, r, query, args, footfallFields)
}

// QueueEvents returns live queue rows for the query scope
func (r *Repository) QueueEvents(ctx context.Context, q repository.TelemetryQuery) ([]domain.QueueEvent, error) {
	query, args := tables[domain.KindQueue].selectQuery(q)
	return selectRows(ctx, r, query, args, queueFields)
}

// ZoneEvents returns live zone rows for the query scope
func (r *Repository) ZoneEvents(ctx context.Context, q repository.TelemetryQuery) ([]domain.ZoneEvent, error) {
	query, args := tables[domain.KindZone].selectQuery(q)
	return selectRows(ctx, r, query, args, zoneFields)
}

// DistinctValues lists cameras, cashiers or zones seen in the scope and date range
func (r *Repository) DistinctValues(ctx context.Context, kind domain.Kind, q repository.TelemetryQuery) ([]string, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query, args := t.distinctQuery(q)
	values, err := selectRows(ctx, r, query, args, func(v *string) []any { return []any{v} })
	if err != nil {
		return nil, fmt.Errorf("failed to list %s values: %w", t.dimension, err)
	}
	return values, nil
}

// GetRecord loads the live version of a record, preferring one owned within owners
func (r *Repository) GetRecord(ctx context.Context, kind domain.Kind, id string, owners []int64) (domain.Record, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := t.getQuery(owners)
	args := []any{id}

	var rec domain.Record
	switch kind {
	case domain.KindFootfall:
		rows, err := selectRows(ctx, r, query, args, footfallFields)
		if err != nil || len(rows) == 0 {
			return nil, notFoundOr(err)
		}
		rec = &rows[0]
	case domain.KindQueue:
		rows, err := selectRows(ctx, r, query, args, queueFields)
		if err != nil || len(rows) == 0 {
			return nil, notFoundOr(err)
		}
		rec = &rows[0]
	case domain.KindZone:
		rows, err := selectRows(ctx, r, query, args, zoneFields)
		if err != nil || len(rows) == 0 {
			return nil, notFoundOr(err)
		}
		rec = &rows[0]
	}

	return rec, nil
}

func notFoundOr(err error) error {
	if err != nil {
		return err
	}
	return domain.ErrRecordNotFound
}

// SaveRecord inserts a new version of rec, replacing the live one on merge
func (r *Repository) SaveRecord(ctx context.Context, rec domain.Record, deleted bool) error {
	setVersion(rec, uint64(time.Now().UnixNano()), deleted)

	if _, err := r.InsertBatch(ctx, []domain.Record{rec}); err != nil {
		return fmt.Errorf("failed to save record %s: %w", rec.RecordID(), err)
	}

	r.log.Info("Telemetry record saved",
		zap.String("kind", string(rec.Kind())),
		zap.String("id", rec.RecordID()),
		zap.Bool("deleted", deleted))
	return nil
}

// InsertBatch inserts records of any kind, one ClickHouse batch per table
func (r *Repository) InsertBatch(ctx context.Context, records []domain.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	byKind := make(map[domain.Kind][]domain.Record)
	for _, rec := range records {
		byKind[rec.Kind()] = append(byKind[rec.Kind()], rec)
	}

	insertedCount := 0
	for _, kind := range []domain.Kind{domain.KindFootfall, domain.KindQueue, domain.KindZone} {
		group := byKind[kind]
		if len(group) == 0 {
			continue
		}
		n, err := r.insertKind(ctx, tables[kind], group)
		if err != nil {
			return insertedCount, err
		}
		insertedCount += n
	}

	return insertedCount, nil
}

func (r *Repository) insertKind(ctx context.Context, t table, records []domain.Record) (int, error) {
	batch, err := r.client.Conn().PrepareBatch(ctx, t.insertQuery())
	if err != nil {
		return 0, fmt.Errorf("failed to prepare %s batch: %w", t.name, err)
	}

	now := uint64(time.Now().UnixNano())
	appended := 0
	for _, rec := range records {
		// version 0 would lose against any earlier correction
		if versionOf(rec) == 0 {
			setVersion(rec, now, false)
		}
		values, ok := recordValues(rec)
		if !ok {
			continue
		}
		if err := batch.Append(values...); err != nil {
			return 0, fmt.Errorf("failed to append record to %s batch: %w", t.name, err)
		}
		appended++
	}

	if appended == 0 {
		return 0, fmt.Errorf("no records could be appended to %s batch", t.name)
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send %s batch: %w", t.name, err)
	}

	return appended, nil
}

// Ping checks if the ClickHouse connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (r *Repository) Close() error {
	return r.client.Close()
}

func selectRows[T any](ctx context.Context, r *Repository, query string, args []any, fields func(*T) []any) ([]T, error) {
	rows, err := r.client.Conn().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query telemetry: %w", err)
	}
	defer func(rows driver.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close telemetry rows", zap.Error(err))
		}
	}(rows)

	out := make([]T, 0)
	for rows.Next() {
		var item T
		if err := rows.Scan(fields(&item)...); err != nil {
			return nil, fmt.Errorf("failed to scan telemetry row: %w", err)
		}
		out = append(out, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating telemetry rows: %w", err)
	}

	return out, nil
}
