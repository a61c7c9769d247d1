package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/repository"
)

const (
	listStaffQuery = `
		SELECT id, user_id, COALESCE(staff_id, ''), COALESCE(name, ''), COALESCE(role, ''),
			COALESCE(location, ''), activity_level, COALESCE(status, ''), created_at
		FROM staff_data
		WHERE user_id = ANY($1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`

	countStaffQuery = `
		SELECT COUNT(*)
		FROM staff_data
		WHERE user_id = ANY($1) AND ($2 = '' OR status = $2)`

	insertStaffQuery = `
		INSERT INTO staff_data (user_id, staff_id, name, role, location, activity_level, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW() AT TIME ZONE 'UTC')
		RETURNING id, created_at`

	listReportsQuery = `
		SELECT id, user_id, COALESCE(report_type, ''), COALESCE(report_name, ''), date_from, date_to, created_at
		FROM reports
		WHERE user_id = ANY($1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	countReportsQuery = `
		SELECT COUNT(*)
		FROM reports
		WHERE user_id = ANY($1)`

	insertReportQuery = `
		INSERT INTO reports (user_id, report_type, report_name, date_from, date_to, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW() AT TIME ZONE 'UTC')
		RETURNING id, created_at`
)

var _ repository.DirectoryStore = (*Store)(nil)

// ListStaff returns one page of staff records owned within the query scope
func (s *Store) ListStaff(ctx context.Context, q repository.StaffQuery) ([]domain.StaffMember, int64, error) {
	var total int64
	if err := s.pool.QueryRow(ctx, countStaffQuery, q.Owners, q.Status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count staff: %w", err)
	}

	rows, err := s.pool.Query(ctx, listStaffQuery, q.Owners, q.Status, q.Page.PerPage, q.Page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query staff: %w", err)
	}

	staff, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StaffMember, error) {
		var m domain.StaffMember
		err := row.Scan(&m.ID, &m.OwnerID, &m.StaffID, &m.Name, &m.Role,
			&m.Location, &m.ActivityLevel, &m.Status, &m.CreatedAt)
		return m, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read staff: %w", err)
	}
	return staff, total, nil
}

// CreateStaff inserts a staff record owned by m.OwnerID
func (s *Store) CreateStaff(ctx context.Context, m *domain.StaffMember) error {
	err := s.pool.QueryRow(ctx, insertStaffQuery,
		m.OwnerID, m.StaffID, m.Name, m.Role, m.Location, m.ActivityLevel, m.Status).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert staff: %w", err)
	}

	s.log.Info("Staff record created",
		zap.Int64("id", m.ID),
		zap.Int64("owner", m.OwnerID))
	return nil
}

// ListReports returns one page of reports owned within owners
func (s *Store) ListReports(ctx context.Context, owners []int64, page repository.Page) ([]domain.Report, int64, error) {
	var total int64
	if err := s.pool.QueryRow(ctx, countReportsQuery, owners).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	rows, err := s.pool.Query(ctx, listReportsQuery, owners, page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query reports: %w", err)
	}

	reports, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Report, error) {
		var r domain.Report
		err := row.Scan(&r.ID, &r.OwnerID, &r.Type, &r.Name, &r.DateFrom, &r.DateTo, &r.CreatedAt)
		return r, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read reports: %w", err)
	}
	return reports, total, nil
}

// CreateReport inserts a report owned by r.OwnerID
func (s *Store) CreateReport(ctx context.Context, r *domain.Report) error {
	err := s.pool.QueryRow(ctx, insertReportQuery, r.OwnerID, r.Type, r.Name, r.DateFrom, r.DateTo).
		Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	s.log.Info("Report created",
		zap.Int64("id", r.ID),
		zap.Int64("owner", r.OwnerID),
		zap.String("type", r.Type))
	return nil
}
