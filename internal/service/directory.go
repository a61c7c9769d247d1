package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/dto"
	"github.com/yildizemre/visapa/internal/repository"
)

const (
	defaultPerPage    = 10
	maxPerPage        = 100
	defaultReportType = "customer"
	reportCompleted   = "completed"
)

// DirectoryService lists and creates the staff and report records of the caller's stores
type DirectoryService struct {
	store    repository.DirectoryStore
	resolver ScopeResolver
	log      *zap.Logger
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(store repository.DirectoryStore, resolver ScopeResolver, log *zap.Logger) *DirectoryService {
	return &DirectoryService{
		store:    store,
		resolver: resolver,
		log:      log,
	}
}

// ListStaff returns one page of staff across the caller's scope, newest first
func (s *DirectoryService) ListStaff(ctx context.Context, caller int64, q *dto.ListQuery) (*dto.StaffListResponse, error) {
	sc, err := resolveScope(ctx, s.resolver, caller, q.StoreID, s.log)
	if err != nil {
		return nil, err
	}

	page := pageOf(q)
	staff, total, err := s.store.ListStaff(ctx, repository.StaffQuery{
		Owners: sc.Owners,
		Status: q.Status,
		Page:   page,
	})
	if err != nil {
		return nil, unavailable(err)
	}

	resp := &dto.StaffListResponse{Data: make([]dto.StaffResponse, 0, len(staff)), Total: total, Page: page.Number}
	for _, m := range staff {
		resp.Data = append(resp.Data, dto.StaffResponse{
			ID:            m.ID,
			StaffID:       m.StaffID,
			Name:          m.Name,
			Role:          m.Role,
			Location:      m.Location,
			ActivityLevel: m.ActivityLevel,
			Status:        m.Status,
		})
	}
	return resp, nil
}

// CreateStaff adds a staff record owned by the caller
func (s *DirectoryService) CreateStaff(ctx context.Context, caller int64, req *dto.CreateStaffRequest) (int64, error) {
	if caller <= 0 {
		return 0, domain.ErrUnauthenticated
	}

	m := &domain.StaffMember{
		OwnerID:       caller,
		StaffID:       req.StaffID,
		Name:          req.Name,
		Role:          req.Role,
		Location:      req.Location,
		ActivityLevel: req.ActivityLevel,
		Status:        req.Status,
	}
	if err := s.store.CreateStaff(ctx, m); err != nil {
		return 0, unavailable(err)
	}
	return m.ID, nil
}

// ListReports returns one page of reports across the caller's scope, newest first
func (s *DirectoryService) ListReports(ctx context.Context, caller int64, q *dto.ListQuery) (*dto.ReportListResponse, error) {
	sc, err := resolveScope(ctx, s.resolver, caller, q.StoreID, s.log)
	if err != nil {
		return nil, err
	}

	page := pageOf(q)
	reports, total, err := s.store.ListReports(ctx, sc.Owners, page)
	if err != nil {
		return nil, unavailable(err)
	}

	items := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		items = append(items, reportResponse(&reports[i]))
	}
	return &dto.ReportListResponse{Reports: items, Data: items, Total: total, Page: page.Number}, nil
}

// CreateReport saves a report request for the caller
func (s *DirectoryService) CreateReport(ctx context.Context, caller int64, req *dto.CreateReportRequest) (*dto.CreateReportResponse, error) {
	if caller <= 0 {
		return nil, domain.ErrUnauthenticated
	}

	kind := firstNonEmpty(req.ReportType, req.AnalysisType, defaultReportType)
	from, err := reportDate("date_from", firstNonEmpty(req.DateFrom, req.DateFromAlt))
	if err != nil {
		return nil, err
	}
	to, err := reportDate("date_to", firstNonEmpty(req.DateTo, req.DateToAlt))
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, fmt.Errorf("%w: date_from is after date_to", domain.ErrInvalidQuery)
	}

	r := &domain.Report{
		OwnerID:  caller,
		Type:     kind,
		Name:     firstNonEmpty(req.ReportName, kind+" Raporu"),
		DateFrom: from,
		DateTo:   to,
	}
	if err := s.store.CreateReport(ctx, r); err != nil {
		return nil, unavailable(err)
	}

	return &dto.CreateReportResponse{Report: reportResponse(r), ReportID: r.ID}, nil
}

func pageOf(q *dto.ListQuery) repository.Page {
	p := repository.Page{Number: q.Page, PerPage: q.PerPage}
	if p.Number < 1 {
		p.Number = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	return p
}

func reportDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", domain.ErrInvalidQuery, field)
	}
	return &d, nil
}

func reportResponse(r *domain.Report) dto.ReportResponse {
	return dto.ReportResponse{
		ID:           strconv.FormatInt(r.ID, 10),
		AnalysisType: r.Type,
		Name:         r.Name,
		Status:       reportCompleted,
		CreatedAt:    r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
