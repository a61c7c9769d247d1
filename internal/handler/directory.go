package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/dto"
)

func (h *Handler) bindListQuery(c *gin.Context) (*dto.ListQuery, bool) {
	var req dto.ListQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid list query", zap.Error(err))
		h.validationError(c, err.Error())
		return nil, false
	}
	return &req, true
}

// listStaff handles GET /api/analytics/staff
// @Summary Staff listing
// @Description Staff records across the caller's scope, newest first
// @Tags directory
// @Produce json
// @Param X-User-ID header int true "Caller user id"
// @Param page query int false "Page number, from 1"
// @Param per_page query int false "Page size, at most 100"
// @Param status query string false "Status filter"
// @Param store_id query int false "Restrict to one store in scope"
// @Success 200 {object} dto.StaffListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/analytics/staff [get]
func (h *Handler) listStaff(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	q, ok := h.bindListQuery(c)
	if !ok {
		return
	}

	resp, err := h.directoryService.ListStaff(c.Request.Context(), caller, q)
	if err != nil {
		h.respondError(c, "Failed to list staff", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// createStaff handles POST /api/analytics/staff
// @Summary Create staff record
// @Description Add a staff record owned by the calling store
// @Tags directory
// @Accept json
// @Produce json
// @Param X-User-ID header int true "Store id"
// @Param staff body dto.CreateStaffRequest true "Staff record"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/analytics/staff [post]
func (h *Handler) createStaff(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req dto.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid staff request", zap.Error(err))
		h.validationError(c, err.Error())
		return
	}

	id, err := h.directoryService.CreateStaff(c.Request.Context(), caller, &req)
	if err != nil {
		h.respondError(c, "Failed to create staff record", err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id, Message: "created"})
}

// listReports handles GET /api/analytics/reports
// @Summary Report listing
// @Description Saved reports across the caller's scope, newest first
// @Tags directory
// @Produce json
// @Param X-User-ID header int true "Caller user id"
// @Param page query int false "Page number, from 1"
// @Param per_page query int false "Page size, at most 100"
// @Param store_id query int false "Restrict to one store in scope"
// @Success 200 {object} dto.ReportListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/analytics/reports [get]
func (h *Handler) listReports(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	q, ok := h.bindListQuery(c)
	if !ok {
		return
	}

	resp, err := h.directoryService.ListReports(c.Request.Context(), caller, q)
	if err != nil {
		h.respondError(c, "Failed to list reports", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// createReport handles POST /api/analytics/create-report
// @Summary Create report
// @Description Save a report request for the calling user
// @Tags directory
// @Accept json
// @Produce json
// @Param X-User-ID header int true "Caller user id"
// @Param report body dto.CreateReportRequest true "Report request"
// @Success 201 {object} dto.CreateReportResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/analytics/create-report [post]
func (h *Handler) createReport(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid report request", zap.Error(err))
		h.validationError(c, err.Error())
		return
	}

	resp, err := h.directoryService.CreateReport(c.Request.Context(), caller, &req)
	if err != nil {
		h.respondError(c, "Failed to create report", err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
