package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/dto"
)

func (h *Handler) bindQuery(c *gin.Context) (*dto.AnalyticsQuery, bool) {
	var req dto.AnalyticsQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid analytics query", zap.Error(err))
		h.validationError(c, err.Error())
		return nil, false
	}
	return &req, true
}

// customerSummary handles GET /api/analytics/customers
// @Summary Footfall rollup
// @Description Hourly footfall, demographics and recent records for the caller's scope
// @Tags analytics
// @Produce json
// @Param X-User-ID header int true "Caller user id"
// @Param date query string false "Single date (YYYY-MM-DD)" example:"2025-03-01"
// @Param date_from query string false "Range start (YYYY-MM-DD)"
// @Param date_to query string false "Range end (YYYY-MM-DD)"
// @Param camera_id query string false "Camera filter; 'all' for every camera"
// @Param store_id query int false "Restrict to one store in scope"
// @Success 200 {object} rollup.FootfallSummary
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/analytics/customers [get]
func (h *Handler) customerSummary(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	req, ok := h.bindQuery(c)
	if !ok {
		return
	}

	resp, err := h.analyticsService.CustomerSummary(c.Request.Context(), caller, req)
	if err != nil {
		h.respondError(c, "Failed to build customer summary", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// flowData handles GET /api/analytics/customers/flow-data
// @Summary Per-date customer flow
// @Description Entered and exited totals per calendar date
// @Tags analytics
// @Produce json
// @Param X-User-ID header int true "Caller user id"
// @Param date_from query string false "Range start (YYYY-MM-DD)"
// @Param date_to query string false "Range end (YYYY-MM-DD)"
// @Param camera_id query string false "Camera filter; 'all' for every camera"
// @Param store_id query int false "Restrict to one store in scope"
// @Success 200 {object} rollup.FlowData
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/analytics/customers/flow-data [get]
func (h *Handler) flowData(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	req, ok := h.bindQuery(c)
	if !ok {
		return
	}

	resp, err := h.analyticsService.FlowData(c.Request.Context(), caller, req)
	if err != nil {
		h.respondError(c, "Failed to build flow data", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// queueSummary handles GET /api/analytics/queues/daily-summary
// @Summary Queue rollup
// @Description Hourly wait times, wait distribution and cashier ranking
// @Tags analytics
// @Produce json
// @Param X-User-ID header int true "Caller user id"
// @Param date query string false "Single date (YYYY-MM-DD)"
// @Param date_from query string false "Range start (YYYY-MM-DD)"
// @Param date_to query string false "Range end (YYYY-MM-DD)"
// @Param cashier_ids query string false "Cashier filter; 'all' for every cashier"
// @Param store_id query int false "Restrict to one store in scope"
// @Success 200 {object} rollup.QueueSummary
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/analytics/queues/daily-summary [get]
func (h *Handler) queueSummary(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	req, ok := h.bindQuery(c)
	if !ok {
		return
	}

	resp, err := h.analyticsService.QueueSummary(c.Request.Context(), caller, req)
	if err != nil {
		h.respondError(c, "Failed to build queue summary", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// zoneSummary handles GET /api/analytics/heatmaps/daily-summary
// @Summary Zone rollup
// @Description Hourly zone visitors, dwell times and zone ranking
// @Tags analytics
// @Produce json
// @Param X-User-ID header int true "Caller user id"
// @Param date query string false "Single date (YYYY-MM-DD)"
// @Param date_from query string false "Range start (YYYY-MM-DD)"
// @Param date_to query string false "Range end (YYYY-MM-DD)"
// @Param zone_ids query string false "Zone filter; 'all' for every zone"
// @Param store_id query int false "Restrict to one store in scope"
// @Success 200 {object} rollup.ZoneSummary
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/analytics/heatmaps/daily-summary [get]
func (h *Handler) zoneSummary(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	req, ok := h.bindQuery(c)
	if !ok {
		return
	}

	resp, err := h.analyticsService.ZoneSummary(c.Request.Context(), caller, req)
	if err != nil {
		h.respondError(c, "Failed to build zone summary", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// rollup handles GET /api/analytics/rollup
// @Summary Combined rollup
// @Description Footfall, queue and zone sections for the requested kinds
// @Tags analytics
// @Produce json
// @Param X-User-ID header int true "Caller user id"
// @Param kinds query string false "Comma separated kinds (footfall, queue, zone); empty for all"
// @Param date_from query string false "Range start (YYYY-MM-DD)"
// @Param date_to query string false "Range end (YYYY-MM-DD)"
// @Param store_id query int false "Restrict to one store in scope"
// @Success 200 {object} rollup.Response
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/analytics/rollup [get]
func (h *Handler) rollup(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	req, ok := h.bindQuery(c)
	if !ok {
		return
	}

	resp, err := h.analyticsService.Rollup(c.Request.Context(), caller, req)
	if err != nil {
		h.respondError(c, "Failed to build rollup", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// weeklyOverview handles GET /api/dashboard/weekly-overview
// @Summary Weekly overview
// @Description Totals and daily series for the seven days ending today
// @Tags dashboard
// @Produce json
// @Param X-User-ID header int true "Caller user id"
// @Param store_id query int false "Restrict to one store in scope"
// @Success 200 {object} rollup.Weekly
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/dashboard/weekly-overview [get]
func (h *Handler) weeklyOverview(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}

	resp, err := h.analyticsService.WeeklyOverview(c.Request.Context(), caller, storeID)
	if err != nil {
		h.respondError(c, "Failed to build weekly overview", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateFootfallRecord handles PUT /api/analytics/customers/record/{id}
// @Summary Correct a footfall record
// @Description Overwrite entered and exited counts of one footfall record
// @Tags corrections
// @Accept json
// @Produce json
// @Param X-User-ID header int true "Caller user id"
// @Param id path string true "Record id"
// @Param store_id query int false "Restrict to one store in scope"
// @Param patch body object true "Fields: entered|entering, exited|exiting"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/analytics/customers/record/{id} [put]
func (h *Handler) updateFootfallRecord(c *gin.Context) {
	h.updateRecord(c, domain.KindFootfall)
}

// deleteFootfallRecord handles DELETE /api/analytics/customers/record/{id}
// @Summary Delete a footfall record
// @Tags corrections
// @Produce json
// @Param X-User-ID header int true "Caller user id"
// @Param id path string true "Record id"
// @Param store_id query int false "Restrict to one store in scope"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/analytics/customers/record/{id} [delete]
func (h *Handler) deleteFootfallRecord(c *gin.Context) {
	h.deleteRecord(c, domain.KindFootfall)
}

// updateQueueRecord handles PUT /api/analytics/queues/record/{id}
// @Summary Correct a queue record
// @Description Overwrite the wait time of one queue record
// @Tags corrections
// @Accept json
// @Produce json
// @Param X-User-ID header int true "Caller user id"
// @Param id path string true "Record id"
// @Param store_id query int false "Restrict to one store in scope"
// @Param patch body object true "Fields: avgWaitTime"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/analytics/queues/record/{id} [put]
func (h *Handler) updateQueueRecord(c *gin.Context) {
	h.updateRecord(c, domain.KindQueue)
}

// deleteQueueRecord handles DELETE /api/analytics/queues/record/{id}
// @Summary Delete a queue record
// @Tags corrections
// @Produce json
// @Param X-User-ID header int true "Caller user id"
// @Param id path string true "Record id"
// @Param store_id query int false "Restrict to one store in scope"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/analytics/queues/record/{id} [delete]
func (h *Handler) deleteQueueRecord(c *gin.Context) {
	h.deleteRecord(c, domain.KindQueue)
}

// updateZoneRecord handles PUT /api/analytics/heatmaps/record/{id}
// @Summary Correct a zone record
// @Description Overwrite the visitor count and dwell time of one zone record
// @Tags corrections
// @Accept json
// @Produce json
// @Param X-User-ID header int true "Caller user id"
// @Param id path string true "Record id"
// @Param store_id query int false "Restrict to one store in scope"
// @Param patch body object true "Fields: totalVisitors, avgDwellTime"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/analytics/heatmaps/record/{id} [put]
func (h *Handler) updateZoneRecord(c *gin.Context) {
	h.updateRecord(c, domain.KindZone)
}

// deleteZoneRecord handles DELETE /api/analytics/heatmaps/record/{id}
// @Summary Delete a zone record
// @Tags corrections
// @Produce json
// @Param X-User-ID header int true "Caller user id"
// @Param id path string true "Record id"
// @Param store_id query int false "Restrict to one store in scope"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/analytics/heatmaps/record/{id} [delete]
func (h *Handler) deleteZoneRecord(c *gin.Context) {
	h.deleteRecord(c, domain.KindZone)
}

func (h *Handler) updateRecord(c *gin.Context, kind domain.Kind) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}

	var patch dto.RecordPatchRequest
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.log.Warn("Invalid record patch", zap.Error(err), zap.String("kind", string(kind)))
		h.validationError(c, err.Error())
		return
	}

	id := c.Param("id")
	if err := h.analyticsService.UpdateRecord(c.Request.Context(), caller, storeID, kind, id, patch); err != nil {
		h.respondError(c, "Failed to update record", err)
		return
	}

	h.log.Info("Record updated",
		zap.String("kind", string(kind)),
		zap.String("id", id),
		zap.Int64("caller", caller))

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "updated"})
}

func (h *Handler) deleteRecord(c *gin.Context, kind domain.Kind) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := h.analyticsService.DeleteRecord(c.Request.Context(), caller, storeID, kind, id); err != nil {
		h.respondError(c, "Failed to delete record", err)
		return
	}

	h.log.Info("Record deleted",
		zap.String("kind", string(kind)),
		zap.String("id", id),
		zap.Int64("caller", caller))

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "deleted"})
}
