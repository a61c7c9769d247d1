package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yildizemre/visapa/internal/dto"
)

// heartbeat handles POST /api/health/heartbeat
// @Summary Edge service heartbeat
// @Description Record that the calling store's edge service is alive
// @Tags health
// @Produce json
// @Param X-User-ID header int true "Store id"
// @Success 200 {object} dto.HeartbeatResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/health/heartbeat [post]
func (h *Handler) heartbeat(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	at, err := h.heartbeatService.Ping(c.Request.Context(), caller)
	if err != nil {
		h.respondError(c, "Failed to record heartbeat", err)
		return
	}

	c.JSON(http.StatusOK, dto.HeartbeatResponse{
		Status:     "ok",
		LastPingAt: at.Format(time.RFC3339),
	})
}

// heartbeatStatus handles GET /api/health/heartbeat/status
// @Summary Edge service status
// @Description Report whether a store's edge service pinged recently
// @Tags health
// @Produce json
// @Param X-User-ID header int true "Caller user id"
// @Param store_id query int false "Store in scope; defaults to the caller"
// @Success 200 {object} dto.HeartbeatStatusResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/health/heartbeat/status [get]
func (h *Handler) heartbeatStatus(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}

	resp, err := h.heartbeatService.Status(c.Request.Context(), caller, storeID)
	if err != nil {
		h.respondError(c, "Failed to read heartbeat status", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
