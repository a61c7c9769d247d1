package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/dto"
)

// publishTelemetry handles POST /api/telemetry
// @Summary Publish a telemetry reading
// @Description Publish one footfall, queue or zone reading to the ingestion queue
// @Tags telemetry
// @Accept json
// @Produce json
// @Param X-User-ID header int true "Publishing store id"
// @Param event body dto.TelemetryRequest true "Telemetry reading"
// @Success 202 {object} dto.PublishTelemetryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/telemetry [post]
func (h *Handler) publishTelemetry(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req dto.TelemetryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid telemetry request",
			zap.Error(err),
			zap.String("kind", req.Kind))
		h.validationError(c, err.Error())
		return
	}

	messageID, err := h.telemetryService.PublishTelemetry(c.Request.Context(), caller, &req)
	if err != nil {
		h.respondError(c, "Failed to publish telemetry", err)
		return
	}

	h.log.Info("Telemetry accepted",
		zap.String("message_id", messageID),
		zap.String("kind", req.Kind),
		zap.Int64("owner_id", caller))

	c.JSON(http.StatusAccepted, dto.PublishTelemetryResponse{
		MessageID: messageID,
		Status:    "accepted",
	})
}

// publishTelemetryBulk handles POST /api/telemetry/bulk
// @Summary Publish telemetry in bulk
// @Description Publish up to 1000 readings; failures are reported per event
// @Tags telemetry
// @Accept json
// @Produce json
// @Param X-User-ID header int true "Publishing store id"
// @Param events body dto.TelemetryBulkRequest true "Telemetry readings"
// @Success 202 {object} dto.PublishBulkTelemetryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/telemetry/bulk [post]
func (h *Handler) publishTelemetryBulk(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var bulkRequest dto.TelemetryBulkRequest
	if err := c.ShouldBindJSON(&bulkRequest); err != nil {
		h.log.Warn("Invalid bulk telemetry request", zap.Error(err))
		h.validationError(c, err.Error())
		return
	}

	messageIDs, errs, err := h.telemetryService.PublishBulkTelemetry(c.Request.Context(), caller, bulkRequest.Events)
	if err != nil {
		h.respondError(c, "Failed to publish bulk telemetry", err)
		return
	}

	accepted := len(messageIDs)
	rejected := len(errs)

	h.log.Info("Bulk telemetry processed",
		zap.Int("accepted", accepted),
		zap.Int("rejected", rejected),
		zap.Int("total", len(bulkRequest.Events)))

	c.JSON(http.StatusAccepted, dto.PublishBulkTelemetryResponse{
		Accepted:   accepted,
		Rejected:   rejected,
		MessageIDs: messageIDs,
		Errors:     errs,
	})
}
