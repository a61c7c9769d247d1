package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/yildizemre/visapa/docs"
	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/dto"
	"github.com/yildizemre/visapa/internal/logger"
	"github.com/yildizemre/visapa/internal/metrics"
	"github.com/yildizemre/visapa/internal/service"
)

// CallerHeader carries the authenticated user id set by the gateway
const CallerHeader = "X-User-ID"

const serviceName = "visapa"

type Handler struct {
	analyticsService service.AnalyticsServicer
	telemetryService service.TelemetryServicer
	heartbeatService service.HeartbeatServicer
	directoryService service.DirectoryServicer
	metrics          *metrics.Metrics
	router           *gin.Engine
	log              *zap.Logger
}

func NewHandler(
	analyticsService service.AnalyticsServicer,
	telemetryService service.TelemetryServicer,
	heartbeatService service.HeartbeatServicer,
	directoryService service.DirectoryServicer,
	m *metrics.Metrics,
	log *zap.Logger,
) *Handler {
	h := &Handler{
		analyticsService: analyticsService,
		telemetryService: telemetryService,
		heartbeatService: heartbeatService,
		directoryService: directoryService,
		metrics:          m,
		router:           gin.New(),
		log:              log,
	}

	h.router.Use(gin.Recovery(), logger.GinMiddleware(log))
	if m != nil {
		h.router.Use(m.GinMiddleware())
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)

	analytics := h.router.Group("/api/analytics")
	{
		analytics.GET("/customers", h.customerSummary)
		analytics.GET("/customers/flow-data", h.flowData)
		analytics.PUT("/customers/record/:id", h.updateFootfallRecord)
		analytics.DELETE("/customers/record/:id", h.deleteFootfallRecord)

		analytics.GET("/queues/daily-summary", h.queueSummary)
		analytics.PUT("/queues/record/:id", h.updateQueueRecord)
		analytics.DELETE("/queues/record/:id", h.deleteQueueRecord)

		analytics.GET("/heatmaps/daily-summary", h.zoneSummary)
		analytics.PUT("/heatmaps/record/:id", h.updateZoneRecord)
		analytics.DELETE("/heatmaps/record/:id", h.deleteZoneRecord)

		analytics.GET("/rollup", h.rollup)

		analytics.GET("/staff", h.listStaff)
		analytics.POST("/staff", h.createStaff)
		analytics.GET("/reports", h.listReports)
		analytics.POST("/create-report", h.createReport)
	}

	h.router.GET("/api/dashboard/weekly-overview", h.weeklyOverview)

	h.router.POST("/api/health/heartbeat", h.heartbeat)
	h.router.GET("/api/health/heartbeat/status", h.heartbeatStatus)

	h.router.POST("/api/telemetry", h.publishTelemetry)
	h.router.POST("/api/telemetry/bulk", h.publishTelemetryBulk)

	if h.metrics != nil {
		h.router.GET("/internal/metrics", gin.WrapH(h.metrics.Handler()))
	}
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Service: serviceName,
	})
}

// caller reads the authenticated user id, answering 401 when it is absent
func (h *Handler) caller(c *gin.Context) (int64, bool) {
	raw := c.GetHeader(CallerHeader)
	id, err := strconv.ParseInt(raw, 10, 64)
	if raw == "" || err != nil || id <= 0 {
		h.log.Warn("Missing or invalid caller id", zap.String("header", raw))
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "unauthorized",
			Message: "missing or invalid " + CallerHeader + " header",
		})
		return 0, false
	}
	return id, true
}

// storeID reads the optional store_id query parameter; zero means the whole scope
func (h *Handler) storeID(c *gin.Context) (int64, bool) {
	raw := c.Query("store_id")
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.validationError(c, "store_id must be an integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) validationError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "validation_error",
		Message: message,
	})
}

// respondError maps a service error onto its HTTP status and error code
func (h *Handler) respondError(c *gin.Context, msg string, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		status, code = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrScopeViolation):
		status, code = http.StatusForbidden, "access_denied"
	case errors.Is(err, domain.ErrRecordNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInvalidPatch), errors.Is(err, domain.ErrInvalidQuery):
		status, code = http.StatusBadRequest, "validation_error"
	case errors.Is(err, domain.ErrDataUnavailable):
		status, code = http.StatusServiceUnavailable, "data_unavailable"
	}

	fields := []zap.Field{zap.Error(err), zap.Int("status", status), zap.String("path", c.FullPath())}
	if status >= http.StatusInternalServerError {
		h.log.Error(msg, fields...)
	} else {
		h.log.Warn(msg, fields...)
	}

	_ = c.Error(err)
	c.JSON(status, dto.ErrorResponse{
		Error:   code,
		Message: err.Error(),
	})
}
