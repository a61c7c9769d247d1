package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"date_from must be YYYY-MM-DD"`
}

// MessageResponse represents a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message" example:"updated"`
}

// HealthResponse represents the liveness response
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Service string `json:"service" example:"visapa"`
}

// PublishTelemetryResponse represents a successful telemetry publish
type PublishTelemetryResponse struct {
	MessageID string `json:"message_id" example:"3f1c7f9e-5a43-4c55-9b8e-0d3e1f7c2a10"`
	Status    string `json:"status" example:"accepted"`
}

// PublishBulkTelemetryResponse represents a bulk telemetry publish result
type PublishBulkTelemetryResponse struct {
	Accepted   int      `json:"accepted" example:"5"`
	Rejected   int      `json:"rejected" example:"0"`
	MessageIDs []string `json:"message_ids,omitempty"`
	Errors     []string `json:"errors,omitempty" example:"event 3: publish failed"`
}

// HeartbeatResponse represents the result of a heartbeat ping
type HeartbeatResponse struct {
	Status     string `json:"status" example:"ok"`
	LastPingAt string `json:"last_ping_at" example:"2025-03-01T14:05:00Z"`
}

// HeartbeatStatusResponse reports whether a store's edge service is alive
type HeartbeatStatusResponse struct {
	IsAlive    bool    `json:"is_alive" example:"true"`
	LastPingAt *string `json:"last_ping_at" example:"2025-03-01T14:05:00Z"`
	Message    string  `json:"message" example:"edge service is up"`
}

// CreatedResponse acknowledges a created record
type CreatedResponse struct {
	ID      int64  `json:"id" example:"41"`
	Message string `json:"message" example:"created"`
}

// StaffResponse represents one staff record
type StaffResponse struct {
	ID            int64    `json:"id" example:"41"`
	StaffID       string   `json:"staff_id" example:"P-104"`
	Name          string   `json:"name" example:"Ayse Demir"`
	Role          string   `json:"role" example:"cashier"`
	Location      string   `json:"location" example:"Kasa-1"`
	ActivityLevel *float64 `json:"activity_level" example:"0.8"`
	Status        string   `json:"status" example:"active"`
}

// StaffListResponse represents one page of staff records
type StaffListResponse struct {
	Data  []StaffResponse `json:"data"`
	Total int64           `json:"total" example:"23"`
	Page  int             `json:"page" example:"1"`
}

// ReportResponse represents one saved report
type ReportResponse struct {
	ID           string `json:"id" example:"7"`
	AnalysisType string `json:"analysis_type" example:"customer"`
	Name         string `json:"name,omitempty" example:"March footfall"`
	Status       string `json:"status" example:"completed"`
	CreatedAt    string `json:"createdAt" example:"2025-03-01T14:05:00Z"`
}

// ReportListResponse represents one page of reports; reports and data carry the same items
type ReportListResponse struct {
	Reports []ReportResponse `json:"reports"`
	Data    []ReportResponse `json:"data"`
	Total   int64            `json:"total" example:"3"`
	Page    int              `json:"page" example:"1"`
}

// CreateReportResponse represents a created report
type CreateReportResponse struct {
	Report   ReportResponse `json:"report"`
	ReportID int64          `json:"report_id" example:"7"`
}
