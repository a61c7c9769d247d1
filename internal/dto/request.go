package dto

// AnalyticsQuery represents the query string shared by the rollup endpoints
type AnalyticsQuery struct {
	Date       string `form:"date" example:"2025-03-01"`
	DateFrom   string `form:"date_from" example:"2025-03-01"`
	DateTo     string `form:"date_to" example:"2025-03-07"`
	CameraID   string `form:"camera_id" example:"cam-1"`
	CashierIDs string `form:"cashier_ids" example:"Kasa-1"`
	ZoneIDs    string `form:"zone_ids" example:"Giris"`
	StoreID    int64  `form:"store_id" example:"12"`
	Kinds      string `form:"kinds" example:"footfall,queue,zone"`
}

// TelemetryRequest represents one device reading published to the write path
type TelemetryRequest struct {
	Kind      string `json:"kind" binding:"required,oneof=footfall queue zone" example:"queue"`
	ID        string `json:"id,omitempty" example:"3f1c7f9e-5a43-4c55-9b8e-0d3e1f7c2a10"`
	OwnerID   int64  `json:"owner_id,omitempty" swaggerignore:"true"`
	Timestamp string `json:"timestamp,omitempty" example:"2025-03-01 14:05:00"`

	Entered        int64   `json:"entered,omitempty" binding:"min=0" example:"12"`
	Exited         int64   `json:"exited,omitempty" binding:"min=0" example:"9"`
	MaleCount      int64   `json:"male_count,omitempty" binding:"min=0" example:"5"`
	FemaleCount    int64   `json:"female_count,omitempty" binding:"min=0" example:"7"`
	Age18To30      int64   `json:"age_18_30,omitempty" binding:"min=0" example:"4"`
	Age30To50      int64   `json:"age_30_50,omitempty" binding:"min=0" example:"6"`
	Age50Plus      int64   `json:"age_50_plus,omitempty" binding:"min=0" example:"2"`
	Location       *string `json:"location,omitempty" example:"Kadikoy"`
	PurchaseAmount float64 `json:"purchase_amount,omitempty" binding:"min=0" example:"249.90"`

	CashierID      *string  `json:"cashier_id,omitempty" example:"Kasa-1"`
	WaitTime       *float64 `json:"wait_time,omitempty" binding:"omitempty,min=0,max=1000000" example:"42.5"`
	TotalCustomers *int64   `json:"total_customers,omitempty" example:"2"`

	Zone         *string  `json:"zone,omitempty" example:"Giris"`
	CameraID     *string  `json:"camera_id,omitempty" example:"cam-1"`
	VisitorCount *int64   `json:"visitor_count,omitempty" example:"31"`
	Intensity    *float64 `json:"intensity,omitempty" binding:"omitempty,min=0,max=1000000" example:"48.2"`
	HeatmapType  *string  `json:"heatmap_type,omitempty" example:"dwell"`
	DateRecorded string   `json:"date_recorded,omitempty" example:"2025-03-01"`
}

// TelemetryBulkRequest represents a bulk publish request
type TelemetryBulkRequest struct {
	Events []TelemetryRequest `json:"events" binding:"required,min=1,max=1000,dive"`
}

// RecordPatchRequest represents the body of a correction; keys depend on the record kind
type RecordPatchRequest map[string]any

// ListQuery represents the paging and filter parameters of the staff and report listings
type ListQuery struct {
	Page    int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PerPage int    `form:"per_page" binding:"omitempty,min=1,max=100" example:"10"`
	Status  string `form:"status" example:"active"`
	StoreID int64  `form:"store_id" example:"12"`
}

// CreateStaffRequest represents a new staff record for the calling store
type CreateStaffRequest struct {
	StaffID       string   `json:"staff_id" example:"P-104"`
	Name          string   `json:"name" binding:"required" example:"Ayse Demir"`
	Role          string   `json:"role" example:"cashier"`
	Location      string   `json:"location" example:"Kasa-1"`
	ActivityLevel *float64 `json:"activity_level,omitempty" binding:"omitempty,min=0" example:"0.8"`
	Status        string   `json:"status" example:"active"`
}

// CreateReportRequest represents a report request. The camelCase keys are
// accepted as aliases of the snake_case ones.
type CreateReportRequest struct {
	ReportType   string `json:"report_type" example:"customer"`
	AnalysisType string `json:"analysisType" swaggerignore:"true"`
	ReportName   string `json:"report_name" example:"March footfall"`
	DateFrom     string `json:"date_from" example:"2025-03-01"`
	DateFromAlt  string `json:"dateFrom" swaggerignore:"true"`
	DateTo       string `json:"date_to" example:"2025-03-07"`
	DateToAlt    string `json:"dateTo" swaggerignore:"true"`
}
