package domain

import (
	"fmt"
	"time"
)

// Kind names one of the three raw telemetry collections
type Kind string

const (
	KindFootfall Kind = "footfall"
	KindQueue    Kind = "queue"
	KindZone     Kind = "zone"
)

// ParseKind maps a wire or path name onto a Kind
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "footfall", "customers":
		return KindFootfall, true
	case "queue", "queues":
		return KindQueue, true
	case "zone", "zones", "heatmaps":
		return KindZone, true
	}
	return "", false
}

// Record is implemented by every raw telemetry event
type Record interface {
	Kind() Kind
	RecordID() string
	Owner() int64
}

// RecordKey identifies a record across owners and kinds. Devices choose their
// own ids, so the id alone is only unique within one owner.
func RecordKey(r Record) string {
	return fmt.Sprintf("%s:%d:%s", r.Kind(), r.Owner(), r.RecordID())
}

// FootfallEvent represents a people-counter reading stored in ClickHouse
type FootfallEvent struct {
	ID             string     `ch:"id"`
	OwnerID        int64      `ch:"owner_id"`
	Timestamp      *time.Time `ch:"timestamp"`
	CreatedAt      *time.Time `ch:"created_at"`
	Entered        int64      `ch:"entered"`
	Exited         int64      `ch:"exited"`
	MaleCount      int64      `ch:"male_count"`
	FemaleCount    int64      `ch:"female_count"`
	Age18To30      int64      `ch:"age_18_30"`
	Age30To50      int64      `ch:"age_30_50"`
	Age50Plus      int64      `ch:"age_50_plus"`
	Zone           *string    `ch:"zone"`
	CameraID       *string    `ch:"camera_id"`
	Location       *string    `ch:"location"`
	PurchaseAmount float64    `ch:"purchase_amount"`
	Version        uint64     `ch:"version"`
	IsDeleted      uint8      `ch:"is_deleted"`
}

func (e *FootfallEvent) Kind() Kind       { return KindFootfall }
func (e *FootfallEvent) RecordID() string { return e.ID }
func (e *FootfallEvent) Owner() int64     { return e.OwnerID }

// QueueEvent represents a checkout-queue observation. One record may stand for
// several customers processed together.
type QueueEvent struct {
	ID             string     `ch:"id"`
	OwnerID        int64      `ch:"owner_id"`
	RecordedAt     *time.Time `ch:"recorded_at"`
	CreatedAt      *time.Time `ch:"created_at"`
	WaitTime       *float64   `ch:"wait_time"`
	CashierID      *string    `ch:"cashier_id"`
	TotalCustomers *int64     `ch:"total_customers"`
	Version        uint64     `ch:"version"`
	IsDeleted      uint8      `ch:"is_deleted"`
}

func (e *QueueEvent) Kind() Kind       { return KindQueue }
func (e *QueueEvent) RecordID() string { return e.ID }
func (e *QueueEvent) Owner() int64     { return e.OwnerID }

// Customers returns the number of people the record stands for, never less than one
func (e *QueueEvent) Customers() int64 {
	if e.TotalCustomers == nil || *e.TotalCustomers <= 0 {
		return 1
	}
	return *e.TotalCustomers
}

// Wait returns the wait time in seconds, treating missing or negative values as zero
func (e *QueueEvent) Wait() float64 {
	if e.WaitTime == nil || *e.WaitTime < 0 || *e.WaitTime != *e.WaitTime {
		return 0
	}
	return *e.WaitTime
}

// ZoneEvent represents a heatmap zone observation
type ZoneEvent struct {
	ID           string     `ch:"id"`
	OwnerID      int64      `ch:"owner_id"`
	Zone         *string    `ch:"zone"`
	RecordedAt   *time.Time `ch:"recorded_at"`
	CreatedAt    *time.Time `ch:"created_at"`
	DateRecorded *time.Time `ch:"date_recorded"`
	VisitorCount *int64     `ch:"visitor_count"`
	Intensity    *float64   `ch:"intensity"`
	HeatmapType  *string    `ch:"heatmap_type"`
	CameraID     *string    `ch:"camera_id"`
	Version      uint64     `ch:"version"`
	IsDeleted    uint8      `ch:"is_deleted"`
}

func (e *ZoneEvent) Kind() Kind       { return KindZone }
func (e *ZoneEvent) RecordID() string { return e.ID }
func (e *ZoneEvent) Owner() int64     { return e.OwnerID }

// Visitors returns the visitor count, zero when missing
func (e *ZoneEvent) Visitors() int64 {
	if e.VisitorCount == nil {
		return 0
	}
	return *e.VisitorCount
}

// Dwell returns the mean dwell time in seconds, zero when missing
func (e *ZoneEvent) Dwell() float64 {
	if e.Intensity == nil || *e.Intensity != *e.Intensity {
		return 0
	}
	return *e.Intensity
}

// StringValue dereferences an optional string
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
