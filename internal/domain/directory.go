package domain

import "time"

// StaffMember is an employee record kept by a store
type StaffMember struct {
	ID            int64
	OwnerID       int64
	StaffID       string
	Name          string
	Role          string
	Location      string
	ActivityLevel *float64
	Status        string
	CreatedAt     time.Time
}

// Report is a saved analysis request. Reports are produced synchronously and
// are complete as soon as they exist.
type Report struct {
	ID        int64
	OwnerID   int64
	Type      string
	Name      string
	DateFrom  *time.Time
	DateTo    *time.Time
	CreatedAt time.Time
}
