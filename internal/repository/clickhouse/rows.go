package clickhouse

import (
	"github.com/yildizemre/visapa/internal/domain"
)

// Column order of each helper matches tables[kind].columns.

func footfallFields(e *domain.FootfallEvent) []any {
	return []any{
		&e.ID, &e.OwnerID, &e.Timestamp, &e.CreatedAt, &e.Entered, &e.Exited,
		&e.MaleCount, &e.FemaleCount, &e.Age18To30, &e.Age30To50, &e.Age50Plus,
		&e.Zone, &e.CameraID, &e.Location, &e.PurchaseAmount, &e.Version, &e.IsDeleted,
	}
}

func footfallValues(e *domain.FootfallEvent) []any {
	return []any{
		e.ID, e.OwnerID, e.Timestamp, e.CreatedAt, e.Entered, e.Exited,
		e.MaleCount, e.FemaleCount, e.Age18To30, e.Age30To50, e.Age50Plus,
		e.Zone, e.CameraID, e.Location, e.PurchaseAmount, e.Version, e.IsDeleted,
	}
}

func queueFields(e *domain.QueueEvent) []any {
	return []any{
		&e.ID, &e.OwnerID, &e.RecordedAt, &e.CreatedAt, &e.WaitTime,
		&e.CashierID, &e.TotalCustomers, &e.Version, &e.IsDeleted,
	}
}

func queueValues(e *domain.QueueEvent) []any {
	return []any{
		e.ID, e.OwnerID, e.RecordedAt, e.CreatedAt, e.WaitTime,
		e.CashierID, e.TotalCustomers, e.Version, e.IsDeleted,
	}
}

func zoneFields(e *domain.ZoneEvent) []any {
	return []any{
		&e.ID, &e.OwnerID, &e.Zone, &e.RecordedAt, &e.CreatedAt, &e.DateRecorded,
		&e.VisitorCount, &e.Intensity, &e.HeatmapType, &e.CameraID, &e.Version, &e.IsDeleted,
	}
}

func zoneValues(e *domain.ZoneEvent) []any {
	return []any{
		e.ID, e.OwnerID, e.Zone, e.RecordedAt, e.CreatedAt, e.DateRecorded,
		e.VisitorCount, e.Intensity, e.HeatmapType, e.CameraID, e.Version, e.IsDeleted,
	}
}

// recordValues returns the insert values of any record kind
func recordValues(rec domain.Record) ([]any, bool) {
	switch e := rec.(type) {
	case *domain.FootfallEvent:
		return footfallValues(e), true
	case *domain.QueueEvent:
		return queueValues(e), true
	case *domain.ZoneEvent:
		return zoneValues(e), true
	}
	return nil, false
}

// setVersion stamps the replacement version and tombstone flag
func setVersion(rec domain.Record, version uint64, deleted bool) {
	var flag uint8
	if deleted {
		flag = 1
	}
	switch e := rec.(type) {
	case *domain.FootfallEvent:
		e.Version, e.IsDeleted = version, flag
	case *domain.QueueEvent:
		e.Version, e.IsDeleted = version, flag
	case *domain.ZoneEvent:
		e.Version, e.IsDeleted = version, flag
	}
}

func versionOf(rec domain.Record) uint64 {
	switch e := rec.(type) {
	case *domain.FootfallEvent:
		return e.Version
	case *domain.QueueEvent:
		return e.Version
	case *domain.ZoneEvent:
		return e.Version
	}
	return 0
}
