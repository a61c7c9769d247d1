package domain

import "fmt"

// MaxMeasure bounds wait times and dwell intensities, in seconds
const MaxMeasure = 1_000_000

// RecordPatch carries the editable fields of a correction. Only the fields that
// belong to the target record's kind may be set.
type RecordPatch struct {
	Entered      *int64
	Exited       *int64
	WaitTime     *float64
	VisitorCount *int64
	Intensity    *float64
}

// Apply validates the patch against the record kind and mutates rec in place
func (p RecordPatch) Apply(rec Record) error {
	if err := p.validate(rec.Kind()); err != nil {
		return err
	}

	switch r := rec.(type) {
	case *FootfallEvent:
		if p.Entered != nil {
			r.Entered = *p.Entered
		}
		if p.Exited != nil {
			r.Exited = *p.Exited
		}
	case *QueueEvent:
		if p.WaitTime != nil {
			wt := *p.WaitTime
			r.WaitTime = &wt
		}
	case *ZoneEvent:
		if p.VisitorCount != nil {
			vc := *p.VisitorCount
			r.VisitorCount = &vc
		}
		if p.Intensity != nil {
			in := *p.Intensity
			r.Intensity = &in
		}
	default:
		return fmt.Errorf("%w: unsupported record type %T", ErrInvalidPatch, rec)
	}

	return nil
}

func (p RecordPatch) validate(kind Kind) error {
	var foreign []string
	switch kind {
	case KindFootfall:
		if p.WaitTime != nil {
			foreign = append(foreign, "avgWaitTime")
		}
		if p.VisitorCount != nil {
			foreign = append(foreign, "totalVisitors")
		}
		if p.Intensity != nil {
			foreign = append(foreign, "avgDwellTime")
		}
	case KindQueue:
		if p.Entered != nil || p.Exited != nil {
			foreign = append(foreign, "entered/exited")
		}
		if p.VisitorCount != nil {
			foreign = append(foreign, "totalVisitors")
		}
		if p.Intensity != nil {
			foreign = append(foreign, "avgDwellTime")
		}
	case KindZone:
		if p.Entered != nil || p.Exited != nil {
			foreign = append(foreign, "entered/exited")
		}
		if p.WaitTime != nil {
			foreign = append(foreign, "avgWaitTime")
		}
	}
	if len(foreign) > 0 {
		return fmt.Errorf("%w: fields %v are not editable on %s records", ErrInvalidPatch, foreign, kind)
	}

	if p.Entered != nil && *p.Entered < 0 || p.Exited != nil && *p.Exited < 0 {
		return fmt.Errorf("%w: entered/exited must not be negative", ErrInvalidPatch)
	}
	if p.VisitorCount != nil && *p.VisitorCount < 0 {
		return fmt.Errorf("%w: totalVisitors must not be negative", ErrInvalidPatch)
	}
	if p.WaitTime != nil && *p.WaitTime < 0 || p.Intensity != nil && *p.Intensity < 0 {
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidPatch)
	}
	if p.WaitTime != nil && *p.WaitTime > MaxMeasure || p.Intensity != nil && *p.Intensity > MaxMeasure {
		return fmt.Errorf("%w: durations must not exceed %d", ErrInvalidPatch, MaxMeasure)
	}

	return nil
}
