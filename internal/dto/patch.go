package dto

import (
	"fmt"
	"math"
	"strconv"

	"github.com/yildizemre/visapa/internal/domain"
)

type patchField struct {
	kind domain.Kind
	set  func(p *domain.RecordPatch, v float64)
	// integral fields truncate fractional input
	integral bool
}

var patchFields = map[string]patchField{
	"entered":  {kind: domain.KindFootfall, integral: true, set: func(p *domain.RecordPatch, v float64) { n := int64(v); p.Entered = &n }},
	"entering": {kind: domain.KindFootfall, integral: true, set: func(p *domain.RecordPatch, v float64) { n := int64(v); p.Entered = &n }},
	"exited":   {kind: domain.KindFootfall, integral: true, set: func(p *domain.RecordPatch, v float64) { n := int64(v); p.Exited = &n }},
	"exiting":  {kind: domain.KindFootfall, integral: true, set: func(p *domain.RecordPatch, v float64) { n := int64(v); p.Exited = &n }},

	"avgWaitTime": {kind: domain.KindQueue, set: func(p *domain.RecordPatch, v float64) { p.WaitTime = &v }},

	"totalVisitors": {kind: domain.KindZone, integral: true, set: func(p *domain.RecordPatch, v float64) { n := int64(v); p.VisitorCount = &n }},
	"avgDwellTime":  {kind: domain.KindZone, set: func(p *domain.RecordPatch, v float64) { p.Intensity = &v }},
}

// ignoredPatchFields are accepted for compatibility but have no effect
var ignoredPatchFields = map[string]domain.Kind{
	"totalCustomers": domain.KindQueue,
}

// ToRecordPatch converts a correction body into a patch for the given kind.
// JSON null stands for zero; numeric strings are accepted.
func (r RecordPatchRequest) ToRecordPatch(kind domain.Kind) (domain.RecordPatch, error) {
	var patch domain.RecordPatch
	for key, raw := range r {
		if k, ok := ignoredPatchFields[key]; ok && k == kind {
			continue
		}

		field, ok := patchFields[key]
		if !ok || field.kind != kind {
			return domain.RecordPatch{}, fmt.Errorf("%w: field %q is not editable on %s records", domain.ErrInvalidPatch, key, kind)
		}

		v, err := patchNumber(raw)
		if err != nil {
			return domain.RecordPatch{}, fmt.Errorf("%w: field %q: %v", domain.ErrInvalidPatch, key, err)
		}
		if field.integral {
			v = math.Trunc(v)
		}
		field.set(&patch, v)
	}
	return patch, nil
}

func patchNumber(raw any) (float64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("value must be finite")
		}
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("value %q is not a number", v)
		}
		return f, nil
	}
	return 0, fmt.Errorf("value of type %T is not a number", raw)
}
