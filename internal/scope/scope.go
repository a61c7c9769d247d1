// Package scope resolves a dashboard caller into the ordered set of data owners
// whose telemetry it may read.
package scope

import (
	"slices"

	"github.com/yildizemre/visapa/internal/domain"
)

// Scope is the resolved read scope of one caller. Owners is never empty and
// always starts with the caller itself unless it has been narrowed.
type Scope struct {
	Caller int64
	Owners []int64
}

// Single returns the scope of a caller that sees only its own data
func Single(caller int64) Scope {
	return Scope{Caller: caller, Owners: []int64{caller}}
}

// Contains reports whether owner lies inside the scope
func (s Scope) Contains(owner int64) bool {
	return slices.Contains(s.Owners, owner)
}

// Narrow restricts the scope to one store. A zero store id leaves the scope unchanged.
func (s Scope) Narrow(storeID int64) (Scope, error) {
	if storeID == 0 {
		return s, nil
	}
	if !s.Contains(storeID) {
		return Scope{}, domain.ErrScopeViolation
	}
	return Scope{Caller: s.Caller, Owners: []int64{storeID}}, nil
}

// dedupe removes repeated ids keeping the first occurrence
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
