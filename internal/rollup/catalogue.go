package rollup

import "sort"

// KnownDimensions normalises a list of dimension values (cashiers, zones,
// cameras) into the sorted, de-duplicated catalogue shown in selectors.
// Empty values are dropped; the result is never nil.
func KnownDimensions(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
