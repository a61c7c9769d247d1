package clickhouse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/repository"
)

const queryDateLayout = "2006-01-02"

// table describes how one telemetry kind is stored and filtered
type table struct {
	name    string
	columns []string
	// resolved time used for ordering; mirrors the aggregator's fallback chain
	timeExpr  string
	dateExpr  string
	dimension string
}

var tables = map[domain.Kind]table{
	domain.KindFootfall: {
		name: "footfall_events",
		columns: []string{
			"id", "owner_id", "timestamp", "created_at", "entered", "exited",
			"male_count", "female_count", "age_18_30", "age_30_50", "age_50_plus",
			"zone", "camera_id", "location", "purchase_amount", "version", "is_deleted",
		},
		timeExpr:  "coalesce(timestamp, created_at)",
		dateExpr:  "toDate(coalesce(timestamp, created_at))",
		dimension: "camera_id",
	},
	domain.KindQueue: {
		name: "queue_events",
		columns: []string{
			"id", "owner_id", "recorded_at", "created_at", "wait_time",
			"cashier_id", "total_customers", "version", "is_deleted",
		},
		timeExpr:  "coalesce(recorded_at, created_at)",
		dateExpr:  "toDate(coalesce(recorded_at, created_at))",
		dimension: "cashier_id",
	},
	domain.KindZone: {
		name: "zone_events",
		columns: []string{
			"id", "owner_id", "zone", "recorded_at", "created_at", "date_recorded",
			"visitor_count", "intensity", "heatmap_type", "camera_id", "version", "is_deleted",
		},
		timeExpr:  "coalesce(recorded_at, created_at)",
		dateExpr:  "coalesce(date_recorded, toDate(coalesce(recorded_at, created_at)))",
		dimension: "zone",
	},
}

func tableFor(kind domain.Kind) (table, error) {
	t, ok := tables[kind]
	if !ok {
		return table{}, fmt.Errorf("unknown telemetry kind %q", kind)
	}
	return t, nil
}

// int64List renders ids as a comma-separated literal list
func int64List(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}

// scopeWhere builds the shared owner and date predicates
func (t table) scopeWhere(q repository.TelemetryQuery) (string, []any) {
	conds := []string{"is_deleted = 0"}
	var args []any

	if len(q.Owners) == 0 {
		conds = append(conds, "0")
	} else {
		conds = append(conds, fmt.Sprintf("owner_id IN (%s)", int64List(q.Owners)))
	}

	if !q.Dates.IsZero() {
		conds = append(conds, fmt.Sprintf("%s BETWEEN toDate(?) AND toDate(?)", t.dateExpr))
		args = append(args, q.Dates.From.Format(queryDateLayout), q.Dates.To.Format(queryDateLayout))
	}

	return strings.Join(conds, " AND "), args
}

// selectQuery reads rows in (resolved time, scope position, id) order so that
// aggregation over the result is deterministic
func (t table) selectQuery(q repository.TelemetryQuery) (string, []any) {
	where, args := t.scopeWhere(q)
	if q.Dimension != "" {
		where += fmt.Sprintf(" AND %s = ?", t.dimension)
		args = append(args, q.Dimension)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s FINAL WHERE %s ORDER BY %s ASC NULLS LAST, indexOf([%s], owner_id) ASC, id ASC`,
		strings.Join(t.columns, ", "), t.name, where, t.timeExpr, int64List(q.Owners))

	return query, args
}

// distinctQuery lists dimension values without applying q.Dimension
func (t table) distinctQuery(q repository.TelemetryQuery) (string, []any) {
	where, args := t.scopeWhere(q)
	query := fmt.Sprintf(`SELECT DISTINCT assumeNotNull(%s) AS value FROM %s FINAL WHERE %s AND %s IS NOT NULL AND %s != '' ORDER BY value`,
		t.dimension, t.name, where, t.dimension, t.dimension)
	return query, args
}

// getQuery loads one live row by id. Rows owned inside owners come first, so
// an id reused by another owner never shadows the caller's own record.
func (t table) getQuery(owners []int64) string {
	inScope := "0"
	if len(owners) > 0 {
		inScope = fmt.Sprintf("owner_id IN (%s)", int64List(owners))
	}
	return fmt.Sprintf(`SELECT %s FROM %s FINAL WHERE id = ? AND is_deleted = 0 ORDER BY %s DESC, owner_id ASC LIMIT 1`,
		strings.Join(t.columns, ", "), t.name, inScope)
}

func (t table) insertQuery() string {
	return fmt.Sprintf("INSERT INTO %s (%s)", t.name, strings.Join(t.columns, ", "))
}
