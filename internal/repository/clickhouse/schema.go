package clickhouse

var schema = []string{
	`CREATE TABLE IF NOT EXISTS footfall_events (
		id String,
		owner_id Int64,
		timestamp Nullable(DateTime64(3, 'UTC')),
		created_at Nullable(DateTime64(3, 'UTC')),
		entered Int64,
		exited Int64,
		male_count Int64,
		female_count Int64,
		age_18_30 Int64,
		age_30_50 Int64,
		age_50_plus Int64,
		zone Nullable(String),
		camera_id Nullable(String),
		location Nullable(String),
		purchase_amount Float64,
		version UInt64,
		is_deleted UInt8
	) ENGINE = ReplacingMergeTree(version, is_deleted)
	ORDER BY (owner_id, id)
	SETTINGS index_granularity = 8192`,

	`CREATE TABLE IF NOT EXISTS queue_events (
		id String,
		owner_id Int64,
		recorded_at Nullable(DateTime64(3, 'UTC')),
		created_at Nullable(DateTime64(3, 'UTC')),
		wait_time Nullable(Float64),
		cashier_id Nullable(String),
		total_customers Nullable(Int64),
		version UInt64,
		is_deleted UInt8
	) ENGINE = ReplacingMergeTree(version, is_deleted)
	ORDER BY (owner_id, id)
	SETTINGS index_granularity = 8192`,

	`CREATE TABLE IF NOT EXISTS zone_events (
		id String,
		owner_id Int64,
		zone Nullable(String),
		recorded_at Nullable(DateTime64(3, 'UTC')),
		created_at Nullable(DateTime64(3, 'UTC')),
		date_recorded Nullable(Date),
		visitor_count Nullable(Int64),
		intensity Nullable(Float64),
		heatmap_type Nullable(String),
		camera_id Nullable(String),
		version UInt64,
		is_deleted UInt8
	) ENGINE = ReplacingMergeTree(version, is_deleted)
	ORDER BY (owner_id, id)
	SETTINGS index_granularity = 8192`,
}
