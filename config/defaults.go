// Package config provides configuration defaults for the raggedts
// application.
//
// This package defines all configurable constants with documented defaults.
// Users can override these values via config.yaml or command-line flags.
package config

// =============================================================================
// Source Defaults
// =============================================================================

const (
	// DefaultSourceKind selects the Parquet source implementation.
	// Override via config: source.kind
	DefaultSourceKind = "parquet"

	// DefaultKeyColumn is the default series-key column name, following the
	// long-format convention of common forecasting datasets.
	// Override via config: source.key_column
	DefaultKeyColumn = "unique_id"

	// DefaultTimeColumn is the default timestamp column name.
	// Override via config: source.time_column
	DefaultTimeColumn = "ds"

	// ParquetReadBatch is the number of rows decoded per Parquet read call.
	// Larger batches trade memory for fewer decoder round trips.
	ParquetReadBatch = 1024
)

// =============================================================================
// Loader Defaults
// =============================================================================

const (
	// DefaultBatchSize is the number of series per batch.
	// Override via config: loader.batch_size
	DefaultBatchSize = 32

	// DefaultWorkers is the number of parallel collation workers.
	// Each worker owns its arena and serves a contiguous shard of the epoch.
	// Override via config: loader.workers
	DefaultWorkers = 1
)

// =============================================================================
// Stats Defaults
// =============================================================================

const (
	// DefaultSketchAccuracy is the DDSketch relative accuracy used for
	// channel percentile summaries (0.01 = 1% error).
	// Override via config: stats.accuracy
	DefaultSketchAccuracy = 0.01
)
