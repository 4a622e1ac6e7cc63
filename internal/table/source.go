package table

import defaults "github.com/xtxerr/raggedts/config"

// Schema describes how source columns map onto the long-format table.
type Schema struct {
	// KeyColumn is the series-key column name.
	KeyColumn string

	// TimeColumn is the timestamp column name.
	TimeColumn string

	// Features lists the feature columns to materialize, in order.
	// When empty, every column other than key and timestamp is used,
	// in source order.
	Features []string
}

// DefaultSchema returns the conventional long-format column names.
func DefaultSchema() Schema {
	return Schema{
		KeyColumn:  defaults.DefaultKeyColumn,
		TimeColumn: defaults.DefaultTimeColumn,
	}
}
