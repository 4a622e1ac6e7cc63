package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Source.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("source: %w", err))
	}
	if err := c.Loader.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("loader: %w", err))
	}
	if err := c.Stats.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("stats: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks the source configuration.
func (c *SourceConfig) Validate() error {
	var errs []error

	switch c.Kind {
	case "parquet":
		if c.Path == "" {
			errs = append(errs, errors.New("path is required for parquet sources"))
		}
	case "duckdb":
		if c.Query == "" {
			errs = append(errs, errors.New("query is required for duckdb sources"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source kind %q", c.Kind))
	}

	if c.KeyColumn == "" {
		errs = append(errs, errors.New("key_column is required"))
	}
	if c.TimeColumn == "" {
		errs = append(errs, errors.New("time_column is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks the loader configuration.
func (c *LoaderConfig) Validate() error {
	var errs []error

	if c.BatchSize <= 0 {
		errs = append(errs, errors.New("batch_size must be positive"))
	}
	if c.Workers <= 0 {
		errs = append(errs, errors.New("workers must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks the stats configuration.
func (c *StatsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Accuracy <= 0 || c.Accuracy >= 1 {
		return errors.New("accuracy must be in (0, 1)")
	}
	return nil
}
