package ragged

import (
	"github.com/xtxerr/raggedts/internal/errors"
	"github.com/xtxerr/raggedts/internal/table"
)

// FromTable converts a long-format table into a ragged store.
//
// When sortInput is true an unsorted table is sorted by (key, timestamp)
// first. When false the caller guarantees the table is already sorted;
// an unsorted table is rejected with ErrUnsorted rather than tolerated.
// Sorted here means IsSorted: series grouped with non-decreasing timestamps.
// A table that is grouped but not in key order passes that check, so the
// sort never runs on it and the store keeps the table's first-seen series
// order even with sortInput set.
//
// The optional static table must cover exactly the series keys present in
// tbl; any mismatch aborts construction with ErrStaticAlignment. The key and
// timestamp columns are never materialized into the temporal buffer.
func FromTable(tbl table.Relational, static *table.Static, sortInput bool) (*Store, error) {
	if tbl.Len() == 0 {
		return nil, errors.ErrEmptyTable
	}

	if !tbl.IsSorted() {
		if !sortInput {
			return nil, errors.Wrap(errors.ErrUnsorted, "sorting disabled")
		}
		tbl.Sort()
	}

	keys, counts := tbl.GroupCounts()
	if err := checkContiguous(keys); err != nil {
		return nil, err
	}

	n := len(keys)
	offsets := make([]int, n+1)
	maxSize := 0
	for i, c := range counts {
		offsets[i+1] = offsets[i] + c
		if c > maxSize {
			maxSize = c
		}
	}

	channels := tbl.Columns()
	rows := tbl.Len()
	temporal := make([]float32, rows*len(channels))
	for c, name := range channels {
		col, err := tbl.Column(name)
		if err != nil {
			return nil, err
		}
		for r := 0; r < rows; r++ {
			temporal[r*len(channels)+c] = col[r]
		}
	}

	lastTimes := make([]int64, n)
	for i := 0; i < n; i++ {
		lastTimes[i] = tbl.Time(offsets[i+1] - 1)
	}

	s := &Store{
		temporal:  temporal,
		channels:  channels,
		offsets:   offsets,
		maxSize:   maxSize,
		keys:      keys,
		lastTimes: lastTimes,
		sorted:    sortInput,
	}

	if static != nil {
		flat, cols, err := alignStatic(static, keys)
		if err != nil {
			return nil, err
		}
		s.static = flat
		s.staticCols = cols
	}

	return s, nil
}

// checkContiguous rejects tables where a series key reappears after a
// different key: run-length group counting would otherwise silently split
// one series into several.
func checkContiguous(keys []string) error {
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			return errors.Wrapf(errors.ErrUnsorted, "series %q rows are not contiguous", k)
		}
		seen[k] = struct{}{}
	}
	return nil
}

// alignStatic extracts the static rows in store group order, requiring the
// static key set to exactly match the series key set.
func alignStatic(static *table.Static, keys []string) ([]float32, []string, error) {
	if static.Len() != len(keys) {
		return nil, nil, errors.Wrapf(errors.ErrStaticAlignment,
			"static table has %d rows for %d series", static.Len(), len(keys))
	}

	cols := static.Columns()
	flat := make([]float32, len(keys)*len(cols))
	for i, key := range keys {
		row, ok := static.RowByKey(key)
		if !ok {
			return nil, nil, errors.Wrapf(errors.ErrStaticAlignment, "series %q has no static row", key)
		}
		copy(flat[i*len(cols):(i+1)*len(cols)], row)
	}
	return flat, cols, nil
}
