// Package table implements the long-format relational table consumed by the
// ragged store converter.
//
// A long-format table has one row per (series key, timestamp) pair plus one
// or more numeric feature columns. Rows of one series must be contiguous and
// in non-decreasing timestamp order before conversion; Sort establishes that
// ordering when the source cannot guarantee it.
//
// The engine depends only on the Relational capability, not on a concrete
// table implementation. Table is the in-memory implementation; the parquet
// and duckdb sources in this package materialize into it.
package table

import (
	"math"
	"sort"

	"github.com/xtxerr/raggedts/internal/errors"
)

// Relational is the capability the ragged converter requires from a table.
type Relational interface {
	// Len returns the number of rows.
	Len() int

	// Columns returns the ordered feature column names.
	Columns() []string

	// Column returns the values of a feature column, one per row.
	Column(name string) ([]float32, error)

	// Key returns the series key of row i.
	Key(i int) string

	// Time returns the timestamp (Unix milliseconds) of row i.
	Time(i int) int64

	// IsSorted reports whether rows satisfy the converter's ordering
	// precondition: each series' rows contiguous with non-decreasing
	// timestamps. Full (key, timestamp) sort order is sufficient but
	// not required; a grouped table keeps its first-seen series order.
	IsSorted() bool

	// Sort orders rows by (key, timestamp), stable within equal keys.
	Sort()

	// GroupCounts returns the distinct series keys and their row counts,
	// preserving the order in which each key first appears.
	GroupCounts() ([]string, []int)
}

// Table is the in-memory long-format table. Values are stored column-major
// so that feature columns can be added and reordered without touching rows.
type Table struct {
	keys   []string
	times  []int64
	cols   []string
	values [][]float32 // values[c][row]
}

// New creates an empty table with the given feature columns.
func New(cols ...string) *Table {
	values := make([][]float32, len(cols))
	return &Table{
		cols:   append([]string(nil), cols...),
		values: values,
	}
}

// FromColumns creates a table from pre-built column slices.
// All value slices must have the same length as keys and times.
func FromColumns(keys []string, times []int64, cols []string, values [][]float32) (*Table, error) {
	if len(cols) != len(values) {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "got %d column names for %d value columns", len(cols), len(values))
	}
	if len(keys) != len(times) {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "got %d keys for %d timestamps", len(keys), len(times))
	}
	for c, v := range values {
		if len(v) != len(keys) {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "column %q has %d rows, expected %d", cols[c], len(v), len(keys))
		}
	}
	return &Table{
		keys:   append([]string(nil), keys...),
		times:  append([]int64(nil), times...),
		cols:   append([]string(nil), cols...),
		values: cloneColumns(values),
	}, nil
}

// AppendRow adds one row. The number of values must match the column count.
func (t *Table) AppendRow(key string, timeMs int64, vals ...float32) error {
	if len(vals) != len(t.cols) {
		return errors.Wrapf(errors.ErrInvalidConfig, "got %d values for %d columns", len(vals), len(t.cols))
	}
	t.keys = append(t.keys, key)
	t.times = append(t.times, timeMs)
	for c, v := range vals {
		t.values[c] = append(t.values[c], v)
	}
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.keys)
}

// Columns returns the ordered feature column names.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// HasColumn reports whether the table has a feature column with this name.
func (t *Table) HasColumn(name string) bool {
	return t.columnIndex(name) >= 0
}

// Column returns the values of a feature column, one per row.
func (t *Table) Column(name string) ([]float32, error) {
	c := t.columnIndex(name)
	if c < 0 {
		return nil, errors.NewColumnNotFound(name)
	}
	return t.values[c], nil
}

// Key returns the series key of row i.
func (t *Table) Key(i int) string {
	return t.keys[i]
}

// Time returns the timestamp of row i in Unix milliseconds.
func (t *Table) Time(i int) int64 {
	return t.times[i]
}

// IsSorted reports whether each series' rows are contiguous with
// non-decreasing timestamps. A fully (key, timestamp)-sorted table
// satisfies this; so does a grouped table in first-seen series order.
func (t *Table) IsSorted() bool {
	seen := make(map[string]struct{}, 16)
	for i := 0; i < len(t.keys); i++ {
		if i > 0 && t.keys[i] == t.keys[i-1] {
			if t.times[i] < t.times[i-1] {
				return false
			}
			continue
		}
		if _, dup := seen[t.keys[i]]; dup {
			return false
		}
		seen[t.keys[i]] = struct{}{}
	}
	return true
}

// Sort orders rows by (key, timestamp). The sort is stable so rows with
// equal keys and timestamps keep their relative order.
func (t *Table) Sort() {
	n := len(t.keys)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		i, j := perm[a], perm[b]
		if t.keys[i] != t.keys[j] {
			return t.keys[i] < t.keys[j]
		}
		return t.times[i] < t.times[j]
	})
	t.keys = applyPermString(t.keys, perm)
	t.times = applyPermInt64(t.times, perm)
	for c := range t.values {
		t.values[c] = applyPermFloat32(t.values[c], perm)
	}
}

// GroupCounts returns the distinct series keys and their row counts as
// contiguous runs, preserving the order in which each key first appears.
// Rows of one series must already be contiguous; the converter rejects
// tables where a key reappears after a different key.
func (t *Table) GroupCounts() ([]string, []int) {
	var keys []string
	var counts []int
	for i := 0; i < len(t.keys); i++ {
		if i == 0 || t.keys[i] != t.keys[i-1] {
			keys = append(keys, t.keys[i])
			counts = append(counts, 0)
		}
		counts[len(counts)-1]++
	}
	return keys, counts
}

// EnsureColumns reorders the feature columns to exactly match target.
// Columns missing from the table are added filled with NaN, marking values
// as "not yet known" rather than zero. Columns not named in target are
// dropped.
func (t *Table) EnsureColumns(target []string) {
	values := make([][]float32, len(target))
	for c, name := range target {
		if i := t.columnIndex(name); i >= 0 {
			values[c] = t.values[i]
			continue
		}
		fill := make([]float32, len(t.keys))
		nan := float32(math.NaN())
		for r := range fill {
			fill[r] = nan
		}
		values[c] = fill
	}
	t.cols = append([]string(nil), target...)
	t.values = values
}

func (t *Table) columnIndex(name string) int {
	for i, c := range t.cols {
		if c == name {
			return i
		}
	}
	return -1
}

func cloneColumns(values [][]float32) [][]float32 {
	out := make([][]float32, len(values))
	for i, v := range values {
		out[i] = append([]float32(nil), v...)
	}
	return out
}

func applyPermString(s []string, perm []int) []string {
	out := make([]string, len(s))
	for i, p := range perm {
		out[i] = s[p]
	}
	return out
}

func applyPermInt64(s []int64, perm []int) []int64 {
	out := make([]int64, len(s))
	for i, p := range perm {
		out[i] = s[p]
	}
	return out
}

func applyPermFloat32(s []float32, perm []int) []float32 {
	out := make([]float32, len(s))
	for i, p := range perm {
		out[i] = s[p]
	}
	return out
}
