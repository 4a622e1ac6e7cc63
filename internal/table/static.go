package table

import (
	"sort"

	"github.com/xtxerr/raggedts/internal/errors"
)

// Static is a one-row-per-series table of time-invariant features.
// Row order follows the order rows were appended; the converter aligns
// rows to the series table's group order by key.
type Static struct {
	keys   []string
	cols   []string
	values [][]float32 // values[c][row]
}

// NewStatic creates an empty static table with the given feature columns.
func NewStatic(cols ...string) *Static {
	return &Static{
		cols:   append([]string(nil), cols...),
		values: make([][]float32, len(cols)),
	}
}

// AppendRow adds the static feature row for one series key.
func (s *Static) AppendRow(key string, vals ...float32) error {
	if len(vals) != len(s.cols) {
		return errors.Wrapf(errors.ErrInvalidConfig, "got %d values for %d columns", len(vals), len(s.cols))
	}
	s.keys = append(s.keys, key)
	for c, v := range vals {
		s.values[c] = append(s.values[c], v)
	}
	return nil
}

// Len returns the number of series rows.
func (s *Static) Len() int {
	return len(s.keys)
}

// Columns returns the ordered static feature column names.
func (s *Static) Columns() []string {
	return append([]string(nil), s.cols...)
}

// Key returns the series key of row i.
func (s *Static) Key(i int) string {
	return s.keys[i]
}

// Row materializes the feature values of row i in column order.
func (s *Static) Row(i int) []float32 {
	row := make([]float32, len(s.cols))
	for c := range s.cols {
		row[c] = s.values[c][i]
	}
	return row
}

// Sort orders rows by series key.
func (s *Static) Sort() {
	perm := make([]int, len(s.keys))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return s.keys[perm[a]] < s.keys[perm[b]]
	})
	s.keys = applyPermString(s.keys, perm)
	for c := range s.values {
		s.values[c] = applyPermFloat32(s.values[c], perm)
	}
}

// RowByKey returns the feature row for the given series key.
func (s *Static) RowByKey(key string) ([]float32, bool) {
	for i, k := range s.keys {
		if k == key {
			return s.Row(i), true
		}
	}
	return nil, false
}
