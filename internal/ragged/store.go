package ragged

import (
	"fmt"
	"math"
)

// MaskLabel is the synthetic channel label marking real vs padded positions.
// It is always the last entry of Channels() and is never stored.
const MaskLabel = "available_mask"

// Float closeness bounds for Equal, matching the usual numeric-comparison
// tolerances for float32 data.
const (
	equalRelTol = 1e-5
	equalAbsTol = 1e-8
)

// Store holds the concatenated temporal values of all series plus the
// offset index delimiting each series' rows.
//
// A Store is immutable once constructed. Merge returns a successor store
// with an incremented generation; the source store and any views derived
// from it remain valid and unchanged.
type Store struct {
	temporal  []float32 // row-major, rows × len(channels)
	channels  []string  // feature channels, without MaskLabel
	offsets   []int     // len = series count + 1, offsets[0] == 0
	maxSize   int
	keys      []string
	lastTimes []int64 // last timestamp per series, Unix milliseconds

	static     []float32 // row-major, series count × len(staticCols); nil if none
	staticCols []string

	sorted     bool
	generation int
}

// Len returns the number of series.
func (s *Store) Len() int {
	return len(s.offsets) - 1
}

// Rows returns the total row count across all series.
func (s *Store) Rows() int {
	return s.offsets[len(s.offsets)-1]
}

// GroupLength returns the number of rows owned by series i.
func (s *Store) GroupLength(i int) int {
	return s.offsets[i+1] - s.offsets[i]
}

// MaxSize returns the padded window width: the longest series length.
func (s *Store) MaxSize() int {
	return s.maxSize
}

// Channels returns the channel labels including the trailing MaskLabel.
func (s *Store) Channels() []string {
	out := make([]string, 0, len(s.channels)+1)
	out = append(out, s.channels...)
	return append(out, MaskLabel)
}

// FeatureChannels returns the stored feature channel labels only.
func (s *Store) FeatureChannels() []string {
	return append([]string(nil), s.channels...)
}

// Keys returns the series keys in store order.
func (s *Store) Keys() []string {
	return append([]string(nil), s.keys...)
}

// LastTime returns the timestamp of series i's most recent row.
func (s *Store) LastTime(i int) int64 {
	return s.lastTimes[i]
}

// HasStatic reports whether the store carries static features.
func (s *Store) HasStatic() bool {
	return s.static != nil
}

// StaticColumns returns the static feature labels, nil when absent.
func (s *Store) StaticColumns() []string {
	if s.staticCols == nil {
		return nil
	}
	return append([]string(nil), s.staticCols...)
}

// Generation returns how many merges produced this store. A freshly
// converted store is generation 0; each Merge increments it.
func (s *Store) Generation() int {
	return s.generation
}

// Sorted reports the sort policy the store was built with.
func (s *Store) Sorted() bool {
	return s.sorted
}

// View returns the padded window accessor for this store.
func (s *Store) View() *View {
	return &View{store: s}
}

// String implements fmt.Stringer.
func (s *Store) String() string {
	return fmt.Sprintf("ragged.Store(series=%d, rows=%d, channels=%d, max_size=%d)",
		s.Len(), s.Rows(), len(s.channels), s.maxSize)
}

// Equal reports structural equality: temporal buffers numerically close
// element-wise, offset arrays exactly equal, and static tables (when present
// on both sides) numerically close. A store with static data is never equal
// to one without.
func (s *Store) Equal(other *Store) bool {
	if other == nil {
		return false
	}
	if len(s.offsets) != len(other.offsets) {
		return false
	}
	for i := range s.offsets {
		if s.offsets[i] != other.offsets[i] {
			return false
		}
	}
	if !closeSlices(s.temporal, other.temporal) {
		return false
	}
	if (s.static == nil) != (other.static == nil) {
		return false
	}
	if s.static != nil && !closeSlices(s.static, other.static) {
		return false
	}
	return true
}

func closeSlices(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !closeValues(float64(a[i]), float64(b[i])) {
			return false
		}
	}
	return true
}

// closeValues tolerates floating-point rounding. Two NaNs compare equal so
// that stores carrying the missing-value sentinel can still be compared.
func closeValues(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) <= equalAbsTol+equalRelTol*math.Abs(b)
}
