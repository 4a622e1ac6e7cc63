package ragged

import (
	"fmt"

	"github.com/xtxerr/raggedts/internal/errors"
	"github.com/xtxerr/raggedts/internal/table"
)

// Merge produces a successor store whose series are extended with the rows
// of the future table. The receiver is never modified: readers holding it,
// or views derived from it, continue to observe the pre-merge state.
//
// The future table must use the same key/timestamp schema as the original
// source. Feature columns may be a subset of the store's channels; missing
// channels are filled with NaN, distinguishing "not yet known" from a known
// zero. The future table itself is reconciled in place: after Merge returns
// its columns match the store's channel order, with missing channels added
// as NaN and extra columns dropped. Every series key of the future table
// must exist in the store and appear in the store's order; a series absent
// from the future table simply gains no rows. Unknown keys or reordered
// groups abort the merge with ErrMismatchedGroups and the original store
// stays untouched.
//
// Future rows are assumed later in time than all existing rows of their
// series; they are appended after the existing rows in timestamp order.
// Each merge increments the generation counter. Merges can be chained, but
// two merges must not run concurrently against the same source store.
func (s *Store) Merge(future *table.Table) (*Store, error) {
	// Reconcile the future columns against the store's channel order:
	// missing channels become NaN columns, extras are dropped.
	future.EnsureColumns(s.channels)

	fs, err := FromTable(future, nil, s.sorted)
	if err != nil {
		return nil, errors.Wrap(err, "convert future table")
	}

	// futIdx[i] is series i's group index in fs, or -1 when the future
	// table has no rows for it.
	futIdx, err := s.matchGroups(fs)
	if err != nil {
		return nil, err
	}

	n := s.Len()
	nchan := len(s.channels)
	merged := &Store{
		temporal:   make([]float32, (s.Rows()+fs.Rows())*nchan),
		channels:   append([]string(nil), s.channels...),
		offsets:    make([]int, n+1),
		keys:       append([]string(nil), s.keys...),
		lastTimes:  make([]int64, n),
		static:     s.static,
		staticCols: s.staticCols,
		sorted:     s.sorted,
		generation: s.generation + 1,
	}

	acum := 0
	for i := 0; i < n; i++ {
		oldLen := s.GroupLength(i)
		dst := merged.temporal[acum*nchan:]
		copy(dst, s.temporal[s.offsets[i]*nchan:s.offsets[i+1]*nchan])

		newLen := oldLen
		merged.lastTimes[i] = s.lastTimes[i]
		if j := futIdx[i]; j >= 0 {
			newLen += fs.GroupLength(j)
			copy(dst[oldLen*nchan:], fs.temporal[fs.offsets[j]*nchan:fs.offsets[j+1]*nchan])
			merged.lastTimes[i] = fs.lastTimes[j]
		}

		acum += newLen
		merged.offsets[i+1] = acum
		if newLen > merged.maxSize {
			merged.maxSize = newLen
		}
	}

	return merged, nil
}

// matchGroups maps each store series to its group in the future store.
// Zipping misaligned series would silently attach observations to the
// wrong series, so unknown keys and order violations are rejected rather
// than tolerated.
func (s *Store) matchGroups(fs *Store) ([]int, error) {
	index := make(map[string]int, s.Len())
	for i, key := range s.keys {
		index[key] = i
	}

	futIdx := make([]int, s.Len())
	for i := range futIdx {
		futIdx[i] = -1
	}

	prev := -1
	for j, key := range fs.keys {
		i, ok := index[key]
		if !ok {
			return nil, errors.NewMismatchedGroups(
				fmt.Sprintf("future series %q does not exist in the store", key))
		}
		if i <= prev {
			return nil, errors.NewMismatchedGroups(
				fmt.Sprintf("future series %q is out of store order", key))
		}
		prev = i
		futIdx[i] = j
	}
	return futIdx, nil
}
