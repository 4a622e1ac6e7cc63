// Package loader iterates a ragged store in batches, optionally across
// parallel workers.
//
// Reads are pure functions over an immutable store, so workers need no
// coordination: each worker serves a contiguous shard of the epoch's
// batches and preserves batch order within its shard. No ordering is
// guaranteed between workers.
package loader

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	defaults "github.com/xtxerr/raggedts/config"
	"github.com/xtxerr/raggedts/internal/batch"
	"github.com/xtxerr/raggedts/internal/config"
	"github.com/xtxerr/raggedts/internal/logging"
	"github.com/xtxerr/raggedts/internal/ragged"
)

// Loader plans and runs batched epochs over one store.
type Loader struct {
	store *ragged.Store
	cfg   config.LoaderConfig
	log   *slog.Logger
}

// New creates a loader for the store with the given settings.
func New(store *ragged.Store, cfg config.LoaderConfig) *Loader {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaults.DefaultBatchSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaults.DefaultWorkers
	}
	return &Loader{
		store: store,
		cfg:   cfg,
		log:   logging.Component("loader"),
	}
}

// NumBatches returns the number of batches one epoch produces.
func (l *Loader) NumBatches() int {
	n := l.store.Len() / l.cfg.BatchSize
	if !l.cfg.DropLast && l.store.Len()%l.cfg.BatchSize != 0 {
		n++
	}
	return n
}

// plan returns the epoch's batches as ordered index slices.
func (l *Loader) plan() [][]int {
	n := l.store.Len()
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if l.cfg.Shuffle {
		seed := l.cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	var batches [][]int
	for start := 0; start < n; start += l.cfg.BatchSize {
		end := start + l.cfg.BatchSize
		if end > n {
			if l.cfg.DropLast {
				break
			}
			end = n
		}
		batches = append(batches, indices[start:end])
	}
	return batches
}

// Run iterates one epoch, invoking fn once per batch.
//
// With multiple workers fn is called concurrently, one call per worker at a
// time, and must be safe for concurrent use. Batches are collated into
// per-worker arenas: a batch is only valid for the duration of its fn call.
// The first error from fn or from collation cancels the epoch.
func (l *Loader) Run(ctx context.Context, fn func(*batch.Batch) error) error {
	batches := l.plan()
	if len(batches) == 0 {
		return nil
	}

	workers := l.cfg.Workers
	if workers > len(batches) {
		workers = len(batches)
	}

	l.log.Debug("epoch started",
		"series", l.store.Len(), "batches", len(batches), "workers", workers)

	g, ctx := errgroup.WithContext(ctx)
	per := (len(batches) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		// Ceil division can strand trailing workers past the end of the
		// epoch; both bounds need clamping so those workers get an empty
		// shard instead of an out-of-range slice.
		lo := min(w*per, len(batches))
		hi := min(lo+per, len(batches))
		if lo == hi {
			continue
		}
		shard := batches[lo:hi]
		g.Go(func() error {
			view := l.store.View()
			arena := batch.NewArena(0)
			for _, idxs := range shard {
				if err := ctx.Err(); err != nil {
					return err
				}
				arena.Reset()
				b, err := l.collate(view, idxs, arena)
				if err != nil {
					return err
				}
				if err := fn(b); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (l *Loader) collate(view *ragged.View, idxs []int, alloc batch.Allocator) (*batch.Batch, error) {
	elems := make([]batch.Element, len(idxs))
	for i, idx := range idxs {
		w, err := view.Window(idx)
		if err != nil {
			return nil, err
		}
		elems[i] = batch.RecordElement(w)
	}
	collated, err := batch.Collate(elems, alloc)
	if err != nil {
		return nil, err
	}
	return collated.Batch, nil
}
