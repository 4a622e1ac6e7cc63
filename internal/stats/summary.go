// Package stats computes per-channel distribution summaries over a ragged
// store's real observations. Padded positions never exist in the store and
// NaN sentinels (future covariates not yet known) are skipped.
package stats

import (
	"math"

	"github.com/DataDog/sketches-go/ddsketch"

	"github.com/xtxerr/raggedts/internal/errors"
	"github.com/xtxerr/raggedts/internal/ragged"
)

// ChannelSummary holds running statistics and percentiles for one channel.
type ChannelSummary struct {
	Channel string
	Count   int64
	Min     float64
	Max     float64
	Mean    float64
	P50     float64
	P90     float64
	P95     float64
	P99     float64
}

// Summarize computes a summary per feature channel of the store.
// Accuracy is the DDSketch relative accuracy (0.01 = 1% error).
func Summarize(s *ragged.Store, accuracy float64) ([]ChannelSummary, error) {
	channels := s.FeatureChannels()
	sketches := make([]*ddsketch.DDSketch, len(channels))
	sums := make([]float64, len(channels))
	summaries := make([]ChannelSummary, len(channels))

	for c, name := range channels {
		sketch, err := ddsketch.NewDefaultDDSketch(accuracy)
		if err != nil {
			return nil, errors.Wrap(err, "create sketch")
		}
		sketches[c] = sketch
		summaries[c] = ChannelSummary{
			Channel: name,
			Min:     math.MaxFloat64,
			Max:     -math.MaxFloat64,
		}
	}

	// One pass over the store: each window is rendered once and every
	// channel row is consumed from it.
	view := s.View()
	for i := 0; i < s.Len(); i++ {
		w, err := view.Window(i)
		if err != nil {
			return nil, err
		}
		mask := w.Mask()
		for c := range channels {
			row := w.ChannelRow(c)
			agg := &summaries[c]
			for t, v := range row {
				if mask[t] == 0 {
					continue
				}
				val := float64(v)
				if math.IsNaN(val) {
					continue
				}
				agg.Count++
				sums[c] += val
				if val < agg.Min {
					agg.Min = val
				}
				if val > agg.Max {
					agg.Max = val
				}
				if err := sketches[c].Add(val); err != nil {
					return nil, errors.Wrapf(err, "channel %q", agg.Channel)
				}
			}
		}
	}

	for c := range summaries {
		agg := &summaries[c]
		if agg.Count == 0 {
			agg.Min, agg.Max = 0, 0
			continue
		}
		agg.Mean = sums[c] / float64(agg.Count)
		agg.P50, _ = sketches[c].GetValueAtQuantile(0.50)
		agg.P90, _ = sketches[c].GetValueAtQuantile(0.90)
		agg.P95, _ = sketches[c].GetValueAtQuantile(0.95)
		agg.P99, _ = sketches[c].GetValueAtQuantile(0.99)
	}

	return summaries, nil
}
