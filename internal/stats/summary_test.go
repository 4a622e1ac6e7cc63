package stats

import (
	"math"
	"testing"

	"github.com/xtxerr/raggedts/internal/ragged"
	"github.com/xtxerr/raggedts/internal/table"
)

func buildStore(t *testing.T) *ragged.Store {
	t.Helper()
	tbl := table.New("load")
	for i := 1; i <= 100; i++ {
		tbl.AppendRow("a", int64(i*1000), float32(i))
	}
	s, err := ragged.FromTable(tbl, nil, false)
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	return s
}

func TestSummarize(t *testing.T) {
	s := buildStore(t)

	summaries, err := Summarize(s, 0.01)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}

	agg := summaries[0]
	if agg.Channel != "load" {
		t.Errorf("Channel = %q, want load", agg.Channel)
	}
	if agg.Count != 100 {
		t.Errorf("Count = %d, want 100", agg.Count)
	}
	if agg.Min != 1 || agg.Max != 100 {
		t.Errorf("Min/Max = %v/%v, want 1/100", agg.Min, agg.Max)
	}
	if math.Abs(agg.Mean-50.5) > 1e-9 {
		t.Errorf("Mean = %v, want 50.5", agg.Mean)
	}
	// Percentiles are sketch estimates; allow the configured relative error
	// with some slack.
	if math.Abs(agg.P50-50)/50 > 0.05 {
		t.Errorf("P50 = %v, want about 50", agg.P50)
	}
	if math.Abs(agg.P99-99)/99 > 0.05 {
		t.Errorf("P99 = %v, want about 99", agg.P99)
	}
	if agg.P50 > agg.P90 || agg.P90 > agg.P95 || agg.P95 > agg.P99 {
		t.Errorf("percentiles not monotone: %v %v %v %v", agg.P50, agg.P90, agg.P95, agg.P99)
	}
}

func TestSummarize_SkipsNaNSentinels(t *testing.T) {
	tbl := table.New("y", "price")
	tbl.AppendRow("a", 1000, 1, 2)
	tbl.AppendRow("a", 2000, 3, 4)
	base, err := ragged.FromTable(tbl, nil, false)
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}

	// Extend with rows that carry the y channel only; price becomes NaN.
	fut := table.New("y")
	fut.AppendRow("a", 3000, 5)
	merged, err := base.Merge(fut)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	summaries, err := Summarize(merged, 0.01)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	byName := map[string]ChannelSummary{}
	for _, agg := range summaries {
		byName[agg.Channel] = agg
	}

	if got := byName["y"].Count; got != 3 {
		t.Errorf("y Count = %d, want 3", got)
	}
	if got := byName["price"].Count; got != 2 {
		t.Errorf("price Count = %d, want 2", got)
	}
	if byName["price"].Max != 4 {
		t.Errorf("price Max = %v, want 4", byName["price"].Max)
	}
}

func TestSummarize_AllNaNChannel(t *testing.T) {
	nan := float32(math.NaN())
	tbl := table.New("y", "price")
	tbl.AppendRow("a", 1000, 1, nan)
	tbl.AppendRow("a", 2000, 2, nan)
	s, err := ragged.FromTable(tbl, nil, false)
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}

	summaries, err := Summarize(s, 0.01)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	byName := map[string]ChannelSummary{}
	for _, agg := range summaries {
		byName[agg.Channel] = agg
	}

	price := byName["price"]
	if price.Count != 0 {
		t.Errorf("price Count = %d, want 0", price.Count)
	}
	if price.Min != 0 || price.Max != 0 {
		t.Errorf("empty channel Min/Max = %v/%v, want 0/0", price.Min, price.Max)
	}
}
