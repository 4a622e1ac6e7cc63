package ragged

import (
	"testing"

	"github.com/xtxerr/raggedts/internal/errors"
	"github.com/xtxerr/raggedts/internal/table"
)

func TestView_WindowWorkedExample(t *testing.T) {
	s, err := FromTable(twoSeries(t), nil, false)
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	view := s.View()

	// Series a fills the window: no padding, full mask.
	wa, err := view.Window(0)
	if err != nil {
		t.Fatalf("Window(0): %v", err)
	}
	wantRow := []float32{1, 2, 3}
	wantMask := []float32{1, 1, 1}
	checkRow(t, "a values", wa.ChannelRow(0), wantRow)
	checkRow(t, "a mask", wa.Mask(), wantMask)

	// Series b is right-aligned: most recent observation in the last column.
	wb, err := view.Window(1)
	if err != nil {
		t.Fatalf("Window(1): %v", err)
	}
	checkRow(t, "b values", wb.ChannelRow(0), []float32{0, 0, 5})
	checkRow(t, "b mask", wb.Mask(), []float32{0, 0, 1})
}

func TestView_WindowShape(t *testing.T) {
	s, err := FromTable(twoSeries(t), nil, false)
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	w, err := s.View().Window(0)
	if err != nil {
		t.Fatalf("Window: %v", err)
	}

	// One feature channel plus the mask, each maxSize wide.
	if len(w.Channels) != 2 {
		t.Fatalf("channels = %v, want [y %s]", w.Channels, MaskLabel)
	}
	if w.Channels[len(w.Channels)-1] != MaskLabel {
		t.Fatalf("last channel = %q, want %q", w.Channels[len(w.Channels)-1], MaskLabel)
	}
	if w.Width != 3 {
		t.Fatalf("Width = %d, want 3", w.Width)
	}
	if len(w.Temporal) != 2*3 {
		t.Fatalf("len(Temporal) = %d, want 6", len(w.Temporal))
	}
}

func TestView_WindowMaskSynthesizedFresh(t *testing.T) {
	s, err := FromTable(twoSeries(t), nil, false)
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	view := s.View()

	w1, _ := view.Window(1)
	w1.Mask()[2] = 0 // corrupt the caller's copy
	w2, _ := view.Window(1)
	if w2.Mask()[2] != 1 {
		t.Fatal("mask must be synthesized per call, not shared")
	}
}

func TestView_WindowInvalidIndex(t *testing.T) {
	s, err := FromTable(twoSeries(t), nil, false)
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	view := s.View()

	for _, idx := range []int{-1, 2, 100} {
		if _, err := view.Window(idx); !errors.Is(err, errors.ErrInvalidIndex) {
			t.Errorf("Window(%d) err = %v, want ErrInvalidIndex", idx, err)
		}
	}
}

func TestView_WindowZeroLengthSeries(t *testing.T) {
	// A zero-length series cannot come out of the converter, but the view
	// must render it as an all-zero window rather than fail.
	s := &Store{
		temporal: []float32{1, 2},
		channels: []string{"y"},
		offsets:  []int{0, 2, 2},
		maxSize:  2,
		keys:     []string{"a", "empty"},
	}

	w, err := s.View().Window(1)
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	checkRow(t, "values", w.ChannelRow(0), []float32{0, 0})
	checkRow(t, "mask", w.Mask(), []float32{0, 0})
}

func TestView_WindowStaticRow(t *testing.T) {
	st := tableWithStatic(t)
	s, err := FromTable(twoSeries(t), st, false)
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}

	w, err := s.View().Window(1)
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if len(w.Static) != 1 || w.Static[0] != 2 {
		t.Fatalf("static = %v, want [2]", w.Static)
	}
	if len(w.StaticCols) != 1 || w.StaticCols[0] != "region" {
		t.Fatalf("staticCols = %v, want [region]", w.StaticCols)
	}
}

func TestView_WindowNoStatic(t *testing.T) {
	s, err := FromTable(twoSeries(t), nil, false)
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	w, err := s.View().Window(0)
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if w.Static != nil || w.StaticCols != nil {
		t.Fatal("window must omit static fields when the store has none")
	}
}

func checkRow(t *testing.T, name string, got, want []float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s = %v, want %v", name, got, want)
		}
	}
}

func tableWithStatic(t *testing.T) *table.Static {
	t.Helper()
	st := table.NewStatic("region")
	st.AppendRow("a", 1)
	st.AppendRow("b", 2)
	return st
}
