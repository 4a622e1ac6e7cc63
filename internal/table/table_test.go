package table

import (
	"math"
	"testing"
)

func buildTable(t *testing.T) *Table {
	t.Helper()
	tbl := New("load", "temp")
	rows := []struct {
		key  string
		ts   int64
		vals []float32
	}{
		{"b", 2000, []float32{4, 40}},
		{"a", 1000, []float32{1, 10}},
		{"a", 2000, []float32{2, 20}},
		{"b", 1000, []float32{3, 30}},
		{"a", 3000, []float32{5, 50}},
	}
	for _, r := range rows {
		if err := tbl.AppendRow(r.key, r.ts, r.vals...); err != nil {
			t.Fatalf("AppendRow: %v", err)
		}
	}
	return tbl
}

func TestTable_Sort(t *testing.T) {
	tbl := buildTable(t)

	if tbl.IsSorted() {
		t.Fatal("table should not be sorted yet")
	}
	tbl.Sort()
	if !tbl.IsSorted() {
		t.Fatal("table should be sorted")
	}

	wantKeys := []string{"a", "a", "a", "b", "b"}
	wantTimes := []int64{1000, 2000, 3000, 1000, 2000}
	wantLoad := []float32{1, 2, 5, 3, 4}
	for i := range wantKeys {
		if tbl.Key(i) != wantKeys[i] {
			t.Errorf("row %d key = %q, want %q", i, tbl.Key(i), wantKeys[i])
		}
		if tbl.Time(i) != wantTimes[i] {
			t.Errorf("row %d time = %d, want %d", i, tbl.Time(i), wantTimes[i])
		}
	}
	load, err := tbl.Column("load")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	for i, want := range wantLoad {
		if load[i] != want {
			t.Errorf("load[%d] = %v, want %v", i, load[i], want)
		}
	}
}

func TestTable_GroupCounts(t *testing.T) {
	tbl := buildTable(t)
	tbl.Sort()

	keys, counts := tbl.GroupCounts()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("keys = %v, want [a b]", keys)
	}
	if counts[0] != 3 || counts[1] != 2 {
		t.Fatalf("counts = %v, want [3 2]", counts)
	}
}

func TestTable_GroupCountsFirstSeenOrder(t *testing.T) {
	tbl := New("v")
	tbl.AppendRow("z", 1, 1)
	tbl.AppendRow("z", 2, 2)
	tbl.AppendRow("a", 1, 3)

	// Grouped but unsorted: first-seen order is preserved.
	keys, counts := tbl.GroupCounts()
	if len(keys) != 2 || keys[0] != "z" || keys[1] != "a" {
		t.Fatalf("keys = %v, want [z a]", keys)
	}
	if counts[0] != 2 || counts[1] != 1 {
		t.Fatalf("counts = %v, want [2 1]", counts)
	}
}

func TestTable_EnsureColumns(t *testing.T) {
	tbl := New("y")
	tbl.AppendRow("a", 1, 7)
	tbl.AppendRow("a", 2, 8)

	tbl.EnsureColumns([]string{"y", "price"})

	cols := tbl.Columns()
	if len(cols) != 2 || cols[0] != "y" || cols[1] != "price" {
		t.Fatalf("columns = %v, want [y price]", cols)
	}
	price, err := tbl.Column("price")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	for i, v := range price {
		if !math.IsNaN(float64(v)) {
			t.Errorf("price[%d] = %v, want NaN fill", i, v)
		}
	}
	y, _ := tbl.Column("y")
	if y[0] != 7 || y[1] != 8 {
		t.Errorf("y = %v, existing column must be untouched", y)
	}
}

func TestTable_EnsureColumnsDropsExtra(t *testing.T) {
	tbl := New("y", "junk")
	tbl.AppendRow("a", 1, 7, 99)

	tbl.EnsureColumns([]string{"y"})

	if tbl.HasColumn("junk") {
		t.Fatal("junk column should have been dropped")
	}
	if got := tbl.Columns(); len(got) != 1 || got[0] != "y" {
		t.Fatalf("columns = %v, want [y]", got)
	}
}

func TestTable_ColumnNotFound(t *testing.T) {
	tbl := New("y")
	if _, err := tbl.Column("missing"); err == nil {
		t.Fatal("expected error for missing column")
	}
}

func TestTable_AppendRowArityMismatch(t *testing.T) {
	tbl := New("a", "b")
	if err := tbl.AppendRow("k", 1, 1); err == nil {
		t.Fatal("expected error for wrong value count")
	}
}

func TestFromColumns(t *testing.T) {
	tbl, err := FromColumns(
		[]string{"a", "a"},
		[]int64{1, 2},
		[]string{"v"},
		[][]float32{{1, 2}},
	)
	if err != nil {
		t.Fatalf("FromColumns: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tbl.Len())
	}

	if _, err := FromColumns([]string{"a"}, []int64{1, 2}, nil, nil); err == nil {
		t.Fatal("expected error for keys/times length mismatch")
	}
}
