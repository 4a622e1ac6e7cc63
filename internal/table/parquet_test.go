package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
)

type seriesRow struct {
	UniqueID    string  `parquet:"unique_id"`
	TimestampMs int64   `parquet:"ds"`
	Load        float64 `parquet:"load"`
	Temp        float64 `parquet:"temp"`
}

type staticRow struct {
	UniqueID string  `parquet:"unique_id"`
	Region   float64 `parquet:"region"`
}

func writeParquet[T any](t *testing.T, path string, rows []T) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	w := parquet.NewGenericWriter[T](f)
	if _, err := w.Write(rows); err != nil {
		t.Fatalf("write parquet: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
}

func TestReadParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.parquet")
	writeParquet(t, path, []seriesRow{
		{"a", 1000, 1, 10},
		{"a", 2000, 2, 20},
		{"b", 1000, 3, 30},
	})

	tbl, err := ReadParquet(path, Schema{KeyColumn: "unique_id", TimeColumn: "ds"})
	if err != nil {
		t.Fatalf("ReadParquet: %v", err)
	}

	if tbl.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tbl.Len())
	}
	cols := tbl.Columns()
	if len(cols) != 2 || cols[0] != "load" || cols[1] != "temp" {
		t.Fatalf("columns = %v, want [load temp]", cols)
	}
	if tbl.Key(0) != "a" || tbl.Key(2) != "b" {
		t.Fatalf("keys = [%s .. %s], want [a .. b]", tbl.Key(0), tbl.Key(2))
	}
	if tbl.Time(1) != 2000 {
		t.Fatalf("time(1) = %d, want 2000", tbl.Time(1))
	}
	load, err := tbl.Column("load")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if load[0] != 1 || load[1] != 2 || load[2] != 3 {
		t.Fatalf("load = %v, want [1 2 3]", load)
	}
}

func TestReadParquet_ExplicitFeatures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.parquet")
	writeParquet(t, path, []seriesRow{
		{"a", 1000, 1, 10},
	})

	tbl, err := ReadParquet(path, Schema{
		KeyColumn:  "unique_id",
		TimeColumn: "ds",
		Features:   []string{"temp"},
	})
	if err != nil {
		t.Fatalf("ReadParquet: %v", err)
	}
	if cols := tbl.Columns(); len(cols) != 1 || cols[0] != "temp" {
		t.Fatalf("columns = %v, want [temp]", cols)
	}
	temp, _ := tbl.Column("temp")
	if temp[0] != 10 {
		t.Fatalf("temp[0] = %v, want 10", temp[0])
	}
}

func TestReadParquet_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.parquet")
	writeParquet(t, path, []seriesRow{{"a", 1000, 1, 10}})

	if _, err := ReadParquet(path, Schema{KeyColumn: "nope", TimeColumn: "ds"}); err == nil {
		t.Fatal("expected error for missing key column")
	}
}

func TestReadStaticParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "static.parquet")
	writeParquet(t, path, []staticRow{
		{"a", 1},
		{"b", 2},
	})

	st, err := ReadStaticParquet(path, "unique_id", nil)
	if err != nil {
		t.Fatalf("ReadStaticParquet: %v", err)
	}
	if st.Len() != 2 {
		t.Fatalf("Len = %d, want 2", st.Len())
	}
	row, ok := st.RowByKey("b")
	if !ok {
		t.Fatal("RowByKey(b) not found")
	}
	if len(row) != 1 || row[0] != 2 {
		t.Fatalf("row = %v, want [2]", row)
	}
}
