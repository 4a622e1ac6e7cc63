package table

import (
	"io"
	"math"
	"os"
	"strconv"

	"github.com/parquet-go/parquet-go"

	defaults "github.com/xtxerr/raggedts/config"
	"github.com/xtxerr/raggedts/internal/errors"
)

// readBatchSize is the number of rows decoded per ReadRows call.
const readBatchSize = defaults.ParquetReadBatch

// ReadParquet reads a long-format table from a Parquet file.
//
// The file must be flat (no nested groups). Series keys may be stored as
// strings or integers; timestamps as integer Unix milliseconds or any
// integer-backed timestamp column.
func ReadParquet(path string, schema Schema) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open parquet file")
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "stat parquet file")
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, errors.Wrap(err, "open parquet")
	}

	cols := leafNames(pf.Schema())
	keyIdx := indexOf(cols, schema.KeyColumn)
	if keyIdx < 0 {
		return nil, errors.NewColumnNotFound(schema.KeyColumn)
	}
	timeIdx := indexOf(cols, schema.TimeColumn)
	if timeIdx < 0 {
		return nil, errors.NewColumnNotFound(schema.TimeColumn)
	}

	features := schema.Features
	if len(features) == 0 {
		for i, name := range cols {
			if i == keyIdx || i == timeIdx {
				continue
			}
			features = append(features, name)
		}
	}
	featPos := make(map[int]int, len(features)) // leaf column index -> feature slot
	for slot, name := range features {
		idx := indexOf(cols, name)
		if idx < 0 {
			return nil, errors.NewColumnNotFound(name)
		}
		featPos[idx] = slot
	}

	tbl := New(features...)
	vals := make([]float32, len(features))
	buf := make([]parquet.Row, readBatchSize)

	for _, rg := range pf.RowGroups() {
		rows := rg.Rows()
		for {
			n, readErr := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				key := ""
				var ts int64
				for i := range vals {
					vals[i] = float32(math.NaN())
				}
				for _, v := range row {
					ci := v.Column()
					switch {
					case ci == keyIdx:
						key, err = keyValue(v)
					case ci == timeIdx:
						ts, err = timeValue(v)
					default:
						if slot, ok := featPos[ci]; ok {
							vals[slot] = floatValue(v)
						}
					}
					if err != nil {
						rows.Close()
						return nil, errors.Wrapf(err, "row %d of %s", tbl.Len(), path)
					}
				}
				if err := tbl.AppendRow(key, ts, vals...); err != nil {
					rows.Close()
					return nil, err
				}
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				rows.Close()
				return nil, errors.Wrap(readErr, "read parquet rows")
			}
			if n == 0 {
				break
			}
		}
		if err := rows.Close(); err != nil {
			return nil, errors.Wrap(err, "close parquet rows")
		}
	}

	return tbl, nil
}

// ReadStaticParquet reads a one-row-per-series static feature table from a
// Parquet file.
func ReadStaticParquet(path, keyColumn string, features []string) (*Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open parquet file")
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "stat parquet file")
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, errors.Wrap(err, "open parquet")
	}

	cols := leafNames(pf.Schema())
	keyIdx := indexOf(cols, keyColumn)
	if keyIdx < 0 {
		return nil, errors.NewColumnNotFound(keyColumn)
	}

	if len(features) == 0 {
		for i, name := range cols {
			if i != keyIdx {
				features = append(features, name)
			}
		}
	}
	featPos := make(map[int]int, len(features))
	for slot, name := range features {
		idx := indexOf(cols, name)
		if idx < 0 {
			return nil, errors.NewColumnNotFound(name)
		}
		featPos[idx] = slot
	}

	st := NewStatic(features...)
	vals := make([]float32, len(features))
	buf := make([]parquet.Row, readBatchSize)

	for _, rg := range pf.RowGroups() {
		rows := rg.Rows()
		for {
			n, readErr := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				key := ""
				for i := range vals {
					vals[i] = float32(math.NaN())
				}
				for _, v := range row {
					ci := v.Column()
					if ci == keyIdx {
						key, err = keyValue(v)
						if err != nil {
							rows.Close()
							return nil, err
						}
						continue
					}
					if slot, ok := featPos[ci]; ok {
						vals[slot] = floatValue(v)
					}
				}
				if err := st.AppendRow(key, vals...); err != nil {
					rows.Close()
					return nil, err
				}
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				rows.Close()
				return nil, errors.Wrap(readErr, "read parquet rows")
			}
			if n == 0 {
				break
			}
		}
		if err := rows.Close(); err != nil {
			return nil, errors.Wrap(err, "close parquet rows")
		}
	}

	return st, nil
}

// leafNames returns the leaf column names in column-index order.
// Only flat schemas are supported, so leaves coincide with fields.
func leafNames(s *parquet.Schema) []string {
	fields := s.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name()
	}
	return names
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func keyValue(v parquet.Value) (string, error) {
	if v.IsNull() {
		return "", errors.Wrap(errors.ErrInvalidConfig, "null series key")
	}
	switch v.Kind() {
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return v.String(), nil
	case parquet.Int32, parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10), nil
	default:
		return "", errors.Wrapf(errors.ErrInvalidConfig, "series key kind %s", v.Kind())
	}
}

func timeValue(v parquet.Value) (int64, error) {
	if v.IsNull() {
		return 0, errors.Wrap(errors.ErrInvalidConfig, "null timestamp")
	}
	switch v.Kind() {
	case parquet.Int32, parquet.Int64:
		return v.Int64(), nil
	default:
		return 0, errors.Wrapf(errors.ErrInvalidConfig, "timestamp kind %s", v.Kind())
	}
}

func floatValue(v parquet.Value) float32 {
	if v.IsNull() {
		return float32(math.NaN())
	}
	switch v.Kind() {
	case parquet.Double:
		return float32(v.Double())
	case parquet.Float:
		return v.Float()
	case parquet.Int32, parquet.Int64:
		return float32(v.Int64())
	default:
		return float32(math.NaN())
	}
}
