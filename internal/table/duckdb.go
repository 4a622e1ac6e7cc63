package table

import (
	"context"
	"database/sql"
	"math"
	"strconv"
	"time"

	"github.com/marcboeker/go-duckdb"

	"github.com/xtxerr/raggedts/internal/errors"
)

// DuckDBSource reads long-format tables through a DuckDB connection.
// DuckDB can query Parquet, CSV and its own database files, so this source
// doubles as the analytic front door for any file layout DuckDB understands.
type DuckDBSource struct {
	db *sql.DB
}

// OpenDuckDB opens a DuckDB database. An empty dsn opens an in-memory
// database, which is enough for querying external files.
func OpenDuckDB(dsn string) (*DuckDBSource, error) {
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open duckdb")
	}
	return &DuckDBSource{db: db}, nil
}

// Close closes the underlying database.
func (s *DuckDBSource) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for schema setup in callers.
func (s *DuckDBSource) DB() *sql.DB {
	return s.db
}

// Query executes a SQL query and materializes its result as a long-format
// table. The result set must contain the schema's key and time columns;
// remaining columns become features per the schema.
func (s *DuckDBSource) Query(ctx context.Context, query string, schema Schema) (*Table, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query duckdb")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "result columns")
	}
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
	featPos := make(map[int]int, len(features))
	for slot, name := range features {
		idx := indexOf(cols, name)
		if idx < 0 {
			return nil, errors.NewColumnNotFound(name)
		}
		featPos[idx] = slot
	}

	tbl := New(features...)
	scan := make([]any, len(cols))
	for i := range scan {
		scan[i] = new(any)
	}
	vals := make([]float32, len(features))

	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, errors.Wrap(err, "scan row")
		}
		key, err := keyCell(*(scan[keyIdx].(*any)))
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", tbl.Len())
		}
		ts, err := timeCell(*(scan[timeIdx].(*any)))
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", tbl.Len())
		}
		for i := range vals {
			vals[i] = float32(math.NaN())
		}
		for ci, slot := range featPos {
			vals[slot], err = floatCell(*(scan[ci].(*any)))
			if err != nil {
				return nil, errors.Wrapf(err, "column %q row %d", cols[ci], tbl.Len())
			}
		}
		if err := tbl.AppendRow(key, ts, vals...); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate rows")
	}

	return tbl, nil
}

// QueryStatic executes a SQL query and materializes a one-row-per-series
// static feature table.
func (s *DuckDBSource) QueryStatic(ctx context.Context, query, keyColumn string) (*Static, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query duckdb")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "result columns")
	}
	keyIdx := indexOf(cols, keyColumn)
	if keyIdx < 0 {
		return nil, errors.NewColumnNotFound(keyColumn)
	}

	var features []string
	var featIdx []int
	for i, name := range cols {
		if i == keyIdx {
			continue
		}
		features = append(features, name)
		featIdx = append(featIdx, i)
	}

	st := NewStatic(features...)
	scan := make([]any, len(cols))
	for i := range scan {
		scan[i] = new(any)
	}
	vals := make([]float32, len(features))

	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, errors.Wrap(err, "scan row")
		}
		key, err := keyCell(*(scan[keyIdx].(*any)))
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", st.Len())
		}
		for slot, ci := range featIdx {
			vals[slot], err = floatCell(*(scan[ci].(*any)))
			if err != nil {
				return nil, errors.Wrapf(err, "column %q row %d", cols[ci], st.Len())
			}
		}
		if err := st.AppendRow(key, vals...); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate rows")
	}

	return st, nil
}

func keyCell(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	default:
		return "", errors.Wrapf(errors.ErrInvalidConfig, "series key type %T", v)
	}
}

func timeCell(v any) (int64, error) {
	switch x := v.(type) {
	case time.Time:
		return x.UnixMilli(), nil
	case int64:
		return x, nil
	case int32:
		return int64(x), nil
	default:
		return 0, errors.Wrapf(errors.ErrInvalidConfig, "timestamp type %T", v)
	}
}

// floatCell converts a feature cell to float32. Only SQL NULL maps to NaN;
// an unconvertible type is an error, never a silent missing value.
func floatCell(v any) (float32, error) {
	switch x := v.(type) {
	case float64:
		return float32(x), nil
	case float32:
		return x, nil
	case int64:
		return float32(x), nil
	case int32:
		return float32(x), nil
	case uint64:
		return float32(x), nil
	case duckdb.Decimal:
		// DuckDB types plain numeric literals and DECIMAL columns this way.
		return float32(x.Float64()), nil
	case nil:
		return float32(math.NaN()), nil
	default:
		return 0, errors.Wrapf(errors.ErrInvalidConfig, "feature value type %T", v)
	}
}
