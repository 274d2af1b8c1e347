package database

import (
	"database/sql"

	"github.com/fyerfyer/fyer-uquery/access"
)

// rowCursor 把 *sql.Rows 包装成只能向前读取的 Cursor
type rowCursor struct {
	rows    *sql.Rows
	columns []string
}

func newRowCursor(rows *sql.Rows) (*rowCursor, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	return &rowCursor{rows: rows, columns: columns}, nil
}

func (r *rowCursor) Next() bool {
	return r.rows.Next()
}

func (r *rowCursor) Current() (access.Record, error) {
	vals := make([]any, len(r.columns))
	ptrs := make([]any, len(r.columns))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	rec := make(access.Record, len(r.columns))
	for i, col := range r.columns {
		// 驱动返回的文本列可能是 []byte
		if b, ok := vals[i].([]byte); ok {
			rec[col] = string(b)
			continue
		}
		rec[col] = vals[i]
	}
	return rec, nil
}

func (r *rowCursor) Err() error {
	return r.rows.Err()
}
