package database

import (
	"context"
	"strings"

	"github.com/fyerfyer/fyer-uquery/access"
	"github.com/fyerfyer/fyer-uquery/ferr"
	"github.com/fyerfyer/fyer-uquery/paging"
	"github.com/fyerfyer/fyer-uquery/sqlbuilder"
)

// coreHandler 中间件链的最后一环，实际访问数据库
type coreHandler struct {
	db *DB
}

func (c *coreHandler) QueryHandler(ctx context.Context, qc *access.QueryContext) (*access.QueryResult, error) {
	if !qc.Paged {
		columns, records, err := c.queryAll(ctx, qc.Statement)
		if err != nil {
			return nil, err
		}
		return access.NewResult(columns, records), nil
	}
	return c.queryPage(ctx, qc)
}

func (c *coreHandler) queryPage(ctx context.Context, qc *access.QueryContext) (*access.QueryResult, error) {
	d := c.db.dialect
	countSQL := sqlbuilder.CountSQL(d, qc.Statement)
	var recordCount int
	if err := c.db.sqlDB.QueryRowContext(ctx, countSQL).Scan(&recordCount); err != nil {
		return nil, ferr.ErrExecFailed(countSQL, err)
	}

	page := paging.Normalize(qc.PageSize, qc.PageIndex, recordCount)
	if recordCount == 0 {
		return access.NewPagedResult(nil, nil, page), nil
	}

	if pageSQL, ok := d.PageSQL(qc.Statement, page.Window()); ok {
		columns, records, err := c.queryAll(ctx, pageSQL)
		if err != nil {
			return nil, err
		}
		columns, records = stripColumn(columns, records, sqlbuilder.RowNumColumn)
		return access.NewPagedResult(columns, records, page), nil
	}

	rows, err := c.db.sqlDB.QueryContext(ctx, qc.Statement)
	if err != nil {
		return nil, ferr.ErrExecFailed(qc.Statement, err)
	}
	defer rows.Close()

	cursor, err := newRowCursor(rows)
	if err != nil {
		return nil, ferr.ErrExecFailed(qc.Statement, err)
	}
	records, err := paging.Slice[access.Record](cursor, page.Window())
	if err != nil {
		return nil, ferr.ErrExecFailed(qc.Statement, err)
	}
	return access.NewPagedResult(cursor.columns, records, page), nil
}

func (c *coreHandler) queryAll(ctx context.Context, query string) ([]string, []access.Record, error) {
	rows, err := c.db.sqlDB.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, ferr.ErrExecFailed(query, err)
	}
	defer rows.Close()

	cursor, err := newRowCursor(rows)
	if err != nil {
		return nil, nil, ferr.ErrExecFailed(query, err)
	}
	records, err := paging.Collect[access.Record](cursor)
	if err != nil {
		return nil, nil, ferr.ErrExecFailed(query, err)
	}
	return cursor.columns, records, nil
}

// stripColumn 去掉分页时附加的列，列名比较忽略大小写
func stripColumn(columns []string, records []access.Record, name string) ([]string, []access.Record) {
	idx := -1
	for i, col := range columns {
		if strings.EqualFold(col, name) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return columns, records
	}

	col := columns[idx]
	res := make([]string, 0, len(columns)-1)
	res = append(res, columns[:idx]...)
	res = append(res, columns[idx+1:]...)
	for _, rec := range records {
		delete(rec, col)
	}
	return res, records
}
