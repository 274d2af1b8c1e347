package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fyerfyer/fyer-uquery/access"
	"github.com/fyerfyer/fyer-uquery/ferr"
	"github.com/fyerfyer/fyer-uquery/paging"
	"github.com/fyerfyer/fyer-uquery/uquery"
	"github.com/olivere/elastic/v7"
)

// Request 一次分页检索，Ranges 由 Between 生成，与 Filter 同时满足
type Request struct {
	Index  string
	Filter uquery.Predicate
	Ranges []elastic.Query
	Sort   []uquery.SortField
	Fields []string
}

type Access struct {
	searcher    Searcher
	compiler    *Compiler
	middlewares []access.Middleware
}

type AccessOption func(a *Access)

func WithCompiler(c *Compiler) AccessOption {
	return func(a *Access) {
		a.compiler = c
	}
}

func WithMiddlewares(ms ...access.Middleware) AccessOption {
	return func(a *Access) {
		a.middlewares = append(a.middlewares, ms...)
	}
}

func NewAccess(searcher Searcher, opts ...AccessOption) *Access {
	a := &Access{
		searcher: searcher,
		compiler: NewCompiler(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Access) Use(ms ...access.Middleware) {
	a.middlewares = append(a.middlewares, ms...)
}

// ExecutePage 先统计命中数，再按分页窗口检索
func (a *Access) ExecutePage(ctx context.Context, req Request, pageSize, pageIndex int) (*access.QueryResult, error) {
	if req.Index == "" {
		return nil, ferr.ErrInvalidArgument("index", "index name is empty")
	}
	query, err := a.query(req)
	if err != nil {
		return nil, err
	}
	src, err := query.Source()
	if err != nil {
		return nil, err
	}
	stmt, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("search: marshal query: %w", err)
	}

	qc := access.NewQueryContext(access.BackendSearch, req.Index, string(stmt)).WithPage(pageSize, pageIndex)
	qc.Filter = req.Filter
	qc.Sort = req.Sort
	qc.Projection = strings.Join(req.Fields, ",")

	core := access.HandlerFunc(func(ctx context.Context, qc *access.QueryContext) (*access.QueryResult, error) {
		count, err := a.searcher.Count(ctx, req.Index, query)
		if err != nil {
			return nil, ferr.ErrExecFailed(qc.Statement, err)
		}
		page := paging.Normalize(qc.PageSize, qc.PageIndex, int(count))
		if count == 0 {
			return access.NewPagedResult(req.Fields, nil, page), nil
		}
		w := page.Window()
		records, err := a.searcher.Search(ctx, SearchRequest{
			Index:  req.Index,
			Query:  query,
			From:   w.Start,
			Size:   w.Len(),
			Sort:   req.Sort,
			Fields: req.Fields,
		})
		if err != nil {
			return nil, ferr.ErrExecFailed(qc.Statement, err)
		}
		return access.NewPagedResult(req.Fields, records, page), nil
	})
	return access.BuildChain(core, a.middlewares).QueryHandler(ctx, qc)
}

func (a *Access) query(req Request) (elastic.Query, error) {
	if len(req.Ranges) == 0 {
		return a.compiler.Compile(req.Filter)
	}
	must := make([]elastic.Query, 0, len(req.Ranges)+1)
	if req.Filter != nil {
		q, err := a.compiler.Compile(req.Filter)
		if err != nil {
			return nil, err
		}
		must = append(must, q)
	}
	must = append(must, req.Ranges...)
	return elastic.NewBoolQuery().Must(must...), nil
}
