package datasource

import (
	"context"
	"strings"

	"github.com/fyerfyer/fyer-uquery/access"
	"github.com/fyerfyer/fyer-uquery/database"
	"github.com/fyerfyer/fyer-uquery/ferr"
	"github.com/fyerfyer/fyer-uquery/mongodb"
)

// Accesser 某一种存储上的数据源访问方式
type Accesser interface {
	Execute(ctx context.Context, q *Query) (*access.QueryResult, error)
	ExecutePage(ctx context.Context, q *Query, pageSize, pageIndex int) (*access.QueryResult, error)
}

// DatabaseAccesser 以数据源的 SQL 为子查询，叠加过滤、排序和显示列
type DatabaseAccesser struct {
	db *database.DB
}

func NewDatabaseAccesser(db *database.DB) *DatabaseAccesser {
	return &DatabaseAccesser{db: db}
}

func (a *DatabaseAccesser) Execute(ctx context.Context, q *Query) (*access.QueryResult, error) {
	sql, err := a.build(q)
	if err != nil {
		return nil, err
	}
	return a.db.Query(ctx, sql)
}

func (a *DatabaseAccesser) ExecutePage(ctx context.Context, q *Query, pageSize, pageIndex int) (*access.QueryResult, error) {
	sql, err := a.build(q)
	if err != nil {
		return nil, err
	}
	return a.db.QueryPage(ctx, sql, pageSize, pageIndex)
}

func (a *DatabaseAccesser) build(q *Query) (string, error) {
	if strings.TrimSpace(q.Source.SQL) == "" {
		return "", ferr.ErrInvalidArgument("sql", "data source "+q.Source.Name+" has no sql")
	}
	sql := FillSQL(a.db.Dialect(), q.Source.SQL, q.Source.Params)
	return a.db.Builder(sql).
		Select(q.Fields...).
		Where(q.filter()).
		OrderBy(q.Sort...).
		Build()
}

// DocumentAccesser 数据存放在按参数值拆分的多个集合中
type DocumentAccesser struct {
	access *mongodb.Access
}

func NewDocumentAccesser(a *mongodb.Access) *DocumentAccesser {
	return &DocumentAccesser{access: a}
}

func (a *DocumentAccesser) Execute(ctx context.Context, q *Query) (*access.QueryResult, error) {
	return a.access.Execute(ctx, a.request(q))
}

func (a *DocumentAccesser) ExecutePage(ctx context.Context, q *Query, pageSize, pageIndex int) (*access.QueryResult, error) {
	return a.access.ExecutePage(ctx, a.request(q), pageSize, pageIndex)
}

func (a *DocumentAccesser) request(q *Query) mongodb.Request {
	return mongodb.Request{
		Collections: CollectionNames(q.Source),
		Filter:      q.filter(),
		Sort:        q.Sort,
		Fields:      q.Fields,
		FieldMode:   mongodb.Display,
	}
}

// Access 带 SQL 的数据源走数据库，否则走文档库
type Access struct {
	database Accesser
	document Accesser
}

// NewAccess 任意一个参数都可以为 nil，访问对应数据源时返回错误
func NewAccess(database, document Accesser) *Access {
	return &Access{database: database, document: document}
}

func (a *Access) Execute(ctx context.Context, src Source, params map[string]string) (*access.QueryResult, error) {
	q, acc, err := a.resolve(src, params)
	if err != nil {
		return nil, err
	}
	return acc.Execute(ctx, q)
}

func (a *Access) ExecutePage(ctx context.Context, src Source, params map[string]string, pageSize, pageIndex int) (*access.QueryResult, error) {
	q, acc, err := a.resolve(src, params)
	if err != nil {
		return nil, err
	}
	return acc.ExecutePage(ctx, q, pageSize, pageIndex)
}

func (a *Access) resolve(src Source, params map[string]string) (*Query, Accesser, error) {
	q, err := Resolve(src, params)
	if err != nil {
		return nil, nil, err
	}
	acc := a.document
	if strings.TrimSpace(src.SQL) != "" {
		acc = a.database
	}
	if acc == nil {
		return nil, nil, ferr.ErrInvalidArgument("source", "no accesser for data source "+src.Name)
	}
	return q, acc, nil
}
