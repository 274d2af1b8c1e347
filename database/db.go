package database

import (
	"context"
	"database/sql"

	"github.com/fyerfyer/fyer-uquery/access"
	"github.com/fyerfyer/fyer-uquery/ferr"
	"github.com/fyerfyer/fyer-uquery/sqlbuilder"
)

// DB 在 *sql.DB 上执行 sqlbuilder 生成的语句
type DB struct {
	sqlDB       *sql.DB
	dialect     sqlbuilder.Dialect
	handler     access.Handler
	middlewares []access.Middleware
}

// DBOption 定义配置项
type DBOption func(*DB) error

// DBWithMiddlewares 按顺序注册中间件
func DBWithMiddlewares(ms ...access.Middleware) DBOption {
	return func(db *DB) error {
		db.middlewares = append(db.middlewares, ms...)
		return nil
	}
}

// DBWithDialect 直接指定方言，覆盖 Open 时传入的名称
func DBWithDialect(d sqlbuilder.Dialect) DBOption {
	return func(db *DB) error {
		if d == nil {
			return ferr.ErrInvalidDialect(nil)
		}
		db.dialect = d
		return nil
	}
}

// Open 使用已有数据库创建 DB
func Open(db *sql.DB, dialectName string, opts ...DBOption) (*DB, error) {
	dialect, err := sqlbuilder.ParseDialect(dialectName)
	if err != nil {
		return nil, err
	}

	d := &DB{
		sqlDB:   db,
		dialect: dialect,
	}
	d.handler = &coreHandler{db: d}

	for _, opt := range opts {
		if err = opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// OpenDB 使用驱动名和 dsn 创建 DB，驱动需要调用方导入
func OpenDB(driver, dsn string, dialectName string, opts ...DBOption) (*DB, error) {
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	return Open(sqlDB, dialectName, opts...)
}

func (db *DB) Close() error {
	return db.sqlDB.Close()
}

func (db *DB) Dialect() sqlbuilder.Dialect {
	return db.dialect
}

// Use 追加中间件
func (db *DB) Use(ms ...access.Middleware) {
	db.middlewares = append(db.middlewares, ms...)
}

// Builder 使用当前方言创建语句构造器
func (db *DB) Builder(source string) *sqlbuilder.Builder {
	return sqlbuilder.NewBuilder(source, db.dialect)
}

// Query 执行语句并返回全部结果
func (db *DB) Query(ctx context.Context, query string) (*access.QueryResult, error) {
	return db.execute(ctx, access.NewQueryContext(access.BackendSQL, "", query))
}

// QueryPage 先统计总数，再按方言在服务端分页；方言不支持时读取结果流并在客户端截取
func (db *DB) QueryPage(ctx context.Context, query string, pageSize, pageIndex int) (*access.QueryResult, error) {
	qc := access.NewQueryContext(access.BackendSQL, "", query).WithPage(pageSize, pageIndex)
	return db.execute(ctx, qc)
}

// Select 构造并执行语句，pageSize 和 pageIndex 都为 0 时不分页
func (db *DB) Select(ctx context.Context, b *sqlbuilder.Builder, pageSize, pageIndex int) (*access.QueryResult, error) {
	query, err := b.Build()
	if err != nil {
		return nil, err
	}
	qc := access.NewQueryContext(access.BackendSQL, b.Source(), query)
	if pageSize != 0 || pageIndex != 0 {
		qc.WithPage(pageSize, pageIndex)
	}
	return db.execute(ctx, qc)
}

func (db *DB) execute(ctx context.Context, qc *access.QueryContext) (*access.QueryResult, error) {
	return access.BuildChain(db.handler, db.middlewares).QueryHandler(ctx, qc)
}
