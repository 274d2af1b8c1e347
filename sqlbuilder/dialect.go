package sqlbuilder

import (
	"strconv"
	"strings"
	"time"

	"github.com/fyerfyer/fyer-uquery/ferr"
	"github.com/fyerfyer/fyer-uquery/paging"
)

// Kind 数据库类型
type Kind uint8

const (
	KindOracle Kind = iota + 1
	KindSQLServer
	KindMySQL
)

func (k Kind) String() string {
	switch k {
	case KindOracle:
		return "oracle"
	case KindSQLServer:
		return "sqlserver"
	case KindMySQL:
		return "mysql"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Dialect 各数据库在过滤、时间字面量和分页上的差异
type Dialect interface {
	Kind() Kind

	// FieldRef 比较表达式的左操作数，value 为右侧的值
	FieldRef(key string, value any) string

	// Like 模糊匹配表达式，pattern 已经转义
	Like(key string, pattern string) string

	// TimeLiteral 时间字面量
	TimeLiteral(t time.Time) string

	// TopN 只取前 n 行
	TopN(sql string, n int) string

	// FixSubquery 让语句可以作为子查询使用
	FixSubquery(sql string) string

	// PageSQL 生成服务端分页语句，不支持时返回 false，由调用方在客户端截取
	PageSQL(sql string, w paging.Window) (string, bool)
}

// BaseDialect 提供默认实现，可被具体方言覆盖
type BaseDialect struct{}

func (BaseDialect) FieldRef(key string, _ any) string {
	return key
}

// Like 默认只做子串匹配，不是真正的正则
func (BaseDialect) Like(key string, pattern string) string {
	return key + " LIKE '%" + pattern + "%'"
}

func (BaseDialect) TimeLiteral(t time.Time) string {
	return "'" + t.Format("2006-01-02 15:04:05") + "'"
}

func (BaseDialect) TopN(sql string, n int) string {
	return "SELECT * FROM (" + sql + ") LIMIT " + strconv.Itoa(n)
}

func (BaseDialect) FixSubquery(sql string) string {
	return sql
}

func (BaseDialect) PageSQL(string, paging.Window) (string, bool) {
	return "", false
}

var (
	oracle    = Oracle{}
	sqlServer = SQLServer{}
	mysql     = MySQL{}
)

// DialectOf 根据类型返回方言，方言本身没有状态，可以并发使用
func DialectOf(kind Kind) (Dialect, error) {
	switch kind {
	case KindOracle:
		return oracle, nil
	case KindSQLServer:
		return sqlServer, nil
	case KindMySQL:
		return mysql, nil
	}
	return nil, ferr.ErrInvalidDialect(kind)
}

// ParseDialect 根据名称返回方言，忽略大小写
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "oracle":
		return oracle, nil
	case "sqlserver", "mssql":
		return sqlServer, nil
	case "mysql":
		return mysql, nil
	}
	return nil, ferr.ErrInvalidDialect(name)
}
