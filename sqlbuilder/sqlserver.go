package sqlbuilder

import (
	"regexp"
	"strconv"
	"time"

	"github.com/fyerfyer/fyer-uquery/uquery"
)

var (
	orderByPattern   = regexp.MustCompile(`(?i)\border\s+by\b`)
	selectTopPattern = regexp.MustCompile(`(?i)^\s*select(\s+distinct)?\s+top\b`)
	selectPattern    = regexp.MustCompile(`(?i)^\s*select(\s+distinct)?\b`)
)

type SQLServer struct {
	BaseDialect
}

func (SQLServer) Kind() Kind {
	return KindSQLServer
}

// FieldRef 与时间比较时把字段转换成 yymmdd 字符串
func (SQLServer) FieldRef(key string, value any) string {
	isTime := uquery.IsTime(value)
	if vals, ok := value.([]any); ok {
		isTime = uquery.AllTime(vals)
	}
	if isTime {
		return "CONVERT(VARCHAR(8),[" + key + "],12)"
	}
	return key
}

func (SQLServer) Like(key string, pattern string) string {
	return "dbo.RegexMatch(" + key + ",'" + pattern + "','true') = 1"
}

func (SQLServer) TimeLiteral(t time.Time) string {
	return "'" + t.Format("20060102") + "'"
}

func (s SQLServer) TopN(sql string, n int) string {
	return "SELECT TOP " + strconv.Itoa(n) + " * FROM (" + s.FixSubquery(sql) + ")"
}

// FixSubquery 带 ORDER BY 的子查询必须同时有 TOP，否则 SQL Server 报错
func (SQLServer) FixSubquery(sql string) string {
	if !orderByPattern.MatchString(sql) || selectTopPattern.MatchString(sql) {
		return sql
	}
	loc := selectPattern.FindStringSubmatchIndex(sql)
	if loc == nil {
		return sql
	}
	head := "SELECT"
	if loc[2] >= 0 {
		head += " DISTINCT"
	}
	return head + " TOP 100 PERCENT" + sql[loc[1]:]
}
