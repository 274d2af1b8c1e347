package datasource

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fyerfyer/fyer-uquery/sqlbuilder"
	"github.com/fyerfyer/fyer-uquery/uquery"
)

var (
	datePattern    = regexp.MustCompile(`^date'(\d{4}-\d{1,2}-\d{1,2})'$`)
	stringPattern  = regexp.MustCompile(`^'.*'$`)
	decimalPattern = regexp.MustCompile(`^-?([1-9]\d*|0)\.\d*$`)
	integerPattern = regexp.MustCompile(`^(-?[1-9]\d*|0)$`)
)

// Parameter 数据源内部参数
type Parameter struct {
	Name  string
	Value any
}

// ParseValue 解析请求中的参数值
//
//	date'2011-01-30'  本地时间
//	'abc'             字符串
//	1.5               float64
//	123               int64
//	a,b,c             去重后的列表，每一项按上面的规则解析
//
// 其余内容原样作为字符串，空白返回 nil
func ParseValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	items := splitList(s)
	if len(items) > 1 {
		vals := make([]any, 0, len(items))
		for _, item := range items {
			vals = append(vals, ParseValue(item))
		}
		return vals
	}
	if len(items) == 1 {
		s = items[0]
	}

	if m := datePattern.FindStringSubmatch(s); m != nil {
		if t, err := time.ParseInLocation("2006-1-2", m[1], time.Local); err == nil {
			return t
		}
		return s
	}
	switch {
	case stringPattern.MatchString(s) && len(s) >= 2:
		return s[1 : len(s)-1]
	case decimalPattern.MatchString(s):
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case integerPattern.MatchString(s):
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
	}
	return s
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		res = append(res, p)
	}
	return res
}

// CollectionNames 按参数名排序后，用参数值的笛卡尔积展开集合名，例如 NAME_2024-01-31_A
// 没有参数或者是增量数据源时只有数据源名本身
func CollectionNames(src Source) []string {
	params := make([]Parameter, 0, len(src.Params))
	for _, p := range src.Params {
		if p.Value != nil {
			params = append(params, p)
		}
	}
	if len(params) == 0 || src.Incremental {
		return []string{src.Name}
	}
	sort.SliceStable(params, func(i, j int) bool {
		return params[i].Name < params[j].Name
	})

	names := []string{src.Name}
	for _, p := range params {
		vals := listOf(p.Value)
		next := make([]string, 0, len(names)*len(vals))
		for _, n := range names {
			for _, v := range vals {
				next = append(next, n+"_"+nameValue(v))
			}
		}
		names = next
	}
	return names
}

func listOf(v any) []any {
	if vals, ok := v.([]any); ok {
		return vals
	}
	return []any{v}
}

func nameValue(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.Format("2006-01-02")
	}
	return fmt.Sprint(v)
}

// FillSQL 把语句中的 ${NAME} 替换为参数值的 SQL 字面量，列表用逗号连接，值为 nil 的参数保留占位符
func FillSQL(d sqlbuilder.Dialect, sql string, params []Parameter) string {
	for _, p := range params {
		if p.Value == nil {
			continue
		}
		vals := listOf(p.Value)
		literals := make([]string, 0, len(vals))
		for _, v := range vals {
			literals = append(literals, sqlbuilder.Literal(d, v))
		}
		sql = strings.ReplaceAll(sql, "${"+p.Name+"}", strings.Join(literals, ","))
	}
	return sql
}

// paramFilter 增量数据源把参数当作过滤条件，列表参数对应 In
func paramFilter(params []Parameter) uquery.Predicate {
	preds := make([]uquery.Predicate, 0, len(params))
	for _, p := range params {
		switch v := p.Value.(type) {
		case nil:
		case []any:
			preds = append(preds, uquery.In(p.Name, v))
		default:
			preds = append(preds, uquery.Eq(p.Name, v))
		}
	}
	return uquery.And(preds...)
}
