package datasource

import (
	"strings"

	"github.com/fyerfyer/fyer-uquery/ferr"
	"github.com/fyerfyer/fyer-uquery/uquery"
)

// 请求中的保留参数，名称不区分大小写
const (
	ParamFilter        = "FILTER"
	ParamOrder         = "ORDER"
	ParamDisplayFields = "DISPLAYFIELDS"
)

// Source 数据源定义
type Source struct {
	Name string
	// SQL 可以带 ${NAME} 占位符，为空表示数据存放在文档库
	SQL    string
	Params []Parameter
	// Incremental 增量数据源的参数可以不传，传了的作为过滤条件
	Incremental bool
}

// Query 数据源和解析后的请求参数
type Query struct {
	Source Source
	Filter uquery.Predicate
	Sort   []uquery.SortField
	Fields []string
}

// Resolve 解析请求参数并填充数据源的内部参数，不会修改 src
func Resolve(src Source, params map[string]string) (*Query, error) {
	upper := make(map[string]string, len(params))
	for k, v := range params {
		upper[strings.ToUpper(strings.TrimSpace(k))] = v
	}

	q := &Query{Source: src}
	if s := strings.TrimSpace(upper[ParamFilter]); s != "" {
		p, err := uquery.Deserialize(s)
		if err != nil {
			return nil, err
		}
		q.Filter = p
	}
	sortFields, err := uquery.DeserializeSort(upper[ParamOrder])
	if err != nil {
		return nil, err
	}
	q.Sort = sortFields
	if s, ok := upper[ParamDisplayFields]; ok {
		for _, f := range strings.Split(s, ",") {
			if f = strings.TrimSpace(f); f != "" {
				q.Fields = append(q.Fields, f)
			}
		}
	}

	filled := make([]Parameter, 0, len(src.Params))
	for _, p := range src.Params {
		v, ok := upper[strings.ToUpper(p.Name)]
		switch {
		case ok:
			p.Value = ParseValue(v)
		case src.Incremental:
			p.Value = nil
		default:
			return nil, ferr.ErrInvalidArgument(p.Name, "parameter of data source "+src.Name+" is required")
		}
		filled = append(filled, p)
	}
	q.Source.Params = filled
	return q, nil
}

func (q *Query) filter() uquery.Predicate {
	if !q.Source.Incremental {
		return q.Filter
	}
	return uquery.And(paramFilter(q.Source.Params), q.Filter)
}
