package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/fyerfyer/fyer-uquery/ferr"
	"github.com/fyerfyer/fyer-uquery/uquery"
	"github.com/olivere/elastic/v7"
)

const backendName = "elasticsearch"

// DefaultAnalyzer 模糊匹配默认使用的中文分词器
const DefaultAnalyzer = "ik_smart"

type Compiler struct {
	analyzer string
}

type Option func(c *Compiler)

// WithAnalyzer 指定 Like 使用的分词器
func WithAnalyzer(analyzer string) Option {
	return func(c *Compiler) {
		c.analyzer = analyzer
	}
}

func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{analyzer: DefaultAnalyzer}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile 把谓词翻译成查询 DSL，遇到不支持的操作符时整体失败
// 范围比较不通过谓词表达，使用 Between
func (c *Compiler) Compile(p uquery.Predicate) (elastic.Query, error) {
	if p == nil {
		return elastic.NewMatchAllQuery(), nil
	}
	return uquery.Match(p, c.field, c.relation)
}

func (c *Compiler) field(f *uquery.FieldPredicate) (elastic.Query, error) {
	// term 查询不接受 null
	if (f.Op() == uquery.OpEq || f.Op() == uquery.OpNotEq) && f.Value() == nil {
		return nil, ferr.ErrInvalidArgument(f.Key(), "term value is null")
	}
	switch f.Op() {
	case uquery.OpEq:
		return elastic.NewTermQuery(f.Key(), termValue(f.Value())), nil
	case uquery.OpNotEq:
		return elastic.NewBoolQuery().MustNot(elastic.NewTermQuery(f.Key(), termValue(f.Value()))), nil
	case uquery.OpLike:
		q := elastic.NewMatchQuery(f.Key(), f.Value()).Operator("and")
		if c.analyzer != "" {
			q = q.Analyzer(c.analyzer)
		}
		return q, nil
	case uquery.OpIn:
		// 值不做转义，含有查询语法字符的值需要调用方自行处理
		vals := f.Values()
		terms := make([]string, 0, len(vals))
		for _, v := range vals {
			terms = append(terms, fmt.Sprint(termValue(v)))
		}
		return elastic.NewQueryStringQuery(strings.Join(terms, " OR ")).DefaultField(f.Key()), nil
	}
	return nil, ferr.ErrUnsupported(backendName, f.Op())
}

func (c *Compiler) relation(r *uquery.RelationPredicate) (elastic.Query, error) {
	children := r.Children()
	queries := make([]elastic.Query, 0, len(children))
	for _, child := range children {
		q, err := uquery.Match(child, c.field, c.relation)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	if r.Relation() == uquery.RelOr {
		return elastic.NewBoolQuery().Should(queries...), nil
	}
	return elastic.NewBoolQuery().Must(queries...), nil
}

func termValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.Format(uquery.TimeLayout)
	}
	return v
}

// Between 闭区间范围查询，from 必须小于 to
func Between(field string, from, to any) (elastic.Query, error) {
	if strings.TrimSpace(field) == "" {
		return nil, ferr.ErrInvalidArgument("field", "field name is empty")
	}
	cmp, ok := compare(from, to)
	if !ok {
		return nil, ferr.ErrInvalidArgument(field,
			fmt.Sprintf("cannot compare %T with %T", from, to))
	}
	if cmp >= 0 {
		return nil, ferr.ErrInvalidArgument(field,
			fmt.Sprintf("lower bound %v must be less than upper bound %v", from, to))
	}
	return elastic.NewRangeQuery(field).Gte(termValue(from)).Lte(termValue(to)), nil
}

func compare(a, b any) (int, bool) {
	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			switch {
			case x < y:
				return -1, true
			case x > y:
				return 1, true
			}
			return 0, true
		}
		return 0, false
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), true
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y), true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
