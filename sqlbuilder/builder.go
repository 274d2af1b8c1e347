package sqlbuilder

import (
	"regexp"
	"strings"

	"github.com/fyerfyer/fyer-uquery/ferr"
	"github.com/fyerfyer/fyer-uquery/uquery"
)

// 数据源中出现 select 时视为子查询
var subqueryPattern = regexp.MustCompile(`(?i)\bselect\b`)

// DerivedAlias 子查询作为数据源时使用的别名
const DerivedAlias = "BUILD"

// Builder 根据数据源、列、过滤条件和排序生成一条 SELECT 语句
type Builder struct {
	dialect Dialect
	source  string
	fields  *Fields
	filter  uquery.Predicate
	sort    []uquery.SortField
	topN    int
}

// NewBuilder source 可以是表名，也可以是一条 select 语句
func NewBuilder(source string, dialect Dialect) *Builder {
	return &Builder{
		dialect: dialect,
		source:  strings.TrimSpace(source),
		fields:  NewFields(),
	}
}

// Source 返回数据源，子查询原样返回
func (b *Builder) Source() string {
	return b.source
}

func (b *Builder) Select(names ...string) *Builder {
	b.fields.Add(names...)
	return b
}

func (b *Builder) Fields(f *Fields) *Builder {
	if f == nil {
		f = NewFields()
	}
	b.fields = f
	return b
}

func (b *Builder) Where(p uquery.Predicate) *Builder {
	b.filter = p
	return b
}

func (b *Builder) OrderBy(fields ...uquery.SortField) *Builder {
	b.sort = uquery.NewSortBuilder(fields...).Fields()
	return b
}

// Top n 大于 0 时只取前 n 行
func (b *Builder) Top(n int) *Builder {
	b.topN = n
	return b
}

func (b *Builder) Build() (string, error) {
	if b.dialect == nil {
		return "", ferr.ErrInvalidDialect(nil)
	}
	if b.source == "" {
		return "", ferr.ErrInvalidArgument("source", "source cannot be empty")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(b.fields.String())
	sb.WriteString(" FROM ")
	if subqueryPattern.MatchString(b.source) {
		sb.WriteByte('(')
		sb.WriteString(b.dialect.FixSubquery(b.source))
		sb.WriteString(") ")
		sb.WriteString(DerivedAlias)
	} else {
		sb.WriteString(b.source)
	}

	where, err := Where(b.dialect, b.filter)
	if err != nil {
		return "", err
	}
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}

	if len(b.sort) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(OrderBy(b.sort))
	}

	query := sb.String()
	if b.topN > 0 {
		query = b.dialect.TopN(query, b.topN)
	}
	return query, nil
}

// OrderBy 生成 ORDER BY 后面的部分
func OrderBy(fields []uquery.SortField) string {
	items := make([]string, 0, len(fields))
	for _, f := range fields {
		items = append(items, f.Name+" "+f.Mode.String())
	}
	return strings.Join(items, ", ")
}

// RowNumColumn Oracle 分页时多出的行号列
const RowNumColumn = "RNUM"

// CountSQL 统计语句的总行数
func CountSQL(d Dialect, sql string) string {
	return "SELECT COUNT(1) FROM (" + d.FixSubquery(sql) + ") rc"
}
