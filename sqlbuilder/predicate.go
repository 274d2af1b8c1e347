package sqlbuilder

import (
	"strconv"
	"strings"
	"time"

	"github.com/fyerfyer/fyer-uquery/ferr"
	"github.com/fyerfyer/fyer-uquery/uquery"
)

var opTokens = map[uquery.Op]string{
	uquery.OpEq:    "=",
	uquery.OpNotEq: "<>",
	uquery.OpGt:    ">",
	uquery.OpGe:    ">=",
	uquery.OpLt:    "<",
	uquery.OpLe:    "<=",
	uquery.OpIn:    "IN",
	uquery.OpNotIn: "NOT IN",
}

// Where 把谓词翻译成 WHERE 后面的条件，nil 返回空串
func Where(d Dialect, p uquery.Predicate) (string, error) {
	if d == nil {
		return "", ferr.ErrInvalidDialect(nil)
	}
	if p == nil {
		return "", nil
	}
	var sb strings.Builder
	if err := buildPredicate(&sb, d, p); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func buildPredicate(sb *strings.Builder, d Dialect, p uquery.Predicate) error {
	_, err := uquery.Match(p,
		func(f *uquery.FieldPredicate) (struct{}, error) {
			return struct{}{}, buildField(sb, d, f)
		},
		func(r *uquery.RelationPredicate) (struct{}, error) {
			return struct{}{}, buildRelation(sb, d, r)
		})
	return err
}

// buildRelation Or 需要加括号，And 不加
func buildRelation(sb *strings.Builder, d Dialect, r *uquery.RelationPredicate) error {
	sep := " AND "
	if r.Relation() == uquery.RelOr {
		sep = " OR "
		sb.WriteByte('(')
	}
	for i, c := range r.Children() {
		if i > 0 {
			sb.WriteString(sep)
		}
		if err := buildPredicate(sb, d, c); err != nil {
			return err
		}
	}
	if r.Relation() == uquery.RelOr {
		sb.WriteByte(')')
	}
	return nil
}

func buildField(sb *strings.Builder, d Dialect, f *uquery.FieldPredicate) error {
	value := f.Value()
	if f.Op() == uquery.OpLike {
		sb.WriteString(d.Like(f.Key(), escape(value.(string))))
		return nil
	}

	token, ok := opTokens[f.Op()]
	if !ok {
		return ferr.ErrUnsupported(d.Kind().String(), f.Op())
	}
	if f.Op().IsArray() && len(f.Values()) == 0 {
		return ferr.ErrInvalidArgument(f.Key(), f.Op().String()+" with empty array cannot be expressed in SQL")
	}
	if value == nil {
		switch f.Op() {
		case uquery.OpEq:
			token = "IS"
		case uquery.OpNotEq:
			token = "NOT IS"
		}
	}

	sb.WriteString(d.FieldRef(f.Key(), value))
	sb.WriteByte(' ')
	sb.WriteString(token)
	sb.WriteByte(' ')
	sb.WriteString(formatValue(d, value))
	return nil
}

// Literal 把单个值格式化为当前方言的 SQL 字面量，数组带括号
func Literal(d Dialect, value any) string {
	return formatValue(d, value)
}

func formatValue(d Dialect, value any) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, formatValue(d, item))
		}
		return "(" + strings.Join(items, ",") + ")"
	case time.Time:
		return d.TimeLiteral(v)
	case string:
		return "'" + escape(v) + "'"
	case bool:
		if v {
			return "1"
		}
		return "0"
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
