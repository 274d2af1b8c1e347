package uquery

import (
	"fmt"
	"strings"

	"github.com/fyerfyer/fyer-uquery/ferr"
)

// NewField 创建字段谓词，值不合法时返回 ArgumentError
func NewField(key string, op Op, value any) (Predicate, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ferr.ErrInvalidArgument("key", "field key cannot be empty")
	}
	if op > OpLike {
		return nil, ferr.ErrInvalidArgument(key, "unknown operator "+op.String())
	}
	v, err := normalizeValue(key, op, value)
	if err != nil {
		return nil, err
	}
	return &FieldPredicate{key: key, op: op, value: v}, nil
}

func mustField(key string, op Op, value any) Predicate {
	p, err := NewField(key, op, value)
	if err != nil {
		panic(err)
	}
	return p
}

func Eq(key string, value any) Predicate {
	return mustField(key, OpEq, value)
}

func NotEq(key string, value any) Predicate {
	return mustField(key, OpNotEq, value)
}

func Gt(key string, value any) Predicate {
	return mustField(key, OpGt, value)
}

func Ge(key string, value any) Predicate {
	return mustField(key, OpGe, value)
}

func Lt(key string, value any) Predicate {
	return mustField(key, OpLt, value)
}

func Le(key string, value any) Predicate {
	return mustField(key, OpLe, value)
}

// In values 可以是任意标量切片或数组
func In(key string, values any) Predicate {
	return mustField(key, OpIn, values)
}

func NotIn(key string, values any) Predicate {
	return mustField(key, OpNotIn, values)
}

// Like value 为字符串或 *regexp.Regexp
func Like(key string, value any) Predicate {
	return mustField(key, OpLike, value)
}

// Between 等价于 And(Ge(key, from), Le(key, to))
func Between(key string, from, to any) Predicate {
	return And(Ge(key, from), Le(key, to))
}

// And 组合多个条件，nil 会被忽略，同类嵌套会被展开，重复条件会被去掉
// 有效条件少于两个时直接返回该条件或 nil
func And(preds ...Predicate) Predicate {
	return newRelation(RelAnd, preds)
}

// Or 规则同 And
func Or(preds ...Predicate) Predicate {
	return newRelation(RelOr, preds)
}

func newRelation(rel Relation, preds []Predicate) Predicate {
	children := make([]Predicate, 0, len(preds))
	seen := make(map[string]struct{}, len(preds))
	add := func(p Predicate) {
		key := p.SerializeToJSON()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		children = append(children, p)
	}

	for _, p := range preds {
		if p == nil {
			continue
		}
		// 同类关系直接展开，不同类保持嵌套
		if r, ok := p.(*RelationPredicate); ok && r.relation == rel {
			for _, c := range r.children {
				add(c)
			}
			continue
		}
		add(p)
	}

	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	}
	return &RelationPredicate{relation: rel, children: children}
}

func errUnknownPredicate(p Predicate) error {
	return ferr.ErrInvalidArgument("predicate", fmt.Sprintf("unknown predicate type %T", p))
}
