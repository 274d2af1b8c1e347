package uquery

import "strconv"

// Op 字段谓词的比较操作符
type Op uint8

const (
	OpEq Op = iota
	OpNotEq
	OpGt
	OpGe
	OpLt
	OpLe
	OpIn
	OpNotIn
	OpLike
)

var opNames = [...]string{
	OpEq:    "Eq",
	OpNotEq: "NotEq",
	OpGt:    "Gt",
	OpGe:    "Ge",
	OpLt:    "Lt",
	OpLe:    "Le",
	OpIn:    "In",
	OpNotIn: "NotIn",
	OpLike:  "Like",
}

// opTokens 操作符在 JSON 中的属性名，Eq 直接写值所以没有 token
var opTokens = [...]string{
	OpEq:    "",
	OpNotEq: "$ne",
	OpGt:    "$gt",
	OpGe:    "$gte",
	OpLt:    "$lt",
	OpLe:    "$lte",
	OpIn:    "$in",
	OpNotIn: "$nin",
	OpLike:  "$lk",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "Op(" + strconv.Itoa(int(o)) + ")"
}

// Token 返回操作符的 JSON 属性名
func (o Op) Token() string {
	if int(o) < len(opTokens) {
		return opTokens[o]
	}
	return ""
}

// IsArray 操作数是否必须为数组
func (o Op) IsArray() bool {
	return o == OpIn || o == OpNotIn
}

// OpOfToken 根据 JSON 属性名查找操作符
func OpOfToken(token string) (Op, bool) {
	if token == "" {
		return 0, false
	}
	for i, t := range opTokens {
		if t == token {
			return Op(i), true
		}
	}
	return 0, false
}

// Relation 关系谓词的连接方式
type Relation uint8

const (
	RelAnd Relation = iota
	RelOr
)

func (r Relation) String() string {
	if r == RelOr {
		return "Or"
	}
	return "And"
}

// Token 返回关系在 JSON 中的属性名
func (r Relation) Token() string {
	if r == RelOr {
		return "$or"
	}
	return "$and"
}

func relationOfToken(token string) (Relation, bool) {
	switch token {
	case "$and":
		return RelAnd, true
	case "$or":
		return RelOr, true
	}
	return 0, false
}
