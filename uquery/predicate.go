package uquery

// Predicate 与后端无关的过滤表达式节点
// 只有 *FieldPredicate 和 *RelationPredicate 两种实现，消费方通过 Match 做穷尽分派
type Predicate interface {
	// SerializeToJSON 返回规范化的 JSON 表示
	SerializeToJSON() string
	String() string

	predicate()
}

// FieldPredicate 单个字段的比较条件
type FieldPredicate struct {
	key   string
	op    Op
	value any
}

func (f *FieldPredicate) predicate() {}

func (f *FieldPredicate) Key() string {
	return f.key
}

func (f *FieldPredicate) Op() Op {
	return f.op
}

// Value 返回操作数，In/NotIn 时为 []any，返回的是副本
func (f *FieldPredicate) Value() any {
	if arr, ok := f.value.([]any); ok {
		res := make([]any, len(arr))
		copy(res, arr)
		return res
	}
	return f.value
}

// Values 返回数组操作数，非数组时返回 nil
func (f *FieldPredicate) Values() []any {
	arr, ok := f.value.([]any)
	if !ok {
		return nil
	}
	res := make([]any, len(arr))
	copy(res, arr)
	return res
}

func (f *FieldPredicate) SerializeToJSON() string {
	return serialize(f)
}

func (f *FieldPredicate) String() string {
	return f.SerializeToJSON()
}

// RelationPredicate 多个谓词的 And / Or 组合，至少包含两个子节点
type RelationPredicate struct {
	relation Relation
	children []Predicate
}

func (r *RelationPredicate) predicate() {}

func (r *RelationPredicate) Relation() Relation {
	return r.relation
}

// Children 返回子节点的副本
func (r *RelationPredicate) Children() []Predicate {
	res := make([]Predicate, len(r.children))
	copy(res, r.children)
	return res
}

func (r *RelationPredicate) SerializeToJSON() string {
	return serialize(r)
}

func (r *RelationPredicate) String() string {
	return r.SerializeToJSON()
}

// Match 对谓词做穷尽分派
// 新增谓词种类时需要给 Match 增加分支参数，所有调用方都会在编译期报错
func Match[T any](p Predicate, onField func(*FieldPredicate) (T, error), onRelation func(*RelationPredicate) (T, error)) (T, error) {
	switch v := p.(type) {
	case *FieldPredicate:
		return onField(v)
	case *RelationPredicate:
		return onRelation(v)
	}
	var zero T
	return zero, errUnknownPredicate(p)
}

// Equal 两个谓词的规范 JSON 相同即相等
func Equal(a, b Predicate) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.SerializeToJSON() == b.SerializeToJSON()
}

// Serialize 序列化谓词，nil 表示没有条件，返回空串
func Serialize(p Predicate) string {
	if p == nil {
		return ""
	}
	return p.SerializeToJSON()
}
