package mongodb

import (
	"github.com/fyerfyer/fyer-uquery/ferr"
	"github.com/fyerfyer/fyer-uquery/uquery"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter 把谓词翻译成 MongoDB 过滤文档，九种操作符都支持，nil 返回空文档
func Filter(p uquery.Predicate) (bson.D, error) {
	if p == nil {
		return bson.D{}, nil
	}
	return uquery.Match(p, fieldFilter, relationFilter)
}

func fieldFilter(f *uquery.FieldPredicate) (bson.D, error) {
	value := toBSON(f.Value())
	switch f.Op() {
	case uquery.OpEq:
		return bson.D{{Key: f.Key(), Value: value}}, nil
	case uquery.OpLike:
		// 区分大小写的正则匹配
		return bson.D{{Key: f.Key(), Value: primitive.Regex{Pattern: value.(string)}}}, nil
	case uquery.OpNotEq, uquery.OpGt, uquery.OpGe, uquery.OpLt, uquery.OpLe, uquery.OpIn, uquery.OpNotIn:
		return bson.D{{Key: f.Key(), Value: bson.D{{Key: f.Op().Token(), Value: value}}}}, nil
	}
	return nil, ferr.ErrUnsupported("mongodb", f.Op())
}

func relationFilter(r *uquery.RelationPredicate) (bson.D, error) {
	children := r.Children()
	arr := make(bson.A, 0, len(children))
	for _, c := range children {
		doc, err := uquery.Match(c, fieldFilter, relationFilter)
		if err != nil {
			return nil, err
		}
		arr = append(arr, doc)
	}
	return bson.D{{Key: r.Relation().Token(), Value: arr}}, nil
}

func toBSON(v any) any {
	if vals, ok := v.([]any); ok {
		arr := make(bson.A, 0, len(vals))
		arr = append(arr, vals...)
		return arr
	}
	return v
}

// Sort 升序为 1，降序为 -1
func Sort(fields []uquery.SortField) bson.D {
	if len(fields) == 0 {
		return nil
	}
	doc := make(bson.D, 0, len(fields))
	for _, f := range fields {
		dir := 1
		if f.Mode == uquery.Desc {
			dir = -1
		}
		doc = append(doc, bson.E{Key: f.Name, Value: dir})
	}
	return doc
}

// ProjectionMode 字段列表是要显示的字段还是要隐藏的字段
type ProjectionMode uint8

const (
	Display ProjectionMode = iota
	Hidden
)

// Projection 没有字段时返回 nil，表示返回全部字段
func Projection(mode ProjectionMode, names ...string) bson.D {
	var doc bson.D
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		v := 1
		if mode == Hidden {
			v = 0
		}
		doc = append(doc, bson.E{Key: name, Value: v})
	}
	return doc
}
