package datasource

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/fyerfyer/fyer-uquery/access"
	"github.com/fyerfyer/fyer-uquery/ferr"
	"github.com/fyerfyer/fyer-uquery/mongodb"
	"github.com/fyerfyer/fyer-uquery/paging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// DefaultIndexCollection 指标值所在的集合
	DefaultIndexCollection = "INDEX"

	indexKeyField   = "Key"
	indexValueField = "Value"
)

var looseDatePattern = regexp.MustCompile(`\d{4}-\d{1,2}-\d{1,2}`)

// Indicator 指标定义，Params 为参数名
type Indicator struct {
	ID     int64
	Name   string
	Params []string
}

// FormatIndexValue 把参数值格式化成指标键的一段
// 含有日期的值取日期部分，格式化为当天零点；'abc' 去掉引号；其余原样
func FormatIndexValue(s string) string {
	if m := looseDatePattern.FindString(s); m != "" {
		if t, err := time.ParseInLocation("2006-1-2", m, time.Local); err == nil {
			return t.Format("2006-01-02 15:04:05")
		}
	}
	if stringPattern.MatchString(s) && len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

// IndexKey 生成指标值的键：ID_v1_v2...，参数按名称排序，名称不区分大小写
func IndexKey(ind Indicator, params map[string]string) (string, error) {
	upper := make(map[string]string, len(params))
	for k, v := range params {
		upper[strings.ToUpper(strings.TrimSpace(k))] = v
	}

	names := append([]string(nil), ind.Params...)
	sort.Strings(names)

	items := make([]string, 0, len(names)+1)
	items = append(items, fmt.Sprint(ind.ID))
	for _, name := range names {
		v, ok := upper[strings.ToUpper(name)]
		if !ok {
			return "", ferr.ErrInvalidArgument(name, fmt.Sprintf("indicator %s requires parameter %s", ind.Name, name))
		}
		items = append(items, FormatIndexValue(strings.TrimSpace(v)))
	}
	return strings.Join(items, "_"), nil
}

// IndexAccess 按键读取预先计算好的指标值
type IndexAccess struct {
	store      mongodb.Store
	collection string
}

func NewIndexAccess(store mongodb.Store, collection string) *IndexAccess {
	if collection == "" {
		collection = DefaultIndexCollection
	}
	return &IndexAccess{store: store, collection: collection}
}

// Value 读取一个指标值，没有记录时返回 nil
func (a *IndexAccess) Value(ctx context.Context, ind Indicator, params map[string]string) (any, error) {
	key, err := IndexKey(ind, params)
	if err != nil {
		return nil, err
	}
	filter := bson.D{{Key: indexKeyField, Value: key}}
	records, err := a.find(ctx, filter, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return indexValue(records[0][indexValueField]), nil
}

// Values 批量读取，返回键到值，不存在的键不出现在结果中
func (a *IndexAccess) Values(ctx context.Context, keys ...string) (map[string]any, error) {
	res := make(map[string]any, len(keys))
	if len(keys) == 0 {
		return res, nil
	}
	in := make(bson.A, 0, len(keys))
	for _, k := range keys {
		in = append(in, k)
	}
	filter := bson.D{{Key: indexKeyField, Value: bson.D{{Key: "$in", Value: in}}}}
	records, err := a.find(ctx, filter, 0)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		key, ok := r[indexKeyField].(string)
		if !ok {
			continue
		}
		res[key] = indexValue(r[indexValueField])
	}
	return res, nil
}

func (a *IndexAccess) find(ctx context.Context, filter bson.D, limit int64) ([]access.Record, error) {
	stmt, err := bson.MarshalExtJSON(filter, false, false)
	if err != nil {
		return nil, fmt.Errorf("datasource: marshal index filter: %w", err)
	}
	ok, err := a.store.CollectionExists(ctx, a.collection)
	if err != nil {
		return nil, ferr.ErrExecFailed(string(stmt), err)
	}
	if !ok {
		return nil, ferr.ErrExecFailed(string(stmt), fmt.Errorf("%w: %s", ferr.ErrNoCollection, a.collection))
	}

	cursor, err := a.store.Find(ctx, a.collection, filter, mongodb.FindOptions{
		Limit:      limit,
		Projection: bson.D{{Key: indexKeyField, Value: 1}, {Key: indexValueField, Value: 1}},
	})
	if err != nil {
		return nil, ferr.ErrExecFailed(string(stmt), err)
	}
	if c, ok := cursor.(interface{ Close(context.Context) error }); ok {
		defer func() { _ = c.Close(ctx) }()
	}
	records, err := paging.Collect(cursor)
	if err != nil {
		return nil, ferr.ErrExecFailed(string(stmt), err)
	}
	return records, nil
}

// indexValue 时间转成本地时间，文档和数组保持解码后的值
func indexValue(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().Local()
	case primitive.Null:
		return nil
	}
	return v
}
