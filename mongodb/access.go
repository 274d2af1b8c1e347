package mongodb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fyerfyer/fyer-uquery/access"
	"github.com/fyerfyer/fyer-uquery/ferr"
	"github.com/fyerfyer/fyer-uquery/paging"
	"github.com/fyerfyer/fyer-uquery/uquery"
	"github.com/panjf2000/ants/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Request 一次文档查询，Collections 按顺序合并
type Request struct {
	Collections []string
	Filter      uquery.Predicate
	Sort        []uquery.SortField
	Fields      []string
	FieldMode   ProjectionMode
}

// Access 在 Store 之上执行查询，支持跨多个集合合并分页
type Access struct {
	store       Store
	middlewares []access.Middleware
	concurrency int
	lang        language.Tag
}

type AccessOption func(*Access)

func WithMiddlewares(ms ...access.Middleware) AccessOption {
	return func(a *Access) {
		a.middlewares = append(a.middlewares, ms...)
	}
}

// WithConcurrency 多集合查询时的最大并发数
func WithConcurrency(n int) AccessOption {
	return func(a *Access) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithLanguage 内存排序时字符串比较使用的语言，默认中文（按拼音）
func WithLanguage(tag language.Tag) AccessOption {
	return func(a *Access) {
		a.lang = tag
	}
}

func NewAccess(store Store, opts ...AccessOption) *Access {
	a := &Access{
		store:       store,
		concurrency: 4,
		lang:        language.Chinese,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Use 追加中间件
func (a *Access) Use(ms ...access.Middleware) {
	a.middlewares = append(a.middlewares, ms...)
}

// Execute 返回全部结果
func (a *Access) Execute(ctx context.Context, req Request) (*access.QueryResult, error) {
	return a.execute(ctx, req, nil)
}

// ExecutePage 分页查询，页码从 1 开始
func (a *Access) ExecutePage(ctx context.Context, req Request, pageSize, pageIndex int) (*access.QueryResult, error) {
	return a.execute(ctx, req, func(qc *access.QueryContext) {
		qc.WithPage(pageSize, pageIndex)
	})
}

func (a *Access) execute(ctx context.Context, req Request, page func(qc *access.QueryContext)) (*access.QueryResult, error) {
	q, err := compile(req)
	if err != nil {
		return nil, err
	}
	qc := access.NewQueryContext(access.BackendDocument, strings.Join(req.Collections, ","), q.statement)
	qc.Filter = req.Filter
	qc.Sort = req.Sort
	qc.Projection = q.projectionJSON
	if page != nil {
		page(qc)
	}

	core := access.HandlerFunc(func(ctx context.Context, qc *access.QueryContext) (*access.QueryResult, error) {
		return a.query(ctx, qc, q)
	})
	return access.BuildChain(core, a.middlewares).QueryHandler(ctx, qc)
}

// compiled 编译后的查询，在中间件执行之前完成，编译失败不会访问数据库
type compiled struct {
	collections []string
	filter      bson.D
	sort        bson.D
	projection  bson.D
	mode        ProjectionMode
	columns     []string
	statement   string
	// projectionJSON 投影的 JSON，没有投影时为空
	projectionJSON string
}

func compile(req Request) (*compiled, error) {
	if len(req.Collections) == 0 {
		return nil, ferr.ErrInvalidArgument("collections", "at least one collection is required")
	}
	filter, err := Filter(req.Filter)
	if err != nil {
		return nil, err
	}
	stmt, err := bson.MarshalExtJSON(filter, false, false)
	if err != nil {
		return nil, fmt.Errorf("mongodb: marshal filter: %w", err)
	}

	q := &compiled{
		collections: req.Collections,
		filter:      filter,
		sort:        Sort(req.Sort),
		projection:  Projection(req.FieldMode, req.Fields...),
		mode:        req.FieldMode,
		statement:   string(stmt),
	}
	if len(q.projection) > 0 {
		proj, err := bson.MarshalExtJSON(q.projection, false, false)
		if err != nil {
			return nil, fmt.Errorf("mongodb: marshal projection: %w", err)
		}
		q.projectionJSON = string(proj)
	}
	if req.FieldMode == Display {
		for _, e := range q.projection {
			q.columns = append(q.columns, e.Key)
		}
	}
	return q, nil
}

func (a *Access) query(ctx context.Context, qc *access.QueryContext, q *compiled) (*access.QueryResult, error) {
	collections, err := a.existing(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(collections) == 1 {
		return a.querySingle(ctx, qc, q, collections[0])
	}
	return a.queryMerged(ctx, qc, q, collections)
}

// existing 过滤掉不存在的集合，一个都不存在时返回错误
func (a *Access) existing(ctx context.Context, q *compiled) ([]string, error) {
	res := make([]string, 0, len(q.collections))
	for _, name := range q.collections {
		ok, err := a.store.CollectionExists(ctx, name)
		if err != nil {
			return nil, ferr.ErrExecFailed(q.statement, err)
		}
		if ok {
			res = append(res, name)
		}
	}
	if len(res) == 0 {
		return nil, ferr.ErrExecFailed(q.statement,
			fmt.Errorf("%w: %s", ferr.ErrNoCollection, strings.Join(q.collections, ",")))
	}
	return res, nil
}

// querySingle 单个集合直接在服务端统计和分页
func (a *Access) querySingle(ctx context.Context, qc *access.QueryContext, q *compiled, collection string) (*access.QueryResult, error) {
	opts := FindOptions{Sort: q.sort, Projection: q.projection}
	if !qc.Paged {
		records, err := a.find(ctx, q, collection, opts)
		if err != nil {
			return nil, err
		}
		return access.NewResult(q.columns, records), nil
	}

	count, err := a.store.Count(ctx, collection, q.filter)
	if err != nil {
		return nil, ferr.ErrExecFailed(q.statement, err)
	}
	page := paging.Normalize(qc.PageSize, qc.PageIndex, int(count))
	if count == 0 {
		return access.NewPagedResult(q.columns, nil, page), nil
	}

	w := page.Window()
	opts.Skip = int64(w.Start)
	opts.Limit = int64(w.Len())
	records, err := a.find(ctx, q, collection, opts)
	if err != nil {
		return nil, err
	}
	return access.NewPagedResult(q.columns, records, page), nil
}

// queryMerged 并发读取每个集合，按集合顺序合并后在内存中排序，再截取当前页
func (a *Access) queryMerged(ctx context.Context, qc *access.QueryContext, q *compiled, collections []string) (*access.QueryResult, error) {
	pool, err := ants.NewPool(min(a.concurrency, len(collections)))
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	parts := make([][]access.Record, len(collections))
	errs := make([]error, len(collections))
	projection, extra := q.mergedProjection()
	opts := FindOptions{Projection: projection}

	var wg sync.WaitGroup
	for i, name := range collections {
		wg.Add(1)
		err = pool.Submit(func() {
			defer wg.Done()
			parts[i], errs[i] = a.find(ctx, q, name, opts)
		})
		if err != nil {
			wg.Done()
			errs[i] = ferr.ErrExecFailed(q.statement, err)
		}
	}
	wg.Wait()

	var merged []access.Record
	for i := range collections {
		if errs[i] != nil {
			return nil, errs[i]
		}
		merged = append(merged, parts[i]...)
	}
	sortRecords(merged, q.sortFields(), a.collator())
	for _, r := range merged {
		for _, k := range extra {
			delete(r, k)
		}
	}

	if !qc.Paged {
		return access.NewResult(q.columns, merged), nil
	}
	page := paging.Normalize(qc.PageSize, qc.PageIndex, len(merged))
	if len(merged) == 0 {
		return access.NewPagedResult(q.columns, nil, page), nil
	}
	records, err := paging.Slice(paging.FromSlice(merged), page.Window())
	if err != nil {
		return nil, ferr.ErrExecFailed(q.statement, err)
	}
	return access.NewPagedResult(q.columns, records, page), nil
}

// collator 不能并发使用，每次排序单独创建
func (a *Access) collator() *collate.Collator {
	return collate.New(a.lang)
}

func (a *Access) find(ctx context.Context, q *compiled, collection string, opts FindOptions) ([]access.Record, error) {
	cursor, err := a.store.Find(ctx, collection, q.filter, opts)
	if err != nil {
		return nil, ferr.ErrExecFailed(q.statement, err)
	}
	if c, ok := cursor.(interface{ Close(context.Context) error }); ok {
		defer func() { _ = c.Close(ctx) }()
	}
	records, err := paging.Collect(cursor)
	if err != nil {
		return nil, ferr.ErrExecFailed(q.statement, err)
	}
	return records, nil
}

// mergedProjection 内存排序需要读到排序字段，投影排除掉的排序字段先取回来，排序后由 extra 去掉
func (q *compiled) mergedProjection() (bson.D, []string) {
	if len(q.projection) == 0 || len(q.sort) == 0 {
		return q.projection, nil
	}
	var extra []string
	if q.mode == Hidden {
		sortKeys := make(map[string]struct{}, len(q.sort))
		for _, e := range q.sort {
			sortKeys[e.Key] = struct{}{}
		}
		var proj bson.D
		for _, e := range q.projection {
			if _, ok := sortKeys[e.Key]; ok {
				extra = append(extra, e.Key)
				continue
			}
			proj = append(proj, e)
		}
		return proj, extra
	}

	listed := make(map[string]struct{}, len(q.projection)+len(q.sort))
	for _, e := range q.projection {
		listed[e.Key] = struct{}{}
	}
	proj := append(bson.D{}, q.projection...)
	for _, e := range q.sort {
		if _, ok := listed[e.Key]; ok {
			continue
		}
		listed[e.Key] = struct{}{}
		proj = append(proj, bson.E{Key: e.Key, Value: 1})
		extra = append(extra, e.Key)
	}
	return proj, extra
}

func (q *compiled) sortFields() []uquery.SortField {
	fields := make([]uquery.SortField, 0, len(q.sort))
	for _, e := range q.sort {
		mode := uquery.Asc
		if e.Value == -1 {
			mode = uquery.Desc
		}
		fields = append(fields, uquery.SortField{Name: e.Key, Mode: mode})
	}
	return fields
}

// sortRecords 稳定排序，相等的记录保持集合顺序
func sortRecords(records []access.Record, fields []uquery.SortField, c *collate.Collator) {
	if len(fields) == 0 {
		return
	}
	sort.SliceStable(records, func(i, j int) bool {
		for _, f := range fields {
			res := compareValues(records[i][f.Name], records[j][f.Name], c)
			if f.Mode == uquery.Desc {
				res = -res
			}
			if res != 0 {
				return res < 0
			}
		}
		return false
	})
}

// compareValues nil 最小，数字、时间、布尔按值比较，字符串按语言规则比较
func compareValues(a, b any, c *collate.Collator) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			return compareOrdered(x, y)
		}
	}
	if x, ok := toTime(a); ok {
		if y, ok := toTime(b); ok {
			return x.Compare(y)
		}
	}
	if x, ok := a.(bool); ok {
		if y, ok := b.(bool); ok {
			return compareOrdered(boolInt(x), boolInt(y))
		}
	}
	return c.CompareString(fmt.Sprint(a), fmt.Sprint(b))
}

func compareOrdered[T int | float64](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	}
	return time.Time{}, false
}
