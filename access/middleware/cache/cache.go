package cache

import (
	"context"
	"errors"
	"time"

	"github.com/fyerfyer/fyer-uquery/access"
	"github.com/fyerfyer/fyer-uquery/access/internal/cachekey"
	"github.com/fyerfyer/fyer-uquery/uquery"
)

// ErrCacheMiss 缓存中没有对应的键
var ErrCacheMiss = errors.New("cache: miss")

// Cache 查询结果缓存
// MemoryCache 保存结果副本，命中时值的类型不变
// RedisCache 以 JSON 保存，命中时数字变为 float64，时间变为 RFC3339 字符串，需要原类型时用 QueryResult.Decode 映射
type Cache interface {
	// Get 不存在时返回 ErrCacheMiss
	Get(ctx context.Context, key string) (*access.QueryResult, error)
	Set(ctx context.Context, key string, res *access.QueryResult, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Condition 决定查询结果是否可以缓存
type Condition func(qc *access.QueryContext) bool

type MiddlewareBuilder struct {
	cache      Cache
	ttl        time.Duration
	keys       *cachekey.Generator
	conditions []Condition
}

func NewBuilder(c Cache) *MiddlewareBuilder {
	return &MiddlewareBuilder{
		cache: c,
		ttl:   5 * time.Minute,
		keys:  cachekey.New("uquery"),
	}
}

func (b *MiddlewareBuilder) TTL(ttl time.Duration) *MiddlewareBuilder {
	b.ttl = ttl
	return b
}

func (b *MiddlewareBuilder) Prefix(prefix string) *MiddlewareBuilder {
	b.keys = cachekey.New(prefix)
	return b
}

// When 所有条件都满足时才走缓存
func (b *MiddlewareBuilder) When(conds ...Condition) *MiddlewareBuilder {
	b.conditions = append(b.conditions, conds...)
	return b
}

func (b *MiddlewareBuilder) Build() access.Middleware {
	return func(next access.Handler) access.Handler {
		return access.HandlerFunc(func(ctx context.Context, qc *access.QueryContext) (*access.QueryResult, error) {
			if !b.shouldCache(qc) {
				return next.QueryHandler(ctx, qc)
			}

			key := b.key(qc)
			if res, err := b.cache.Get(ctx, key); err == nil {
				return res, nil
			}

			res, err := next.QueryHandler(ctx, qc)
			if err != nil {
				return res, err
			}
			// 写缓存失败不影响查询结果
			_ = b.cache.Set(ctx, key, res, b.ttl)
			return res, nil
		})
	}
}

func (b *MiddlewareBuilder) shouldCache(qc *access.QueryContext) bool {
	if b.cache == nil {
		return false
	}
	for _, cond := range b.conditions {
		if !cond(qc) {
			return false
		}
	}
	return true
}

// key 文档和检索后端的 Statement 只有过滤条件，排序和返回字段也要参与
func (b *MiddlewareBuilder) key(qc *access.QueryContext) string {
	stmt := qc.Statement
	if len(qc.Sort) > 0 {
		stmt += "\nsort:" + uquery.NewSortBuilder(qc.Sort...).SerializeToJSON()
	}
	if qc.Projection != "" {
		stmt += "\nfields:" + qc.Projection
	}
	if qc.Paged {
		return b.keys.Generate(string(qc.Backend), qc.Source, stmt, qc.PageSize, qc.PageIndex)
	}
	return b.keys.Generate(string(qc.Backend), qc.Source, stmt, 0, 0)
}
