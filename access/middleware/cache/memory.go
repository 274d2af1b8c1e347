package cache

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"time"

	"github.com/fyerfyer/fyer-uquery/access"
	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache 进程内缓存，过期清理交给 go-cache
type MemoryCache struct {
	c *gocache.Cache
}

func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(defaultExpiration, cleanupInterval)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (*access.QueryResult, error) {
	val, ok := m.c.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	return clone(val.(*access.QueryResult)), nil
}

// Set 保存副本，调用方之后修改结果不会影响缓存
func (m *MemoryCache) Set(_ context.Context, key string, res *access.QueryResult, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.c.Set(key, clone(res), ttl)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

// clone 复制到记录一层，记录中的值不复制
func clone(res *access.QueryResult) *access.QueryResult {
	cp := *res
	cp.Columns = slices.Clone(res.Columns)
	cp.Records = make([]access.Record, 0, len(res.Records))
	for _, r := range res.Records {
		cp.Records = append(cp.Records, maps.Clone(r))
	}
	return &cp
}

func decode(data []byte) (*access.QueryResult, error) {
	res := &access.QueryResult{}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, err
	}
	return res, nil
}
