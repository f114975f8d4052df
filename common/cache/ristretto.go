package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// LocalCache 进程内缓存，值类型固定，支持 TTL
type LocalCache[V any] struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewLocalCache 创建本地缓存
// maxCost: 最大成本，每个条目成本按 1 计
// ttl: 默认过期时间，0 表示不过期
func NewLocalCache[V any](maxCost int64, ttl time.Duration) (*LocalCache[V], error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxCost * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 ristretto 缓存失败: %w", err)
	}
	return &LocalCache[V]{cache: c, ttl: ttl}, nil
}

// Set 写入后等待缓冲落地，紧接着的 Get 可以读到
func (c *LocalCache[V]) Set(key string, value V) bool {
	ok := c.cache.SetWithTTL(key, value, 1, c.ttl)
	c.cache.Wait()
	return ok
}

func (c *LocalCache[V]) Get(key string) (V, bool) {
	var zero V
	value, ok := c.cache.Get(key)
	if !ok {
		return zero, false
	}
	v, ok := value.(V)
	if !ok {
		return zero, false
	}
	return v, true
}

func (c *LocalCache[V]) Delete(key string) {
	c.cache.Del(key)
}

func (c *LocalCache[V]) Close() {
	c.cache.Close()
}
