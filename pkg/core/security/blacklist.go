package security

import (
	"context"
	"time"

	"github.com/go-redis/cache/v9"
)

// Blacklist 已注销令牌的存储
type Blacklist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	Revoked(ctx context.Context, tokenID string) bool
}

type cacheBlacklist struct {
	cache *cache.Cache
}

// NewCacheBlacklist 基于 go-redis/cache 的黑名单，未配置 Redis 时只在本地生效
func NewCacheBlacklist(c *cache.Cache) Blacklist {
	return &cacheBlacklist{cache: c}
}

func (b *cacheBlacklist) key(tokenID string) string {
	return "hostpatrol:revoked:" + tokenID
}

func (b *cacheBlacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return b.cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   b.key(tokenID),
		Value: true,
		TTL:   ttl,
	})
}

func (b *cacheBlacklist) Revoked(ctx context.Context, tokenID string) bool {
	return b.cache.Exists(ctx, b.key(tokenID))
}
