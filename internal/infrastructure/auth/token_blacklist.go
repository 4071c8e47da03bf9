package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist records logged-out tokens by jti until they would have
// expired anyway.
type TokenBlacklist interface {
	// AddToBlacklist revokes jti for ttl. A non-positive ttl is a no-op.
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

const blacklistKeyPrefix = "pokedex:token:blacklist:"

// RedisTokenBlacklist keeps one expiring key per revoked jti, so revocations
// are shared by every server instance.
type RedisTokenBlacklist struct {
	client redis.UniversalClient
}

func NewRedisTokenBlacklist(client redis.UniversalClient) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

func (b *RedisTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.SetEx(ctx, blacklistKeyPrefix+jti, "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token %s: %w", jti, err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("look up revoked token %s: %w", jti, err)
	}
	return n == 1, nil
}

// InMemoryTokenBlacklist serves single-instance deployments without Redis.
// Expired entries are dropped on the next write.
type InMemoryTokenBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{revoked: map[string]time.Time{}, now: time.Now}
}

func (b *InMemoryTokenBlacklist) AddToBlacklist(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	for id, until := range b.revoked {
		if !now.Before(until) {
			delete(b.revoked, id)
		}
	}
	b.revoked[jti] = now.Add(ttl)
	return nil
}

func (b *InMemoryTokenBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	until, ok := b.revoked[jti]
	if ok && !b.now().Before(until) {
		delete(b.revoked, jti)
		ok = false
	}
	return ok, nil
}

// Len counts tracked jtis, including expired ones not yet dropped
func (b *InMemoryTokenBlacklist) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.revoked)
}

var (
	_ TokenBlacklist = (*RedisTokenBlacklist)(nil)
	_ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
)
