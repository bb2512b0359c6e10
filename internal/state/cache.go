package state

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"hierarchicalmenu/profilefield/internal/domain"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// HandoffCache keeps the flattened leaf catalog of a field so rendering the
// leaf selector does not walk the tree on every request. Get returns nil on
// a miss.
type HandoffCache interface {
	Get(ctx context.Context, fieldID int64) (*domain.LeafCatalog, error)
	Set(ctx context.Context, fieldID int64, catalog domain.LeafCatalog) error
	Invalidate(ctx context.Context, fieldID int64) error
}

type redisHandoffCache struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

func NewRedisHandoffCache(redisClient *redis.Client, ttl time.Duration) HandoffCache {
	return &redisHandoffCache{
		redisClient: redisClient,
		keyPrefix:   "hierarchicalmenu:leaves:",
		ttl:         ttl,
	}
}

func (c *redisHandoffCache) key(fieldID int64) string {
	return c.keyPrefix + strconv.FormatInt(fieldID, 10)
}

func (c *redisHandoffCache) Get(ctx context.Context, fieldID int64) (*domain.LeafCatalog, error) {
	val, err := c.redisClient.Get(ctx, c.key(fieldID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get leaf catalog of field %d: %w", fieldID, err)
	}

	var catalog domain.LeafCatalog
	if err := json.Unmarshal(val, &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode leaf catalog of field %d: %w", fieldID, err)
	}
	return &catalog, nil
}

func (c *redisHandoffCache) Set(ctx context.Context, fieldID int64, catalog domain.LeafCatalog) error {
	val, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("failed to encode leaf catalog of field %d: %w", fieldID, err)
	}
	if err := c.redisClient.Set(ctx, c.key(fieldID), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store leaf catalog of field %d: %w", fieldID, err)
	}
	return nil
}

func (c *redisHandoffCache) Invalidate(ctx context.Context, fieldID int64) error {
	if err := c.redisClient.Del(ctx, c.key(fieldID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate leaf catalog of field %d: %w", fieldID, err)
	}
	return nil
}

type memoryHandoffCache struct {
	mu       sync.RWMutex
	catalogs map[int64]domain.LeafCatalog
}

// NewMemoryHandoffCache is the in-process cache used without redis
func NewMemoryHandoffCache() HandoffCache {
	return &memoryHandoffCache{catalogs: make(map[int64]domain.LeafCatalog)}
}

func (c *memoryHandoffCache) Get(_ context.Context, fieldID int64) (*domain.LeafCatalog, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	catalog, ok := c.catalogs[fieldID]
	if !ok {
		return nil, nil
	}
	return &catalog, nil
}

func (c *memoryHandoffCache) Set(_ context.Context, fieldID int64, catalog domain.LeafCatalog) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.catalogs[fieldID] = catalog
	return nil
}

func (c *memoryHandoffCache) Invalidate(_ context.Context, fieldID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.catalogs, fieldID)
	return nil
}
