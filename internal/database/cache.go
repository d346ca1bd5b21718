package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	cachePoolMaxOpen  = 16
	cachePoolMaxIdle  = 8
	cachePoolTimeout  = 1 * time.Second
	cachePoolIdleLife = 60 * time.Second
)

// ConnectRedis opens the shared redis client and verifies it with a ping.
func ConnectRedis(ctx context.Context, host string, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            host,
		PoolSize:        cachePoolMaxOpen,
		MaxIdleConns:    cachePoolMaxIdle,
		PoolTimeout:     cachePoolTimeout,
		ConnMaxIdleTime: cachePoolIdleLife,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	logger.Sugar().Info("Connected to redis successfully")
	return rdb, nil
}

// Cache is a typed read-through/write-through cache over one resource.
// Entries live under "{resource}:{keyLower}" as JSON. Reads fall back to the
// document store by _id or nameLower but deliberately do not backfill the
// cache; only writers populate it, so a stale read can never clobber a newer
// cached value.
type Cache[T any] struct {
	rdb      *redis.Client
	db       *Database
	coll     *mongo.Collection
	resource string
	idOf     func(*T) string
}

func NewCache[T any](rdb *redis.Client, db *Database, coll *mongo.Collection, resource string, idOf func(*T) string) *Cache[T] {
	return &Cache[T]{rdb: rdb, db: db, coll: coll, resource: resource, idOf: idOf}
}

func (c *Cache[T]) key(key string) string {
	return c.resource + ":" + strings.ToLower(key)
}

// Query reads the cache only, skipping the document store.
func (c *Cache[T]) Query(ctx context.Context, key string) (*T, bool) {
	raw, err := c.rdb.Get(ctx, c.key(key)).Result()
	if err != nil {
		return nil, false
	}
	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, false
	}
	return &value, true
}

// Get resolves key through the cache, then the document store.
func (c *Cache[T]) Get(ctx context.Context, key string) (*T, bool) {
	if value, ok := c.Query(ctx, key); ok {
		return value, true
	}
	return FindByIDOrName[T](ctx, c.coll, key)
}

// Set writes the cache entry and, when persist is set, upserts the document
// first. The cache entry may therefore outlive the database row by one write
// cycle.
func (c *Cache[T]) Set(ctx context.Context, key string, value *T, persist bool) error {
	return c.SetWithExpiry(ctx, key, value, persist, 0)
}

func (c *Cache[T]) SetWithExpiry(ctx context.Context, key string, value *T, persist bool, expiry time.Duration) error {
	if persist {
		if err := c.db.Save(ctx, c.coll, c.idOf(value), value); err != nil {
			return err
		}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(key), raw, expiry).Err()
}

// PersistCached flushes the current cache entry for key to the document
// store, if one exists.
func (c *Cache[T]) PersistCached(ctx context.Context, key string) error {
	value, ok := c.Query(ctx, key)
	if !ok {
		return nil
	}
	return c.db.Save(ctx, c.coll, c.idOf(value), value)
}
