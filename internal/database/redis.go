package database

import (
	"context"
	"fmt"

	"FitCoach/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var _ ImageCache = (*RedisImageCache)(nil)

// putIfAbsent writes the image hash only when the key does not exist yet.
var putIfAbsent = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'id', ARGV[1], 'type', ARGV[2], 'url', ARGV[3])
return 1
`)

// RedisImageCache stores each image as a hash with fields id, type and url
// under prefix+itemName. Keys carry no TTL.
type RedisImageCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisClient parses a redis:// URL and pings the server once.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	const op = "database/NewRedisClient"

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return rdb, nil
}

// NewRedisImageCache uses "fitcoach:image:" when prefix is empty.
func NewRedisImageCache(rdb *redis.Client, prefix string) *RedisImageCache {
	if prefix == "" {
		prefix = "fitcoach:image:"
	}
	return &RedisImageCache{rdb: rdb, prefix: prefix}
}

func (c *RedisImageCache) key(name string) string { return c.prefix + name }

func (c *RedisImageCache) GetByName(ctx context.Context, name string) (models.GeneratedImage, error) {
	const op = "database/RedisImageCache.GetByName"

	m, err := c.rdb.HGetAll(ctx, c.key(name)).Result()
	if err != nil {
		return models.GeneratedImage{}, fmt.Errorf("%s: %w", op, err)
	}

	if len(m) == 0 {
		return models.GeneratedImage{}, ErrImageNotFound
	}

	return models.GeneratedImage{
		ID:       m["id"],
		ItemName: name,
		ItemType: models.ItemType(m["type"]),
		ImageURL: m["url"],
	}, nil
}

func (c *RedisImageCache) Put(ctx context.Context, name string, itemType models.ItemType, url string) (models.GeneratedImage, error) {
	const op = "database/RedisImageCache.Put"

	img := models.GeneratedImage{
		ID:       uuid.NewString(),
		ItemName: name,
		ItemType: itemType,
		ImageURL: url,
	}

	written, err := putIfAbsent.Run(ctx, c.rdb, []string{c.key(name)}, img.ID, string(itemType), url).Int()
	if err != nil {
		return models.GeneratedImage{}, fmt.Errorf("%s: %w", op, err)
	}

	if written == 1 {
		return img, nil
	}

	return c.GetByName(ctx, name)
}
