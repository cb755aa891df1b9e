package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/softjobs/softjobs-backend/internal/domain/user"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Redis is the shared-cache implementation of ProfileCache. Values are
// stored as JSON under "profile:<email>" with a TTL.
type Redis struct {
	redisdb *redis.Client
	ttl     time.Duration
}

func NewRedis(cfg RedisConfig, ttl time.Duration) *Redis {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Redis{redisdb: redisdb, ttl: ttl}
}

func (c *Redis) Get(ctx context.Context, email string) (user.PublicUser, bool) {
	b, err := c.redisdb.Get(ctx, profileKey(email)).Bytes()

	if err != nil {
		return user.PublicUser{}, false
	}

	var u user.PublicUser

	if err := json.Unmarshal(b, &u); err != nil {
		return user.PublicUser{}, false
	}

	return u, true
}

func (c *Redis) Set(ctx context.Context, email string, u user.PublicUser) {
	b, err := json.Marshal(u)

	if err != nil {
		return
	}

	// best effort; a write failure just means the next read hits the DB
	_ = c.redisdb.Set(ctx, profileKey(email), b, c.ttl).Err()
}

func (c *Redis) Delete(ctx context.Context, email string) {
	_ = c.redisdb.Del(ctx, profileKey(email)).Err()
}

// Ping checks redis connectivity.
func (c *Redis) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *Redis) Close() error {
	return c.redisdb.Close()
}

func profileKey(email string) string {
	return "profile:" + email
}
