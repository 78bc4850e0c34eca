package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
)

// RateLimit creates a per-user rate limiter middleware instance. With a redis
// client the counters are shared across nodes; without one the limiter falls
// back to fiber's in-memory storage and only bounds the local node.
func RateLimit(client *redis.Client, identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	cfg := limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			userID := fmt.Sprintf("%v", c.Locals("user_id"))
			if userID == "" || userID == "0" {
				userID = c.IP()
			}
			return fmt.Sprintf("%s:%s", identifier, userID)
		},
	}
	if client != nil {
		cfg.Storage = &redisLimiterStorage{client: client, prefix: "ratelimit:"}
	}

	return limiter.New(cfg)
}

// redisLimiterStorage adapts a go-redis client to fiber's storage interface so
// limiter counters survive restarts and are shared between nodes.
type redisLimiterStorage struct {
	client *redis.Client
	prefix string
}

func (s *redisLimiterStorage) Get(key string) ([]byte, error) {
	value, err := s.client.Get(context.Background(), s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return value, err
}

func (s *redisLimiterStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.client.Set(context.Background(), s.prefix+key, val, exp).Err()
}

func (s *redisLimiterStorage) Delete(key string) error {
	return s.client.Del(context.Background(), s.prefix+key).Err()
}

func (s *redisLimiterStorage) Reset() error {
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *redisLimiterStorage) Close() error {
	// The client is owned by the caller.
	return nil
}
