package utils

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/techjourney/folio/config"
)

var (
	redisClient *redis.Client
	redisErr    error
	redisOnce   sync.Once
)

// GetRedis returns a singleton Redis client based on loaded config.
// Unlike a cache, the session backend cannot degrade silently, so an
// unreachable server is reported.
func GetRedis() (*redis.Client, error) {
	redisOnce.Do(func() {
		cfg := config.Get()
		rc := redis.NewClient(&redis.Options{
			Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  3 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Ping(ctx).Err(); err != nil {
			redisErr = fmt.Errorf("redis ping %s: %w", rc.Options().Addr, err)
			_ = rc.Close()
			return
		}
		redisClient = rc
	})
	return redisClient, redisErr
}
