package config

import (
	"jdr/services/redis"

	"fmt"
	"os"
	"sync"
	"time"
)

const (
	connectPollInterval = 100 * time.Millisecond
	maxConnectWaits     = 50
)

// RedisConnector owns the Redis client handle and establishes it lazily,
// exactly once. Concurrent callers arriving while a connection attempt
// is in flight wait on a connecting flag with a bounded poll instead of
// opening duplicate connections.
type RedisConnector struct {
	mu         sync.Mutex
	connecting bool
	client     *redis.RedisClient
}

func NewRedisConnector() *RedisConnector {
	return &RedisConnector{}
}

// Client returns the shared Redis client, connecting on first use.
func (c *RedisConnector) Client() (*redis.RedisClient, error) {
	for i := 0; i < maxConnectWaits; i++ {
		c.mu.Lock()
		if c.client != nil {
			client := c.client
			c.mu.Unlock()
			return client, nil
		}
		if !c.connecting {
			c.connecting = true
			c.mu.Unlock()

			client, err := connectRedis()

			c.mu.Lock()
			c.connecting = false
			if err != nil {
				c.mu.Unlock()
				return nil, err
			}
			c.client = client
			c.mu.Unlock()
			return client, nil
		}
		// Another caller is connecting, wait for it to finish.
		c.mu.Unlock()
		time.Sleep(connectPollInterval)
	}
	return nil, fmt.Errorf("timed out waiting for Redis connection")
}

// Close releases the client if one was ever established.
func (c *RedisConnector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := redis.CloseRedis(c.client)
	c.client = nil
	return err
}

func connectRedis() (*redis.RedisClient, error) {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}
	return redis.InitRedis(addr, 0)
}
