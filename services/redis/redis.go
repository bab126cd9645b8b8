package redis

import (
	game_constants "jdr/constants/game"
	redis_models "jdr/models/redis"
	redis_utils "jdr/services/redis/utils"

	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// ErrGameNotFound is returned when a game key does not resolve to any
// stored state, either because the code never existed or because the
// TTL elapsed and Redis removed the key.
var ErrGameNotFound = errors.New("game state not found")

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(addr string, db int) *RedisClient {
	var client *redis.Client
	if addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}
}

// SaveGameState stores a full session snapshot in Redis.
// Key format: "jdr:game:{id}"
// Every save re-extends the TTL, so a session that is actively being
// written never expires mid-use.
func (rc *RedisClient) SaveGameState(state *redis_models.GameState) error {
	key := redis_utils.FormatGameKey(state.ID)
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("error marshaling game state: %v", err)
	}
	return rc.client.Set(rc.ctx, key, data, game_constants.GameStateTTL).Err()
}

// GetGameState retrieves a session snapshot from Redis.
// Key format: "jdr:game:{id}"
// Returns ErrGameNotFound when the key is absent or expired.
func (rc *RedisClient) GetGameState(gameID string) (*redis_models.GameState, error) {
	key := redis_utils.FormatGameKey(gameID)
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("error getting game state: %v", err)
	}

	var state redis_models.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("error unmarshaling game state: %v", err)
	}
	return &state, nil
}

// GameExists reports whether a session code currently resolves to a
// live key. Used for collision checks during code generation.
func (rc *RedisClient) GameExists(gameID string) (bool, error) {
	key := redis_utils.FormatGameKey(gameID)
	n, err := rc.client.Exists(rc.ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("error checking game key: %v", err)
	}
	return n > 0, nil
}

// DeleteGameState removes a session snapshot from Redis.
// Key format: "jdr:game:{id}"
func (rc *RedisClient) DeleteGameState(gameID string) error {
	key := redis_utils.FormatGameKey(gameID)
	if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
		return fmt.Errorf("error deleting game state: %v", err)
	}
	return nil
}
