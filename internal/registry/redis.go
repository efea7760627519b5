// internal/registry/redis.go
//
// Redis-backed Registry implementation. Sessions are JSON-marshalled under
// sess:<id> keys with a TTL refreshed on every Save, so abandoned games
// expire server-side without any sweep of our own.

package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wurdsmyth/go-server/internal/game"
)

const redisKeyPrefix = "sess:"

// Redis stores sessions in a Redis instance.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis connects to redisURL (redis://host:port/db) and pings it.
// ttl <= 0 falls back to 24h; Redis keys always need an expiry.
func NewRedis(redisURL string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("registry: parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("registry: ping redis: %w", err)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Redis{rdb: rdb, ttl: ttl}, nil
}

func key(id string) string { return redisKeyPrefix + id }

// Save upserts the session JSON and refreshes the key TTL.
func (r *Redis) Save(ctx context.Context, s *game.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, key(s.ID), raw, r.ttl).Err()
}

// Get loads a session by ID. An expired or missing key is ErrNotFound.
func (r *Redis) Get(ctx context.Context, id string) (*game.Session, error) {
	raw, err := r.rdb.Get(ctx, key(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var s game.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("registry: decode session %s: %w", id, err)
	}
	return &s, nil
}

// Delete removes the key; DEL on an absent key is a no-op.
func (r *Redis) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, key(id)).Err()
}

// Count scans sess:* keys. Linear in live sessions; used for diagnostics only.
func (r *Redis) Count(ctx context.Context) (int, error) {
	var n int
	iter := r.rdb.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		n++
	}
	return n, iter.Err()
}

// Close releases the underlying client.
func (r *Redis) Close() error { return r.rdb.Close() }
