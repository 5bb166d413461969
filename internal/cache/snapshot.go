package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Snapshots stores the last fetched list of each resource in Redis so a
// restarted client can show data before its first fetch completes. Entries
// expire after the configured TTL; cached data is never treated as
// server-confirmed state.
type Snapshots struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a snapshot cache and verifies connectivity
func New(addr, password string, db int, ttl time.Duration) (*Snapshots, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Snapshots{rdb: rdb, ttl: ttl}, nil
}

// Close closes the Redis connection
func (s *Snapshots) Close() error {
	return s.rdb.Close()
}

// Store caches the given list under the resource name
func (s *Snapshots) Store(ctx context.Context, resource string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := s.rdb.Set(ctx, snapshotKey(resource), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// Load reads a cached list into out, reporting whether one existed
func (s *Snapshots) Load(ctx context.Context, resource string, out interface{}) (bool, error) {
	data, err := s.rdb.Get(ctx, snapshotKey(resource)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load snapshot: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return true, nil
}

// Invalidate drops the cached list for a resource
func (s *Snapshots) Invalidate(ctx context.Context, resource string) error {
	return s.rdb.Del(ctx, snapshotKey(resource)).Err()
}

func snapshotKey(resource string) string {
	return fmt.Sprintf("snapshot:%s", resource)
}
