package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const (
	// PageTTL is the default lifetime of an idle page view (40 minutes)
	PageTTL    = 40 * time.Minute
	pagePrefix = "page:"

	maxUpdateRetries = 8
)

// RedisStore implements Store using Redis, so several instances can serve
// the same page views
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore connects to redisURL and checks the connection
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreFromClient(client, ttl), nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = PageTTL
	}
	return &RedisStore{client: client, ttl: ttl, now: time.Now}
}

// key generates a Redis key for the given page ID
func (r *RedisStore) key(pageID string) string {
	return pagePrefix + pageID
}

// Load reads the page state and extends its TTL
func (r *RedisStore) Load(ctx context.Context, pageID string) (PageState, error) {
	if pageID == "" {
		return PageState{}, fmt.Errorf("page ID cannot be empty")
	}

	data, err := r.client.GetEx(ctx, r.key(pageID), r.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return newPageState(r.now().Unix()), nil
		}
		return PageState{}, fmt.Errorf("failed to get page state: %w", err)
	}

	return decodeState(data)
}

// Update runs fn inside an optimistic WATCH/MULTI transaction and retries
// when another writer touched the page in between
func (r *RedisStore) Update(ctx context.Context, pageID string, fn UpdateFunc) (PageState, error) {
	if pageID == "" {
		return PageState{}, fmt.Errorf("page ID cannot be empty")
	}
	key := r.key(pageID)

	var next PageState
	txf := func(tx *redis.Tx) error {
		current := newPageState(r.now().Unix())
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("failed to get page state: %w", err)
		default:
			if current, err = decodeState(data); err != nil {
				return err
			}
		}

		next, err = fn(current)
		if err != nil {
			return err
		}
		next.UpdatedAt = r.now().Unix()
		if next.Stats == nil {
			next.Stats = make(map[string]StatsEntry)
		}

		encoded, err := sonic.ConfigStd.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to marshal page state: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, r.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return next, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return PageState{}, err
	}
	return PageState{}, fmt.Errorf("%w: page %s", ErrConflict, pageID)
}

// Delete removes a page view
func (r *RedisStore) Delete(ctx context.Context, pageID string) error {
	if err := r.client.Del(ctx, r.key(pageID)).Err(); err != nil {
		return fmt.Errorf("failed to delete page state: %w", err)
	}
	return nil
}

// GetTTL gets remaining TTL for a page
func (r *RedisStore) GetTTL(ctx context.Context, pageID string) (time.Duration, error) {
	ttl, err := r.client.TTL(ctx, r.key(pageID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get TTL: %w", err)
	}
	return ttl, nil
}

// Ping tests Redis connection
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func decodeState(data []byte) (PageState, error) {
	var state PageState
	if err := sonic.ConfigStd.Unmarshal(data, &state); err != nil {
		return PageState{}, fmt.Errorf("failed to unmarshal page state: %w", err)
	}
	if state.Stats == nil {
		state.Stats = make(map[string]StatsEntry)
	}
	return state, nil
}
