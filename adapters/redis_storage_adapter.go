package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorageAdapter persists records as a Redis list under a single key.
type RedisStorageAdapter struct {
	client     *redis.Client
	key        string
	maxRecords int
	timeout    time.Duration
}

// Ensure RedisStorageAdapter implements StorageAdapter interface
var _ StorageAdapter = (*RedisStorageAdapter)(nil)

// RedisStorageOptions configures a RedisStorageAdapter.
type RedisStorageOptions struct {
	// Key defaults to "caliper:records".
	Key string
	// MaxRecords caps how many records Save accepts. Zero means unlimited.
	MaxRecords int
	// Timeout bounds every Redis round trip. Defaults to 5s.
	Timeout time.Duration
}

// NewRedisStorageAdapter creates a Redis-backed storage adapter.
func NewRedisStorageAdapter(client *redis.Client, opts RedisStorageOptions) *RedisStorageAdapter {
	if opts.Key == "" {
		opts.Key = "caliper:records"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return &RedisStorageAdapter{
		client:     client,
		key:        opts.Key,
		maxRecords: opts.MaxRecords,
		timeout:    opts.Timeout,
	}
}

// Save replaces the stored list with records in a single transaction.
func (r *RedisStorageAdapter) Save(records []Record) error {
	if r.maxRecords > 0 && len(records) > r.maxRecords {
		return &StorageQuotaExceededError{
			Message: fmt.Sprintf("cannot store %d records, limit is %d", len(records), r.maxRecords),
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	values := make([]interface{}, len(records))
	for i, rec := range records {
		values[i] = []byte(rec)
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		if len(values) > 0 {
			pipe.RPush(ctx, r.key, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving records to %s: %w", r.key, err)
	}
	return nil
}

// Load returns the stored records, or an empty slice when the key is absent.
func (r *RedisStorageAdapter) Load() ([]Record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	values, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("loading records from %s: %w", r.key, err)
	}

	records := make([]Record, len(values))
	for i, v := range values {
		records[i] = Record(v)
	}
	return records, nil
}

// Clear deletes the stored list.
func (r *RedisStorageAdapter) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	return r.client.Del(ctx, r.key).Err()
}
