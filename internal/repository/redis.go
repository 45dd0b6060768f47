package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"travelbook/internal/config"

	"github.com/redis/go-redis/v9"
)

// RedisCalendarCache keeps vehicle calendars in redis with a short TTL.
type RedisCalendarCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient creates a redis client from the configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisCalendarCache(client *redis.Client, ttl time.Duration) *RedisCalendarCache {
	return &RedisCalendarCache{
		client: client,
		ttl:    ttl,
	}
}

func calendarKey(vehicleID int64) string {
	return fmt.Sprintf("vehicle_calendar:%d", vehicleID)
}

func (r *RedisCalendarCache) GetCalendar(ctx context.Context, vehicleID int64) ([]string, bool, error) {
	if r.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, calendarKey(vehicleID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get calendar from redis: %w", err)
	}

	var dates []string
	if err := json.Unmarshal([]byte(val), &dates); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal calendar: %w", err)
	}
	return dates, true, nil
}

func (r *RedisCalendarCache) SetCalendar(ctx context.Context, vehicleID int64, dates []string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(dates)
	if err != nil {
		return fmt.Errorf("failed to marshal calendar: %w", err)
	}

	if err := r.client.Set(ctx, calendarKey(vehicleID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set calendar in redis: %w", err)
	}
	return nil
}

func (r *RedisCalendarCache) Invalidate(ctx context.Context, vehicleID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, calendarKey(vehicleID)).Err(); err != nil {
		return fmt.Errorf("failed to delete calendar from redis: %w", err)
	}
	return nil
}

// Ping checks the redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close closes the redis connection.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
