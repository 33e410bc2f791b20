package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
	"github.com/MikeSquared-Agency/ValueCharts/internal/store"
)

// Cache is a read-through cache of charts and committed preferences.
// Misses return (nil, nil).
type Cache interface {
	GetChart(ctx context.Context, chartID string) (*preference.Chart, error)
	SetChart(ctx context.Context, chart *preference.Chart) error
	GetPreferences(ctx context.Context, chartID, username string) (*store.Preferences, error)
	SetPreferences(ctx context.Context, p *store.Preferences) error
}

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// Connect opens a client and pings it.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func ChartKey(chartID string) string {
	return fmt.Sprintf("valuecharts:chart:%s", chartID)
}

func PreferencesKey(chartID, username string) string {
	return fmt.Sprintf("valuecharts:prefs:%s:%s", chartID, username)
}

func (c *RedisCache) GetChart(ctx context.Context, chartID string) (*preference.Chart, error) {
	data, err := c.rdb.Get(ctx, ChartKey(chartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	chart := &preference.Chart{}
	if err := json.Unmarshal(data, chart); err != nil {
		return nil, fmt.Errorf("decode cached chart %s: %w", chartID, err)
	}
	return chart, nil
}

func (c *RedisCache) SetChart(ctx context.Context, chart *preference.Chart) error {
	data, err := json.Marshal(chart)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, ChartKey(chart.ID), data, c.ttl).Err()
}

func (c *RedisCache) GetPreferences(ctx context.Context, chartID, username string) (*store.Preferences, error) {
	data, err := c.rdb.Get(ctx, PreferencesKey(chartID, username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodePreferences(data)
}

func (c *RedisCache) SetPreferences(ctx context.Context, p *store.Preferences) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, PreferencesKey(p.ChartID, p.Username), data, c.ttl).Err()
}

func decodePreferences(data []byte) (*store.Preferences, error) {
	p := &store.Preferences{
		Weights:        preference.NewWeightMap(),
		ScoreFunctions: preference.NewScoreFunctionMap(),
	}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("decode cached preferences: %w", err)
	}
	return p, nil
}
