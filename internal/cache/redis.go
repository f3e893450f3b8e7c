package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mpetrov/flightdesk/config"
	"github.com/mpetrov/flightdesk/internal/domain"
)

// RedisCache stores search results keyed by the full query. Safe because
// the flights table is read-only to this service.
type RedisCache struct {
	client    *redis.Client
	searchTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, searchTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		searchTTL: searchTTL,
	}
}

func (c *RedisCache) GetItineraries(ctx context.Context, key domain.SearchKey) ([]domain.Itinerary, error) {
	data, err := c.client.Get(ctx, searchKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var results []domain.Itinerary
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *RedisCache) SetItineraries(ctx context.Context, key domain.SearchKey, results []domain.Itinerary) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, searchKey(key), payload, c.searchTTL).Err()
}

func searchKey(k domain.SearchKey) string {
	return fmt.Sprintf("search:%s:%s:%d:%t:%d",
		strings.ToLower(k.Origin), strings.ToLower(k.Dest), k.Day, k.DirectOnly, k.Limit)
}
