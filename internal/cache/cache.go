// Package cache реализует кэширование поверх Redis по схеме cache-aside.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache хранит JSON-сериализованные значения в Redis с общим префиксом и TTL.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New создает новый кэш поверх готового клиента Redis.
func New(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{client: client, prefix: prefix, ttl: ttl}
}

// Get читает значение из кэша. Второе возвращаемое значение показывает,
// было ли попадание; промах не является ошибкой.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("ошибка чтения из кэша: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("ошибка десериализации кэша: %w", err)
	}
	return true, nil
}

// Set сохраняет значение в кэш с настроенным TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("ошибка сериализации кэша: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("ошибка записи в кэш: %w", err)
	}
	return nil
}

// Delete удаляет значение из кэша.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("ошибка удаления из кэша: %w", err)
	}
	return nil
}
