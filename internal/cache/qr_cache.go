// Package cache 快取已產生的 QR code PNG，以網址的雜湊值為鍵。
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "qr:png:"

// QRCache 儲存以網址為鍵的 PNG 資料
type QRCache interface {
	Get(ctx context.Context, locator string) ([]byte, bool, error)
	Set(ctx context.Context, locator string, png []byte) error
	Close() error
}

// Key 回傳 locator 對應的快取鍵
func Key(locator string) string {
	sum := sha256.Sum256([]byte(locator))
	return keyPrefix + hex.EncodeToString(sum[:])
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr, password string, ttl time.Duration) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, locator string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, Key(locator)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, locator string, png []byte) error {
	return c.client.Set(ctx, Key(locator), png, c.ttl).Err()
}

// Ping 檢查 Redis 是否可連線
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Disabled 是未設定 Redis 時使用的空快取
type Disabled struct{}

func (Disabled) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Disabled) Set(context.Context, string, []byte) error         { return nil }
func (Disabled) Close() error                                      { return nil }
