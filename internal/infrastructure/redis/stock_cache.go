// Package redis publica saldos de lotes y productos en Redis para lecturas rápidas.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/pkg/config"
)

const (
	lotKeyPrefix     = "stock:lot:"
	productKeyPrefix = "stock:product:"
)

var _ inventory.StockCache = (*StockCache)(nil)

// StockCache implementa inventory.StockCache sobre go-redis.
type StockCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewClient crea el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewStockCache construye la caché. ttl 0 = sin expiración.
func NewStockCache(client *goredis.Client, ttl time.Duration) *StockCache {
	return &StockCache{client: client, ttl: ttl}
}

func (c *StockCache) PublishLot(ctx context.Context, lotID string, quantity int64) error {
	return c.client.Set(ctx, lotKeyPrefix+lotID, quantity, c.ttl).Err()
}

func (c *StockCache) PublishProduct(ctx context.Context, productID string, quantity int64) error {
	return c.client.Set(ctx, productKeyPrefix+productID, quantity, c.ttl).Err()
}

func (c *StockCache) LotQuantity(ctx context.Context, lotID string) (int64, bool, error) {
	q, err := c.client.Get(ctx, lotKeyPrefix+lotID).Int64()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return q, true, nil
}

func (c *StockCache) Forget(ctx context.Context, lotID, productID string) error {
	keys := make([]string, 0, 2)
	if lotID != "" {
		keys = append(keys, lotKeyPrefix+lotID)
	}
	if productID != "" {
		keys = append(keys, productKeyPrefix+productID)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
