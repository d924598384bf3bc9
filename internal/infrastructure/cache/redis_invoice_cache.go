package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stockflow-api/internal/application/ports"
	"github.com/jhoicas/stockflow-api/pkg/config"
)

const (
	keyPrefix  = "settled_invoice:"
	defaultTTL = 24 * time.Hour
)

// RedisInvoiceCache guarda en Redis los invoice_id ya liquidados.
// Solo es un atajo: si la clave expira o Redis se pierde, processed_invoices sigue decidiendo.
type RedisInvoiceCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.SettledInvoiceCache = (*RedisInvoiceCache)(nil)

// NewRedisClient abre el cliente y verifica la conexión con un PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func NewRedisInvoiceCache(client *redis.Client, ttl time.Duration) *RedisInvoiceCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisInvoiceCache{client: client, ttl: ttl}
}

func invoiceKey(invoiceID string) string {
	return keyPrefix + invoiceID
}

func (c *RedisInvoiceCache) IsSettled(ctx context.Context, invoiceID string) (bool, error) {
	n, err := c.client.Exists(ctx, invoiceKey(invoiceID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

func (c *RedisInvoiceCache) MarkSettled(ctx context.Context, invoiceID string) error {
	if err := c.client.Set(ctx, invoiceKey(invoiceID), "1", c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
