package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/stockflow-api/pkg/config"
)

func TestInvoiceKey(t *testing.T) {
	assert.Equal(t, "settled_invoice:INV-1", invoiceKey("INV-1"))
}

func TestNewRedisInvoiceCache_DefaultTTL(t *testing.T) {
	c := NewRedisInvoiceCache(nil, 0)
	assert.Equal(t, defaultTTL, c.ttl)

	c = NewRedisInvoiceCache(nil, time.Minute)
	assert.Equal(t, time.Minute, c.ttl)
}

func newTestRedis(t *testing.T) config.RedisConfig {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test: requiere Docker")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)
	return config.RedisConfig{Addr: fmt.Sprintf("%s:%s", host, port.Port())}
}

func TestRedisInvoiceCache_Integration(t *testing.T) {
	cfg := newTestRedis(t)
	ctx := context.Background()

	client, err := NewRedisClient(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisInvoiceCache(client, time.Minute)

	ok, err := c.IsSettled(ctx, "INV-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.MarkSettled(ctx, "INV-1"))

	ok, err = c.IsSettled(ctx, "INV-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ttl, err := client.TTL(ctx, invoiceKey("INV-1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	_, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}
