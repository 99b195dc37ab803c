package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	appbilling "github.com/backoffice/backend/internal/application/billing"
)

// RedisProvisioningGuard implements the provisioning guard on Redis.
// This is suitable for distributed deployments where multiple instances
// may provision the same tenant concurrently.
type RedisProvisioningGuard struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisProvisioningGuard creates a Redis-backed provisioning guard.
// The TTL bounds how long a crashed run can keep a tenant locked.
func NewRedisProvisioningGuard(cfg RedisConfig, ttl time.Duration) (*RedisProvisioningGuard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisProvisioningGuard{
		client:    client,
		keyPrefix: "billing:provisioning:",
		ttl:       ttl,
	}, nil
}

// NewRedisProvisioningGuardWithClient creates a guard with an existing Redis
// client. This is useful for testing or when sharing a client across components.
func NewRedisProvisioningGuardWithClient(client *redis.Client, ttl time.Duration) *RedisProvisioningGuard {
	return &RedisProvisioningGuard{
		client:    client,
		keyPrefix: "billing:provisioning:",
		ttl:       ttl,
	}
}

// Acquire attempts to take the per-tenant lock with SETNX.
// Returns true if this caller now holds the lock.
func (g *RedisProvisioningGuard) Acquire(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	key := g.keyPrefix + tenantID.String()

	acquired, err := g.client.SetNX(ctx, key, "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire provisioning lock: %w", err)
	}
	return acquired, nil
}

// Release frees the per-tenant lock
func (g *RedisProvisioningGuard) Release(ctx context.Context, tenantID uuid.UUID) error {
	key := g.keyPrefix + tenantID.String()

	if err := g.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release provisioning lock: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (g *RedisProvisioningGuard) Close() error {
	return g.client.Close()
}

var _ appbilling.ProvisioningGuard = (*RedisProvisioningGuard)(nil)
