package domain

import (
	"context"
	"time"
)

// Cache defines the interface for caching computed graph snapshots.
// Supports two-phase caching: local LRU (Community) + Redis (Pro).
// All methods require tenantID for strict multi-tenancy isolation.
type Cache interface {
	// Get retrieves a value from cache.
	// Returns nil, nil if key not found.
	Get(ctx context.Context, tenantID string, key string) ([]byte, error)

	// Set stores a value in cache with expiration.
	Set(ctx context.Context, tenantID string, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from cache.
	Delete(ctx context.Context, tenantID string, key string) error

	// GetSnapshot retrieves a cached graph snapshot.
	GetSnapshot(ctx context.Context, tenantID string, key string) (*GraphSnapshot, error)

	// SetSnapshot caches a computed graph snapshot.
	SetSnapshot(ctx context.Context, tenantID string, key string, snap *GraphSnapshot, ttl time.Duration) error

	// DeleteSnapshot drops a cached graph snapshot so the next read
	// recomputes it.
	DeleteSnapshot(ctx context.Context, tenantID string, key string) error

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// SnapshotKey is the cache key under which the latest merged graph for a
// tenant is stored.
const SnapshotKey = "graph:latest"

// CacheConfig holds configuration for cache initialization.
type CacheConfig struct {
	// Type is the cache type: "memory" or "redis"
	Type string

	// Local LRU cache settings (Community tier)
	LocalMaxSize int
	LocalTTL     time.Duration

	// Redis settings (Pro tier)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Two-phase settings
	EnableTwoPhase bool // If true, check local first, then Redis
}
