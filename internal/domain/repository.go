// Package domain defines the core interfaces and types for Ruleviz.
package domain

import (
	"context"
	"time"
)

// Repository defines the interface for rule document persistence.
// All methods require tenantID for strict multi-tenancy isolation.
type Repository interface {
	// Rule document operations. ListRules returns rules in their original
	// creation order; that ordering drives color assignment and must be
	// stable across calls.
	SaveRule(ctx context.Context, tenantID string, rule *Rule) error
	GetRule(ctx context.Context, tenantID string, ruleID string) (*Rule, error)
	ListRules(ctx context.Context, tenantID string) ([]*Rule, error)
	DeleteRule(ctx context.Context, tenantID string, ruleID string) error

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	// Driver is the database driver: "sqlite" or "postgres"
	Driver string

	// SQLite specific
	SQLitePath string

	// PostgreSQL specific
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}
