// Package adapter provides the database adapter contract used to run
// rewritten statements on shards.
//
// Concrete adapter implementations are in pkg/adapters/ subdirectories and
// register themselves with this package in their init() functions.
package adapter

import (
	"context"

	"github.com/leapstack-labs/leapshard/pkg/core"
	"github.com/leapstack-labs/leapshard/pkg/dialect"
)

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the shard described by cfg.
	Connect(ctx context.Context, cfg core.ShardConfig) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string, args ...any) error

	// Query executes a SQL statement and materializes its rows.
	Query(ctx context.Context, sql string, args ...any) (*core.ResultSet, error)

	// Dialect returns the SQL dialect of the database. Its placeholder style
	// decides how ? parameters are renumbered before execution.
	Dialect() *dialect.Dialect
}
