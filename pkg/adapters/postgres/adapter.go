// Package postgres provides a PostgreSQL database adapter built on pgx.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/leapstack-labs/leapshard/pkg/adapter"
	"github.com/leapstack-labs/leapshard/pkg/core"
	"github.com/leapstack-labs/leapshard/pkg/dialect"
	pgdialect "github.com/leapstack-labs/leapshard/pkg/dialects/postgres"
)

// Params holds PostgreSQL-specific shard options.
type Params struct {
	// SearchPath sets the schema search path of every connection.
	SearchPath string `mapstructure:"search_path"`
	// ApplicationName is reported in pg_stat_activity.
	ApplicationName string `mapstructure:"application_name"`
	// MaxOpenConns caps the connection pool (0 = unlimited).
	MaxOpenConns int `mapstructure:"max_open_conns"`
}

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Dialect returns the PostgreSQL dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return pgdialect.Postgres
}

// Connect establishes a connection to PostgreSQL. cfg.DSN is either a
// postgres:// URL or a key=value connection string.
func (a *Adapter) Connect(ctx context.Context, cfg core.ShardConfig) error {
	connCfg, params, err := buildConnConfig(cfg)
	if err != nil {
		return err
	}

	a.Logger.Debug("connecting to postgres",
		slog.String("shard", cfg.Name),
		slog.String("host", connCfg.Host),
		slog.String("database", connCfg.Database))

	db := stdlib.OpenDB(*connCfg)
	if params.MaxOpenConns > 0 {
		db.SetMaxOpenConns(params.MaxOpenConns)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildConnConfig parses the DSN and applies the shard options as runtime parameters.
func buildConnConfig(cfg core.ShardConfig) (*pgx.ConnConfig, Params, error) {
	var params Params
	if err := adapter.DecodeOptions(cfg.Options, &params); err != nil {
		return nil, params, err
	}

	connCfg, err := pgx.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, params, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if params.SearchPath != "" {
		connCfg.RuntimeParams["search_path"] = params.SearchPath
	}
	if params.ApplicationName != "" {
		connCfg.RuntimeParams["application_name"] = params.ApplicationName
	}
	return connCfg, params, nil
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
