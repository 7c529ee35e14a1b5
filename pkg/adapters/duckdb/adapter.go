// Package duckdb provides a DuckDB database adapter.
package duckdb

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/leapstack-labs/leapshard/pkg/adapter"
	"github.com/leapstack-labs/leapshard/pkg/core"
	"github.com/leapstack-labs/leapshard/pkg/dialect"
	duckdialect "github.com/leapstack-labs/leapshard/pkg/dialects/duckdb"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Params holds DuckDB-specific shard options.
type Params struct {
	// Settings are DuckDB configuration options applied at startup
	// (e.g. threads, memory_limit, access_mode).
	Settings map[string]string `mapstructure:"settings"`
}

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Dialect returns the DuckDB dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return duckdialect.DuckDB
}

// Connect establishes a connection to DuckDB.
// An empty DSN opens an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg core.ShardConfig) error {
	var params Params
	if err := adapter.DecodeOptions(cfg.Options, &params); err != nil {
		return err
	}

	dsn := buildDSN(cfg.DSN, params)
	a.Logger.Debug("connecting to duckdb", slog.String("shard", cfg.Name), slog.String("dsn", dsn))

	if err := a.Open(ctx, "duckdb", dsn); err != nil {
		return err
	}
	a.Cfg = cfg
	return nil
}

// buildDSN appends settings as DSN query parameters, which the driver
// applies as DuckDB config options.
func buildDSN(path string, params Params) string {
	if len(params.Settings) == 0 {
		return path
	}
	q := url.Values{}
	for k, v := range params.Settings {
		q.Set(k, v)
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + q.Encode()
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
