// Package sqlite provides a SQLite database adapter backed by the pure Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapshard/pkg/adapter"
	"github.com/leapstack-labs/leapshard/pkg/core"
	"github.com/leapstack-labs/leapshard/pkg/dialect"
	sqlitedialect "github.com/leapstack-labs/leapshard/pkg/dialects/sqlite"

	_ "modernc.org/sqlite" // sqlite driver
)

// Params holds SQLite-specific shard options.
type Params struct {
	// Pragmas applied to every connection, e.g. busy_timeout: 5000.
	Pragmas map[string]string `mapstructure:"pragmas"`
	// ReadOnly opens the database with mode=ro.
	ReadOnly bool `mapstructure:"read_only"`
}

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Dialect returns the SQLite dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return sqlitedialect.SQLite
}

// Connect opens the SQLite database at cfg.DSN.
// An empty DSN opens an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg core.ShardConfig) error {
	var params Params
	if err := adapter.DecodeOptions(cfg.Options, &params); err != nil {
		return err
	}

	dsn := buildDSN(cfg.DSN, params)
	a.Logger.Debug("connecting to sqlite", slog.String("shard", cfg.Name), slog.String("dsn", dsn))

	if err := a.Open(ctx, "sqlite", dsn); err != nil {
		return err
	}
	// A single connection keeps :memory: databases shared and serializes writers.
	a.DB.SetMaxOpenConns(1)
	a.Cfg = cfg
	return nil
}

// buildDSN appends pragma and mode parameters to path.
func buildDSN(path string, params Params) string {
	if path == "" {
		path = ":memory:"
	}

	q := url.Values{}
	names := make([]string, 0, len(params.Pragmas))
	for name := range params.Pragmas {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		q.Add("_pragma", fmt.Sprintf("%s(%s)", name, params.Pragmas[name]))
	}
	if params.ReadOnly {
		q.Set("mode", "ro")
	}
	if len(q) == 0 {
		return path
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + q.Encode()
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
