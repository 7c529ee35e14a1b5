// Package shard runs a paged SELECT against several databases and merges the
// results so the caller sees the window it asked for.
//
// Each shard receives a rewritten statement whose offset is zero and whose
// row count covers the original offset plus row count. The shard results are
// concatenated in shard order and the original window is applied to the
// merged rows.
package shard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapshard/pkg/adapter"
	"github.com/leapstack-labs/leapshard/pkg/core"
	"github.com/leapstack-labs/leapshard/pkg/dialect"
	"github.com/leapstack-labs/leapshard/pkg/parser"
	"github.com/leapstack-labs/leapshard/pkg/rewrite"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoShards is returned when an executor has no shards to query.
	ErrNoShards = errors.New("no shards configured")
	// ErrColumnMismatch is returned when shards return different columns.
	ErrColumnMismatch = errors.New("shards returned different columns")
)

// Shard is a connected adapter and the name it is reported under.
type Shard struct {
	Name    string
	Adapter adapter.Adapter
}

// Config holds the executor's dependencies.
type Config struct {
	Dialect        *dialect.Dialect // dialect the incoming SQL is parsed with
	Shards         []Shard
	MaxConcurrency int // 0 = one goroutine per shard
	Logger         *slog.Logger
}

// Executor fans paged queries out to shards.
type Executor struct {
	dialect        *dialect.Dialect
	shards         []Shard
	maxConcurrency int
	logger         *slog.Logger
}

// ShardResult describes what one shard was asked and returned.
type ShardResult struct {
	Name string
	SQL  string
	Args []any
	Rows int
}

// Result is the merged, windowed result of a query.
type Result struct {
	core.ResultSet
	QueryID string
	Window  rewrite.Bound
	Shards  []ShardResult
}

// New creates an executor.
func New(cfg Config) (*Executor, error) {
	if cfg.Dialect == nil {
		return nil, dialect.ErrDialectRequired
	}
	if len(cfg.Shards) == 0 {
		return nil, ErrNoShards
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Executor{
		dialect:        cfg.Dialect,
		shards:         cfg.Shards,
		maxConcurrency: cfg.MaxConcurrency,
		logger:         logger,
	}, nil
}

// Open creates and connects an adapter for every shard config. If any shard
// fails to connect, the ones already connected are closed.
func Open(ctx context.Context, cfgs []core.ShardConfig, logger *slog.Logger) ([]Shard, error) {
	shards := make([]Shard, 0, len(cfgs))
	for _, cfg := range cfgs {
		adp, err := adapter.NewAdapter(cfg, logger)
		if err == nil {
			err = adp.Connect(ctx, cfg)
		}
		if err != nil {
			_ = closeAll(shards)
			return nil, fmt.Errorf("shard %s: %w", cfg.Name, err)
		}
		shards = append(shards, Shard{Name: cfg.Name, Adapter: adp})
	}
	return shards, nil
}

// OpenExecutor opens the shards in shardCfgs and builds an executor over
// them with cfg. The shards are closed again when the executor cannot be
// built.
func OpenExecutor(ctx context.Context, cfg Config, shardCfgs []core.ShardConfig) (*Executor, error) {
	shards, err := Open(ctx, shardCfgs, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open shards: %w", err)
	}
	cfg.Shards = shards
	exec, err := New(cfg)
	if err != nil {
		_ = closeAll(shards)
		return nil, err
	}
	return exec, nil
}

// Close closes every shard adapter.
func (e *Executor) Close() error {
	return closeAll(e.shards)
}

func closeAll(shards []Shard) error {
	var errs []error
	for _, s := range shards {
		if err := s.Adapter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("shard %s: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Query parses sql, runs the shard rewrite of it on every shard concurrently
// and returns the merged rows restricted to the original window.
// args are bound to the ? placeholders of sql in order.
func (e *Executor) Query(ctx context.Context, sql string, args ...any) (*Result, error) {
	queryID := uuid.NewString()
	logger := e.logger.With("query_id", queryID)

	stmt, err := parser.ParseWithDialect(sql, e.dialect)
	if err != nil {
		return nil, err
	}
	if n := stmt.ParameterCount(); len(args) < n {
		return nil, fmt.Errorf("%w: statement has %d placeholders, got %d arguments", rewrite.ErrMissingArgument, n, len(args))
	}

	result := &Result{QueryID: queryID, Shards: make([]ShardResult, len(e.shards))}
	queries := make([]rewrite.Query, len(e.shards))
	for i, s := range e.shards {
		q, window, err := rewrite.ForShard(stmt, s.Adapter.Dialect(), args)
		if err != nil {
			return nil, fmt.Errorf("shard %s: %w", s.Name, err)
		}
		queries[i] = q
		result.Window = window
		result.Shards[i] = ShardResult{Name: s.Name, SQL: q.SQL, Args: q.Args}
	}

	logger.Debug("executing query", "shards", len(e.shards), "window", result.Window.String())

	sets := make([]*core.ResultSet, len(e.shards))
	eg, egctx := errgroup.WithContext(ctx)
	if e.maxConcurrency > 0 {
		eg.SetLimit(e.maxConcurrency)
	}
	for i, s := range e.shards {
		eg.Go(func() error {
			rs, err := s.Adapter.Query(egctx, queries[i].SQL, queries[i].Args...)
			if err != nil {
				return fmt.Errorf("shard %s: %w", s.Name, err)
			}
			logger.Debug("shard returned", "shard", s.Name, "rows", rs.Len())
			sets[i] = rs
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		logger.Error("query failed", "error", err)
		return nil, err
	}

	if err := merge(&result.ResultSet, e.shards, sets); err != nil {
		return nil, err
	}
	for i, rs := range sets {
		result.Shards[i].Rows = rs.Len()
	}

	start, end := result.Window.Window(len(result.Rows))
	result.Rows = result.Rows[start:end]

	logger.Info("query completed", "rows", len(result.Rows))
	return result, nil
}

// merge concatenates shard rows in shard order.
func merge(dst *core.ResultSet, shards []Shard, sets []*core.ResultSet) error {
	for i, rs := range sets {
		if rs == nil {
			continue
		}
		if dst.Columns == nil {
			dst.Columns = rs.Columns
		} else if !slices.Equal(dst.Columns, rs.Columns) {
			return fmt.Errorf("%w: shard %s returned %v, expected %v", ErrColumnMismatch, shards[i].Name, rs.Columns, dst.Columns)
		}
		dst.Rows = append(dst.Rows, rs.Rows...)
	}
	return nil
}
