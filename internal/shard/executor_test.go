package shard

import (
	"context"
	"database/sql/driver"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/leapshard/internal/testutil"
	"github.com/leapstack-labs/leapshard/pkg/adapter"
	"github.com/leapstack-labs/leapshard/pkg/core"
	"github.com/leapstack-labs/leapshard/pkg/dialect"
	"github.com/leapstack-labs/leapshard/pkg/dialects/ansi"
	"github.com/leapstack-labs/leapshard/pkg/dialects/postgres"
	"github.com/leapstack-labs/leapshard/pkg/rewrite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/leapstack-labs/leapshard/pkg/adapters/sqlite"
)

// mockAdapter is a BaseSQLAdapter over go-sqlmock with a fixed dialect.
type mockAdapter struct {
	adapter.BaseSQLAdapter
	dialect *dialect.Dialect
}

func (m *mockAdapter) Connect(context.Context, core.ShardConfig) error { return nil }
func (m *mockAdapter) Dialect() *dialect.Dialect                      { return m.dialect }

func newMockShard(t *testing.T, name string, d *dialect.Dialect) (Shard, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return Shard{Name: name, Adapter: &mockAdapter{BaseSQLAdapter: adapter.BaseSQLAdapter{DB: db}, dialect: d}}, mock
}

func idRows(ids ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id"})
	for _, id := range ids {
		rows.AddRow(id)
	}
	return rows
}

func TestExecutor_Query(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		args      []any
		shardSQL  string
		shardArgs []driver.Value
		shard1    []int64
		shard2    []int64
		want      [][]any
		window    rewrite.Bound
	}{
		{
			name:     "literal window",
			sql:      "SELECT id FROM t ORDER BY id LIMIT 3 OFFSET 2",
			shardSQL: "SELECT id FROM t ORDER BY id LIMIT 5 OFFSET 0",
			shard1:   []int64{1, 2, 3, 4, 5},
			shard2:   []int64{10, 11},
			want:     [][]any{{int64(3)}, {int64(4)}, {int64(5)}},
			window:   rewrite.Bound{Offset: 2, RowCount: 3},
		},
		{
			name:      "placeholder window",
			sql:       "SELECT id FROM t WHERE a = ? LIMIT ? OFFSET ?",
			args:      []any{"x", 2, 3},
			shardSQL:  "SELECT id FROM t WHERE a = $1 LIMIT $2 OFFSET $3",
			shardArgs: []driver.Value{"x", int64(5), int64(0)},
			shard1:    []int64{1, 2},
			shard2:    []int64{10, 11, 12},
			want:      [][]any{{int64(11)}, {int64(12)}},
			window:    rewrite.Bound{Offset: 3, RowCount: 2},
		},
		{
			name:     "offset past all rows",
			sql:      "SELECT id FROM t LIMIT 2 OFFSET 10",
			shardSQL: "SELECT id FROM t LIMIT 12 OFFSET 0",
			shard1:   []int64{1},
			shard2:   []int64{2},
			want:     nil,
			window:   rewrite.Bound{Offset: 10, RowCount: 2},
		},
		{
			name:     "no window",
			sql:      "SELECT id FROM t",
			shardSQL: "SELECT id FROM t",
			shard1:   []int64{1},
			shard2:   []int64{2},
			want:     [][]any{{int64(1)}, {int64(2)}},
			window:   rewrite.Bound{Unbounded: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s1, m1 := newMockShard(t, "s1", postgres.Postgres)
			s2, m2 := newMockShard(t, "s2", postgres.Postgres)

			for _, m := range []struct {
				mock sqlmock.Sqlmock
				ids  []int64
			}{{m1, tt.shard1}, {m2, tt.shard2}} {
				exp := m.mock.ExpectQuery(tt.shardSQL)
				if len(tt.shardArgs) > 0 {
					exp = exp.WithArgs(tt.shardArgs...)
				}
				exp.WillReturnRows(idRows(m.ids...))
			}

			exec, err := New(Config{
				Dialect: postgres.Postgres,
				Shards:  []Shard{s1, s2},
				Logger:  testutil.NewTestLogger(t),
			})
			require.NoError(t, err)

			res, err := exec.Query(context.Background(), tt.sql, tt.args...)
			require.NoError(t, err)

			assert.Equal(t, []string{"id"}, res.Columns)
			if tt.want == nil {
				assert.Empty(t, res.Rows)
			} else {
				assert.Equal(t, tt.want, res.Rows)
			}
			assert.Equal(t, tt.window, res.Window)
			assert.NotEmpty(t, res.QueryID)
			require.Len(t, res.Shards, 2)
			assert.Equal(t, tt.shardSQL, res.Shards[0].SQL)
			assert.Equal(t, len(tt.shard1), res.Shards[0].Rows)
			assert.Equal(t, len(tt.shard2), res.Shards[1].Rows)

			assert.NoError(t, m1.ExpectationsWereMet())
			assert.NoError(t, m2.ExpectationsWereMet())
		})
	}
}

func TestExecutor_PerShardPlaceholderStyle(t *testing.T) {
	s1, m1 := newMockShard(t, "pg", postgres.Postgres)
	s2, m2 := newMockShard(t, "ansi", ansi.ANSI)

	m1.ExpectQuery("SELECT id FROM t WHERE a = $1 LIMIT 4").WithArgs("x").WillReturnRows(idRows(1))
	m2.ExpectQuery("SELECT id FROM t WHERE a = ? LIMIT 4").WithArgs("x").WillReturnRows(idRows(2))

	exec, err := New(Config{Dialect: ansi.ANSI, Shards: []Shard{s1, s2}, MaxConcurrency: 1})
	require.NoError(t, err)

	res, err := exec.Query(context.Background(), "SELECT id FROM t WHERE a = ? LIMIT 4", "x")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(1)}, {int64(2)}}, res.Rows)
	assert.NoError(t, m1.ExpectationsWereMet())
	assert.NoError(t, m2.ExpectationsWereMet())
}

func TestExecutor_Errors(t *testing.T) {
	t.Run("shard failure", func(t *testing.T) {
		s1, m1 := newMockShard(t, "s1", ansi.ANSI)
		s2, m2 := newMockShard(t, "s2", ansi.ANSI)
		m1.ExpectQuery("SELECT id FROM t LIMIT 1").WillReturnRows(idRows(1))
		m2.ExpectQuery("SELECT id FROM t LIMIT 1").WillReturnError(assert.AnError)

		exec, err := New(Config{Dialect: ansi.ANSI, Shards: []Shard{s1, s2}})
		require.NoError(t, err)

		_, err = exec.Query(context.Background(), "SELECT id FROM t LIMIT 1")
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "shard s2")
	})

	t.Run("column mismatch", func(t *testing.T) {
		s1, m1 := newMockShard(t, "s1", ansi.ANSI)
		s2, m2 := newMockShard(t, "s2", ansi.ANSI)
		m1.ExpectQuery("SELECT * FROM t").WillReturnRows(idRows(1))
		m2.ExpectQuery("SELECT * FROM t").WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("a"))

		exec, err := New(Config{Dialect: ansi.ANSI, Shards: []Shard{s1, s2}})
		require.NoError(t, err)

		_, err = exec.Query(context.Background(), "SELECT * FROM t")
		assert.ErrorIs(t, err, ErrColumnMismatch)
	})

	t.Run("missing arguments", func(t *testing.T) {
		s1, _ := newMockShard(t, "s1", ansi.ANSI)
		exec, err := New(Config{Dialect: ansi.ANSI, Shards: []Shard{s1}})
		require.NoError(t, err)

		_, err = exec.Query(context.Background(), "SELECT id FROM t WHERE a = ? LIMIT ?", "x")
		assert.ErrorIs(t, err, rewrite.ErrMissingArgument)
	})

	t.Run("parse error", func(t *testing.T) {
		s1, _ := newMockShard(t, "s1", ansi.ANSI)
		exec, err := New(Config{Dialect: ansi.ANSI, Shards: []Shard{s1}})
		require.NoError(t, err)

		_, err = exec.Query(context.Background(), "SELECT id FROM t LIMIT x")
		assert.Error(t, err)
	})

	t.Run("config", func(t *testing.T) {
		_, err := New(Config{Shards: []Shard{{Name: "s1"}}})
		assert.ErrorIs(t, err, dialect.ErrDialectRequired)

		_, err = New(Config{Dialect: ansi.ANSI})
		assert.ErrorIs(t, err, ErrNoShards)
	})
}

func TestOpenSQLiteShards(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfgs := []core.ShardConfig{
		{Name: "a", Type: "sqlite", DSN: filepath.Join(dir, "a.db")},
		{Name: "b", Type: "sqlite", DSN: filepath.Join(dir, "b.db")},
	}
	shards, err := Open(ctx, cfgs, testutil.NewTestLogger(t))
	require.NoError(t, err)

	for i, s := range shards {
		require.NoError(t, s.Adapter.Exec(ctx, "CREATE TABLE orders (id INTEGER)"))
		for j := 1; j <= 3; j++ {
			require.NoError(t, s.Adapter.Exec(ctx, "INSERT INTO orders VALUES (?)", (i+1)*10+j))
		}
	}

	exec, err := New(Config{Dialect: ansi.ANSI, Shards: shards})
	require.NoError(t, err)
	defer func() { assert.NoError(t, exec.Close()) }()

	res, err := exec.Query(ctx, "SELECT id FROM orders ORDER BY id LIMIT ? OFFSET 2", 3)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(13)}, {int64(21)}, {int64(22)}}, res.Rows)
	assert.Equal(t, "SELECT id FROM orders ORDER BY id LIMIT ? OFFSET 0", res.Shards[0].SQL)
	assert.Equal(t, []any{int64(5)}, res.Shards[0].Args)
}

func TestOpenUnknownAdapter(t *testing.T) {
	_, err := Open(context.Background(), []core.ShardConfig{
		{Name: "a", Type: "sqlite", DSN: filepath.Join(t.TempDir(), "a.db")},
		{Name: "b", Type: "oracle"},
	}, nil)

	var unknown *adapter.UnknownAdapterError
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, err.Error(), "shard b")
}

// closeCounter counts Close calls on adapters it creates.
type closeCounter struct {
	adapter.Adapter
	closed *atomic.Int32
}

func (c closeCounter) Connect(context.Context, core.ShardConfig) error { return nil }

func (c closeCounter) Close() error {
	c.closed.Add(1)
	return nil
}

func TestOpenExecutor(t *testing.T) {
	var closed atomic.Int32
	adapter.Register("close_counter", func(*slog.Logger) adapter.Adapter {
		return closeCounter{closed: &closed}
	})
	cfgs := []core.ShardConfig{
		{Name: "a", Type: "close_counter"},
		{Name: "b", Type: "close_counter"},
	}

	t.Run("closes shards when the executor cannot be built", func(t *testing.T) {
		closed.Store(0)
		exec, err := OpenExecutor(context.Background(), Config{}, cfgs)
		assert.ErrorIs(t, err, dialect.ErrDialectRequired)
		assert.Nil(t, exec)
		assert.Equal(t, int32(2), closed.Load())
	})

	t.Run("keeps shards open on success", func(t *testing.T) {
		closed.Store(0)
		exec, err := OpenExecutor(context.Background(), Config{Dialect: ansi.ANSI}, cfgs)
		require.NoError(t, err)
		assert.Equal(t, int32(0), closed.Load())

		require.NoError(t, exec.Close())
		assert.Equal(t, int32(2), closed.Load())
	})

	t.Run("open failure", func(t *testing.T) {
		_, err := OpenExecutor(context.Background(), Config{Dialect: ansi.ANSI}, []core.ShardConfig{{Name: "x"}})
		assert.ErrorIs(t, err, adapter.ErrTypeRequired)
		assert.Contains(t, err.Error(), "failed to open shards")
	})
}
