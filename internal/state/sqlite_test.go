package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/leapshard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(context.Background(), path))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_Open(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{name: "memory", path: func(*testing.T) string { return ":memory:" }},
		{name: "file in new directory", path: func(t *testing.T) string {
			return filepath.Join(t.TempDir(), ".leapshard", "history.db")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t)
			store := openStore(t, path)
			assert.Equal(t, path, store.Path())

			version, err := store.GetMigrationVersion(context.Background())
			require.NoError(t, err)
			assert.Equal(t, int64(1), version)
		})
	}
}

func TestSQLiteStore_NotOpen(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(nil)

	assert.ErrorIs(t, store.RecordQuery(ctx, &QueryRun{}), ErrNotOpen)
	_, err := store.ListQueries(ctx, 10)
	require.ErrorIs(t, err, ErrNotOpen)
	_, err = store.GetQuery(ctx, "x")
	require.ErrorIs(t, err, ErrNotOpen)
	assert.NoError(t, store.Close())
}

func TestSQLiteStore_RecordAndGet(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, filepath.Join(t.TempDir(), "history.db"))

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	run := &QueryRun{
		ID:        "q-1",
		SQL:       "SELECT id FROM orders LIMIT 10 OFFSET 20",
		Dialect:   "postgres",
		Window:    "offset=20 row_count=10",
		Shards:    3,
		Rows:      10,
		Status:    QueryStatusCompleted,
		StartedAt: started,
		Duration:  1500 * time.Millisecond,
	}
	require.NoError(t, store.RecordQuery(ctx, run))

	got, err := store.GetQuery(ctx, "q-1")
	require.NoError(t, err)
	assert.Equal(t, run, got)

	_, err = store.GetQuery(ctx, "missing")
	require.ErrorIs(t, err, ErrQueryNotFound)
	assert.Contains(t, err.Error(), "missing")
}

func TestSQLiteStore_RecordDefaults(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, ":memory:")

	run := &QueryRun{SQL: "SELECT 1 LIMIT ?", Dialect: "sqlite", Status: QueryStatusFailed, Error: "missing argument"}
	before := time.Now().UTC().Add(-time.Second)
	require.NoError(t, store.RecordQuery(ctx, run))

	assert.Len(t, run.ID, 36, "a UUID is generated")
	assert.True(t, run.StartedAt.After(before))

	got, err := store.GetQuery(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, QueryStatusFailed, got.Status)
	assert.Equal(t, "missing argument", got.Error)
}

func TestSQLiteStore_ListQueries(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, filepath.Join(t.TempDir(), "history.db"))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, store.RecordQuery(ctx, &QueryRun{
			ID:        id,
			SQL:       "SELECT 1",
			Dialect:   "ansi",
			Status:    QueryStatusCompleted,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	tests := []struct {
		limit int
		want  []string
	}{
		{limit: 2, want: []string{"d", "c"}},
		{limit: 10, want: []string{"d", "c", "b", "a"}},
		{limit: 0, want: nil},
	}

	for _, tt := range tests {
		runs, err := store.ListQueries(ctx, tt.limit)
		require.NoError(t, err)

		var ids []string
		for _, r := range runs {
			ids = append(ids, r.ID)
		}
		assert.Equal(t, tt.want, ids, "limit %d", tt.limit)
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	first := NewSQLiteStore(nil)
	require.NoError(t, first.Open(ctx, path))
	require.NoError(t, first.RecordQuery(ctx, &QueryRun{ID: "kept", SQL: "SELECT 1", Dialect: "ansi", Status: QueryStatusCompleted}))
	require.NoError(t, first.Close())

	second := openStore(t, path)
	got, err := second.GetQuery(ctx, "kept")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", got.SQL)
}
