package rewrite

import (
	"testing"

	"github.com/leapstack-labs/leapshard/pkg/core"
	"github.com/leapstack-labs/leapshard/pkg/dialects/ansi"
	"github.com/leapstack-labs/leapshard/pkg/dialect"
	"github.com/leapstack-labs/leapshard/pkg/dialects/postgres"
	"github.com/leapstack-labs/leapshard/pkg/dialects/sqlite"
	"github.com/leapstack-labs/leapshard/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		offset   *int64
		rowCount *int64
		want     string
	}{
		{"row count only", "SELECT * FROM t LIMIT 10 OFFSET 5", nil, int64Ptr(100), "SELECT * FROM t LIMIT 100 OFFSET 5"},
		{"both", "SELECT * FROM t OFFSET 5 ROWS LIMIT 10", int64Ptr(0), int64Ptr(15), "SELECT * FROM t OFFSET 0 ROWS LIMIT 15"},
		{"keep", "SELECT * FROM t LIMIT 10", nil, nil, "SELECT * FROM t LIMIT 10"},
		{"rounded literal", "SELECT * FROM t LIMIT 2.5", nil, nil, "SELECT * FROM t LIMIT 3"},
		{"longer after rounding", "SELECT * FROM t LIMIT 9.5 OFFSET 1e3", nil, nil, "SELECT * FROM t LIMIT 10 OFFSET 1000"},
		{"placeholders untouched", "SELECT * FROM t LIMIT ? OFFSET 2", int64Ptr(7), int64Ptr(9), "SELECT * FROM t LIMIT ? OFFSET 7"},
		{"no clause", "SELECT 1", int64Ptr(7), int64Ptr(9), "SELECT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parser.ParseWithDialect(tt.sql, postgres.Postgres)
			require.NoError(t, err)

			got, err := Apply(stmt.SQL, stmt.Markers(), Values(tt.offset, tt.rowCount))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyBackComputedStart(t *testing.T) {
	// Markers without a span fall back to Start and the printed value.
	sql := "SELECT 1 LIMIT 25"
	markers := []core.RewriteMarker{{Kind: core.RowCountMarker, Start: 15, Value: 25}}

	got, err := Apply(sql, markers, func(core.RewriteMarker) int64 { return 3 })
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1 LIMIT 3", got)
}

func TestApplyErrors(t *testing.T) {
	sql := "SELECT 1 LIMIT 25"

	_, err := Apply(sql, []core.RewriteMarker{{Start: 16, Value: 250}}, Keep)
	assert.ErrorIs(t, err, ErrMarkerOutOfRange)

	_, err = Apply(sql, []core.RewriteMarker{{Start: -1, Value: 2}}, Keep)
	assert.ErrorIs(t, err, ErrMarkerOutOfRange)

	_, err = Apply(sql, []core.RewriteMarker{{Start: 15, Value: 25}, {Start: 16, Value: 5}}, Keep)
	assert.ErrorIs(t, err, ErrMarkerOverlap)
}

func TestBind(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		args []any
		want Bound
	}{
		{"no window", "SELECT 1", nil, Bound{Unbounded: true}},
		{"literals", "SELECT 1 LIMIT 10 OFFSET 5", nil, Bound{Offset: 5, RowCount: 10}},
		{"limit all", "SELECT 1 LIMIT ALL OFFSET 3", nil, Bound{Offset: 3, Unbounded: true}},
		{"offset only", "SELECT 1 OFFSET 3", nil, Bound{Offset: 3, Unbounded: true}},
		{"int args", "SELECT 1 WHERE a = ? LIMIT ? OFFSET ?", []any{"x", 10, int64(20)}, Bound{Offset: 20, RowCount: 10}},
		{"string args", "SELECT 1 LIMIT ? OFFSET ?", []any{"10", " 2.5 "}, Bound{Offset: 3, RowCount: 10}},
		{"float and uint", "SELECT 1 LIMIT ? OFFSET ?", []any{4.4, uint64(1)}, Bound{Offset: 1, RowCount: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parser.ParseWithDialect(tt.sql, postgres.Postgres)
			require.NoError(t, err)

			got, err := Bind(stmt.Window(), tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBindErrors(t *testing.T) {
	stmt, err := parser.ParseWithDialect("SELECT 1 LIMIT ? OFFSET ?", postgres.Postgres)
	require.NoError(t, err)

	_, err = Bind(stmt.Window(), []any{10})
	assert.ErrorIs(t, err, ErrMissingArgument)
	assert.Contains(t, err.Error(), "offset")

	_, err = Bind(stmt.Window(), []any{-1, 0})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "row count")

	_, err = Bind(stmt.Window(), []any{"ten", 0})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Bind(stmt.Window(), []any{struct{}{}, 0})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestShardValues(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		args []any
		want Bound
	}{
		{"limit and offset", "SELECT 1 LIMIT 10 OFFSET 5", nil, Bound{RowCount: 15}},
		{"limit only", "SELECT 1 LIMIT 10", nil, Bound{RowCount: 10}},
		{"offset only", "SELECT 1 OFFSET 5", nil, Bound{Unbounded: true}},
		{"placeholders", "SELECT 1 LIMIT ? OFFSET ?", []any{3, 4}, Bound{RowCount: 7}},
		{"saturates", "SELECT 1 LIMIT 9223372036854775807 OFFSET 1", nil, Bound{RowCount: 9223372036854775807}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parser.ParseWithDialect(tt.sql, postgres.Postgres)
			require.NoError(t, err)

			got, err := ShardValues(stmt.Window(), tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBoundWindow(t *testing.T) {
	tests := []struct {
		name       string
		b          Bound
		n          int
		start, end int
	}{
		{"inside", Bound{Offset: 2, RowCount: 3}, 10, 2, 5},
		{"past end", Bound{Offset: 8, RowCount: 5}, 10, 8, 10},
		{"offset beyond rows", Bound{Offset: 20, RowCount: 5}, 10, 10, 10},
		{"unbounded", Bound{Offset: 4, Unbounded: true}, 10, 4, 10},
		{"huge row count", Bound{Offset: 1, RowCount: 9223372036854775807}, 10, 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.b.Window(tt.n)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestBoundString(t *testing.T) {
	assert.Equal(t, "offset=5 row_count=10", Bound{Offset: 5, RowCount: 10}.String())
	assert.Equal(t, "offset=0 row_count=ALL", Bound{Unbounded: true}.String())
}

func TestForShard(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		args     []any
		question bool
		wantSQL  string
		wantArgs []any
		orig     Bound
	}{
		{
			name:     "literals with dollar placeholders",
			sql:      "SELECT * FROM t WHERE a = ? LIMIT 10 OFFSET 5",
			args:     []any{"x"},
			wantSQL:  "SELECT * FROM t WHERE a = $1 LIMIT 15 OFFSET 0",
			wantArgs: []any{"x"},
			orig:     Bound{Offset: 5, RowCount: 10},
		},
		{
			name:     "placeholder window",
			sql:      "SELECT * FROM t WHERE a = ? LIMIT ? OFFSET ?",
			args:     []any{"x", 10, 5},
			wantSQL:  "SELECT * FROM t WHERE a = $1 LIMIT $2 OFFSET $3",
			wantArgs: []any{"x", int64(15), int64(0)},
			orig:     Bound{Offset: 5, RowCount: 10},
		},
		{
			name:     "question placeholders kept",
			sql:      "SELECT * FROM t LIMIT ? OFFSET 2 ROWS",
			args:     []any{3},
			question: true,
			wantSQL:  "SELECT * FROM t LIMIT ? OFFSET 0 ROWS",
			wantArgs: []any{int64(5)},
			orig:     Bound{Offset: 2, RowCount: 3},
		},
		{
			name:     "no window",
			sql:      "SELECT * FROM t",
			question: true,
			wantSQL:  "SELECT * FROM t",
			orig:     Bound{Unbounded: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := postgres.Postgres
			if tt.question {
				d = ansi.ANSI
			}
			stmt, err := parser.ParseWithDialect(tt.sql, d)
			require.NoError(t, err)

			q, orig, err := ForShard(stmt, d, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, q.SQL)
			assert.Equal(t, tt.wantArgs, q.Args)
			assert.Equal(t, tt.orig, orig)
		})
	}
}

func TestForShardPagingForms(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		d        *dialect.Dialect
		args     []any
		wantSQL  string
		wantArgs []any
		orig     Bound
	}{
		{
			name:    "comma offset literals",
			sql:     "SELECT * FROM t LIMIT 5, 10",
			d:       sqlite.SQLite,
			wantSQL: "SELECT * FROM t LIMIT 0, 15",
			orig:    Bound{Offset: 5, RowCount: 10},
		},
		{
			name:     "comma offset placeholders",
			sql:      "SELECT * FROM t LIMIT ?, ?",
			d:        sqlite.SQLite,
			args:     []any{5, 10},
			wantSQL:  "SELECT * FROM t LIMIT ?, ?",
			wantArgs: []any{int64(0), int64(15)},
			orig:     Bound{Offset: 5, RowCount: 10},
		},
		{
			name:    "offset fetch literals",
			sql:     "SELECT * FROM t ORDER BY id OFFSET 5 ROWS FETCH FIRST 10 ROWS ONLY",
			d:       postgres.Postgres,
			wantSQL: "SELECT * FROM t ORDER BY id OFFSET 0 ROWS FETCH FIRST 15 ROWS ONLY",
			orig:    Bound{Offset: 5, RowCount: 10},
		},
		{
			name:     "offset fetch placeholders",
			sql:      "SELECT * FROM t OFFSET ? ROWS FETCH NEXT ? ROWS ONLY",
			d:        postgres.Postgres,
			args:     []any{5, 10},
			wantSQL:  "SELECT * FROM t OFFSET $1 ROWS FETCH NEXT $2 ROWS ONLY",
			wantArgs: []any{int64(0), int64(15)},
			orig:     Bound{Offset: 5, RowCount: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parser.ParseWithDialect(tt.sql, tt.d)
			require.NoError(t, err)

			q, orig, err := ForShard(stmt, tt.d, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, q.SQL)
			assert.Equal(t, tt.wantArgs, q.Args)
			assert.Equal(t, tt.orig, orig)
		})
	}
}

func TestForShardDoesNotMutateArgs(t *testing.T) {
	stmt, err := parser.ParseWithDialect("SELECT 1 LIMIT ? OFFSET ?", postgres.Postgres)
	require.NoError(t, err)

	args := []any{10, 5}
	_, _, err = ForShard(stmt, postgres.Postgres, args)
	require.NoError(t, err)
	assert.Equal(t, []any{10, 5}, args)
}
