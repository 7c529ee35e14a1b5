package postgres

import (
	"testing"

	"github.com/leapstack-labs/leapshard/pkg/dialect"
	"github.com/leapstack-labs/leapshard/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres(t *testing.T) {
	d, ok := dialect.Get("postgres")
	require.True(t, ok, "postgres dialect should be registered")
	assert.Same(t, Postgres, d)

	g := d.Limit()
	assert.Equal(t, []token.TokenType{token.LIMIT}, g.RowCount)
	assert.Equal(t, []token.TokenType{token.OFFSET}, g.Offset)
	assert.Equal(t, []token.TokenType{token.ROW, token.ROWS}, g.Units)
	assert.Equal(t, token.ALL, g.Unbounded)
	assert.True(t, g.Fetch, "inherited from ansi")
	assert.Equal(t, "$2", d.FormatPlaceholder(2))
}

func TestANSIUnchanged(t *testing.T) {
	d, ok := dialect.Get("ansi")
	require.True(t, ok)
	assert.False(t, d.Limit().SupportsUnbounded())
}
