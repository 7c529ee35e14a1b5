// Package sqlite provides the SQLite SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package sqlite

import (
	"github.com/leapstack-labs/leapshard/pkg/dialect"
	"github.com/leapstack-labs/leapshard/pkg/token"
)

func init() {
	dialect.Register(SQLite)
}

// SQLite is the SQLite dialect. It has neither LIMIT ALL nor OFFSET units
// and accepts LIMIT m, n as OFFSET m LIMIT n.
var SQLite = dialect.NewDialect("sqlite").
	LimitKeywords(token.LIMIT).
	OffsetKeywords(token.OFFSET).
	CommaOffset().
	Build()
