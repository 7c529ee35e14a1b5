// Package snowflake provides the Snowflake SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package snowflake

import (
	"github.com/leapstack-labs/leapshard/pkg/dialect"
	"github.com/leapstack-labs/leapshard/pkg/token"
)

func init() {
	dialect.Register(Snowflake)
}

// Snowflake is the Snowflake dialect. It accepts OFFSET m [ROW | ROWS] and
// FETCH [FIRST | NEXT] n [ROW | ROWS] [ONLY].
var Snowflake = dialect.NewDialect("snowflake").
	LimitKeywords(token.LIMIT).
	OffsetKeywords(token.OFFSET).
	UnitKeywords(token.ROW, token.ROWS).
	FetchFirst().
	Build()
