// Package ansi provides the base ANSI SQL dialect.
//
// This dialect serves as the foundation for the other SQL dialects. Dialects
// like PostgreSQL extend ANSI and override the parts of the paging grammar
// that differ.
package ansi

import (
	"github.com/leapstack-labs/leapshard/pkg/dialect"
	"github.com/leapstack-labs/leapshard/pkg/token"
)

func init() {
	dialect.Register(ANSI)
}

// ANSI is the base ANSI SQL dialect.
// It pages with LIMIT n, OFFSET m [ROW | ROWS] and
// FETCH {FIRST | NEXT} n [ROW | ROWS] [ONLY].
var ANSI = dialect.NewDialect("ansi").
	LimitKeywords(token.LIMIT).
	OffsetKeywords(token.OFFSET).
	UnitKeywords(token.ROW, token.ROWS).
	FetchFirst().
	Build()
