// Package databricks provides the Databricks SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package databricks

import (
	"github.com/leapstack-labs/leapshard/pkg/dialect"
	"github.com/leapstack-labs/leapshard/pkg/token"
)

func init() {
	dialect.Register(Databricks)
}

// Databricks is the Databricks dialect. LIMIT ALL returns every row.
var Databricks = dialect.NewDialect("databricks").
	LimitKeywords(token.LIMIT).
	OffsetKeywords(token.OFFSET).
	Unbounded(token.ALL).
	Build()
