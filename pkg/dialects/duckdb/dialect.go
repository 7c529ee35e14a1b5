// Package duckdb provides the DuckDB SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package duckdb

import (
	"github.com/leapstack-labs/leapshard/pkg/dialect"
	"github.com/leapstack-labs/leapshard/pkg/token"
)

func init() {
	dialect.Register(DuckDB)
}

// DuckDB is the DuckDB dialect. OFFSET takes a bare count.
var DuckDB = dialect.NewDialect("duckdb").
	LimitKeywords(token.LIMIT).
	OffsetKeywords(token.OFFSET).
	Build()
