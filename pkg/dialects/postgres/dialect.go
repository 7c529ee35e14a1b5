// Package postgres provides the PostgreSQL SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package postgres

import (
	"github.com/leapstack-labs/leapshard/pkg/core"
	"github.com/leapstack-labs/leapshard/pkg/dialect"
	"github.com/leapstack-labs/leapshard/pkg/dialects/ansi"
	"github.com/leapstack-labs/leapshard/pkg/token"
)

func init() {
	dialect.Register(Postgres)
}

// Postgres is the PostgreSQL dialect.
// It adds LIMIT ALL to the ANSI grammar and numbers its parameters $1, $2, ...
//
// Input statements always use ? placeholders, whatever the dialect. The
// parser rejects $n and :name parameters; the $n form is only produced when a
// statement is rewritten for execution.
var Postgres = dialect.Extend("postgres", ansi.ANSI).
	Unbounded(token.ALL).
	PlaceholderStyle(core.PlaceholderDollar).
	Build()
