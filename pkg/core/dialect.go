package core

import (
	"fmt"
	"strings"
)

// DialectConfig holds the static definition of a SQL dialect's paging
// grammar. This is pure data; pkg/dialect turns it into token sets.
//
// Keyword lists are ordered synonym sets: any keyword of the set introduces
// the clause. Names that are not builtin keywords are registered dynamically.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "postgres", "duckdb")
	Name string `koanf:"name"`

	// Base names a registered dialect whose settings are inherited for any
	// list left empty.
	Base string `koanf:"base"`

	// Placeholder defines how parameters are written in rewritten statements.
	// Parsed input always uses ?.
	Placeholder PlaceholderStyle `koanf:"placeholder"`

	Limit     []string `koanf:"limit"`     // row-count introducers (LIMIT)
	Offset    []string `koanf:"offset"`    // offset introducers (OFFSET)
	Units     []string `koanf:"units"`     // trailing unit words after the offset (ROW, ROWS)
	Unbounded string   `koanf:"unbounded"` // row-count keyword meaning "no limit" (ALL)

	// Fetch accepts FETCH {FIRST|NEXT} n [ROW|ROWS] [ONLY] as the row count.
	// CommaOffset accepts "LIMIT offset, row_count". Both are inherited from
	// the base when false.
	Fetch       bool `koanf:"fetch"`
	CommaOffset bool `koanf:"comma_offset"`
}

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, MySQL, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
)

// String returns the string representation of PlaceholderStyle.
func (p PlaceholderStyle) String() string {
	if p == PlaceholderDollar {
		return "dollar"
	}
	return "question"
}

// MarshalText implements encoding.TextMarshaler.
func (p PlaceholderStyle) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so configuration files can
// spell the style as "question" or "dollar".
func (p *PlaceholderStyle) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "question", "?":
		*p = PlaceholderQuestion
	case "dollar", "$":
		*p = PlaceholderDollar
	default:
		return fmt.Errorf("unknown placeholder style %q", text)
	}
	return nil
}
