// Package dialect provides SQL dialect definitions for the paging clause parser.
//
// This package contains the public contract for dialect definitions used by the
// lexer and the window-clause parser. Concrete dialects are registered from
// pkg/dialects/*/ packages; custom dialects can be built from configuration
// with FromConfig.
package dialect

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapshard/pkg/core"
	"github.com/leapstack-labs/leapshard/pkg/token"
)

// LimitGrammar is the keyword table of a dialect's paging clause.
// Each list is a synonym set: any of its tokens plays the same role.
type LimitGrammar struct {
	RowCount  []token.TokenType // row-count introducers (LIMIT)
	Offset    []token.TokenType // offset introducers (OFFSET)
	Units     []token.TokenType // optional unit word after an offset (ROW, ROWS)
	Unbounded token.TokenType   // row-count keyword meaning "no limit" - 0 means none

	// Fetch enables FETCH {FIRST|NEXT} n [ROW|ROWS] [ONLY] as a row-count clause.
	Fetch bool

	// CommaOffset enables "LIMIT offset, row_count" after a row-count introducer.
	CommaOffset bool
}

// SupportsUnbounded reports whether the grammar has an unbounded row-count form.
func (g LimitGrammar) SupportsUnbounded() bool {
	return g.Unbounded != token.EOF
}

// IsIntroducer reports whether t starts a row-count or offset clause.
func (g LimitGrammar) IsIntroducer(t token.TokenType) bool {
	return contains(g.RowCount, t) || contains(g.Offset, t) || (g.Fetch && t == token.FETCH)
}

func contains(types []token.TokenType, t token.TokenType) bool {
	for _, typ := range types {
		if typ == t {
			return true
		}
	}
	return false
}

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name        string
	Placeholder core.PlaceholderStyle // How to format query parameters

	limit     LimitGrammar
	dynamicKw map[string]token.TokenType // Non-builtin keywords: "SKIP" -> SKIP
}

// GetName returns the dialect name.
func (d *Dialect) GetName() string {
	return d.Name
}

// Limit returns the dialect's paging clause grammar.
func (d *Dialect) Limit() LimitGrammar {
	return d.limit
}

// LookupKeyword returns the dialect-specific keyword token for an identifier.
// Builtin keywords are resolved by the token package and are not listed here.
func (d *Dialect) LookupKeyword(name string) (token.TokenType, bool) {
	if d.dynamicKw == nil {
		return token.IDENT, false
	}
	t, ok := d.dynamicKw[strings.ToUpper(name)]
	return t, ok
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion style, "$1", "$2" etc. for PlaceholderDollar style.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// Config returns the pure data configuration for this dialect.
func (d *Dialect) Config() *core.DialectConfig {
	cfg := &core.DialectConfig{
		Name:        d.Name,
		Placeholder: d.Placeholder,
		Limit:       names(d.limit.RowCount),
		Offset:      names(d.limit.Offset),
		Units:       names(d.limit.Units),
		Fetch:       d.limit.Fetch,
		CommaOffset: d.limit.CommaOffset,
	}
	if d.limit.SupportsUnbounded() {
		cfg.Unbounded = d.limit.Unbounded.String()
	}
	return cfg
}

func names(types []token.TokenType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// NewDialect creates a new dialect builder with the given name.
// The builder starts from the standard LIMIT / OFFSET grammar.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name: name,
			limit: LimitGrammar{
				RowCount: []token.TokenType{token.LIMIT},
				Offset:   []token.TokenType{token.OFFSET},
			},
			dynamicKw: make(map[string]token.TokenType),
		},
	}
}

// Extend creates a builder seeded with a copy of an existing dialect.
func Extend(name string, base *Dialect) *Builder {
	b := NewDialect(name)
	b.dialect.Placeholder = base.Placeholder
	b.dialect.limit = LimitGrammar{
		RowCount:    append([]token.TokenType(nil), base.limit.RowCount...),
		Offset:      append([]token.TokenType(nil), base.limit.Offset...),
		Units:       append([]token.TokenType(nil), base.limit.Units...),
		Unbounded:   base.limit.Unbounded,
		Fetch:       base.limit.Fetch,
		CommaOffset: base.limit.CommaOffset,
	}
	for k, v := range base.dynamicKw {
		b.dialect.dynamicKw[k] = v
	}
	return b
}

// LimitKeywords sets the row-count introducer synonyms.
func (b *Builder) LimitKeywords(types ...token.TokenType) *Builder {
	b.dialect.limit.RowCount = types
	return b
}

// OffsetKeywords sets the offset introducer synonyms.
func (b *Builder) OffsetKeywords(types ...token.TokenType) *Builder {
	b.dialect.limit.Offset = types
	return b
}

// UnitKeywords sets the optional unit words accepted after an offset.
func (b *Builder) UnitKeywords(types ...token.TokenType) *Builder {
	b.dialect.limit.Units = types
	return b
}

// Unbounded sets the keyword accepted as an unbounded row count.
func (b *Builder) Unbounded(t token.TokenType) *Builder {
	b.dialect.limit.Unbounded = t
	return b
}

// FetchFirst enables the FETCH {FIRST|NEXT} row-count clause.
func (b *Builder) FetchFirst() *Builder {
	b.dialect.limit.Fetch = true
	return b
}

// CommaOffset enables the "LIMIT offset, row_count" form.
func (b *Builder) CommaOffset() *Builder {
	b.dialect.limit.CommaOffset = true
	return b
}

// PlaceholderStyle sets the parameter placeholder style.
func (b *Builder) PlaceholderStyle(style core.PlaceholderStyle) *Builder {
	b.dialect.Placeholder = style
	return b
}

// AddKeyword makes the lexer recognize name as token t for this dialect.
func (b *Builder) AddKeyword(name string, t token.TokenType) *Builder {
	b.dialect.dynamicKw[strings.ToUpper(name)] = t
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}
