// Package token defines the token types produced by the SQL lexer and
// consumed by the window-clause parser.
//
// Core tokens are defined as constants (IDs 0-999) for switch performance.
// Dialect-specific keywords are registered dynamically via Register().
package token

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // identifier
	NUMBER // 123, 45.67, 1e10
	STRING // 'hello'

	// Symbols
	QUESTION  // ?
	PARAM     // $1, :name
	COMMA     // ,
	DOT       // .
	SEMICOLON // ;
	LPAREN    // (
	RPAREN    // )
	OPERATOR  // any other operator (+, -, =, <>, ||, ...)

	// Keywords (alphabetical)
	ALL
	AND
	AS
	BY
	DISTINCT
	EXCEPT
	FETCH
	FIRST
	FROM
	GROUP
	HAVING
	INTERSECT
	LIMIT
	NEXT
	NOT
	NULL
	OFFSET
	ONLY
	OR
	ORDER
	ROW
	ROWS
	SELECT
	UNION
	WHERE
	WITH

	// Sentinel - dynamic tokens start after this
	maxBuiltin TokenType = 999
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := getDynamicName(t); ok {
		return name
	}
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	QUESTION:  "?",
	PARAM:     "PARAM",
	COMMA:     ",",
	DOT:       ".",
	SEMICOLON: ";",
	LPAREN:    "(",
	RPAREN:    ")",
	OPERATOR:  "OPERATOR",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{
	"all":       ALL,
	"and":       AND,
	"as":        AS,
	"by":        BY,
	"distinct":  DISTINCT,
	"except":    EXCEPT,
	"fetch":     FETCH,
	"first":     FIRST,
	"from":      FROM,
	"group":     GROUP,
	"having":    HAVING,
	"intersect": INTERSECT,
	"limit":     LIMIT,
	"next":      NEXT,
	"not":       NOT,
	"null":      NULL,
	"offset":    OFFSET,
	"only":      ONLY,
	"or":        OR,
	"order":     ORDER,
	"row":       ROW,
	"rows":      ROWS,
	"select":    SELECT,
	"union":     UNION,
	"where":     WHERE,
	"with":      WITH,
}

func init() {
	for name, t := range keywords {
		tokenNames[t] = strings.ToUpper(name)
	}
}

// LookupIdent returns the token type for the given identifier.
// Builtin keywords are matched case-insensitively; anything else is IDENT.
// This only checks builtin keywords; see LookupDynamicKeyword for the rest.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[strings.ToLower(ident)]; ok {
		return tok
	}
	return IDENT
}

// LookupKeyword resolves a keyword name to its token type, checking builtin
// keywords first and dynamically registered ones second.
func LookupKeyword(name string) (TokenType, bool) {
	if tok, ok := keywords[strings.ToLower(name)]; ok {
		return tok, true
	}
	return LookupDynamicKeyword(name)
}

// IsKeyword returns true if the token type is a builtin or registered keyword.
func IsKeyword(t TokenType) bool {
	return (t >= ALL && t <= WITH) || IsDynamic(t)
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string   // source text of the token
	Pos     Position // start of the token
	End     int      // 0-based byte offset just past the token
}

// Span returns the source range covered by the token.
// Columns are only meaningful for tokens that do not span lines.
func (t Token) Span() Span {
	return Span{Start: t.Pos, End: Position{Line: t.Pos.Line, Column: t.Pos.Column + t.End - t.Pos.Offset, Offset: t.End}}
}

// Is reports whether the token is one of the given types.
func (t Token) Is(types ...TokenType) bool {
	for _, typ := range types {
		if t.Type == typ {
			return true
		}
	}
	return false
}
