// Package spi provides the Service Provider Interface between the lexer-backed
// parser and clause parsers, so clause grammars can be driven by any token
// source without depending on the parser package.
package spi

import "github.com/leapstack-labs/leapshard/pkg/token"

// Cursor exposes a forward-only token stream to clause parsers.
// Implementations are not safe for concurrent use; a clause parser has
// exclusive access to the cursor for the duration of its call.
type Cursor interface {
	// Token returns the current token.
	Token() token.Token

	// Peek returns the token after the current one without consuming anything.
	Peek() token.Token

	// NextToken consumes the current token.
	NextToken()

	// Check returns true if the current token is of the given type.
	Check(t token.TokenType) bool

	// CheckAny returns true if the current token is any of the given types.
	CheckAny(types ...token.TokenType) bool

	// SkipIfAny consumes the current token if it is any of the given types.
	SkipIfAny(types ...token.TokenType) bool
}
