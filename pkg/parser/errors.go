package parser

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/leapshard/pkg/token"
)

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// ClauseSyntaxError is returned when a paging clause operand is not one of
// the accepted forms. Nothing is attached to the statement when it occurs.
type ClauseSyntaxError struct {
	Token    token.Token    // offending token
	Pos      token.Position // where the operand was expected
	Expected string         // human-readable list of accepted forms
}

func (e *ClauseSyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: unexpected %s, expected %s",
		e.Pos.Line, e.Pos.Column, describe(e.Token), e.Expected)
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.ILLEGAL:
		return "character " + strconv.Quote(tok.Literal)
	default:
		return strconv.Quote(tok.Literal)
	}
}

// Common error messages
const (
	ErrUnexpectedToken    = "unexpected token %s, expected %s"
	ErrUnterminatedString = "unterminated string literal"
	ErrUnterminatedIdent  = "unterminated quoted identifier"
	ErrIllegalCharacter   = "illegal character %q"
	ErrUnbalancedParens   = "unbalanced parentheses"
	ErrMultipleStatements = "only one statement is supported"
	ErrNamedParameter     = "parameter %s is not supported, use ? placeholders"
)
