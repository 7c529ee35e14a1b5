// Package parser scans SQL SELECT statements and extracts their paging window.
//
// # Usage
//
//	stmt, err := parser.ParseWithDialect("SELECT a FROM t LIMIT 10 OFFSET ?", myDialect)
//	if err != nil {
//	    // handle error
//	}
//	w := stmt.Window()       // offset ?0, row count 10
//	m := stmt.Markers()      // one row-count marker at the "10"
//
// The parser requires a dialect to be specified. Use the dialect registry
// to get a dialect by name:
//
//	d, ok := dialect.Get("postgres")
//	stmt, err := parser.ParseWithDialect(sql, d)
//
// # Grammar Overview
//
// The statement scanner does not build an AST. It walks the tokens of a
// single statement, tracks parenthesis depth and allocates an index for
// every ? placeholder. When a dialect paging keyword appears at depth zero,
// ParseLimit takes over:
//
//	statement    → (SELECT | WITH) token* [limit_clause] token* [';']
//	limit_clause → see ParseLimit
//
// Paging keywords inside parentheses belong to subqueries and are skipped.
// A top-level FETCH in a dialect without the FETCH form is an error rather
// than text passed through unparsed.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapshard/pkg/core"
	"github.com/leapstack-labs/leapshard/pkg/dialect"
	"github.com/leapstack-labs/leapshard/pkg/token"
)

// Parser walks the tokens of one SQL statement. It implements spi.Cursor.
type Parser struct {
	lexer   *Lexer
	token   Token // current token
	peek    Token // lookahead token
	dialect *dialect.Dialect // required
}

// NewParser creates a new parser for the given SQL input with dialect support.
func NewParser(sql string, d *dialect.Dialect) *Parser {
	p := &Parser{
		lexer:   NewLexerWithDialect(sql, d),
		dialect: d,
	}
	// Read two tokens to initialize current and peek
	p.nextToken()
	p.nextToken()
	return p
}

// ParseWithDialect parses the SQL with a specific dialect and returns the
// statement context. On error no statement is returned.
func ParseWithDialect(sql string, d *dialect.Dialect) (*core.SelectStatement, error) {
	if d == nil {
		return nil, dialect.ErrDialectRequired
	}
	p := NewParser(sql, d)
	stmt := core.NewSelectStatement(sql)
	if err := p.parseStatement(stmt); err != nil {
		return nil, err
	}
	return stmt, nil
}

// Dialect returns the parser's dialect.
func (p *Parser) Dialect() *dialect.Dialect {
	return p.dialect
}

// parseStatement scans a single statement into stmt.
func (p *Parser) parseStatement(stmt *core.SelectStatement) error {
	if !p.check(token.SELECT) && !p.check(token.WITH) && !p.check(token.LPAREN) {
		return p.unexpected("SELECT")
	}

	g := p.dialect.Limit()
	depth := 0
	for {
		tok := p.token
		switch tok.Type {
		case token.EOF:
			if depth != 0 {
				return p.errorf(ErrUnbalancedParens)
			}
			return nil
		case token.ILLEGAL:
			return p.lexError(tok)
		case token.SEMICOLON:
			if depth != 0 {
				return p.errorf(ErrUnbalancedParens)
			}
			p.nextToken()
			if !p.check(token.EOF) {
				return p.errorf(ErrMultipleStatements)
			}
			return nil
		case token.LPAREN:
			depth++
		case token.RPAREN:
			if depth == 0 {
				return p.errorf(ErrUnbalancedParens)
			}
			depth--
		case token.PARAM:
			return p.errorf(ErrNamedParameter, tok.Literal)
		case token.QUESTION:
			idx := stmt.NextParameterIndex()
			stmt.AddPlaceholder(core.PlaceholderRef{Index: idx, Span: tok.Span()})
		default:
			if depth == 0 && tok.Type == token.FETCH && !g.Fetch {
				return &ClauseSyntaxError{Token: tok, Pos: tok.Pos, Expected: "a paging clause supported by " + p.dialect.Name}
			}
			if depth == 0 && g.IsIntroducer(tok.Type) {
				if err := ParseLimit(p, g, stmt); err != nil {
					return err
				}
				continue
			}
		}
		p.nextToken()
	}
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t TokenType) bool {
	return p.token.Type == t
}

// errorf returns a parse error at the current token.
func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{
		Pos:     p.token.Pos,
		Message: fmt.Sprintf(format, args...),
	}
}

// unexpected returns a parse error for the current token.
func (p *Parser) unexpected(expected string) error {
	return p.errorf(ErrUnexpectedToken, describe(p.token), expected)
}

// lexError converts an ILLEGAL token into a lexer error.
func (p *Parser) lexError(tok Token) error {
	msg := fmt.Sprintf(ErrIllegalCharacter, tok.Literal)
	if tok.Pos.Offset < len(p.lexer.input) {
		switch p.lexer.input[tok.Pos.Offset] {
		case '\'':
			msg = ErrUnterminatedString
		case '"':
			msg = ErrUnterminatedIdent
		}
	}
	return &LexError{Pos: tok.Pos, Message: msg}
}

// ---------- spi.Cursor Implementation ----------

// Token returns the current token (implements spi.Cursor).
func (p *Parser) Token() token.Token {
	return p.token
}

// Peek returns the lookahead token (implements spi.Cursor).
func (p *Parser) Peek() token.Token {
	return p.peek
}

// NextToken advances to the next token (implements spi.Cursor).
func (p *Parser) NextToken() {
	p.nextToken()
}

// Check returns true if the current token is of the given type (implements spi.Cursor).
func (p *Parser) Check(t token.TokenType) bool {
	return p.check(t)
}

// CheckAny returns true if the current token is any of the given types (implements spi.Cursor).
func (p *Parser) CheckAny(types ...token.TokenType) bool {
	return p.token.Is(types...)
}

// SkipIfAny consumes the current token if it is any of the given types (implements spi.Cursor).
func (p *Parser) SkipIfAny(types ...token.TokenType) bool {
	if p.token.Is(types...) {
		p.nextToken()
		return true
	}
	return false
}
