package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/leapshard/pkg/dialect"
	"github.com/leapstack-labs/leapshard/pkg/token"
)

// Lexer tokenizes SQL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	// Dialect support (optional)
	dialect *dialect.Dialect
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	return NewLexerWithDialect(input, nil)
}

// NewLexerWithDialect creates a new dialect-aware Lexer for the given input.
// Identifiers are matched against the dialect's own keywords after the
// builtin ones.
func NewLexerWithDialect(input string, d *dialect.Dialect) *Lexer {
	l := &Lexer{
		input:   input,
		line:    1,
		col:     0,
		dialect: d,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	return l.peekCharAt(0)
}

// peekCharAt returns the character n positions after the next one.
func (l *Lexer) peekCharAt(n int) byte {
	if l.readPos+n >= len(l.input) {
		return 0
	}
	return l.input[l.readPos+n]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() Position {
	return Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token. End is the byte offset just past the
// token's last character.
func (l *Lexer) NextToken() Token {
	tok := l.scan()
	tok.End = min(l.pos, len(l.input))
	return tok
}

func (l *Lexer) scan() Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()
	tok := Token{Pos: pos}

	switch l.ch {
	case 0:
		if l.pos >= len(l.input) {
			tok.Type = token.EOF
			return tok
		}
		tok = l.newToken(token.ILLEGAL, "\x00")
	case '?':
		tok = l.newToken(token.QUESTION, "?")
	case ',':
		tok = l.newToken(token.COMMA, ",")
	case ';':
		tok = l.newToken(token.SEMICOLON, ";")
	case '(':
		tok = l.newToken(token.LPAREN, "(")
	case ')':
		tok = l.newToken(token.RPAREN, ")")
	case '$':
		if isDigit(l.peekChar()) {
			start := l.pos
			l.readChar() // skip '$'
			for isDigit(l.ch) {
				l.readChar()
			}
			return Token{Type: token.PARAM, Literal: l.input[start:l.pos], Pos: pos}
		}
		tok = l.newToken(token.ILLEGAL, "$")
	case ':':
		if isLetter(l.peekChar()) || l.peekChar() == '_' {
			start := l.pos
			l.readChar() // skip ':'
			l.readIdentifier()
			return Token{Type: token.PARAM, Literal: l.input[start:l.pos], Pos: pos}
		}
		return l.readOperator(pos)
	case '.':
		if isDigit(l.peekChar()) {
			return Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}
		}
		tok = l.newToken(token.DOT, ".")
	case '\'':
		lit, ok := l.readString()
		if !ok {
			return Token{Type: token.ILLEGAL, Literal: lit, Pos: pos}
		}
		return Token{Type: token.STRING, Literal: lit, Pos: pos}
	case '"':
		// Quoted identifier (ANSI style)
		lit, ok := l.readQuotedIdentifier()
		if !ok {
			return Token{Type: token.ILLEGAL, Literal: lit, Pos: pos}
		}
		return Token{Type: token.IDENT, Literal: lit, Pos: pos}
	default:
		switch {
		case l.atIdentStart():
			tok.Literal = l.readIdentifier()
			// Check builtin keywords first
			tok.Type = token.LookupIdent(tok.Literal)
			// If not a builtin keyword, check dialect keywords
			if tok.Type == token.IDENT && l.dialect != nil {
				if dynTok, ok := l.dialect.LookupKeyword(tok.Literal); ok {
					tok.Type = dynTok
				}
			}
			return tok
		case isDigit(l.ch):
			tok.Type = token.NUMBER
			tok.Literal = l.readNumber()
			return tok
		case isOperatorChar(l.ch):
			return l.readOperator(pos)
		default:
			tok = l.newToken(token.ILLEGAL, string(l.ch))
		}
	}

	l.readChar()
	return tok
}

// newToken creates a new token.
func (l *Lexer) newToken(tokenType TokenType, literal string) Token {
	return Token{Type: tokenType, Literal: literal, Pos: l.currentPos()}
}

// twoCharOperators are the operators longer than one character.
var twoCharOperators = map[string]bool{
	"<=": true, ">=": true, "<>": true, "!=": true,
	"||": true, "::": true, "->": true, "=>": true,
}

// readOperator reads a one or two character operator.
func (l *Lexer) readOperator(pos Position) Token {
	if op := string([]byte{l.ch, l.peekChar()}); twoCharOperators[op] {
		l.readChar()
		l.readChar()
		return Token{Type: token.OPERATOR, Literal: op, Pos: pos}
	}
	op := string(l.ch)
	l.readChar()
	return Token{Type: token.OPERATOR, Literal: op, Pos: pos}
}

func isOperatorChar(ch byte) bool {
	return strings.IndexByte("+-*/%=<>!|&^~:@#[]{}", ch) >= 0
}

// skipWhitespaceAndComments skips whitespace, line comments and block comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		// Skip whitespace
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}

		// Skip line comment (-- ...)
		if l.ch == '-' && l.peekChar() == '-' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}

		// Skip block comment (/* ... */)
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar() // skip '/'
			l.readChar() // skip '*'
			for l.ch != 0 || l.pos < len(l.input) {
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar() // skip '*'
					l.readChar() // skip '/'
					break
				}
				l.readChar()
			}
			continue
		}

		break
	}
}

// readString reads a single-quoted string literal.
// Handles doubled single quotes as escape: 'it''s' -> it's
// Returns false if the input ends before the closing quote.
func (l *Lexer) readString() (string, bool) {
	return l.readQuoted('\'')
}

// readQuotedIdentifier reads a double-quoted identifier.
// Handles doubled double quotes as escape: "col""name" -> col"name
func (l *Lexer) readQuotedIdentifier() (string, bool) {
	return l.readQuoted('"')
}

func (l *Lexer) readQuoted(quote byte) (string, bool) {
	l.readChar() // skip opening quote

	var result strings.Builder
	for l.pos < len(l.input) {
		if l.ch == quote {
			if l.peekChar() == quote {
				// Doubled quote escape
				result.WriteByte(quote)
				l.readChar() // skip first quote
				l.readChar() // skip second quote
				continue
			}
			l.readChar() // skip closing quote
			return result.String(), true
		}
		result.WriteByte(l.ch)
		l.readChar()
	}
	return result.String(), false
}

// readIdentifier reads an unquoted identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for {
		r, size := l.currentRune()
		if !isIdentPart(r) {
			break
		}
		for range size {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

// atIdentStart reports whether an unquoted identifier starts at the current byte.
func (l *Lexer) atIdentStart() bool {
	r, _ := l.currentRune()
	return r == '_' || unicode.IsLetter(r)
}

// currentRune decodes the UTF-8 sequence starting at the current byte.
func (l *Lexer) currentRune() (rune, int) {
	if l.ch < utf8.RuneSelf {
		return rune(l.ch), 1
	}
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber() string {
	start := l.pos

	// Read integer part
	for isDigit(l.ch) {
		l.readChar()
	}

	// Read decimal part
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // skip '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	// Read exponent part (e.g., 1e10, 1E-5), only when digits follow
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekCharAt(1))) {
			l.readChar() // skip 'e' or 'E'
			if l.ch == '+' || l.ch == '-' {
				l.readChar() // skip sign
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	return l.input[start:l.pos]
}

// isLetter returns true if ch is a letter.
func isLetter(ch byte) bool {
	return ch < utf8.RuneSelf && unicode.IsLetter(rune(ch))
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input.
func Tokenize(input string) []Token {
	return TokenizeWithDialect(input, nil)
}

// TokenizeWithDialect returns all tokens from the input using the dialect's keywords.
func TokenizeWithDialect(input string, d *dialect.Dialect) []Token {
	l := NewLexerWithDialect(input, d)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}
