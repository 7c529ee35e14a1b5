package parser

import (
	"strconv"

	"github.com/leapstack-labs/leapshard/pkg/core"
	"github.com/leapstack-labs/leapshard/pkg/dialect"
	"github.com/leapstack-labs/leapshard/pkg/spi"
	"github.com/leapstack-labs/leapshard/pkg/token"
)

// ParseLimit parses the paging clause at the cursor and attaches the
// resulting window to stmt.
//
// Grammar (keywords come from g):
//
//	limit_clause → ( row_count_kw [value ','] row_count | offset_kw offset | fetch )*
//	row_count    → NUMBER | '?' | unbounded_kw
//	offset       → ( NUMBER | '?' ) [unit_kw]
//	fetch        → FETCH [FIRST | NEXT] ( NUMBER | '?' ) [ROW | ROWS] [ONLY]
//
// The "value ','" prefix is the offset and is only accepted when
// g.CommaOffset is set; fetch only when g.Fetch is set.
//
// The clauses may appear in either order and may repeat; the last
// occurrence of each half wins. If the cursor is not at an introducer
// nothing is consumed and no window is attached. Literal operands are
// rounded half-up and recorded as rewrite markers on stmt; placeholders take
// the next index from the statement's counter. On error every marker,
// placeholder and index recorded by this call is discarded.
func ParseLimit(cur spi.Cursor, g dialect.LimitGrammar, stmt *core.SelectStatement) error {
	sp := stmt.Savepoint()
	if err := parseLimit(cur, g, stmt); err != nil {
		stmt.Rollback(sp)
		return err
	}
	return nil
}

func parseLimit(cur spi.Cursor, g dialect.LimitGrammar, stmt *core.SelectStatement) error {
	var offset, rowCount core.Operand

loop:
	for {
		switch {
		case cur.SkipIfAny(g.RowCount...):
			if g.CommaOffset && cur.Peek().Type == token.COMMA {
				op, err := readValue(cur, stmt, core.OffsetMarker, valueExpected)
				if err != nil {
					return err
				}
				cur.NextToken() // ','
				offset = op
			}
			op, err := readRowCount(cur, g, stmt)
			if err != nil {
				return err
			}
			rowCount = op
		case cur.SkipIfAny(g.Offset...):
			op, err := readOffset(cur, g, stmt)
			if err != nil {
				return err
			}
			offset = op
		case g.Fetch && cur.SkipIfAny(token.FETCH):
			op, err := readFetch(cur, stmt)
			if err != nil {
				return err
			}
			rowCount = op
		default:
			break loop
		}
	}

	if !offset.IsPresent() && !rowCount.IsPresent() {
		return nil
	}
	// A comma here is a "LIMIT offset, row_count" the dialect does not accept.
	if tok := cur.Token(); tok.Type == token.COMMA {
		return &ClauseSyntaxError{Token: tok, Pos: tok.Pos, Expected: "end of the paging clause"}
	}
	return stmt.SetWindow(core.NewWindowSpec(offset, rowCount, true))
}

const valueExpected = "a number or a ? placeholder"

var _ spi.Cursor = (*Parser)(nil)

// readRowCount reads the operand after a row-count introducer.
func readRowCount(cur spi.Cursor, g dialect.LimitGrammar, stmt *core.SelectStatement) (core.Operand, error) {
	if g.SupportsUnbounded() && cur.Check(g.Unbounded) {
		cur.NextToken()
		return core.Unbounded(), nil
	}

	expected := valueExpected
	if g.SupportsUnbounded() {
		expected = "a number, a ? placeholder or " + g.Unbounded.String()
	}
	return readValue(cur, stmt, core.RowCountMarker, expected)
}

// readOffset reads the operand after an offset introducer, then skips one
// optional unit keyword.
func readOffset(cur spi.Cursor, g dialect.LimitGrammar, stmt *core.SelectStatement) (core.Operand, error) {
	op, err := readValue(cur, stmt, core.OffsetMarker, valueExpected)
	if err != nil {
		return core.Operand{}, err
	}
	cur.SkipIfAny(g.Units...)
	return op, nil
}

// readFetch reads the rest of a FETCH clause. WITH TIES is rejected: it
// returns more rows than the count, which a merged window cannot reproduce.
func readFetch(cur spi.Cursor, stmt *core.SelectStatement) (core.Operand, error) {
	cur.SkipIfAny(token.FIRST, token.NEXT)
	op, err := readValue(cur, stmt, core.RowCountMarker, valueExpected)
	if err != nil {
		return core.Operand{}, err
	}
	cur.SkipIfAny(token.ROW, token.ROWS)
	if tok := cur.Token(); tok.Type == token.WITH {
		return core.Operand{}, &ClauseSyntaxError{Token: tok, Pos: tok.Pos, Expected: "ONLY"}
	}
	cur.SkipIfAny(token.ONLY)
	return op, nil
}

// readValue reads a numeric literal or a placeholder.
func readValue(cur spi.Cursor, stmt *core.SelectStatement, kind core.MarkerKind, expected string) (core.Operand, error) {
	tok := cur.Token()
	switch tok.Type {
	case token.NUMBER:
		v, err := roundHalfUp(tok.Literal)
		if err != nil {
			return core.Operand{}, &ClauseSyntaxError{Token: tok, Pos: tok.Pos, Expected: "a number between 0 and " + strconv.FormatInt(maxWindowValue.IntPart(), 10)}
		}
		emitMarker(stmt, kind, tok, v)
		cur.NextToken()
		return core.Literal(v), nil
	case token.QUESTION:
		idx := stmt.NextParameterIndex()
		stmt.AddPlaceholder(core.PlaceholderRef{Index: idx, Span: tok.Span()})
		cur.NextToken()
		return core.Placeholder(idx), nil
	default:
		return core.Operand{}, &ClauseSyntaxError{Token: tok, Pos: tok.Pos, Expected: expected}
	}
}

// emitMarker records a literal's position. Start is computed back from the
// end of the token using the printed length of the rounded value.
func emitMarker(stmt *core.SelectStatement, kind core.MarkerKind, tok token.Token, v int64) {
	stmt.AddMarker(core.RewriteMarker{
		Kind:  kind,
		Start: tok.End - len(strconv.FormatInt(v, 10)),
		Value: v,
		Span:  tok.Span(),
	})
}
