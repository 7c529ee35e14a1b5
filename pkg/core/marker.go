package core

import "github.com/leapstack-labs/leapshard/pkg/token"

// MarkerKind identifies which half of the window a rewrite marker belongs to.
type MarkerKind int

const (
	// RowCountMarker marks a literal row count.
	RowCountMarker MarkerKind = iota
	// OffsetMarker marks a literal offset.
	OffsetMarker
)

// String returns the string representation of MarkerKind.
func (k MarkerKind) String() string {
	switch k {
	case RowCountMarker:
		return "row_count"
	case OffsetMarker:
		return "offset"
	default:
		return "unknown"
	}
}

// RewriteMarker records where a literal window value sits in the source text
// so the rewriter can replace it without re-tokenizing.
type RewriteMarker struct {
	Kind MarkerKind

	// Start is the byte offset of the literal, computed back from the token's
	// end offset and the printed length of Value.
	Start int

	// Value is the rounded literal value.
	Value int64

	// Span is the source range of the literal lexeme as written.
	Span token.Span
}
