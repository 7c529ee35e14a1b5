package core

import "strconv"

// OperandKind discriminates the variants of an Operand.
type OperandKind int

const (
	// OperandAbsent means the half of the window was not specified.
	OperandAbsent OperandKind = iota
	// OperandLiteral is a whole number written in the SQL text.
	OperandLiteral
	// OperandPlaceholder is a bound-parameter placeholder (?).
	OperandPlaceholder
	// OperandUnbounded is the ALL form of the row count (LIMIT ALL).
	OperandUnbounded
)

// String returns the string representation of OperandKind.
func (k OperandKind) String() string {
	switch k {
	case OperandAbsent:
		return "absent"
	case OperandLiteral:
		return "literal"
	case OperandPlaceholder:
		return "placeholder"
	case OperandUnbounded:
		return "unbounded"
	default:
		return "unknown"
	}
}

// Operand is one concrete value for the offset or row count of a window.
// The zero value is an absent operand.
type Operand struct {
	kind  OperandKind
	value int64 // OperandLiteral only
	index int   // OperandPlaceholder only
}

// Literal returns a literal operand holding v.
func Literal(v int64) Operand {
	return Operand{kind: OperandLiteral, value: v}
}

// Placeholder returns a placeholder operand referring to the zero-based
// parameter index idx of the statement.
func Placeholder(idx int) Operand {
	return Operand{kind: OperandPlaceholder, index: idx}
}

// Unbounded returns the operand for LIMIT ALL.
func Unbounded() Operand {
	return Operand{kind: OperandUnbounded}
}

// Kind returns the variant of the operand.
func (o Operand) Kind() OperandKind {
	return o.kind
}

// IsPresent reports whether the operand was specified at all.
func (o Operand) IsPresent() bool {
	return o.kind != OperandAbsent
}

// Value returns the literal value. ok is false for non-literal operands.
func (o Operand) Value() (v int64, ok bool) {
	if o.kind != OperandLiteral {
		return 0, false
	}
	return o.value, true
}

// Index returns the placeholder index. ok is false for non-placeholder operands.
func (o Operand) Index() (idx int, ok bool) {
	if o.kind != OperandPlaceholder {
		return 0, false
	}
	return o.index, true
}

// String renders the operand for diagnostics: "10", "?0", "ALL" or "".
func (o Operand) String() string {
	switch o.kind {
	case OperandLiteral:
		return strconv.FormatInt(o.value, 10)
	case OperandPlaceholder:
		return "?" + strconv.Itoa(o.index)
	case OperandUnbounded:
		return "ALL"
	default:
		return ""
	}
}

// WindowSpec is the paging window (offset and row count) of one statement.
// It is immutable once constructed.
type WindowSpec struct {
	offset          Operand
	rowCount        Operand
	dialectSpecific bool
}

// NewWindowSpec builds a window from the captured halves. Either half may be
// absent. dialectSpecific marks windows that follow dialect positional
// semantics (LIMIT/OFFSET) rather than a generic "row N to M" form.
func NewWindowSpec(offset, rowCount Operand, dialectSpecific bool) *WindowSpec {
	return &WindowSpec{
		offset:          offset,
		rowCount:        rowCount,
		dialectSpecific: dialectSpecific,
	}
}

// Offset returns the offset operand (absent when not specified).
func (w *WindowSpec) Offset() Operand {
	return w.offset
}

// RowCount returns the row count operand (absent when not specified).
func (w *WindowSpec) RowCount() Operand {
	return w.rowCount
}

// HasOffset reports whether an offset was specified.
func (w *WindowSpec) HasOffset() bool {
	return w.offset.IsPresent()
}

// HasRowCount reports whether a row count was specified.
func (w *WindowSpec) HasRowCount() bool {
	return w.rowCount.IsPresent()
}

// IsDialectSpecific reports whether the window uses dialect positional semantics.
func (w *WindowSpec) IsDialectSpecific() bool {
	return w.dialectSpecific
}
