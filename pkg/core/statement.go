package core

import (
	"errors"

	"github.com/leapstack-labs/leapshard/pkg/token"
)

// ErrWindowAlreadySet is returned when a second window is attached to a statement.
var ErrWindowAlreadySet = errors.New("window already attached to statement")

// SelectStatement is the parse context of one SELECT statement. It owns the
// statement-wide placeholder counter, the ordered rewrite markers and the
// paging window discovered by the clause parser.
type SelectStatement struct {
	// SQL is the source text the statement was parsed from.
	SQL string

	// ParametersIndex counts the placeholders seen so far, across every
	// clause of the statement.
	ParametersIndex int

	markers      []RewriteMarker
	placeholders []PlaceholderRef
	window       *WindowSpec
}

// PlaceholderRef locates one bound-parameter placeholder in the source text.
type PlaceholderRef struct {
	Index int
	Span  token.Span
}

// NewSelectStatement creates an empty parse context for sql.
func NewSelectStatement(sql string) *SelectStatement {
	return &SelectStatement{SQL: sql}
}

// NextParameterIndex returns the index for the next placeholder and advances
// the counter. Indices are zero-based and strictly increasing.
func (s *SelectStatement) NextParameterIndex() int {
	idx := s.ParametersIndex
	s.ParametersIndex++
	return idx
}

// ParameterCount returns the number of placeholders allocated so far.
func (s *SelectStatement) ParameterCount() int {
	return s.ParametersIndex
}

// AddMarker appends a rewrite marker in discovery order.
func (s *SelectStatement) AddMarker(m RewriteMarker) {
	s.markers = append(s.markers, m)
}

// Markers returns a copy of the recorded rewrite markers.
func (s *SelectStatement) Markers() []RewriteMarker {
	out := make([]RewriteMarker, len(s.markers))
	copy(out, s.markers)
	return out
}

// AddPlaceholder records the source position of an allocated placeholder.
func (s *SelectStatement) AddPlaceholder(ref PlaceholderRef) {
	s.placeholders = append(s.placeholders, ref)
}

// Placeholders returns the recorded placeholders in source order.
func (s *SelectStatement) Placeholders() []PlaceholderRef {
	out := make([]PlaceholderRef, len(s.placeholders))
	copy(out, s.placeholders)
	return out
}

// SetWindow attaches the paging window. A statement carries at most one.
func (s *SelectStatement) SetWindow(w *WindowSpec) error {
	if s.window != nil {
		return ErrWindowAlreadySet
	}
	s.window = w
	return nil
}

// Window returns the attached window, or nil if the statement has no paging
// restriction.
func (s *SelectStatement) Window() *WindowSpec {
	return s.window
}

// Savepoint is a snapshot of a statement's append-only state.
type Savepoint struct {
	markers      int
	placeholders int
	params       int
}

// Savepoint captures the current marker, placeholder and counter state.
func (s *SelectStatement) Savepoint() Savepoint {
	return Savepoint{
		markers:      len(s.markers),
		placeholders: len(s.placeholders),
		params:       s.ParametersIndex,
	}
}

// Rollback discards every marker, placeholder and counter increment made
// after sp was taken. The window is not touched.
func (s *SelectStatement) Rollback(sp Savepoint) {
	if sp.markers < len(s.markers) {
		s.markers = s.markers[:sp.markers]
	}
	if sp.placeholders < len(s.placeholders) {
		s.placeholders = s.placeholders[:sp.placeholders]
	}
	s.ParametersIndex = sp.params
}
