// Package rewrite replaces the paging values of a parsed statement in its
// source text, using the rewrite markers and placeholder positions recorded
// by the parser instead of re-tokenizing.
package rewrite

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapshard/pkg/core"
)

var (
	// ErrMarkerOutOfRange is returned when a marker does not fit the SQL text.
	ErrMarkerOutOfRange = errors.New("rewrite marker out of range")
	// ErrMarkerOverlap is returned when two markers cover the same text.
	ErrMarkerOverlap = errors.New("rewrite markers overlap")
)

// edit replaces src[start:end] with repl.
type edit struct {
	start, end int
	repl       string
}

// ValueFunc returns the new value for a marker.
type ValueFunc func(core.RewriteMarker) int64

// Apply returns sql with every marked literal replaced by value(marker).
// A marker is located by its source span when it has one, otherwise by its
// back-computed start and the printed length of its value.
func Apply(sql string, markers []core.RewriteMarker, value ValueFunc) (string, error) {
	return splice(sql, markerEdits(markers, value))
}

// Keep returns each marker's own value.
func Keep(m core.RewriteMarker) int64 {
	return m.Value
}

// Values returns a ValueFunc that substitutes offset and rowCount for the
// matching marker kinds. A nil pointer keeps the marker's value.
func Values(offset, rowCount *int64) ValueFunc {
	return func(m core.RewriteMarker) int64 {
		switch {
		case m.Kind == core.OffsetMarker && offset != nil:
			return *offset
		case m.Kind == core.RowCountMarker && rowCount != nil:
			return *rowCount
		default:
			return m.Value
		}
	}
}

func markerEdits(markers []core.RewriteMarker, value ValueFunc) []edit {
	edits := make([]edit, 0, len(markers))
	for _, m := range markers {
		start, end := markerRange(m)
		edits = append(edits, edit{start: start, end: end, repl: strconv.FormatInt(value(m), 10)})
	}
	return edits
}

func markerRange(m core.RewriteMarker) (int, int) {
	if m.Span.IsValid() {
		return m.Span.Start.Offset, m.Span.End.Offset
	}
	return m.Start, m.Start + len(strconv.FormatInt(m.Value, 10))
}

// splice applies non-overlapping edits to src.
func splice(src string, edits []edit) (string, error) {
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].start < edits[j].start
	})

	var b strings.Builder
	b.Grow(len(src))
	last := 0
	for _, e := range edits {
		if e.start < 0 || e.end > len(src) || e.start > e.end {
			return "", fmt.Errorf("%w: [%d, %d) in %d bytes", ErrMarkerOutOfRange, e.start, e.end, len(src))
		}
		if e.start < last {
			return "", fmt.Errorf("%w: at offset %d", ErrMarkerOverlap, e.start)
		}
		b.WriteString(src[last:e.start])
		b.WriteString(e.repl)
		last = e.end
	}
	b.WriteString(src[last:])
	return b.String(), nil
}
