package rewrite

import (
	"github.com/leapstack-labs/leapshard/pkg/core"
	"github.com/leapstack-labs/leapshard/pkg/dialect"
)

// Query is a statement ready to run on one shard.
type Query struct {
	SQL  string
	Args []any
}

// ForShard rewrites a parsed statement for execution on a single shard.
// Literal window values are replaced through the markers, placeholder window
// values through the argument list, and ? placeholders are renumbered when
// the dialect uses numbered parameters. It also returns the original bound
// window, which the caller applies to the merged rows.
func ForShard(stmt *core.SelectStatement, d *dialect.Dialect, args []any) (Query, Bound, error) {
	w := stmt.Window()
	orig, err := Bind(w, args)
	if err != nil {
		return Query{}, Bound{}, err
	}
	shard, err := ShardValues(w, args)
	if err != nil {
		return Query{}, Bound{}, err
	}

	edits := markerEdits(stmt.Markers(), func(m core.RewriteMarker) int64 {
		switch {
		case m.Kind == core.OffsetMarker:
			return shard.Offset
		case m.Kind == core.RowCountMarker && !shard.Unbounded:
			return shard.RowCount
		default:
			return m.Value
		}
	})

	shardArgs := append([]any(nil), args...)
	if w != nil {
		if idx, ok := w.Offset().Index(); ok {
			shardArgs[idx] = shard.Offset
		}
		if idx, ok := w.RowCount().Index(); ok {
			shardArgs[idx] = shard.RowCount
		}
	}

	if d != nil && d.Placeholder != core.PlaceholderQuestion {
		for _, ref := range stmt.Placeholders() {
			edits = append(edits, edit{
				start: ref.Span.Start.Offset,
				end:   ref.Span.End.Offset,
				repl:  d.FormatPlaceholder(ref.Index + 1),
			})
		}
	}

	sql, err := splice(stmt.SQL, edits)
	if err != nil {
		return Query{}, Bound{}, err
	}
	return Query{SQL: sql, Args: shardArgs}, orig, nil
}
