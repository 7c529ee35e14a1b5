package commands

import (
	"fmt"

	"github.com/leapstack-labs/leapshard/internal/cli/output"
	"github.com/leapstack-labs/leapshard/pkg/core"
	"github.com/leapstack-labs/leapshard/pkg/parser"
	"github.com/leapstack-labs/leapshard/pkg/rewrite"
	"github.com/spf13/cobra"
)

// RewriteOutput is the structured result of the rewrite command.
type RewriteOutput struct {
	SQL    string `json:"sql" yaml:"sql"`
	Args   []any  `json:"args,omitempty" yaml:"args,omitempty"`
	Window string `json:"window,omitempty" yaml:"window,omitempty"`
}

type rewriteOptions struct {
	inputPath string
	offset    int64
	limit     int64
	shard     bool
	args      []string
}

// NewRewriteCommand creates the rewrite command.
func NewRewriteCommand() *cobra.Command {
	var opts rewriteOptions

	cmd := &cobra.Command{
		Use:   "rewrite [SQL]",
		Short: "Replace the literal LIMIT / OFFSET values of a statement",
		Long: `Rewrite the paging window of a SELECT statement in place.

With --offset and --limit the literal values are replaced; placeholders are
left untouched. With --shard the statement is rewritten the way it is sent
to each shard: the offset becomes 0 and the row count becomes offset plus row
count. Placeholder values are then taken from --arg.`,
		Example: `  # Change the page
  leapshard rewrite --offset 40 "SELECT * FROM orders LIMIT 20 OFFSET 20"

  # Show the per-shard statement
  leapshard rewrite --shard "SELECT * FROM orders LIMIT ? OFFSET ?" --arg 20 --arg 40`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(cmd, args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.inputPath, "input", "i", "", "read the statement from a file")
	cmd.Flags().Int64Var(&opts.offset, "offset", 0, "new literal offset")
	cmd.Flags().Int64Var(&opts.limit, "limit", 0, "new literal row count")
	cmd.Flags().BoolVar(&opts.shard, "shard", false, "produce the per-shard statement")
	cmd.Flags().StringArrayVar(&opts.args, "arg", nil, "placeholder value, in order (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("shard", "offset")
	cmd.MarkFlagsMutuallyExclusive("shard", "limit")

	return cmd
}

func runRewrite(cmd *cobra.Command, args []string, opts *rewriteOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	sql, err := readSQL(cmd, args, opts.inputPath)
	if err != nil {
		return err
	}

	stmt, err := parser.ParseWithDialect(sql, cmdCtx.Dialect)
	if err != nil {
		return err
	}

	var out RewriteOutput
	if opts.shard {
		q, bound, err := rewrite.ForShard(stmt, cmdCtx.Dialect, stringArgs(opts.args))
		if err != nil {
			return fmt.Errorf("failed to rewrite for shard: %w", err)
		}
		out = RewriteOutput{SQL: q.SQL, Args: q.Args, Window: bound.String()}
	} else {
		var offset, limit *int64
		if cmd.Flags().Changed("offset") {
			offset = &opts.offset
			warnIfNotLiteral(cmdCtx.Renderer, stmt, core.OffsetMarker)
		}
		if cmd.Flags().Changed("limit") {
			limit = &opts.limit
			warnIfNotLiteral(cmdCtx.Renderer, stmt, core.RowCountMarker)
		}
		if (offset != nil && *offset < 0) || (limit != nil && *limit < 0) {
			return fmt.Errorf("--offset and --limit must not be negative")
		}
		rewritten, err := rewrite.Apply(stmt.SQL, stmt.Markers(), rewrite.Values(offset, limit))
		if err != nil {
			return err
		}
		out = RewriteOutput{SQL: rewritten}
	}

	cmdCtx.Logger.Debug("rewrote statement", "shard", opts.shard, "markers", len(stmt.Markers()))

	r := cmdCtx.Renderer
	if r.EffectiveMode() != output.ModeText {
		return r.Encode(out)
	}
	r.Println(out.SQL)
	if len(out.Args) > 0 {
		r.Println(fmt.Sprintf("-- args: %v", out.Args))
	}
	return nil
}

// warnIfNotLiteral reports a requested value that has no literal to replace.
func warnIfNotLiteral(r *output.Renderer, stmt *core.SelectStatement, kind core.MarkerKind) {
	for _, m := range stmt.Markers() {
		if m.Kind == kind {
			return
		}
	}
	r.Warn("warning: statement has no literal %s to rewrite", kind)
}

func stringArgs(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
