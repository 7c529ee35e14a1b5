package commands

import (
	"fmt"

	"github.com/leapstack-labs/leapshard/internal/cli/output"
	"github.com/leapstack-labs/leapshard/pkg/core"
	"github.com/leapstack-labs/leapshard/pkg/parser"
	"github.com/spf13/cobra"
)

// ParseOutput is the structured result of the parse command.
type ParseOutput struct {
	Dialect    string         `json:"dialect" yaml:"dialect"`
	Parameters int            `json:"parameters" yaml:"parameters"`
	Window     *WindowOutput  `json:"window" yaml:"window"`
	Markers    []MarkerOutput `json:"markers" yaml:"markers"`
}

// WindowOutput describes a parsed paging window.
type WindowOutput struct {
	Offset   OperandOutput `json:"offset" yaml:"offset"`
	RowCount OperandOutput `json:"row_count" yaml:"row_count"`
}

// OperandOutput describes one half of a window.
type OperandOutput struct {
	Kind  string `json:"kind" yaml:"kind"`
	Value *int64 `json:"value,omitempty" yaml:"value,omitempty"`
	Index *int   `json:"index,omitempty" yaml:"index,omitempty"`
}

// MarkerOutput describes one rewrite marker.
type MarkerOutput struct {
	Kind  string `json:"kind" yaml:"kind"`
	Start int    `json:"start" yaml:"start"`
	Value int64  `json:"value" yaml:"value"`
	Text  string `json:"text" yaml:"text"`
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "parse [SQL]",
		Short: "Show the paging window of a SELECT statement",
		Long: `Parse a SELECT statement and report its LIMIT / OFFSET window, the
placeholders it binds and the rewrite markers recorded for literal values.

The statement is read from the arguments, from --input, or from standard input.`,
		Example: `  # Inspect a statement
  leapshard parse "SELECT * FROM orders LIMIT 10 OFFSET 20"

  # Use another dialect
  leapshard parse -d duckdb --input query.sql

  # Machine-readable output
  echo "SELECT 1 LIMIT ALL" | leapshard parse -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, inputPath)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "read the statement from a file")
	return cmd
}

func runParse(cmd *cobra.Command, args []string, inputPath string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	sql, err := readSQL(cmd, args, inputPath)
	if err != nil {
		return err
	}

	stmt, err := parser.ParseWithDialect(sql, cmdCtx.Dialect)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("parsed statement", "dialect", cmdCtx.Dialect.GetName(), "markers", len(stmt.Markers()))

	out := buildParseOutput(stmt, cmdCtx.Dialect.GetName())
	r := cmdCtx.Renderer
	if r.EffectiveMode() != output.ModeText {
		return r.Encode(out)
	}

	if out.Window == nil {
		r.Println("no LIMIT / OFFSET clause")
	} else {
		r.Table("Window", []string{"part", "kind", "value"}, [][]any{
			{"offset", out.Window.Offset.Kind, stmt.Window().Offset().String()},
			{"row count", out.Window.RowCount.Kind, stmt.Window().RowCount().String()},
		})
	}
	if len(out.Markers) > 0 {
		rows := make([][]any, len(out.Markers))
		for i, m := range out.Markers {
			rows[i] = []any{m.Kind, m.Start, m.Value, m.Text}
		}
		r.Table("Rewrite markers", []string{"kind", "start", "value", "text"}, rows)
	}
	r.Println(fmt.Sprintf("placeholders: %d", out.Parameters))
	return nil
}

func buildParseOutput(stmt *core.SelectStatement, dialectName string) ParseOutput {
	out := ParseOutput{
		Dialect:    dialectName,
		Parameters: stmt.ParameterCount(),
		Markers:    []MarkerOutput{},
	}
	if w := stmt.Window(); w != nil {
		out.Window = &WindowOutput{
			Offset:   operandOutput(w.Offset()),
			RowCount: operandOutput(w.RowCount()),
		}
	}
	for _, m := range stmt.Markers() {
		text := ""
		if m.Span.IsValid() {
			text = stmt.SQL[m.Span.Start.Offset:m.Span.End.Offset]
		}
		out.Markers = append(out.Markers, MarkerOutput{
			Kind:  m.Kind.String(),
			Start: m.Start,
			Value: m.Value,
			Text:  text,
		})
	}
	return out
}

func operandOutput(op core.Operand) OperandOutput {
	o := OperandOutput{Kind: op.Kind().String()}
	if v, ok := op.Value(); ok {
		o.Value = &v
	}
	if idx, ok := op.Index(); ok {
		o.Index = &idx
	}
	return o
}
