package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leapstack-labs/leapshard/internal/cli/output"
	"github.com/leapstack-labs/leapshard/internal/shard"
	"github.com/leapstack-labs/leapshard/internal/state"
	"github.com/spf13/cobra"
)

// ExecOutput is the structured result of the exec command.
type ExecOutput struct {
	QueryID string        `json:"query_id" yaml:"query_id"`
	Window  string        `json:"window" yaml:"window"`
	Columns []string      `json:"columns" yaml:"columns"`
	Rows    [][]any       `json:"rows" yaml:"rows"`
	Shards  []ShardOutput `json:"shards" yaml:"shards"`
}

// ShardOutput describes what one shard was asked and returned.
type ShardOutput struct {
	Name string `json:"name" yaml:"name"`
	SQL  string `json:"sql" yaml:"sql"`
	Args []any  `json:"args,omitempty" yaml:"args,omitempty"`
	Rows int    `json:"rows" yaml:"rows"`
}

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	var inputPath string
	var queryArgs []string

	cmd := &cobra.Command{
		Use:   "exec [SQL]",
		Short: "Run a paged query across all configured shards",
		Long: `Run a SELECT statement against every shard in leapshard.yaml and print the
requested window of the merged rows.

Each shard is asked for the first offset + row count rows. The shard results
are concatenated in configuration order and the original window is applied
to the merged rows.`,
		Example: `  # Third page of 20 rows
  leapshard exec "SELECT id, total FROM orders ORDER BY id LIMIT 20 OFFSET 40"

  # Bind placeholders
  leapshard exec "SELECT id FROM orders WHERE region = ? LIMIT ?" --arg eu --arg 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, args, inputPath, queryArgs)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "read the statement from a file")
	cmd.Flags().StringArrayVar(&queryArgs, "arg", nil, "placeholder value, in order (repeatable)")
	return cmd
}

func runExec(cmd *cobra.Command, args []string, inputPath string, queryArgs []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if len(cmdCtx.Config.Shards) == 0 {
		return errors.New("no shards configured\nHint: add a shards list to leapshard.yaml")
	}
	sql, err := readSQL(cmd, args, inputPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	exec, err := shard.OpenExecutor(ctx, shard.Config{
		Dialect:        cmdCtx.Dialect,
		MaxConcurrency: cmdCtx.Config.MaxConcurrency,
		Logger:         cmdCtx.Logger,
	}, cmdCtx.Config.Shards)
	if err != nil {
		return err
	}
	defer func() { _ = exec.Close() }()

	started := time.Now().UTC()
	res, err := exec.Query(ctx, sql, stringArgs(queryArgs)...)
	recordQuery(ctx, cmdCtx, sql, started, res, err)
	if err != nil {
		return err
	}

	out := ExecOutput{
		QueryID: res.QueryID,
		Window:  res.Window.String(),
		Columns: res.Columns,
		Rows:    res.Rows,
		Shards:  make([]ShardOutput, len(res.Shards)),
	}
	if out.Rows == nil {
		out.Rows = [][]any{}
	}
	for i, s := range res.Shards {
		out.Shards[i] = ShardOutput{Name: s.Name, SQL: s.SQL, Args: s.Args, Rows: s.Rows}
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() != output.ModeText {
		return r.Encode(out)
	}

	if len(out.Rows) > 0 {
		r.Table("", out.Columns, out.Rows)
	}
	r.Println(fmt.Sprintf("(%d rows)", len(out.Rows)))
	if cmdCtx.Config.Verbose {
		rows := make([][]any, len(out.Shards))
		for i, s := range out.Shards {
			rows[i] = []any{s.Name, s.Rows, s.SQL}
		}
		r.Table("Shards", []string{"shard", "rows", "sql"}, rows)
	}
	return nil
}

// recordQuery stores the run in the query history when one is configured.
// History failures are logged and never fail the command.
func recordQuery(ctx context.Context, cmdCtx *CommandContext, sql string, started time.Time, res *shard.Result, queryErr error) {
	path := cmdCtx.Config.HistoryPath
	if path == "" {
		return
	}

	run := &state.QueryRun{
		SQL:       sql,
		Dialect:   cmdCtx.Dialect.GetName(),
		Shards:    len(cmdCtx.Config.Shards),
		Status:    state.QueryStatusCompleted,
		StartedAt: started,
		Duration:  time.Since(started),
	}
	if res != nil {
		run.ID = res.QueryID
		run.Window = res.Window.String()
		run.Rows = len(res.Rows)
	}
	if queryErr != nil {
		run.Status = state.QueryStatusFailed
		run.Error = queryErr.Error()
	}

	store := state.NewSQLiteStore(cmdCtx.Logger)
	if err := store.Open(ctx, path); err != nil {
		cmdCtx.Logger.Warn("query history unavailable", "path", path, "error", err)
		return
	}
	defer func() { _ = store.Close() }()

	if err := store.RecordQuery(ctx, run); err != nil {
		cmdCtx.Logger.Warn("failed to record query", "error", err)
	}
}
