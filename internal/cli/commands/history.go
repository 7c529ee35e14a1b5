package commands

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapshard/internal/cli/output"
	"github.com/leapstack-labs/leapshard/internal/state"
	"github.com/spf13/cobra"
)

// maxSQLWidth truncates statements in the history table.
const maxSQLWidth = 60

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently executed queries",
		Long: `Show the queries recorded by exec, newest first.

Query history is kept in the SQLite database named by history_path in
leapshard.yaml (or LEAPSHARD_HISTORY_PATH). It is disabled when unset.`,
		Example: `  # Last 20 queries
  leapshard history

  # Last 5 queries as JSON
  leapshard history --limit 5 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of queries to show")
	return cmd
}

func runHistory(cmd *cobra.Command, limit int) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if cmdCtx.Config.HistoryPath == "" {
		return errors.New("query history is disabled\nHint: set history_path in leapshard.yaml")
	}
	if limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	ctx := cmd.Context()
	store := state.NewSQLiteStore(cmdCtx.Logger)
	if err := store.Open(ctx, cmdCtx.Config.HistoryPath); err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListQueries(ctx, limit)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []*state.QueryRun{}
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() != output.ModeText {
		return r.Encode(runs)
	}
	if len(runs) == 0 {
		r.Println("no queries recorded")
		return nil
	}

	rows := make([][]any, len(runs))
	for i, run := range runs {
		rows[i] = []any{
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Status,
			run.Rows,
			run.Duration,
			truncate(run.SQL, maxSQLWidth),
		}
	}
	r.Table("", []string{"started", "status", "rows", "duration", "sql"}, rows)
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
