package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/leapshard/internal/cli/config"
	"github.com/leapstack-labs/leapshard/internal/cli/output"
	"github.com/leapstack-labs/leapshard/pkg/dialect"
	"github.com/spf13/cobra"
)

// CommandContext holds the dependencies shared by the commands.
type CommandContext struct {
	Config   *config.Config
	Dialect  *dialect.Dialect
	Renderer *output.Renderer
	Logger   *slog.Logger
}

// NewCommandContext resolves the config, dialect, renderer and logger of a
// command from its context.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)

	d, err := dialect.Lookup(cfg.Dialect)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Config:   cfg,
		Dialect:  d,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
		Logger:   config.GetLogger(ctx),
	}, nil
}

// readSQL returns the statement text from the arguments, the --input file
// or standard input, in that order.
func readSQL(cmd *cobra.Command, args []string, inputPath string) (string, error) {
	var sql string
	switch {
	case len(args) > 0:
		sql = strings.Join(args, " ")
	case inputPath != "":
		data, err := os.ReadFile(inputPath) //nolint:gosec // user-supplied path is intended
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		sql = string(data)
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read standard input: %w", err)
		}
		sql = string(data)
	}

	sql = strings.TrimSpace(sql)
	if sql == "" {
		return "", fmt.Errorf("no SQL given\nHint: pass the statement as an argument, with --input, or on standard input")
	}
	return sql, nil
}
