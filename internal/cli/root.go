// Package cli provides the command-line interface for leapshard.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/leapshard/internal/cli/commands"
	"github.com/leapstack-labs/leapshard/internal/cli/config"
	"github.com/spf13/cobra"

	// Builtin dialects
	_ "github.com/leapstack-labs/leapshard/pkg/dialects/ansi"
	_ "github.com/leapstack-labs/leapshard/pkg/dialects/databricks"
	_ "github.com/leapstack-labs/leapshard/pkg/dialects/duckdb"
	_ "github.com/leapstack-labs/leapshard/pkg/dialects/postgres"
	_ "github.com/leapstack-labs/leapshard/pkg/dialects/snowflake"
	_ "github.com/leapstack-labs/leapshard/pkg/dialects/sqlite"

	// Shard adapters
	_ "github.com/leapstack-labs/leapshard/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapshard/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapshard/pkg/adapters/sqlite"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "leapshard",
		Short: "leapshard - paged queries across database shards",
		Long: `leapshard parses the LIMIT / OFFSET window of SQL SELECT statements and
runs paged queries across several databases.

Every shard is asked for enough rows to cover the requested page, the results
are merged in shard order and the original window is applied to the merged
rows.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			if err := cfg.RegisterDialects(); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, config.ContextKey(), cfg)
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)
			cmd.SetContext(ctx)

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} {{.Version}} (commit %s, built %s)\n", GitCommit, BuildDate))

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./leapshard.yaml)")
	rootCmd.PersistentFlags().StringP("dialect", "d", "", "SQL dialect of the statements (default: postgres)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|json|yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().Int("max-concurrency", 0, "Maximum shards queried at once (0 = all)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.OutputModes, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewRewriteCommand())
	rootCmd.AddCommand(commands.NewExecCommand())
	rootCmd.AddCommand(commands.NewDialectsCommand())
	rootCmd.AddCommand(commands.NewHistoryCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for leapshard.

To load completions:

Bash:
  $ source <(leapshard completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ leapshard completion bash > /etc/bash_completion.d/leapshard
  # macOS:
  $ leapshard completion bash > $(brew --prefix)/etc/bash_completion.d/leapshard

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ leapshard completion zsh > "${fpath[1]}/_leapshard"

Fish:
  $ leapshard completion fish | source

PowerShell:
  PS> leapshard completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
