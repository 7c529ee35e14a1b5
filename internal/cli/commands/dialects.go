package commands

import (
	"strings"

	"github.com/leapstack-labs/leapshard/internal/cli/output"
	"github.com/leapstack-labs/leapshard/pkg/core"
	"github.com/leapstack-labs/leapshard/pkg/dialect"
	"github.com/spf13/cobra"
)

// DialectOutput describes the paging grammar of one dialect.
type DialectOutput struct {
	Name        string   `json:"name" yaml:"name"`
	Limit       []string `json:"limit" yaml:"limit"`
	Offset      []string `json:"offset" yaml:"offset"`
	Units       []string `json:"units" yaml:"units"`
	Unbounded   string   `json:"unbounded,omitempty" yaml:"unbounded,omitempty"`
	Fetch       bool     `json:"fetch" yaml:"fetch"`
	CommaOffset bool     `json:"comma_offset" yaml:"comma_offset"`
	Placeholder string   `json:"placeholder" yaml:"placeholder"`
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List registered dialects and their LIMIT / OFFSET keywords",
		Long: `List every registered dialect, including the custom dialects defined in
leapshard.yaml, with the keywords that introduce the row count and offset,
the accepted unit words and the unbounded row-count keyword. The forms
column shows whether FETCH FIRST and "LIMIT offset, count" are accepted.`,
		Args: cobra.NoArgs,
		RunE: runDialects,
	}
}

func runDialects(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	names := dialect.List()
	list := make([]DialectOutput, 0, len(names))
	for _, name := range names {
		d, ok := dialect.Get(name)
		if !ok {
			continue
		}
		list = append(list, dialectOutput(d.Config()))
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() != output.ModeText {
		return r.Encode(list)
	}

	rows := make([][]any, len(list))
	for i, d := range list {
		name := d.Name
		if name == cmdCtx.Dialect.GetName() {
			name += " *"
		}
		rows[i] = []any{
			name,
			strings.Join(d.Limit, ", "),
			strings.Join(d.Offset, ", "),
			strings.Join(d.Units, ", "),
			d.Unbounded,
			pagingForms(d),
			d.Placeholder,
		}
	}
	r.Table("", []string{"dialect", "row count", "offset", "units", "unbounded", "forms", "placeholder"}, rows)
	return nil
}

func dialectOutput(cfg *core.DialectConfig) DialectOutput {
	return DialectOutput{
		Name:        cfg.Name,
		Limit:       cfg.Limit,
		Offset:      cfg.Offset,
		Units:       cfg.Units,
		Unbounded:   cfg.Unbounded,
		Fetch:       cfg.Fetch,
		CommaOffset: cfg.CommaOffset,
		Placeholder: cfg.Placeholder.String(),
	}
}

func pagingForms(d DialectOutput) string {
	var forms []string
	if d.Fetch {
		forms = append(forms, "FETCH")
	}
	if d.CommaOffset {
		forms = append(forms, "LIMIT n, m")
	}
	return strings.Join(forms, ", ")
}
