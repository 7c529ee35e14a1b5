package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapshard/pkg/dialect"
)

// OutputModes lists the accepted values of the output setting.
var OutputModes = []string{"auto", "text", "json", "yaml"}

// Validate checks if the configuration is valid. Custom dialects must be
// registered first (see RegisterDialects) so the dialect setting can name
// them.
func (c *Config) Validate() error {
	var errs []error

	if _, err := dialect.Lookup(c.Dialect); err != nil {
		errs = append(errs, fmt.Errorf("dialect: %w", err))
	}
	if !slices.Contains(OutputModes, strings.ToLower(c.OutputFormat)) {
		errs = append(errs, fmt.Errorf("output: unknown format %q (expected %s)", c.OutputFormat, strings.Join(OutputModes, "|")))
	}
	if c.MaxConcurrency < 0 {
		errs = append(errs, fmt.Errorf("max_concurrency must not be negative, got %d", c.MaxConcurrency))
	}

	seen := make(map[string]bool, len(c.Shards))
	for i, s := range c.Shards {
		label := s.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
			errs = append(errs, fmt.Errorf("shards[%d]: name is required", i))
		} else if seen[s.Name] {
			errs = append(errs, fmt.Errorf("shards[%d]: duplicate shard name %q", i, s.Name))
		}
		seen[s.Name] = true

		if s.Type == "" {
			errs = append(errs, fmt.Errorf("shard %s: type is required", label))
		}
		if strings.TrimSpace(s.DSN) == "" {
			errs = append(errs, fmt.Errorf("shard %s: dsn is required\nHint: use \":memory:\" for an in-memory sqlite or duckdb shard", label))
		}
	}

	return errors.Join(errs...)
}

// RegisterDialects builds every custom dialect of the configuration and adds
// it to the dialect registry. A dialect may name another custom dialect as
// its base, in any order.
func (c *Config) RegisterDialects() error {
	pending := c.DialectNames()
	for len(pending) > 0 {
		var next []string
		for _, name := range pending {
			def := c.Dialects[name]
			if def.Base != "" && slices.Contains(pending, def.Base) && def.Base != name {
				next = append(next, name)
				continue
			}
			d, err := dialect.FromConfig(&def)
			if err != nil {
				return err
			}
			dialect.Register(d)
		}
		if len(next) == len(pending) {
			return fmt.Errorf("dialect %s: base dialects form a cycle", next[0])
		}
		pending = next
	}
	return nil
}
