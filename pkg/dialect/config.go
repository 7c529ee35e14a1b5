package dialect

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapshard/pkg/core"
	"github.com/leapstack-labs/leapshard/pkg/token"
)

// ErrNoIntroducers is returned for a dialect without any paging keyword.
var ErrNoIntroducers = errors.New("dialect defines no LIMIT or OFFSET keywords")

// FromConfig builds a dialect from a configuration definition. Lists left
// empty are inherited from cfg.Base when one is named, otherwise from the
// standard LIMIT / OFFSET grammar. Keywords that are not builtin are
// registered with the token package and recognized by the lexer for this
// dialect only.
func FromConfig(cfg *core.DialectConfig) (*Dialect, error) {
	if cfg.Name == "" {
		return nil, ErrDialectRequired
	}

	b := NewDialect(cfg.Name)
	if cfg.Base != "" {
		base, err := Lookup(cfg.Base)
		if err != nil {
			return nil, fmt.Errorf("dialect %s: %w", cfg.Name, err)
		}
		b = Extend(cfg.Name, base)
	}
	if cfg.Placeholder != core.PlaceholderQuestion {
		b.PlaceholderStyle(cfg.Placeholder)
	}

	if len(cfg.Limit) > 0 {
		types, err := b.resolveKeywords(cfg.Limit)
		if err != nil {
			return nil, fmt.Errorf("dialect %s: limit: %w", cfg.Name, err)
		}
		b.LimitKeywords(types...)
	}
	if len(cfg.Offset) > 0 {
		types, err := b.resolveKeywords(cfg.Offset)
		if err != nil {
			return nil, fmt.Errorf("dialect %s: offset: %w", cfg.Name, err)
		}
		b.OffsetKeywords(types...)
	}
	if len(cfg.Units) > 0 {
		types, err := b.resolveKeywords(cfg.Units)
		if err != nil {
			return nil, fmt.Errorf("dialect %s: units: %w", cfg.Name, err)
		}
		b.UnitKeywords(types...)
	}
	if cfg.Unbounded != "" {
		t, err := b.resolveKeyword(cfg.Unbounded)
		if err != nil {
			return nil, fmt.Errorf("dialect %s: unbounded: %w", cfg.Name, err)
		}
		b.Unbounded(t)
	}

	if cfg.Fetch {
		b.FetchFirst()
	}
	if cfg.CommaOffset {
		b.CommaOffset()
	}

	d := b.Build()
	if len(d.limit.RowCount) == 0 && len(d.limit.Offset) == 0 && !d.limit.Fetch {
		return nil, fmt.Errorf("dialect %s: %w", cfg.Name, ErrNoIntroducers)
	}
	return d, nil
}

func (b *Builder) resolveKeywords(names []string) ([]token.TokenType, error) {
	types := make([]token.TokenType, 0, len(names))
	for _, name := range names {
		t, err := b.resolveKeyword(name)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func (b *Builder) resolveKeyword(name string) (token.TokenType, error) {
	if !isKeywordName(name) {
		return token.ILLEGAL, fmt.Errorf("invalid keyword %q", name)
	}
	if t := token.LookupIdent(name); t != token.IDENT {
		return t, nil
	}
	t := token.Register(name)
	b.AddKeyword(name, t)
	return t, nil
}

func isKeywordName(name string) bool {
	if name == "" {
		return false
	}
	for i, ch := range name {
		switch {
		case ch == '_', ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		case ch >= '0' && ch <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
