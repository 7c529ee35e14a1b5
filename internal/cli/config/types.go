// Package config provides configuration management for the leapshard CLI.
//
// Shard and dialect definitions are the shared types from pkg/core,
// re-exported here via type aliases for convenience.
package config

import "github.com/leapstack-labs/leapshard/pkg/core"

// ShardConfig is an alias for the shared shard configuration.
type ShardConfig = core.ShardConfig

// DialectConfig is an alias for the shared dialect definition.
type DialectConfig = core.DialectConfig

// Config holds all CLI configuration options.
type Config struct {
	Dialect        string                   `koanf:"dialect"`
	OutputFormat   string                   `koanf:"output"`
	Verbose        bool                     `koanf:"verbose"`
	MaxConcurrency int                      `koanf:"max_concurrency"`
	HistoryPath    string                   `koanf:"history_path"` // empty disables query history
	Shards         []ShardConfig            `koanf:"shards"`
	Dialects       map[string]DialectConfig `koanf:"dialects"`
}

// Default configuration values.
const (
	DefaultDialect = "postgres"
	DefaultOutput  = "auto" // Auto-detect: TTY=text, non-TTY=json
)
