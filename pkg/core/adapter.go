package core

// ShardConfig describes one database a paged statement is fanned out to.
type ShardConfig struct {
	Name string `koanf:"name"` // unique label used in logs and output
	Type string `koanf:"type"` // adapter type: sqlite, postgres, duckdb
	DSN  string `koanf:"dsn"`  // driver connection string or file path

	// Options holds adapter-specific settings, decoded by each adapter.
	Options map[string]any `koanf:"options"`
}

// ResultSet holds materialized query results.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}
