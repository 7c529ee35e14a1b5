// Package state records the paged queries leapshard has run in a local
// SQLite database.
package state

import "time"

// QueryStatus is the outcome of a recorded query.
type QueryStatus string

// Query statuses.
const (
	QueryStatusCompleted QueryStatus = "completed"
	QueryStatusFailed    QueryStatus = "failed"
)

// QueryRun is one executed query and its outcome.
type QueryRun struct {
	ID        string        `json:"id" yaml:"id"`
	SQL       string        `json:"sql" yaml:"sql"`
	Dialect   string        `json:"dialect" yaml:"dialect"`
	Window    string        `json:"window" yaml:"window"`
	Shards    int           `json:"shards" yaml:"shards"`
	Rows      int           `json:"rows" yaml:"rows"`
	Status    QueryStatus   `json:"status" yaml:"status"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}
