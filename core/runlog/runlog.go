// Package runlog persists per-generation records of optimization runs
// so finished runs can be inspected after the fact.
package runlog

import (
	"context"
	"time"

	"github.com/sudhish-rithvik/transport-optimizer/core/model"
)

// Record captures one generation boundary of one run.
type Record struct {
	RunID      string           `json:"run_id"`
	Generation int              `json:"generation"`
	Timestamp  time.Time        `json:"timestamp"`
	Survivors  int              `json:"survivors"`
	FrontSize  int              `json:"front_size"`
	Best       model.Objectives `json:"best"`
}

// Query filters stored records. Zero fields match everything.
type Query struct {
	RunID string
	Start time.Time
	End   time.Time
}

// Matches reports whether the record satisfies the query.
func (q Query) Matches(r Record) bool {
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	return true
}

// Store persists run records.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
