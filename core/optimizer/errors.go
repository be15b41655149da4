package optimizer

import (
	"errors"
	"fmt"
)

// ConfigError reports an invalid configuration or input. It is returned
// before any generation runs; no partial run is attempted.
type ConfigError struct {
	Field  string
	Reason string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("optimizer config: %s: %s", e.Field, e.Reason)
}

// InvariantError reports a violated internal invariant. It indicates a
// logic defect in the optimizer, not a data problem.
type InvariantError struct {
	Op     string
	Detail string
}

func (e InvariantError) Error() string {
	return fmt.Sprintf("optimizer invariant violated in %s: %s", e.Op, e.Detail)
}

// ErrRunCancelled is returned with the best front found so far when the
// context is cancelled between generations.
var ErrRunCancelled = errors.New("optimizer: run cancelled")
