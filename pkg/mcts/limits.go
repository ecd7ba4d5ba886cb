package mcts

import (
	"encoding/json"
	"strings"
	"time"
)

// Search budget, derived from the Config on every search
type Limits struct {
	Iterations int
	// Wall-clock budget, 0 means no time limit
	Movetime time.Duration
}

func (l Limits) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(l)
	return builder.String()
}

const (
	DefaultIterationsLimit int           = DefaultMaxIterations
	DefaultMovetimeLimit   time.Duration = 0
)

func DefaultLimits() *Limits {
	return &Limits{
		Iterations: DefaultIterationsLimit,
		Movetime:   DefaultMovetimeLimit,
	}
}

// Set the maximum number of iterations (select, expand, simulate, backpropagate)
func (l *Limits) SetIterations(iterations int) *Limits {
	l.Iterations = max(0, iterations)
	return l
}

// Set the maximum time for engine to think, non-positive removes the limit
func (l *Limits) SetMovetime(movetime time.Duration) *Limits {
	l.Movetime = max(0, movetime)
	return l
}

func (l *Limits) HasMovetime() bool {
	return l.Movetime > 0
}
