package mcts

import (
	"errors"
	"fmt"
)

var (
	// Search requested from a state with no legal actions and no children
	ErrNoLegalActions = errors.New("no legal actions available from current state")

	// Search was stopped before its budget ran out, see SearchContext
	ErrSearchStopped = errors.New("search stopped")

	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// SearchStopped wraps ErrSearchStopped with a reason
func SearchStopped(reason string) error {
	return fmt.Errorf("%w: %s", ErrSearchStopped, reason)
}

// InvalidConfiguration wraps ErrInvalidConfiguration with a reason
func InvalidConfiguration(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, reason)
}
