package mcts

import "time"

type ListenerStats[A Action] struct {
	Iterations int
	MaxDepth   int
	Elapsed    time.Duration
	TreeSize   int
	// Current best root action, valid if HasBestAction
	BestAction    A
	HasBestAction bool
	// Value of the best root child
	Value      float64
	StopReason StopReason
}

// Listener function callback, will recieve current search statistics, like
// max depth of tree, number of iterations so far
type ListenerFunc[A Action] func(ListenerStats[A])

type StatsListener[A Action] struct {
	// called when 'max depth' increases
	onDepth ListenerFunc[A]

	// called every N full iterations
	onIteration ListenerFunc[A]
	nIterations int

	// called when the search stops (either by limiter or 'stop' signal)
	onStop ListenerFunc[A]
}

func NewStatsListener[A Action]() StatsListener[A] {
	return StatsListener[A]{nIterations: 1}
}

// Attach new on max depth change callback
func (listener *StatsListener[A]) OnDepth(onDepth ListenerFunc[A]) *StatsListener[A] {
	listener.onDepth = onDepth
	return listener
}

// Attach new on iteration callback, computing the best action on every call
// slows down the search, so use it with a sensible interval
func (listener *StatsListener[A]) OnIteration(onIteration ListenerFunc[A]) *StatsListener[A] {
	listener.onIteration = onIteration
	return listener
}

func (listener *StatsListener[A]) SetIterationInterval(n int) *StatsListener[A] {
	listener.nIterations = max(1, n)
	return listener
}

// Attach 'on search end' callback, makes 'StopReason' available in the stats
func (listener *StatsListener[A]) OnStop(onStop ListenerFunc[A]) *StatsListener[A] {
	listener.onStop = onStop
	return listener
}

// Remove all callbacks
func (listener *StatsListener[A]) Reset() {
	listener.onDepth, listener.onIteration, listener.onStop = nil, nil, nil
}

func (listener *StatsListener[A]) shouldInvokeIteration(iterations int) bool {
	return listener.onIteration != nil && iterations%max(1, listener.nIterations) == 0
}
