package mcts

import (
	"context"
	"time"
)

// Run the search with the configured budget and return the best action
func (e *Engine[S, A, P]) Search() (A, error) {
	return e.SearchForIterations(e.config.MaxIterations)
}

// Run at most 'iterations' iterations (the configured time limit still applies)
func (e *Engine[S, A, P]) SearchForIterations(iterations int) (A, error) {
	return e.search(context.Background(), iterations)
}

// Same as Search, but cancellable through 'ctx'. A cancelled search returns
// an error wrapping ErrSearchStopped, the tree keeps what was explored.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
//	defer cancel()
//	action, err := engine.SearchContext(ctx)
func (e *Engine[S, A, P]) SearchContext(ctx context.Context) (A, error) {
	return e.search(ctx, e.config.MaxIterations)
}

// SearchForTime runs a time-bounded search on a derived engine, built from
// a copy of this engine's config and clones of its policies. The derived
// engine never shares this engine's tree or pool, its statistics are
// copied back once it finishes. It does share the limiter, so Stop works the
// same way as for the other searches.
func (e *Engine[S, A, P]) SearchForTime(d time.Duration) (A, error) {
	config := e.config.Clone().SetMaxTime(d)
	if config.MaxIterations == UnlimitedIterations {
		config.MaxIterations = timeBoundedIterationCap
	}

	derived := NewEngine[S, A, P](e.root.State().Clone(), config).
		WithSelectionPolicy(e.selection.Clone()).
		WithExpansionPolicy(e.expansion.Clone()).
		WithSimulationPolicy(e.simulation.Clone()).
		WithBackpropagationPolicy(e.backprop.Clone()).
		WithLogger(e.logger)
	derived.SetListener(*e.listener)
	derived.warnedUnset = e.warnedUnset
	// Stop and StopReason on this engine act on the running derived search
	derived.limiter = e.limiter

	action, err := derived.Search()
	e.stats = derived.stats
	e.warnedUnset = derived.warnedUnset
	return action, err
}

func (e *Engine[S, A, P]) search(ctx context.Context, iterations int) (A, error) {
	var zero A
	e.stats = NewSearchStatistics()
	e.stats.TreeSize = countTreeNodes(e.root)

	if e.root.IsLeaf() && e.root.IsFullyExpanded() {
		return zero, ErrNoLegalActions
	}

	e.warnUnenforced()
	e.limiter.SetLimits(DefaultLimits().SetIterations(iterations).SetMovetime(e.config.MaxTime))
	e.limiter.SetContext(ctx)
	e.limiter.Reset()

	e.logger.Debug().
		Int("iterations", iterations).
		Dur("max_time", e.config.MaxTime).
		Int("tree_size", e.stats.TreeSize).
		Msg("search started")

	for e.limiter.Ok(e.stats.Iterations) {
		e.iterate()
		e.stats.Iterations++

		if e.listener.shouldInvokeIteration(e.stats.Iterations) {
			e.listener.onIteration(e.listenerStats())
		}
	}

	e.limiter.EvaluateStopReason(e.stats.Iterations)
	reason := e.limiter.StopReason()
	e.stats.TotalTime = e.limiter.Elapsed()
	e.stats.StoppedEarly = reason&StopMovetime != 0 && reason&StopIterations == 0
	if e.pool != nil {
		poolStats := e.pool.Stats()
		e.stats.NodePool = &poolStats
	}

	if e.stats.StoppedEarly {
		e.logger.Debug().Int("iterations", e.stats.Iterations).Msg("search stopped early due to time limit")
	}

	if e.listener.onStop != nil {
		e.listener.onStop(e.listenerStats())
	}
	e.logger.Debug().EmbedObject(e.stats).Stringer("reason", reason).Msg("search finished")

	if reason&StopInterrupt != 0 {
		cause := "interrupted"
		if err := ctx.Err(); err != nil {
			cause = err.Error()
		}
		return zero, SearchStopped(cause)
	}

	return e.BestAction()
}

// Settings accepted by the config, but not consulted by the loop
func (e *Engine[S, A, P]) warnUnenforced() {
	if e.warnedUnset || (e.config.MaxDepth == 0 && !e.config.UseTranspositions) {
		return
	}

	e.warnedUnset = true
	e.logger.Warn().
		Int("max_depth", e.config.MaxDepth).
		Bool("use_transpositions", e.config.UseTranspositions).
		Uint64("root_hash", StateHash(e.root.State())).
		Msg("max depth and transpositions are not enforced by the search, ignoring")
}

// One full iteration: select, expand, simulate, backpropagate
func (e *Engine[S, A, P]) iterate() {
	path := e.selectPath()
	path, state := e.expand(path)
	result, trace, traced := e.simulate(state)
	e.backpropagate(path, result, state.CurrentPlayer(), trace, traced)
}

// Read-only descent from the root while the node is non-terminal, fully expanded
// and has children
func (e *Engine[S, A, P]) selectPath() NodePath {
	path := NodePath{}
	node := e.root
	depth := 0

	for !node.IsTerminal() && node.IsFullyExpanded() && !node.IsLeaf() {
		index := e.selection.SelectChild(node)
		child := node.Child(index)
		if child == nil {
			break
		}

		path.Push(index)
		node = child
		depth++

		if depth > e.stats.MaxDepth {
			e.stats.MaxDepth = depth
			if e.listener.onDepth != nil {
				e.listener.onDepth(e.listenerStats())
			}
		}
	}

	return path
}

// Re-walk the path and expand its last node. Returns the (possibly extended) path
// and the state to simulate, the node's own state when nothing could be expanded.
func (e *Engine[S, A, P]) expand(path NodePath) (NodePath, S) {
	node := Walk(path, e.root)
	if node == nil {
		return NodePath{}, e.root.State()
	}

	if node.IsTerminal() {
		return path, node.State()
	}

	if index, prior, ok := e.expansion.SelectActionToExpand(node); ok {
		if child := node.ExpandWithPool(index, e.pool); child != nil {
			child.SetPrior(prior)
			path.Push(len(node.Children()) - 1)
			e.stats.TreeSize++
			return path, child.State()
		}
	}

	return path, node.State()
}

func (e *Engine[S, A, P]) simulate(state S) (float64, []A, bool) {
	if tracing, ok := e.simulation.(TracingSimulation[S, A, P]); ok {
		result, trace := tracing.SimulateWithTrace(state)
		return result, trace, true
	}
	return e.simulation.Simulate(state), nil, false
}

// Result as credited to 'node', 'result' is from 'leafPlayer' perspective
func (e *Engine[S, A, P]) reward(node *Node[S, A, P], result float64, leafPlayer P) float64 {
	if e.config.Perspective == PerspectiveLeaf || node.Player() == leafPlayer {
		return result
	}
	return 1.0 - result
}

// Update the root, then every node along the path. With a traced simulation,
// each node gets the actions from its own inbound action onward (path actions
// followed by the playout), siblings are credited through AMAFPolicy.
func (e *Engine[S, A, P]) backpropagate(path NodePath, result float64, leafPlayer P, trace []A, traced bool) {
	nodes := PathNodes(path, e.root)

	var actions []A
	if traced {
		actions = make([]A, 0, len(nodes)-1+len(trace))
		for _, node := range nodes[1:] {
			action, _ := node.Action()
			actions = append(actions, action)
		}
		actions = append(actions, trace...)
	}

	amaf, _ := e.backprop.(AMAFPolicy[S, A, P])
	for k, node := range nodes {
		reward := e.reward(node, result, leafPlayer)

		var suffix []A
		if traced && k > 0 {
			suffix = actions[k-1:]
		}
		e.backprop.UpdateStats(node, reward, suffix)

		if amaf == nil || suffix == nil {
			continue
		}

		for _, sibling := range nodes[k-1].Children() {
			if sibling != node {
				amaf.UpdateAMAF(sibling, reward, suffix)
			}
		}
	}
}

func (e *Engine[S, A, P]) listenerStats() ListenerStats[A] {
	stats := ListenerStats[A]{
		Iterations: e.stats.Iterations,
		MaxDepth:   e.stats.MaxDepth,
		Elapsed:    e.limiter.Elapsed(),
		TreeSize:   e.stats.TreeSize,
		StopReason: e.limiter.StopReason(),
	}

	if best := e.BestChild(e.root); best != nil {
		stats.BestAction, stats.HasBestAction = best.Action()
		stats.Value = best.Value()
	}
	return stats
}
