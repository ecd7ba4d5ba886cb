package mcts

// Policies are the four extension points of the search. Every policy must be
// cloneable, so that derived searches (see Engine.SearchForTime) run with the
// same behaviour without sharing mutable policy state.

// SelectionPolicy picks the child to descend into. Called only on
// fully expanded, non-terminal nodes with at least one child.
// Unvisited children must always be chosen before visited ones.
type SelectionPolicy[S GameState[S, A, P], A Action, P comparable] interface {
	SelectChild(node *Node[S, A, P]) int
	Clone() SelectionPolicy[S, A, P]
}

// ExpansionPolicy chooses which unexpanded action becomes a child, and the
// prior assigned to it. Returns ok=false only when nothing is left to expand.
type ExpansionPolicy[S GameState[S, A, P], A Action, P comparable] interface {
	SelectActionToExpand(node *Node[S, A, P]) (index int, prior float64, ok bool)
	Clone() ExpansionPolicy[S, A, P]
}

// SimulationPolicy estimates the value of a state in [0, 1], from the
// perspective of the state's current player.
type SimulationPolicy[S GameState[S, A, P], A Action, P comparable] interface {
	Simulate(state S) float64
	Clone() SimulationPolicy[S, A, P]
}

// TracingSimulation is implemented by simulations that can also report the
// actions they played, which feeds AMAF/RAVE statistics.
type TracingSimulation[S GameState[S, A, P], A Action, P comparable] interface {
	SimulateWithTrace(state S) (float64, []A)
}

// BackpropagationPolicy folds a simulation result into a node's statistics.
// 'trace' holds the actions played from the node's parent onward in the same
// iteration (starting with the node's own action), nil when unknown.
type BackpropagationPolicy[S GameState[S, A, P], A Action, P comparable] interface {
	UpdateStats(node *Node[S, A, P], result float64, trace []A)
	Clone() BackpropagationPolicy[S, A, P]
}

// AMAFPolicy is implemented by backpropagation policies that keep
// all-moves-as-first statistics. The engine calls UpdateAMAF for the
// siblings of every node on the path, these only get RAVE updates. A
// sibling gets the same trace as the node on the path, so trace[0] is the
// action played in the sibling's slot.
type AMAFPolicy[S GameState[S, A, P], A Action, P comparable] interface {
	UpdateAMAF(node *Node[S, A, P], result float64, trace []A)
}

// Wheter 'trace' contains an action with the same id as the node's action,
// looking only at every 'step'-th entry
func traceContains[S GameState[S, A, P], A Action, P comparable](node *Node[S, A, P], trace []A, step int) bool {
	action, ok := node.Action()
	if !ok || trace == nil {
		return false
	}

	id := action.ID()
	for i := 0; i < len(trace); i += max(1, step) {
		if trace[i].ID() == id {
			return true
		}
	}
	return false
}
