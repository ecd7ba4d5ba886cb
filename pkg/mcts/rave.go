package mcts

import "math"

// Rapid Action Value Estimation (RAVE)
// Reference: https://en.wikipedia.org/wiki/Monte_Carlo_tree_search#Improvements
// Use this only for games with a high branching factor and transposable states,
// meaning the moves can be played in different order from given position, and the result
// will be the same. For example: Go, Tic Tac Toe, Connect Four.

// Source: https://en.wikipedia.org/wiki/Monte_Carlo_tree_search#Improvements
// function should be close to one and to zero for relatively small and relatively big
// 'visits' and 'raveVisits' respectively.
type RaveBetaFunc func(visits, raveVisits uint64) float64

// D. Silver's schedule: pcm / (n + pcm + 4b^2 * n * pcm), b = 0.5
func RaveDSilver(visits, raveVisits uint64) float64 {
	const (
		b      = 0.5
		factor = 4 * b * b
	)
	n, pcm := float64(visits), float64(raveVisits)
	if pcm == 0 {
		return 0
	}
	return pcm / (n + pcm + factor*n*pcm)
}

// RAVE selection policy: (1 - beta) * Q + beta * AMAF + C * sqrt(ln N / n)
type RAVE[S GameState[S, A, P], A Action, P comparable] struct {
	ExplorationConstant float64
	// Beta schedule, nil means the package-level RaveBetaFunction
	Beta RaveBetaFunc
}

func NewRAVE[S GameState[S, A, P], A Action, P comparable](explorationConstant float64) *RAVE[S, A, P] {
	return &RAVE[S, A, P]{ExplorationConstant: explorationConstant}
}

func (r *RAVE[S, A, P]) beta(visits, raveVisits uint64) float64 {
	if r.Beta != nil {
		return r.Beta(visits, raveVisits)
	}
	return RaveBetaFunction(visits, raveVisits)
}

func (r *RAVE[S, A, P]) Score(child *Node[S, A, P], parentVisits uint64) float64 {
	visits := child.Visits()
	if visits == 0 {
		return math.Inf(1)
	}

	b, amaf := 0.0, 0.0
	if raveVisits := child.RaveVisits(); raveVisits > 0 {
		b = math.Max(0, math.Min(1, r.beta(visits, raveVisits)))
		amaf = child.RaveValue()
	}

	return (1.0-b)*child.Value() + b*amaf +
		r.ExplorationConstant*math.Sqrt(logVisits(parentVisits)/float64(visits))
}

func (r *RAVE[S, A, P]) SelectChild(node *Node[S, A, P]) int {
	parentVisits := node.Visits()
	return argmax(node.Children(), func(child *Node[S, A, P]) float64 {
		return r.Score(child, parentVisits)
	})
}

func (r *RAVE[S, A, P]) Clone() SelectionPolicy[S, A, P] {
	return &RAVE[S, A, P]{ExplorationConstant: r.ExplorationConstant, Beta: r.Beta}
}

// RaveBackprop does the standard update, and additionally updates the RAVE
// counters when the node's action appears in the trace. It also implements
// AMAFPolicy, so the engine credits the path's siblings as well.
//
// By default actions are matched by id only, whoever played them. With
// SameMover set, only every other trace entry counts (the node's own slot,
// then the same player's later turns), which assumes the players alternate.
type RaveBackprop[S GameState[S, A, P], A Action, P comparable] struct {
	SameMover bool
}

func NewRaveBackprop[S GameState[S, A, P], A Action, P comparable]() *RaveBackprop[S, A, P] {
	return &RaveBackprop[S, A, P]{}
}

func (b *RaveBackprop[S, A, P]) UpdateStats(node *Node[S, A, P], result float64, trace []A) {
	standardUpdate(node, result)
	b.UpdateAMAF(node, result, trace)
}

func (b *RaveBackprop[S, A, P]) UpdateAMAF(node *Node[S, A, P], result float64, trace []A) {
	step := 1
	if b.SameMover {
		step = 2
	}
	if traceContains(node, trace, step) {
		node.IncrementRaveVisits()
		node.AddRaveReward(result)
	}
}

func (b *RaveBackprop[S, A, P]) Clone() BackpropagationPolicy[S, A, P] {
	return &RaveBackprop[S, A, P]{SameMover: b.SameMover}
}
