package mcts

import "golang.org/x/exp/rand"

// RandomExpansion picks a uniformly random unexpanded action, with the
// uniform prior 1 / (children + unexpanded actions)
type RandomExpansion[S GameState[S, A, P], A Action, P comparable] struct {
	rng *rand.Rand
}

func NewRandomExpansion[S GameState[S, A, P], A Action, P comparable]() *RandomExpansion[S, A, P] {
	return &RandomExpansion[S, A, P]{rng: newRand()}
}

func (e *RandomExpansion[S, A, P]) SetRand(rng *rand.Rand) {
	e.rng = rng
}

func (e *RandomExpansion[S, A, P]) SelectActionToExpand(node *Node[S, A, P]) (int, float64, bool) {
	unexpanded := len(node.UnexpandedActions())
	if unexpanded == 0 {
		return 0, 0, false
	}

	prior := 1.0 / float64(len(node.Children())+unexpanded)
	return e.rng.Intn(unexpanded), prior, true
}

func (e *RandomExpansion[S, A, P]) Clone() ExpansionPolicy[S, A, P] {
	return NewRandomExpansion[S, A, P]()
}

// FixedExpansion always expands the action at Index (clamped to the last
// unexpanded action) with the given Prior. Mostly useful for deterministic
// tests, or domains with scripted move ordering (Index 0).
type FixedExpansion[S GameState[S, A, P], A Action, P comparable] struct {
	Index int
	Prior float64
}

func NewFixedExpansion[S GameState[S, A, P], A Action, P comparable](index int, prior float64) *FixedExpansion[S, A, P] {
	return &FixedExpansion[S, A, P]{Index: index, Prior: prior}
}

func (e *FixedExpansion[S, A, P]) SelectActionToExpand(node *Node[S, A, P]) (int, float64, bool) {
	unexpanded := len(node.UnexpandedActions())
	if unexpanded == 0 {
		return 0, 0, false
	}
	return min(max(0, e.Index), unexpanded-1), e.Prior, true
}

func (e *FixedExpansion[S, A, P]) Clone() ExpansionPolicy[S, A, P] {
	return &FixedExpansion[S, A, P]{Index: e.Index, Prior: e.Prior}
}
