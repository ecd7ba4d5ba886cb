package mcts

func standardUpdate[S GameState[S, A, P], A Action, P comparable](node *Node[S, A, P], result float64) {
	node.IncrementVisits()
	node.AddReward(result)
	node.AddSquaredReward(result)
}

// StandardBackprop adds the result to the node's visits, reward and squared reward
type StandardBackprop[S GameState[S, A, P], A Action, P comparable] struct{}

func NewStandardBackprop[S GameState[S, A, P], A Action, P comparable]() *StandardBackprop[S, A, P] {
	return &StandardBackprop[S, A, P]{}
}

func (b *StandardBackprop[S, A, P]) UpdateStats(node *Node[S, A, P], result float64, _ []A) {
	standardUpdate(node, result)
}

func (b *StandardBackprop[S, A, P]) Clone() BackpropagationPolicy[S, A, P] {
	return &StandardBackprop[S, A, P]{}
}

// WeightedBackprop scales the result by 1 / (1 + DepthFactor * depth).
// Positive factor makes deep nodes less influential, negative more. Depths
// where 1 + DepthFactor * depth <= 0 get weight 1, the result is added as is.
type WeightedBackprop[S GameState[S, A, P], A Action, P comparable] struct {
	DepthFactor float64
}

func NewWeightedBackprop[S GameState[S, A, P], A Action, P comparable](depthFactor float64) *WeightedBackprop[S, A, P] {
	return &WeightedBackprop[S, A, P]{DepthFactor: depthFactor}
}

func (b *WeightedBackprop[S, A, P]) Weight(depth int) float64 {
	denom := 1.0 + b.DepthFactor*float64(depth)
	if denom <= 0 {
		return 1.0
	}
	return 1.0 / denom
}

func (b *WeightedBackprop[S, A, P]) UpdateStats(node *Node[S, A, P], result float64, _ []A) {
	standardUpdate(node, result*b.Weight(node.Depth()))
}

func (b *WeightedBackprop[S, A, P]) Clone() BackpropagationPolicy[S, A, P] {
	return &WeightedBackprop[S, A, P]{DepthFactor: b.DepthFactor}
}
