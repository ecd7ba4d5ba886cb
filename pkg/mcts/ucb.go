package mcts

import "math"

// UCB1 selection policy: value + C * sqrt(ln(parent visits) / visits)
type UCB1[S GameState[S, A, P], A Action, P comparable] struct {
	ExplorationConstant float64
}

func NewUCB1[S GameState[S, A, P], A Action, P comparable](explorationConstant float64) *UCB1[S, A, P] {
	return &UCB1[S, A, P]{ExplorationConstant: explorationConstant}
}

func (u *UCB1[S, A, P]) SetExplorationConstant(c float64) {
	u.ExplorationConstant = max(0, c)
}

// UCB1 score of a child, +Inf if unvisited
func (u *UCB1[S, A, P]) Score(child *Node[S, A, P], parentVisits uint64) float64 {
	visits := child.Visits()
	if visits == 0 {
		return math.Inf(1)
	}

	return child.Value() +
		u.ExplorationConstant*math.Sqrt(logVisits(parentVisits)/float64(visits))
}

func (u *UCB1[S, A, P]) SelectChild(node *Node[S, A, P]) int {
	parentVisits := node.Visits()
	return argmax(node.Children(), func(child *Node[S, A, P]) float64 {
		return u.Score(child, parentVisits)
	})
}

func (u *UCB1[S, A, P]) Clone() SelectionPolicy[S, A, P] {
	return &UCB1[S, A, P]{ExplorationConstant: u.ExplorationConstant}
}

// UCB1-Tuned selection policy, the exploration bonus is scaled by the
// measured reward variance (capped at 0.25, the maximum for rewards in [0, 1]):
//
//	value + C * sqrt(ln N / n) * min(0.25, V + sqrt(2 ln N / n))
//
// so children with noisier rewards get explored more.
type UCB1Tuned[S GameState[S, A, P], A Action, P comparable] struct {
	ExplorationConstant float64
}

func NewUCB1Tuned[S GameState[S, A, P], A Action, P comparable](explorationConstant float64) *UCB1Tuned[S, A, P] {
	return &UCB1Tuned[S, A, P]{ExplorationConstant: explorationConstant}
}

// Variance of the child's rewards: sum of squares / n - value^2
func Variance[S GameState[S, A, P], A Action, P comparable](child *Node[S, A, P]) float64 {
	visits := child.Visits()
	if visits == 0 {
		return 0
	}

	value := child.Value()
	return child.SumSquaredReward()/float64(visits) - value*value
}

func (u *UCB1Tuned[S, A, P]) Score(child *Node[S, A, P], parentVisits uint64) float64 {
	visits := child.Visits()
	if visits == 0 {
		return math.Inf(1)
	}

	lnN := logVisits(parentVisits)
	n := float64(visits)
	bound := math.Min(0.25, Variance(child)+math.Sqrt(2*lnN/n))
	return child.Value() + u.ExplorationConstant*math.Sqrt(lnN/n)*bound
}

func (u *UCB1Tuned[S, A, P]) SelectChild(node *Node[S, A, P]) int {
	parentVisits := node.Visits()
	return argmax(node.Children(), func(child *Node[S, A, P]) float64 {
		return u.Score(child, parentVisits)
	})
}

func (u *UCB1Tuned[S, A, P]) Clone() SelectionPolicy[S, A, P] {
	return &UCB1Tuned[S, A, P]{ExplorationConstant: u.ExplorationConstant}
}

// PUCT selection policy (AlphaZero): value + C * prior * sqrt(N) / (1 + n).
// The prior is the one stored on the child, set by the expansion policy.
type PUCT[S GameState[S, A, P], A Action, P comparable] struct {
	ExplorationConstant float64
}

func NewPUCT[S GameState[S, A, P], A Action, P comparable](explorationConstant float64) *PUCT[S, A, P] {
	return &PUCT[S, A, P]{ExplorationConstant: explorationConstant}
}

func (u *PUCT[S, A, P]) Score(child *Node[S, A, P], parentVisits uint64) float64 {
	visits := child.Visits()
	if visits == 0 {
		return math.Inf(1)
	}

	return child.Value() +
		u.ExplorationConstant*child.Prior()*math.Sqrt(float64(parentVisits))/(1.0+float64(visits))
}

func (u *PUCT[S, A, P]) SelectChild(node *Node[S, A, P]) int {
	parentVisits := node.Visits()
	return argmax(node.Children(), func(child *Node[S, A, P]) float64 {
		return u.Score(child, parentVisits)
	})
}

func (u *PUCT[S, A, P]) Clone() SelectionPolicy[S, A, P] {
	return &PUCT[S, A, P]{ExplorationConstant: u.ExplorationConstant}
}

// ln(visits), 0 for an unvisited parent
func logVisits(visits uint64) float64 {
	if visits == 0 {
		return 0
	}
	return math.Log(float64(visits))
}

// Index of the first child with the highest score. An infinite score
// (unvisited child) returns immediately, 0 for no children.
func argmax[S GameState[S, A, P], A Action, P comparable](children []*Node[S, A, P], score func(*Node[S, A, P]) float64) int {
	best := math.Inf(-1)
	index := 0

	for i, child := range children {
		value := score(child)
		if math.IsInf(value, 1) {
			return i
		}

		if value > best {
			best = value
			index = i
		}
	}

	return index
}
