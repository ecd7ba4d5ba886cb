package mcts

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Root with 'n' expanded children
func expandedRoot(t *testing.T, n int) *boardNode {
	t.Helper()
	root := NewNode[board, square, int8](newBoard("---------"), nil, nil, 0)
	for range n {
		require.NotNil(t, root.Expand(0))
	}
	return root
}

func selectionPolicies() map[string]SelectionPolicy[board, square, int8] {
	return map[string]SelectionPolicy[board, square, int8]{
		"UCB1":      NewUCB1[board, square, int8](DefaultExplorationConstant),
		"UCB1Tuned": NewUCB1Tuned[board, square, int8](DefaultExplorationConstant),
		"PUCT":      NewPUCT[board, square, int8](DefaultExplorationConstant),
		"RAVE":      NewRAVE[board, square, int8](DefaultExplorationConstant),
	}
}

func TestSelectionPrefersUnvisited(t *testing.T) {
	for name, policy := range selectionPolicies() {
		t.Run(name, func(t *testing.T) {
			for _, c := range []float64{0, 0.5, DefaultExplorationConstant, 100} {
				root := expandedRoot(t, 2)
				visit(root.Children()[0], 50, 0.9)
				visit(root, 50, 0.1)

				switch p := policy.(type) {
				case *UCB1[board, square, int8]:
					p.ExplorationConstant = c
				case *UCB1Tuned[board, square, int8]:
					p.ExplorationConstant = c
				case *PUCT[board, square, int8]:
					p.ExplorationConstant = c
				case *RAVE[board, square, int8]:
					p.ExplorationConstant = c
				default:
					t.Fatalf("unhandled policy %T", policy)
				}
				assert.Equal(t, 1, policy.SelectChild(root), "c=%v", c)
			}
		})
	}
}

func TestSelectionTieBreak(t *testing.T) {
	for name, policy := range selectionPolicies() {
		t.Run(name, func(t *testing.T) {
			root := expandedRoot(t, 4)
			for _, child := range root.Children() {
				visit(child, 10, 0.5)
			}
			visit(root, 40, 0.5)
			assert.Equal(t, 0, policy.SelectChild(root))

			// All unvisited, first one wins
			assert.Equal(t, 0, policy.SelectChild(expandedRoot(t, 3)))
		})
	}
}

func TestUCB1Score(t *testing.T) {
	root := expandedRoot(t, 2)
	visit(root.Children()[0], 10, 0.5)
	visit(root.Children()[1], 30, 0.6)
	visit(root, 40, 0.5)

	policy := NewUCB1[board, square, int8](1.0)
	want := 0.5 + math.Sqrt(math.Log(40)/10)
	assert.InDelta(t, want, policy.Score(root.Children()[0], 40), 1e-5)
	assert.True(t, math.IsInf(policy.Score(expandedRoot(t, 1).Children()[0], 40), 1))

	// Less visited child has the bigger exploration bonus
	assert.Equal(t, 0, policy.SelectChild(root))
	// Without exploration, pure exploitation
	policy.SetExplorationConstant(0)
	assert.Equal(t, 1, policy.SelectChild(root))
}

func TestUCB1TunedVariance(t *testing.T) {
	root := expandedRoot(t, 2)
	steady, noisy := root.Children()[0], root.Children()[1]

	visit(steady, 1000, 0.5)
	visit(noisy, 500, 1.0)
	visit(noisy, 500, 0.0)
	visit(root, 2000, 0.5)

	assert.InDelta(t, 0.0, Variance(steady), 1e-6)
	assert.InDelta(t, 0.25, Variance(noisy), 1e-6)
	assert.InDelta(t, steady.Value(), noisy.Value(), 1e-6)

	policy := NewUCB1Tuned[board, square, int8](1.0)
	assert.Greater(t, policy.Score(noisy, root.Visits()), policy.Score(steady, root.Visits()))
	assert.Equal(t, 1, policy.SelectChild(root), "higher variance gets explored")
}

func TestPUCTPrior(t *testing.T) {
	root := expandedRoot(t, 2)
	low, high := root.Children()[0], root.Children()[1]
	low.SetPrior(0.1)
	high.SetPrior(0.9)
	visit(low, 10, 0.5)
	visit(high, 10, 0.5)
	visit(root, 20, 0.5)

	policy := NewPUCT[board, square, int8](1.0)
	want := 0.5 + 0.9*math.Sqrt(20)/11
	assert.InDelta(t, want, policy.Score(high, 20), 1e-5)
	assert.Equal(t, 1, policy.SelectChild(root))
}

func TestSelectionClone(t *testing.T) {
	policy := NewUCB1[board, square, int8](2.0)
	clone := policy.Clone().(*UCB1[board, square, int8])
	clone.ExplorationConstant = 0.1
	assert.Equal(t, 2.0, policy.ExplorationConstant)
}
