package mcts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardBackprop(t *testing.T) {
	node := NewNode[board, square, int8](newBoard("---------"), nil, nil, 0)
	policy := NewStandardBackprop[board, square, int8]()
	policy.UpdateStats(node, 0.5, []square{1})
	policy.UpdateStats(node, 1.0, nil)

	assert.Equal(t, uint64(2), node.Visits())
	assert.InDelta(t, 1.5, node.TotalReward(), 1e-6)
	assert.InDelta(t, 1.25, node.SumSquaredReward(), 1e-6)
	assert.Zero(t, node.RaveVisits())
}

func TestWeightedBackprop(t *testing.T) {
	root := NewNode[board, square, int8](newBoard("---------"), nil, nil, 0)
	deep := root.Expand(0).Expand(0)

	policy := NewWeightedBackprop[board, square, int8](0.5)
	assert.InDelta(t, 0.5, policy.Weight(2), 1e-9)

	policy.UpdateStats(root, 1.0, nil)
	policy.UpdateStats(deep, 1.0, nil)
	assert.InDelta(t, 1.0, root.TotalReward(), 1e-6)
	assert.InDelta(t, 0.5, deep.TotalReward(), 1e-6)
	assert.Equal(t, uint64(1), deep.Visits())

	t.Run("negative factor amplifies", func(t *testing.T) {
		amplify := NewWeightedBackprop[board, square, int8](-0.25)
		assert.InDelta(t, 2.0, amplify.Weight(2), 1e-9)
	})

	t.Run("non-positive denominator adds the raw result", func(t *testing.T) {
		unbounded := NewWeightedBackprop[board, square, int8](-0.5)
		assert.Equal(t, 1.0, unbounded.Weight(2))
		assert.Equal(t, 1.0, unbounded.Weight(3))

		node := NewNode[board, square, int8](newBoard("---------"), nil, nil, 0).Expand(0).Expand(0)
		previous := 0.0
		for range 3 {
			unbounded.UpdateStats(node, 1.0, nil)
			assert.GreaterOrEqual(t, node.TotalReward(), previous)
			previous = node.TotalReward()
		}
		assert.InDelta(t, 3.0, node.TotalReward(), 1e-6)
		assert.InDelta(t, 1.0, node.Value(), 1e-6)
	})

	clone := policy.Clone().(*WeightedBackprop[board, square, int8])
	assert.Equal(t, 0.5, clone.DepthFactor)
}
