package mcts

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatCell(t *testing.T) {
	t.Run("fixed point precision", func(t *testing.T) {
		var cell StatCell
		cell.Add(0.25)
		cell.Add(0.125)
		assert.InDelta(t, 0.375, cell.Load(), 1e-6)
		assert.Equal(t, uint64(375_000), cell.Raw())
	})

	t.Run("negative and NaN are stored as zero", func(t *testing.T) {
		var cell StatCell
		cell.Add(-1)
		cell.Add(math.NaN())
		assert.Zero(t, cell.Load())
	})

	t.Run("huge values are clamped", func(t *testing.T) {
		var cell StatCell
		cell.Store(math.Inf(1))
		assert.Equal(t, maxScaledReward, cell.Raw())
	})

	t.Run("sum saturates instead of wrapping", func(t *testing.T) {
		var cell StatCell
		previous := uint64(0)
		for range 4 {
			cell.Add(math.Inf(1))
			assert.GreaterOrEqual(t, cell.Raw(), previous)
			previous = cell.Raw()
		}
		assert.Equal(t, maxScaledReward, cell.Raw())

		cell.Add(1)
		assert.Equal(t, maxScaledReward, cell.Raw())
	})

	t.Run("store and reset", func(t *testing.T) {
		var cell StatCell
		cell.Store(0.5)
		assert.InDelta(t, 0.5, cell.Load(), 1e-6)
		cell.Reset()
		assert.Zero(t, cell.Raw())
	})
}
