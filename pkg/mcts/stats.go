package mcts

import (
	"math"
	"sync/atomic"
)

// Upper bound of a cell, both per update and for the running sum
const maxScaledReward uint64 = math.MaxUint64 / 2

// StatCell is a float64 accumulator stored as a fixed-point uint64 (see RewardScale),
// so it can be updated with a single atomic add. Only non-negative values are
// representable, negative and NaN inputs are stored as 0.
type StatCell struct {
	raw atomic.Uint64
}

func toScaled(value float64) uint64 {
	scaled := value * RewardScale
	if !(scaled > 0) {
		return 0
	}
	if scaled >= float64(maxScaledReward) {
		return maxScaledReward
	}
	return uint64(scaled)
}

func fromScaled(raw uint64) float64 {
	return float64(raw) / RewardScale
}

// Add new value to the cell, saturating at maxScaledReward
func (c *StatCell) Add(value float64) {
	delta := toScaled(value)
	if delta == 0 {
		return
	}

	for {
		old := c.raw.Load()
		sum := maxScaledReward
		if old < maxScaledReward-delta {
			sum = old + delta
		}
		if sum == old || c.raw.CompareAndSwap(old, sum) {
			return
		}
	}
}

// Overwrite the cell's value
func (c *StatCell) Store(value float64) {
	c.raw.Store(toScaled(value))
}

func (c *StatCell) Load() float64 {
	return fromScaled(c.raw.Load())
}

// Raw fixed-point value, with 10^-6 precision
func (c *StatCell) Raw() uint64 {
	return c.raw.Load()
}

func (c *StatCell) Reset() {
	c.raw.Store(0)
}
