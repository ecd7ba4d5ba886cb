package mcts

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSearchStatistics(t *testing.T) {
	stats := NewSearchStatistics()
	assert.Equal(t, 1, stats.TreeSize)
	assert.Zero(t, stats.AvgTimePerIterationMicros())
	assert.Zero(t, stats.IterationsPerSecond())
	assert.NotContains(t, stats.Summary(), "Node Pool")

	stats.Iterations = 1000
	stats.TotalTime = 500 * time.Millisecond
	assert.InDelta(t, 500.0, stats.AvgTimePerIterationMicros(), 1e-9)
	assert.InDelta(t, 2000.0, stats.IterationsPerSecond(), 1e-9)

	stats.NodePool = &PoolStats{Capacity: 10, Available: 4, TotalAllocated: 4, TotalRecycled: 2}
	summary := stats.Summary()
	assert.Contains(t, summary, "- Iterations: 1000")
	assert.Contains(t, summary, "- Total time: 0.500 seconds")
	assert.Contains(t, summary, "- Iterations per second: 2000.0")
	assert.Contains(t, summary, "Reuse ratio: 50.00%")
	assert.Equal(t, 0.0, PoolStats{}.ReuseRatio())
}

func TestSearchStatisticsLogging(t *testing.T) {
	buf := bytes.Buffer{}
	logger := zerolog.New(&buf)
	stats := SearchStatistics{Iterations: 3, TreeSize: 4, NodePool: &PoolStats{TotalAllocated: 2, TotalRecycled: 1}}
	logger.Warn().EmbedObject(stats).Msg("done")

	assert.Contains(t, buf.String(), `"iterations":3`)
	assert.Contains(t, buf.String(), `"tree_size":4`)
	assert.Contains(t, buf.String(), `"reuse_ratio":0.5`)
}
