package mcts

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Node pool utilization, see NodePool.Stats
type PoolStats struct {
	Capacity       int `json:"capacity"`
	Available      int `json:"available"`
	TotalAllocated int `json:"total_allocated"`
	TotalRecycled  int `json:"total_recycled"`
}

// Recycled / allocated, 0 when nothing was allocated yet
func (p PoolStats) ReuseRatio() float64 {
	if p.TotalAllocated == 0 {
		return 0
	}
	return float64(p.TotalRecycled) / float64(p.TotalAllocated)
}

// SearchStatistics is a passive report of the last search
type SearchStatistics struct {
	Iterations int           `json:"iterations"`
	TotalTime  time.Duration `json:"total_time"`
	// Number of nodes in the tree, including the root
	TreeSize int `json:"tree_size"`
	MaxDepth int `json:"max_depth"`
	// Whether the time limit ended the search
	StoppedEarly bool       `json:"stopped_early"`
	NodePool     *PoolStats `json:"node_pool,omitempty"`
}

func NewSearchStatistics() SearchStatistics {
	return SearchStatistics{TreeSize: 1}
}

func (s SearchStatistics) AvgTimePerIterationMicros() float64 {
	if s.Iterations == 0 {
		return 0
	}
	return float64(s.TotalTime.Microseconds()) / float64(s.Iterations)
}

func (s SearchStatistics) IterationsPerSecond() float64 {
	seconds := s.TotalTime.Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(s.Iterations) / seconds
}

func (s SearchStatistics) Summary() string {
	builder := strings.Builder{}
	fmt.Fprintf(&builder, "MCTS Search Statistics:\n"+
		"- Iterations: %d\n"+
		"- Total time: %.3f seconds\n"+
		"- Tree size: %d nodes\n"+
		"- Max depth: %d\n"+
		"- Avg time per iteration: %.3f µs\n"+
		"- Iterations per second: %.1f\n"+
		"- Stopped early: %v",
		s.Iterations, s.TotalTime.Seconds(), s.TreeSize, s.MaxDepth,
		s.AvgTimePerIterationMicros(), s.IterationsPerSecond(), s.StoppedEarly)

	if pool := s.NodePool; pool != nil {
		fmt.Fprintf(&builder, "\n\nNode Pool Statistics:\n"+
			"- Capacity: %d\n"+
			"- Available nodes: %d\n"+
			"- Total allocated: %d\n"+
			"- Total recycled: %d\n"+
			"- Reuse ratio: %.2f%%",
			pool.Capacity, pool.Available, pool.TotalAllocated, pool.TotalRecycled,
			pool.ReuseRatio()*100)
	}
	return builder.String()
}

func (s SearchStatistics) String() string {
	return s.Summary()
}

func (s SearchStatistics) MarshalZerologObject(e *zerolog.Event) {
	e.Int("iterations", s.Iterations).
		Dur("total_time", s.TotalTime).
		Int("tree_size", s.TreeSize).
		Int("max_depth", s.MaxDepth).
		Bool("stopped_early", s.StoppedEarly).
		Float64("ips", s.IterationsPerSecond())

	if s.NodePool != nil {
		e.Object("node_pool", *s.NodePool)
	}
}

func (p PoolStats) MarshalZerologObject(e *zerolog.Event) {
	e.Int("capacity", p.Capacity).
		Int("available", p.Available).
		Int("allocated", p.TotalAllocated).
		Int("recycled", p.TotalRecycled).
		Float64("reuse_ratio", p.ReuseRatio())
}
