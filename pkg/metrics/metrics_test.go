package metrics

import (
	"testing"
	"time"

	"github.com/IlikeChooros/arbor-mcts/pkg/mcts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) (*SearchMetrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewSearchMetrics(reg), reg
}

func TestObserve(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.Observe("first", mcts.SearchStatistics{Iterations: 100, TotalTime: 10 * time.Millisecond, TreeSize: 50, MaxDepth: 4})
	m.Observe("first", mcts.SearchStatistics{Iterations: 20, TotalTime: time.Millisecond, TreeSize: 21, MaxDepth: 3, StoppedEarly: true})
	m.Observe("second", mcts.SearchStatistics{
		Iterations: 10,
		TotalTime:  time.Millisecond,
		TreeSize:   11,
		NodePool:   &mcts.PoolStats{TotalAllocated: 4, TotalRecycled: 1},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues("first", OutcomeCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues("first", OutcomeTimeout)))
	assert.Equal(t, 120.0, testutil.ToFloat64(m.IterationsTotal.WithLabelValues("first")))
	assert.Equal(t, 21.0, testutil.ToFloat64(m.TreeSize.WithLabelValues("first")), "gauges keep the last search")
	assert.Equal(t, 3.0, testutil.ToFloat64(m.MaxDepth.WithLabelValues("first")))
	assert.InDelta(t, 20000.0, testutil.ToFloat64(m.IterationsPerSecond.WithLabelValues("first")), 1e-6)
	assert.Equal(t, 0.25, testutil.ToFloat64(m.PoolReuseRatio.WithLabelValues("second")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.DurationSeconds))
}

func TestObserveEngineSearch(t *testing.T) {
	m, reg := newTestMetrics(t)

	engine := mcts.NewEngine[pile, take, mcts.NoPlayer](pile(5), mcts.DefaultConfig().SetMaxIterations(50))
	_, err := engine.Search()
	require.NoError(t, err)
	m.Observe("pile", engine.Statistics())

	assert.Equal(t, 50.0, testutil.ToFloat64(m.IterationsTotal.WithLabelValues("pile")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, family := range families {
		names = append(names, family.GetName())
	}
	assert.Contains(t, names, "arbor_search_searches_total")
	assert.Contains(t, names, "arbor_search_duration_seconds")
}

func TestRegisterTwicePanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewSearchMetrics(reg)
	assert.Panics(t, func() { NewSearchMetrics(reg) })
}

// Single player pile: take one or two, emptying the pile wins

type take int

func (t take) ID() int { return int(t) }

type pile int

func (p pile) LegalActions() []take {
	if p <= 0 {
		return nil
	}
	if p == 1 {
		return []take{1}
	}
	return []take{1, 2}
}

func (p pile) Apply(t take) pile            { return p - pile(t) }
func (p pile) IsTerminal() bool             { return p <= 0 }
func (p pile) Result(mcts.NoPlayer) float64 { return 1 }
func (p pile) CurrentPlayer() mcts.NoPlayer { return mcts.NoPlayer{} }
func (p pile) Clone() pile                  { return p }
