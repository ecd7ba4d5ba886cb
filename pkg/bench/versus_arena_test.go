package bench

import (
	"bytes"
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IlikeChooros/arbor-mcts/pkg/mcts"
	"github.com/IlikeChooros/arbor-mcts/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Nim with a single pile: take 1 or 2 stones, whoever takes the last one wins
type take int

func (t take) ID() int { return int(t) }

type pile struct {
	stones int
	toMove int
}

func (p pile) LegalActions() []take {
	actions := make([]take, 0, 2)
	for n := 1; n <= 2 && n <= p.stones; n++ {
		actions = append(actions, take(n))
	}
	return actions
}

func (p pile) Apply(t take) pile {
	return pile{stones: p.stones - int(t), toMove: 1 - p.toMove}
}

func (p pile) IsTerminal() bool { return p.stones == 0 }

// The player to move on an empty pile has lost
func (p pile) Result(forPlayer int) float64 {
	if forPlayer == p.toMove {
		return 0
	}
	return 1
}

func (p pile) CurrentPlayer() int { return p.toMove }
func (p pile) Clone() pile        { return p }

type countingListener struct {
	starts, gameStarts, moves, games, works, summaries, ends atomic.Int32
}

func (c *countingListener) OnStart()                              { c.starts.Add(1) }
func (c *countingListener) OnGameStart(VersusWorkerInfo[take])    { c.gameStarts.Add(1) }
func (c *countingListener) OnMoveMade(VersusWorkerInfo[take])     { c.moves.Add(1) }
func (c *countingListener) OnFinishedWork(VersusWorkerInfo[take]) { c.works.Add(1) }
func (c *countingListener) Summary(VersusSummaryInfo)             { c.summaries.Add(1) }
func (c *countingListener) OnEnd()                                { c.ends.Add(1) }

func (c *countingListener) OnFinishedGame(VersusWorkerInfo[take], VersusMatchResult) {
	c.games.Add(1)
}

func TestMain(m *testing.M) {
	mcts.SetSeedGeneratorFn(func() int64 {
		return 42
	})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

func newTestArena(games, workers int) *VersusArena[pile, take, int] {
	config := mcts.DefaultConfig().SetMaxIterations(60)
	arena := NewVersusArena[pile, take, int](pile{stones: 7},
		Contestant[pile, take, int]{Name: "ucb1", Config: config},
		Contestant[pile, take, int]{
			Name:   "tuned",
			Config: config,
			Setup: func(e *mcts.Engine[pile, take, int]) {
				e.WithSelectionPolicy(mcts.NewUCB1Tuned[pile, take, int](1.0))
			},
		},
	)
	arena.Setup(0, games, workers)
	return arena
}

func TestVersusArenaRun(t *testing.T) {
	arena := newTestArena(7, 3)
	listener := &countingListener{}

	summary, err := arena.Run(context.Background(), listener)
	require.NoError(t, err)

	assert.Equal(t, 7, summary.TotalGames)
	assert.Equal(t, 7, arena.Total())
	assert.Equal(t, 0, summary.Draws, "nim has no draws")
	assert.Equal(t, summary.TotalGames, summary.P1Wins+summary.P2Wins+summary.Draws)
	assert.Equal(t, summary.TotalGames, summary.FirstToMoveWins+summary.SecondToMoveWins)
	assert.Equal(t, "ucb1", summary.P1Name)
	assert.Equal(t, "tuned", summary.P2Name)
	assert.Equal(t, 3, summary.Workers)
	assert.LessOrEqual(t, summary.ScoreLow, summary.Score)
	assert.GreaterOrEqual(t, summary.ScoreHigh, summary.Score)

	assert.EqualValues(t, 1, listener.starts.Load())
	assert.EqualValues(t, 7, listener.gameStarts.Load())
	assert.EqualValues(t, 7, listener.games.Load())
	assert.EqualValues(t, 3, listener.works.Load())
	assert.EqualValues(t, 1, listener.summaries.Load())
	assert.EqualValues(t, 1, listener.ends.Load())
	// At most 7 stones, 1 or 2 per move
	assert.GreaterOrEqual(t, listener.moves.Load(), int32(7*4))
	assert.LessOrEqual(t, listener.moves.Load(), int32(7*7))
}

func TestVersusArenaMoreWorkersThanGames(t *testing.T) {
	arena := newTestArena(2, 5)
	listener := &countingListener{}

	summary, err := arena.Run(context.Background(), listener)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalGames)
	assert.EqualValues(t, 2, listener.works.Load(), "idle workers aren't started")
}

func TestVersusArenaCancelled(t *testing.T) {
	arena := newTestArena(10, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := arena.Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.TotalGames)
}

func TestVersusArenaMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewSearchMetrics(reg)
	arena := newTestArena(4, 2).WithMetrics(m)
	listener := &countingListener{}

	_, err := arena.Run(context.Background(), listener)
	require.NoError(t, err)

	searches := testutil.ToFloat64(m.SearchesTotal.WithLabelValues("ucb1", metrics.OutcomeCompleted)) +
		testutil.ToFloat64(m.SearchesTotal.WithLabelValues("tuned", metrics.OutcomeCompleted))
	assert.Equal(t, float64(listener.moves.Load()), searches, "one search per move")
}

func TestVersusArenaMoveTime(t *testing.T) {
	arena := newTestArena(2, 1)
	arena.MoveTime = 5 * time.Millisecond

	summary, err := arena.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalGames)
}

func TestGamesPerWorker(t *testing.T) {
	assert.Equal(t, []int{4, 3, 3}, gamesPerWorker(10, 3))
	assert.Equal(t, []int{1, 1, 0, 0}, gamesPerWorker(2, 4))
	assert.Equal(t, []int{5}, gamesPerWorker(5, 1))
}

func TestToAgentResult(t *testing.T) {
	tests := []struct {
		name     string
		outcome  GameOutcome
		p1First  bool
		expected VersusMatchResult
	}{
		{"draw", GameOutcome{IsDraw: true}, true, VersusDraw},
		{"p1 first and won", GameOutcome{FirstPlayerWon: true}, true, VersusPl1Win},
		{"p1 first and lost", GameOutcome{}, true, VersusPl2Win},
		{"p2 first and won", GameOutcome{FirstPlayerWon: true}, false, VersusPl2Win},
		{"p2 first and lost", GameOutcome{}, false, VersusPl1Win},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, toAgentResult(tt.outcome, tt.p1First))
		})
	}
}

func TestComputeOutcome(t *testing.T) {
	// Player 0 moved first, player 1 is to move on an empty pile: 0 won
	outcome := computeOutcome[pile, take, int](pile{stones: 0, toMove: 1}, 0)
	assert.True(t, outcome.FirstPlayerWon)
	assert.False(t, outcome.IsDraw)

	outcome = computeOutcome[pile, take, int](pile{stones: 0, toMove: 0}, 0)
	assert.False(t, outcome.FirstPlayerWon)

	assert.Panics(t, func() {
		computeOutcome[pile, take, int](pile{stones: 3}, 0)
	})
}

func TestArenaStatsRecord(t *testing.T) {
	stats := &VersusArenaStats{}
	stats.record(VersusPl1Win, GameOutcome{FirstPlayerWon: true})
	stats.record(VersusPl2Win, GameOutcome{FirstPlayerWon: true})
	stats.record(VersusPl1Win, GameOutcome{})
	stats.record(VersusDraw, GameOutcome{IsDraw: true})

	assert.Equal(t, 4, stats.Total())
	assert.Equal(t, 2, stats.P1Wins())
	assert.Equal(t, 1, stats.P2Wins())
	assert.Equal(t, 1, stats.Draws())
	assert.Equal(t, 2, stats.FirstToMoveWins())
	assert.Equal(t, 1, stats.SecondToMoveWins())
	assert.InDelta(t, 0.625, stats.Score(), 1e-9)
}

func TestWilsonInterval(t *testing.T) {
	assert.InDelta(t, 1.96, ZValue(95), 1e-3)

	low, high := WilsonInterval(0.5, 0, DefaultConfidence)
	assert.Equal(t, 0.0, low)
	assert.Equal(t, 1.0, high)

	low, high = WilsonInterval(0.5, 100, DefaultConfidence)
	assert.InDelta(t, 0.404, low, 1e-3)
	assert.InDelta(t, 0.596, high, 1e-3)

	// Never leaves [0, 1], even for a perfect score
	low, high = WilsonInterval(1.0, 10, DefaultConfidence)
	assert.Greater(t, low, 0.6)
	assert.LessOrEqual(t, high, 1.0)
}

func TestMultiListener(t *testing.T) {
	a, b := &countingListener{}, &countingListener{}
	ml := NewMultiListener[take](a, nil, b)
	assert.Equal(t, 2, ml.Len())

	ml.OnStart()
	ml.OnFinishedGame(VersusWorkerInfo[take]{}, VersusDraw)
	ml.OnEnd()

	for _, l := range []*countingListener{a, b} {
		assert.EqualValues(t, 1, l.starts.Load())
		assert.EqualValues(t, 1, l.games.Load())
		assert.EqualValues(t, 1, l.ends.Load())
	}
}

func TestTerminalListener(t *testing.T) {
	var buf bytes.Buffer
	tl := NewTerminalListener[take](&buf)
	arena := newTestArena(2, 1)

	_, err := arena.Run(context.Background(), NewMultiListener[take](tl, NewLogListener[take](zerolog.Nop())))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "[worker 0] game 1/2")
	assert.Contains(t, out, "Arena summary")
	assert.Contains(t, out, "Score of ucb1")
}
