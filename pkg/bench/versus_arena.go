package bench

import (
	"context"
	"errors"
	"time"

	"github.com/IlikeChooros/arbor-mcts/pkg/mcts"
	"github.com/IlikeChooros/arbor-mcts/pkg/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"
)

/*
Arena benchmark subpackage, plays a series of games between two engine
configurations on any GameState, spread over a number of workers.
*/

// Contestant describes how to build one side's engine. Every game gets fresh
// engines, so nothing is shared between workers.
type Contestant[S mcts.GameState[S, A, P], A mcts.Action, P comparable] struct {
	Name   string
	Config *mcts.Config
	// Optional, called on every new engine (policy overrides and such)
	Setup func(engine *mcts.Engine[S, A, P])
}

func (c Contestant[S, A, P]) newEngine(state S, logger zerolog.Logger) *mcts.Engine[S, A, P] {
	engine := mcts.NewEngine[S, A, P](state, c.Config).
		WithLogger(logger.With().Str("contestant", c.Name).Logger())
	if c.Setup != nil {
		c.Setup(engine)
	}
	return engine
}

type VersusArena[S mcts.GameState[S, A, P], A mcts.Action, P comparable] struct {
	VersusArenaStats
	Player1  Contestant[S, A, P]
	Player2  Contestant[S, A, P]
	NGames   int
	NWorkers int
	// Time per move, 0 means each engine's own config limits
	MoveTime time.Duration
	Position S
	// Optional, every search is observed under the contestant's name
	Metrics *metrics.SearchMetrics
	logger  zerolog.Logger
}

func NewVersusArena[S mcts.GameState[S, A, P], A mcts.Action, P comparable](
	position S, player1, player2 Contestant[S, A, P],
) *VersusArena[S, A, P] {
	if player1.Name == "" {
		player1.Name = "player1"
	}
	if player2.Name == "" {
		player2.Name = "player2"
	}

	return &VersusArena[S, A, P]{
		Player1:  player1,
		Player2:  player2,
		NGames:   100,
		NWorkers: 2,
		Position: position,
		logger:   log.With().Str("component", "arena").Logger(),
	}
}

func (va *VersusArena[S, A, P]) WithLogger(logger zerolog.Logger) *VersusArena[S, A, P] {
	va.logger = logger
	return va
}

func (va *VersusArena[S, A, P]) WithMetrics(m *metrics.SearchMetrics) *VersusArena[S, A, P] {
	va.Metrics = m
	return va
}

func (va *VersusArena[S, A, P]) Setup(moveTime time.Duration, nGames, nWorkers int) {
	va.MoveTime = moveTime
	va.NGames = nGames
	va.NWorkers = nWorkers
}

// Run plays all games and blocks until they're done or 'ctx' is cancelled.
// Games are distributed equally between the workers, each seat is assigned
// by a coin flip. The listener may be called from several goroutines at once.
// Returns the summary of the finished games, and ctx's error if cancelled.
func (va *VersusArena[S, A, P]) Run(ctx context.Context, listener ListenerLike[A]) (VersusSummaryInfo, error) {
	if listener == nil {
		listener = DefaultListener[A]{}
	}

	nWorkers := max(1, va.NWorkers)
	nGames := max(0, va.NGames)
	listener.OnStart()

	g, gctx := errgroup.WithContext(ctx)
	for i, n := range gamesPerWorker(nGames, nWorkers) {
		if n == 0 {
			continue
		}

		g.Go(func() error {
			return va.worker(gctx, i, n, listener)
		})
	}

	err := g.Wait()
	summary := va.Summary()
	listener.Summary(summary)
	listener.OnEnd()

	va.logger.Info().
		Int("games", summary.TotalGames).
		Int("p1_wins", summary.P1Wins).
		Int("p2_wins", summary.P2Wins).
		Int("draws", summary.Draws).
		Float64("score", summary.Score).
		Msg("arena finished")
	return summary, err
}

// Split 'nGames' as equally as possible, the first workers get the remainder
func gamesPerWorker(nGames, nWorkers int) []int {
	perWorker, rest := nGames/nWorkers, nGames%nWorkers
	return lo.Times(nWorkers, func(i int) int {
		if i < rest {
			return perWorker + 1
		}
		return perWorker
	})
}

// Summary of the games finished so far
func (va *VersusArena[S, A, P]) Summary() VersusSummaryInfo {
	total := va.Total()
	score := va.Score()
	low, high := WilsonInterval(score, total, DefaultConfidence)

	return VersusSummaryInfo{
		TotalGames:       total,
		P1Wins:           va.P1Wins(),
		P2Wins:           va.P2Wins(),
		FirstToMoveWins:  va.FirstToMoveWins(),
		SecondToMoveWins: va.SecondToMoveWins(),
		Draws:            va.Draws(),
		Workers:          max(1, va.NWorkers),
		P1Name:           va.Player1.Name,
		P2Name:           va.Player2.Name,
		Score:            score,
		ScoreLow:         low,
		ScoreHigh:        high,
	}
}

func (va *VersusArena[S, A, P]) worker(ctx context.Context, id, nGames int, listener ListenerLike[A]) error {
	local := &VersusArenaStats{}
	info := VersusWorkerInfo[A]{
		WorkerID: id,
		NGames:   nGames,
		P1Name:   va.Player1.Name,
		P2Name:   va.Player2.Name,
	}

	for i := range nGames {
		if err := ctx.Err(); err != nil {
			return err
		}

		info.GameID = uuid.NewString()
		info.FinishedGames = i
		info.P1First = frand.Intn(2) == 0
		info.Moves = nil
		info.GameMoveNum = 0
		listener.OnGameStart(info)

		first, second := va.Player1, va.Player2
		if !info.P1First {
			first, second = second, first
		}

		outcome, moves, err := va.playGame(ctx, first, second, &info, listener)
		if err != nil {
			return err
		}

		result := toAgentResult(outcome, info.P1First)
		va.record(result, outcome)
		local.record(result, outcome)

		info.Moves = moves
		info.GameMoveNum = len(moves)
		info.FinishedGames = i + 1
		info.P1Wins, info.P2Wins, info.Draws = local.P1Wins(), local.P2Wins(), local.Draws()
		listener.OnFinishedGame(info, result)
	}

	listener.OnFinishedWork(info)
	return nil
}

// Play a single game, 'first' moves first. Both engines follow every move,
// reusing their subtree when they can.
func (va *VersusArena[S, A, P]) playGame(
	ctx context.Context, first, second Contestant[S, A, P],
	info *VersusWorkerInfo[A], listener ListenerLike[A],
) (GameOutcome, []A, error) {
	state := va.Position.Clone()
	firstPlayer := state.CurrentPlayer()
	contestants := [2]Contestant[S, A, P]{first, second}
	engines := [2]*mcts.Engine[S, A, P]{
		first.newEngine(state.Clone(), va.logger),
		second.newEngine(state.Clone(), va.logger),
	}

	moves := make([]A, 0, 64)
	for !state.IsTerminal() {
		if err := ctx.Err(); err != nil {
			return GameOutcome{}, moves, err
		}

		turn := 1
		if state.CurrentPlayer() == firstPlayer {
			turn = 0
		}

		action, err := va.searchMove(ctx, engines[turn], contestants[turn].Name)
		if err != nil {
			return GameOutcome{}, moves, err
		}

		for _, engine := range engines {
			engine.Advance(action)
		}
		state = state.Apply(action)
		moves = append(moves, action)

		info.Moves = moves
		info.GameMoveNum = len(moves)
		listener.OnMoveMade(*info)
	}

	return computeOutcome[S, A, P](state, firstPlayer), moves, nil
}

func (va *VersusArena[S, A, P]) searchMove(ctx context.Context, engine *mcts.Engine[S, A, P], name string) (A, error) {
	var (
		action A
		err    error
	)

	if va.MoveTime > 0 {
		action, err = engine.SearchForTime(va.MoveTime)
	} else {
		action, err = engine.SearchContext(ctx)
	}

	if errors.Is(err, mcts.ErrSearchStopped) && ctx.Err() != nil {
		return action, ctx.Err()
	}
	if err != nil {
		return action, err
	}

	if va.Metrics != nil {
		va.Metrics.Observe(name, engine.Statistics())
	}
	return action, nil
}
