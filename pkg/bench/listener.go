package bench

import (
	"github.com/IlikeChooros/arbor-mcts/pkg/mcts"
	"github.com/rs/zerolog"
)

// ListenerLike receives the arena's progress. Workers call it concurrently,
// implementations must be safe for that.
type ListenerLike[A mcts.Action] interface {
	OnStart()
	OnGameStart(info VersusWorkerInfo[A])
	OnMoveMade(info VersusWorkerInfo[A])
	OnFinishedGame(info VersusWorkerInfo[A], result VersusMatchResult)
	OnFinishedWork(info VersusWorkerInfo[A])
	Summary(summary VersusSummaryInfo)
	OnEnd()
}

// Does nothing
type DefaultListener[A mcts.Action] struct{}

func (DefaultListener[A]) OnStart()                                              {}
func (DefaultListener[A]) OnGameStart(VersusWorkerInfo[A])                       {}
func (DefaultListener[A]) OnMoveMade(VersusWorkerInfo[A])                        {}
func (DefaultListener[A]) OnFinishedGame(VersusWorkerInfo[A], VersusMatchResult) {}
func (DefaultListener[A]) OnFinishedWork(VersusWorkerInfo[A])                    {}
func (DefaultListener[A]) Summary(VersusSummaryInfo)                             {}
func (DefaultListener[A]) OnEnd()                                                {}

// LogListener writes game results and the summary as structured log events.
// Moves are logged at trace level.
type LogListener[A mcts.Action] struct {
	logger zerolog.Logger
}

func NewLogListener[A mcts.Action](logger zerolog.Logger) *LogListener[A] {
	return &LogListener[A]{logger: logger}
}

func (l *LogListener[A]) OnStart() {
	l.logger.Debug().Msg("arena started")
}

func (l *LogListener[A]) OnGameStart(info VersusWorkerInfo[A]) {
	l.logger.Debug().
		Int("worker", info.WorkerID).
		Str("game_id", info.GameID).
		Bool("p1_first", info.P1First).
		Msg("game started")
}

func (l *LogListener[A]) OnMoveMade(info VersusWorkerInfo[A]) {
	if len(info.Moves) == 0 {
		return
	}

	l.logger.Trace().
		Int("worker", info.WorkerID).
		Str("game_id", info.GameID).
		Int("move_num", info.GameMoveNum).
		Int("action", info.Moves[len(info.Moves)-1].ID()).
		Msg("move made")
}

func (l *LogListener[A]) OnFinishedGame(info VersusWorkerInfo[A], result VersusMatchResult) {
	l.logger.Info().
		Int("worker", info.WorkerID).
		Str("game_id", info.GameID).
		Int("moves", info.GameMoveNum).
		Stringer("winner", result).
		Int("finished", info.FinishedGames).
		Int("of", info.NGames).
		Msg("game finished")
}

func (l *LogListener[A]) OnFinishedWork(info VersusWorkerInfo[A]) {
	l.logger.Debug().
		Int("worker", info.WorkerID).
		Int("p1_wins", info.P1Wins).
		Int("p2_wins", info.P2Wins).
		Int("draws", info.Draws).
		Msg("worker finished")
}

func (l *LogListener[A]) Summary(summary VersusSummaryInfo) {
	l.logger.Info().
		Str("player1", summary.P1Name).
		Str("player2", summary.P2Name).
		Int("games", summary.TotalGames).
		Int("p1_wins", summary.P1Wins).
		Int("p2_wins", summary.P2Wins).
		Int("draws", summary.Draws).
		Int("first_to_move_wins", summary.FirstToMoveWins).
		Int("second_to_move_wins", summary.SecondToMoveWins).
		Float64("score", summary.Score).
		Float64("score_low", summary.ScoreLow).
		Float64("score_high", summary.ScoreHigh).
		Msg("arena summary")
}

func (l *LogListener[A]) OnEnd() {}
