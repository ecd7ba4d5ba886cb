package bench

import (
	"math"
	"sync/atomic"

	"github.com/IlikeChooros/arbor-mcts/pkg/mcts"
	"gonum.org/v1/gonum/stat/distuv"
)

type VersusMatchResult int

const (
	VersusPl1Win VersusMatchResult = 1
	VersusPl2Win VersusMatchResult = -1
	VersusDraw   VersusMatchResult = 0
)

// Confidence level of the score interval in the summary, in percent
const DefaultConfidence = 95.0

func (r VersusMatchResult) String() string {
	switch r {
	case VersusPl1Win:
		return "player1"
	case VersusPl2Win:
		return "player2"
	default:
		return "draw"
	}
}

// VersusArenaStats are the running totals of an arena, safe for concurrent use
type VersusArenaStats struct {
	p1Wins           atomic.Uint32
	p2Wins           atomic.Uint32
	draws            atomic.Uint32
	firstToMoveWins  atomic.Uint32
	secondToMoveWins atomic.Uint32
}

func (vas *VersusArenaStats) Total() int {
	return vas.P1Wins() + vas.P2Wins() + vas.Draws()
}

func (vas *VersusArenaStats) P1Wins() int {
	return int(vas.p1Wins.Load())
}

func (vas *VersusArenaStats) P2Wins() int {
	return int(vas.p2Wins.Load())
}

func (vas *VersusArenaStats) Draws() int {
	return int(vas.draws.Load())
}

func (vas *VersusArenaStats) FirstToMoveWins() int {
	return int(vas.firstToMoveWins.Load())
}

func (vas *VersusArenaStats) SecondToMoveWins() int {
	return int(vas.secondToMoveWins.Load())
}

// Score of the first contestant: wins plus half of the draws, over all games
func (vas *VersusArenaStats) Score() float64 {
	total := vas.Total()
	if total == 0 {
		return 0.5
	}
	return (float64(vas.P1Wins()) + 0.5*float64(vas.Draws())) / float64(total)
}

func (vas *VersusArenaStats) record(result VersusMatchResult, outcome GameOutcome) {
	switch result {
	case VersusPl1Win:
		vas.p1Wins.Add(1)
	case VersusPl2Win:
		vas.p2Wins.Add(1)
	default:
		vas.draws.Add(1)
		return
	}

	if outcome.FirstPlayerWon {
		vas.firstToMoveWins.Add(1)
	} else {
		vas.secondToMoveWins.Add(1)
	}
}

type VersusWorkerInfo[A mcts.Action] struct {
	WorkerID      int
	GameID        string
	NGames        int
	FinishedGames int
	GameMoveNum   int
	Moves         []A
	P1Wins        int
	P2Wins        int
	Draws         int
	P1Name        string
	P2Name        string
	// Whether the first contestant made the first move of the current game
	P1First bool
}

type VersusSummaryInfo struct {
	TotalGames       int     `json:"total_games"`
	P1Wins           int     `json:"player1_wins"`
	P2Wins           int     `json:"player2_wins"`
	FirstToMoveWins  int     `json:"first_to_move_wins"`
	SecondToMoveWins int     `json:"second_to_move_wins"`
	Draws            int     `json:"draws"`
	Workers          int     `json:"workers"`
	P1Name           string  `json:"player1_name"`
	P2Name           string  `json:"player2_name"`
	Score            float64 `json:"player1_score"`
	ScoreLow         float64 `json:"player1_score_low"`
	ScoreHigh        float64 `json:"player1_score_high"`
}

// represents result from the first-player's perspective in a single game
type GameOutcome struct {
	FirstPlayerWon bool
	IsDraw         bool
}

// maps a game outcome to which agent won, given player assignments
func toAgentResult(outcome GameOutcome, p1WentFirst bool) VersusMatchResult {
	if outcome.IsDraw {
		return VersusDraw
	}

	if p1WentFirst == outcome.FirstPlayerWon {
		return VersusPl1Win
	}
	return VersusPl2Win
}

// determines the winner from the final state's result for the player who
// moved first
func computeOutcome[S mcts.GameState[S, A, P], A mcts.Action, P comparable](final S, firstPlayer P) GameOutcome {
	if !final.IsTerminal() {
		panic("computeOutcome: state not terminal")
	}

	result := final.Result(firstPlayer)
	switch {
	case result > 0.5:
		return GameOutcome{FirstPlayerWon: true}
	case result < 0.5:
		return GameOutcome{}
	default:
		return GameOutcome{IsDraw: true}
	}
}

// Two-tailed z value for a confidence level given in percent
func ZValue(confidence float64) float64 {
	area := (1 + confidence/100) / 2
	return distuv.UnitNormal.Quantile(area)
}

// WilsonInterval is the score interval for a proportion 'score' observed
// over 'n' games, at the given confidence (percent). No games give [0, 1].
func WilsonInterval(score float64, n int, confidence float64) (low, high float64) {
	if n <= 0 {
		return 0, 1
	}

	z := ZValue(confidence)
	nf := float64(n)
	z2 := z * z
	denom := 1 + z2/nf
	center := (score + z2/(2*nf)) / denom
	margin := z * math.Sqrt(score*(1-score)/nf+z2/(4*nf*nf)) / denom
	return math.Max(0, center-margin), math.Min(1, center+margin)
}
