package bench

import (
	"fmt"
	"io"
	"sync"

	"github.com/IlikeChooros/arbor-mcts/pkg/mcts"
	"github.com/muesli/termenv"
)

// Colour palette (ANSI 256)
const (
	colorWin  = "2"
	colorLoss = "1"
	colorDraw = "3"
	colorDim  = "8"
)

// TerminalListener prints a coloured line per finished game and a summary
// table at the end. Colours are dropped when 'w' isn't a terminal.
type TerminalListener[A mcts.Action] struct {
	mu     sync.Mutex
	output *termenv.Output
	// Print every move, not only finished games
	Verbose bool
}

func NewTerminalListener[A mcts.Action](w io.Writer) *TerminalListener[A] {
	return &TerminalListener[A]{output: termenv.NewOutput(w)}
}

func (t *TerminalListener[A]) styled(text, color string) termenv.Style {
	return t.output.String(text).Foreground(t.output.Color(color))
}

func (t *TerminalListener[A]) OnStart() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.output.HideCursor()
}

func (t *TerminalListener[A]) OnGameStart(VersusWorkerInfo[A]) {}

func (t *TerminalListener[A]) OnMoveMade(info VersusWorkerInfo[A]) {
	if !t.Verbose || len(info.Moves) == 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.output, "%s move %d: %v\n",
		t.styled(fmt.Sprintf("[worker %d]", info.WorkerID), colorDim),
		info.GameMoveNum, info.Moves[len(info.Moves)-1])
}

func (t *TerminalListener[A]) OnFinishedGame(info VersusWorkerInfo[A], result VersusMatchResult) {
	var label termenv.Style
	switch result {
	case VersusPl1Win:
		label = t.styled(info.P1Name+" wins", colorWin).Bold()
	case VersusPl2Win:
		label = t.styled(info.P2Name+" wins", colorLoss).Bold()
	default:
		label = t.styled("draw", colorDraw)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.output, "%s game %d/%d %s in %d moves (W/D/L %d/%d/%d)\n",
		t.styled(fmt.Sprintf("[worker %d]", info.WorkerID), colorDim),
		info.FinishedGames, info.NGames, label, info.GameMoveNum,
		info.P1Wins, info.Draws, info.P2Wins)
}

func (t *TerminalListener[A]) OnFinishedWork(VersusWorkerInfo[A]) {}

func (t *TerminalListener[A]) Summary(summary VersusSummaryInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.output, "\n%s\n", t.output.String("Arena summary").Bold().Underline())
	fmt.Fprintf(t.output, "Games: %d (workers: %d)\n", summary.TotalGames, summary.Workers)
	fmt.Fprintf(t.output, "%s: %s\n", summary.P1Name, t.styled(fmt.Sprint(summary.P1Wins), colorWin))
	fmt.Fprintf(t.output, "%s: %s\n", summary.P2Name, t.styled(fmt.Sprint(summary.P2Wins), colorLoss))
	fmt.Fprintf(t.output, "Draws: %s\n", t.styled(fmt.Sprint(summary.Draws), colorDraw))
	fmt.Fprintf(t.output, "First to move wins: %d, second to move wins: %d\n",
		summary.FirstToMoveWins, summary.SecondToMoveWins)
	fmt.Fprintf(t.output, "Score of %s: %.3f [%.3f, %.3f] (%.0f%% confidence)\n",
		summary.P1Name, summary.Score, summary.ScoreLow, summary.ScoreHigh, DefaultConfidence)
}

func (t *TerminalListener[A]) OnEnd() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.output.ShowCursor()
}
