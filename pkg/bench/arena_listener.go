package bench

import "github.com/IlikeChooros/arbor-mcts/pkg/mcts"

// MultiListener forwards every event to all of its listeners, in order
type MultiListener[A mcts.Action] struct {
	listeners []ListenerLike[A]
}

func NewMultiListener[A mcts.Action](listeners ...ListenerLike[A]) *MultiListener[A] {
	ml := &MultiListener[A]{listeners: make([]ListenerLike[A], 0, len(listeners))}
	for _, l := range listeners {
		ml.Add(l)
	}
	return ml
}

// Add a listener, nil is ignored
func (ml *MultiListener[A]) Add(listener ListenerLike[A]) {
	if listener != nil {
		ml.listeners = append(ml.listeners, listener)
	}
}

func (ml *MultiListener[A]) Len() int {
	return len(ml.listeners)
}

func (ml *MultiListener[A]) OnStart() {
	for _, l := range ml.listeners {
		l.OnStart()
	}
}

func (ml *MultiListener[A]) OnGameStart(info VersusWorkerInfo[A]) {
	for _, l := range ml.listeners {
		l.OnGameStart(info)
	}
}

func (ml *MultiListener[A]) OnMoveMade(info VersusWorkerInfo[A]) {
	for _, l := range ml.listeners {
		l.OnMoveMade(info)
	}
}

func (ml *MultiListener[A]) OnFinishedGame(info VersusWorkerInfo[A], result VersusMatchResult) {
	for _, l := range ml.listeners {
		l.OnFinishedGame(info, result)
	}
}

func (ml *MultiListener[A]) OnFinishedWork(info VersusWorkerInfo[A]) {
	for _, l := range ml.listeners {
		l.OnFinishedWork(info)
	}
}

func (ml *MultiListener[A]) Summary(summary VersusSummaryInfo) {
	for _, l := range ml.listeners {
		l.Summary(summary)
	}
}

func (ml *MultiListener[A]) OnEnd() {
	for _, l := range ml.listeners {
		l.OnEnd()
	}
}
