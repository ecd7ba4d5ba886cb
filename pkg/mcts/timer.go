package mcts

import (
	"time"
)

type timer struct {
	start    time.Time
	duration time.Duration
}

func newTimer() *timer {
	return &timer{time.Now(), 0}
}

// Check if this timer has ended
func (t *timer) IsEnd() bool {
	return t.duration > 0 && time.Since(t.start) >= t.duration
}

func (t *timer) IsSet() bool {
	return t.duration > 0
}

// Set the 'start' as now
func (t *timer) Reset() {
	t.start = time.Now()
}

// Get the start time
func (t *timer) Start() time.Time {
	return t.start
}

func (t *timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Set the duration, non-positive disables the timer
func (t *timer) Movetime(movetime time.Duration) {
	t.duration = max(0, movetime)
}
