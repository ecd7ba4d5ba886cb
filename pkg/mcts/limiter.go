package mcts

import (
	"context"
	"sync/atomic"
	"time"
)

type StopReason int

const (
	StopNone       StopReason = 0
	StopInterrupt  StopReason = 1 // Stopped by calling .Stop() or context cancellation
	StopMovetime   StopReason = 2 // Time limit reached
	StopIterations StopReason = 4 // Iteration limit reached
)

func (sr StopReason) String() string {
	if sr == StopNone {
		return "None"
	}

	reasons := []struct {
		flag StopReason
		name string
	}{
		{StopInterrupt, "Interrupt"},
		{StopMovetime, "Movetime"},
		{StopIterations, "Iterations"},
	}

	var result string
	for _, r := range reasons {
		if sr&r.flag == r.flag {
			if result != "" {
				result += "|"
			}
			result += r.name
		}
	}

	return result
}

// Limiter decides, between iterations, whether the search may continue
type Limiter struct {
	limits *Limits
	timer  *timer
	stop   atomic.Bool
	reason StopReason
	ctx    context.Context
}

func NewLimiter() *Limiter {
	return &Limiter{
		limits: DefaultLimits(),
		timer:  newTimer(),
		ctx:    context.Background(),
	}
}

// Reset the limiter's flags and start the clock, called on search setup
func (l *Limiter) Reset() {
	l.timer.Movetime(l.limits.Movetime)
	l.timer.Reset()
	l.stop.Store(false)
	l.reason = StopNone
}

func (l *Limiter) SetContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	l.ctx = ctx
}

func (l *Limiter) SetStop(v bool) {
	l.stop.Store(v)
}

// Wheter the stop signal is set, either directly or by the context
func (l *Limiter) Stop() bool {
	select {
	case <-l.ctx.Done():
		l.stop.Store(true)
	default:
	}
	return l.stop.Load()
}

func (l *Limiter) SetLimits(limits *Limits) {
	l.limits = limits
}

func (l *Limiter) Limits() *Limits {
	return l.limits
}

func (l *Limiter) Elapsed() time.Duration {
	return l.timer.Elapsed()
}

func (l *Limiter) limitMask(iterations int) StopReason {
	reason := StopNone
	if l.Stop() {
		reason |= StopInterrupt
	}
	if l.timer.IsEnd() {
		reason |= StopMovetime
	}
	if iterations >= l.limits.Iterations {
		reason |= StopIterations
	}
	return reason
}

// Wheter the search should continue, called once per iteration
func (l *Limiter) Ok(iterations int) bool {
	return l.limitMask(iterations) == StopNone
}

// Evaluate and store the stop reason, called once after the search loop ends
func (l *Limiter) EvaluateStopReason(iterations int) {
	l.reason = l.limitMask(iterations)
}

// Get the reason why the search was stopped, valid after search ends
func (l *Limiter) StopReason() StopReason {
	return l.reason
}
