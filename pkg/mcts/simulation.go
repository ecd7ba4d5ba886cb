package mcts

import (
	"math"

	"github.com/samber/lo"
	"golang.org/x/exp/rand"
)

// RandomSimulation plays a random game to the end, using the domain's
// Playouter if it has one (see RandomPlayout)
type RandomSimulation[S GameState[S, A, P], A Action, P comparable] struct {
	rng *rand.Rand
}

func NewRandomSimulation[S GameState[S, A, P], A Action, P comparable]() *RandomSimulation[S, A, P] {
	return &RandomSimulation[S, A, P]{rng: newRand()}
}

func (s *RandomSimulation[S, A, P]) SetRand(rng *rand.Rand) {
	s.rng = rng
}

func (s *RandomSimulation[S, A, P]) Simulate(state S) float64 {
	result, _ := s.SimulateWithTrace(state)
	return result
}

func (s *RandomSimulation[S, A, P]) SimulateWithTrace(state S) (float64, []A) {
	if state.IsTerminal() {
		return state.Result(state.CurrentPlayer()), nil
	}
	return RandomPlayout[S, A, P](state, state.CurrentPlayer(), s.rng)
}

func (s *RandomSimulation[S, A, P]) Clone() SimulationPolicy[S, A, P] {
	return NewRandomSimulation[S, A, P]()
}

// HeuristicSimulation evaluates non-terminal states with a user function,
// terminal states always get their true result. Values are clamped to [0, 1].
type HeuristicSimulation[S GameState[S, A, P], A Action, P comparable] struct {
	Heuristic func(state S) float64
}

func NewHeuristicSimulation[S GameState[S, A, P], A Action, P comparable](heuristic func(S) float64) *HeuristicSimulation[S, A, P] {
	return &HeuristicSimulation[S, A, P]{Heuristic: heuristic}
}

func (s *HeuristicSimulation[S, A, P]) Simulate(state S) float64 {
	if state.IsTerminal() || s.Heuristic == nil {
		return state.Result(state.CurrentPlayer())
	}

	value := s.Heuristic(state)
	if math.IsNaN(value) {
		return 0.5
	}
	return math.Max(0, math.Min(1, value))
}

func (s *HeuristicSimulation[S, A, P]) Clone() SimulationPolicy[S, A, P] {
	return &HeuristicSimulation[S, A, P]{Heuristic: s.Heuristic}
}

type weightedSimulation[S GameState[S, A, P], A Action, P comparable] struct {
	policy SimulationPolicy[S, A, P]
	weight float64
}

// MixtureSimulation samples one of its sub-policies per call, proportionally
// to the weights. Falls back to random simulation when empty, or when the
// sampling walks past the last weight (rounding).
type MixtureSimulation[S GameState[S, A, P], A Action, P comparable] struct {
	policies []weightedSimulation[S, A, P]
	fallback *RandomSimulation[S, A, P]
	rng      *rand.Rand
}

func NewMixtureSimulation[S GameState[S, A, P], A Action, P comparable]() *MixtureSimulation[S, A, P] {
	rng := newRand()
	fallback := NewRandomSimulation[S, A, P]()
	fallback.SetRand(rng)
	return &MixtureSimulation[S, A, P]{fallback: fallback, rng: rng}
}

// Add a sub-policy, negative weights are treated as 0
func (s *MixtureSimulation[S, A, P]) Add(policy SimulationPolicy[S, A, P], weight float64) *MixtureSimulation[S, A, P] {
	if policy != nil {
		s.policies = append(s.policies, weightedSimulation[S, A, P]{policy: policy, weight: max(0, weight)})
	}
	return s
}

func (s *MixtureSimulation[S, A, P]) Len() int {
	return len(s.policies)
}

func (s *MixtureSimulation[S, A, P]) TotalWeight() float64 {
	return lo.SumBy(s.policies, func(w weightedSimulation[S, A, P]) float64 {
		return w.weight
	})
}

// Propagates the generator to every sub-policy accepting one
func (s *MixtureSimulation[S, A, P]) SetRand(rng *rand.Rand) {
	s.rng = rng
	s.fallback.SetRand(rng)
	for _, w := range s.policies {
		if setter, ok := w.policy.(RandSetter); ok {
			setter.SetRand(rng)
		}
	}
}

// Sampled sub-policy, nil if none was hit
func (s *MixtureSimulation[S, A, P]) pick() SimulationPolicy[S, A, P] {
	total := s.TotalWeight()
	if len(s.policies) == 0 || total <= 0 {
		return nil
	}

	r := s.rng.Float64() * total
	for _, w := range s.policies {
		if r < w.weight {
			return w.policy
		}
		r -= w.weight
	}
	return nil
}

func (s *MixtureSimulation[S, A, P]) Simulate(state S) float64 {
	if policy := s.pick(); policy != nil {
		return policy.Simulate(state)
	}
	return s.fallback.Simulate(state)
}

// Trace is reported only when the sampled policy can trace
func (s *MixtureSimulation[S, A, P]) SimulateWithTrace(state S) (float64, []A) {
	policy := s.pick()
	if policy == nil {
		return s.fallback.SimulateWithTrace(state)
	}
	if tracing, ok := policy.(TracingSimulation[S, A, P]); ok {
		return tracing.SimulateWithTrace(state)
	}
	return policy.Simulate(state), nil
}

func (s *MixtureSimulation[S, A, P]) Clone() SimulationPolicy[S, A, P] {
	clone := NewMixtureSimulation[S, A, P]()
	for _, w := range s.policies {
		clone.Add(w.policy.Clone(), w.weight)
	}
	return clone
}
