package mcts

import "golang.org/x/exp/rand"

// Other types, which didn't fit to the Node or Engine files

// Action is a move in the game, identified by a numeric id. The id is used
// for equality (RAVE trace matching, subtree reuse) and debugging.
type Action interface {
	ID() int
}

// GameState is the whole boundary between the engine and a domain.
// Implementations must be values the engine can keep: Apply never mutates
// the receiver, and Clone returns a state sharing no memory with it.
type GameState[S any, A Action, P comparable] interface {
	// Ordered list of legal actions, empty when the state is terminal
	LegalActions() []A
	// Return the state reached by playing 'action', without mutating this one
	Apply(action A) S
	IsTerminal() bool
	// Result in [0, 1] for the given player: 1 win, 0 loss, 0.5 draw
	Result(forPlayer P) float64
	// Player whose turn it is
	CurrentPlayer() P
	Clone() S
}

// Hasher is implemented by states that can be transposed. States without it
// hash to 0, meaning transpositions are disabled.
type Hasher interface {
	Hash() uint64
}

// Playouter lets a domain replace the default random playout, for example
// with a faster move generator. Must return the result from 'forPlayer'
// perspective and the actions played, in order.
type Playouter[A Action, P comparable] interface {
	RandomPlayout(forPlayer P, rng *rand.Rand) (float64, []A)
}

// RandSetter is implemented by policies that need a random number generator,
// the engine attaches its own generator on construction
type RandSetter interface {
	SetRand(*rand.Rand)
}

// NoPlayer is the player type for player-less decision processes
type NoPlayer struct{}

type BestChildCriteria int
type Perspective int
type SeedGeneratorFnType func() int64

// Returns the transposition hash of the state, 0 if it isn't a Hasher
func StateHash[S any](state S) uint64 {
	if h, ok := any(state).(Hasher); ok {
		return h.Hash()
	}
	return 0
}

// RandomPlayout plays uniformly random legal actions from 'state' until a
// terminal state is reached, returning the result for 'forPlayer' and the
// actions played. Uses the state's own Playouter implementation if present.
func RandomPlayout[S GameState[S, A, P], A Action, P comparable](state S, forPlayer P, rng *rand.Rand) (float64, []A) {
	if p, ok := any(state).(Playouter[A, P]); ok {
		return p.RandomPlayout(forPlayer, rng)
	}

	current := state
	trace := make([]A, 0, 16)
	for !current.IsTerminal() {
		actions := current.LegalActions()
		if len(actions) == 0 {
			break
		}

		action := actions[rng.Intn(len(actions))]
		trace = append(trace, action)
		current = current.Apply(action)
	}

	return current.Result(forPlayer), trace
}
