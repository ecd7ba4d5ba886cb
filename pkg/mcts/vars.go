package mcts

import (
	"math"
	"time"

	"golang.org/x/exp/rand"
)

// Scale of the fixed-point reward encoding, rewards keep 10^-6 precision
const RewardScale float64 = 1_000_000.0

// Exploration constant used by the default selection policy, theoretical value is sqrt(2),
// but it has to be tuned for each problem.
const DefaultExplorationConstant float64 = 1.414

const (
	DefaultMaxIterations     int = 10_000
	DefaultNodePoolChunkSize int = 500

	// Iteration cap for time-bounded searches, when the config has no real iteration budget
	timeBoundedIterationCap int = 1_000_000
)

// Unlimited iteration budget, use together with a time limit
const UnlimitedIterations int = math.MaxInt

// Customizable beta function for the rave selection, by default uses D. Silver solution
var RaveBetaFunction RaveBetaFunc = RaveDSilver

// Set custom beta function for RAVE selection policy
func SetRaveBetaFunction(f RaveBetaFunc) {
	if f != nil {
		RaveBetaFunction = f
	}
}

var SeedGeneratorFn SeedGeneratorFnType = func() int64 {
	return time.Now().UnixNano()
}

// Set custom seed generator function for random number generators in MCTS,
// by default uses current time in nanoseconds
func SetSeedGeneratorFn(f SeedGeneratorFnType) {
	if f != nil {
		SeedGeneratorFn = f
	}
}

const (
	// When choosing the best child, choose the one with most visits,
	// this is the go-to method for MCTS
	BestChildMostVisits BestChildCriteria = iota

	// Choose the child with the highest average value, more exploitative
	BestChildHighestValue
)

const (
	// Each node is credited with the result as seen by the player who made
	// the move into it. Results for other players are mirrored (1 - result),
	// which is exact for two-player zero-sum games.
	PerspectiveMover Perspective = iota

	// Every node on the path is credited with the raw result of the
	// simulation, from the simulated state's current player perspective
	PerspectiveLeaf
)

// New generator seeded with SeedGeneratorFn
func newRand() *rand.Rand {
	return rand.New(rand.NewSource(uint64(SeedGeneratorFn())))
}
