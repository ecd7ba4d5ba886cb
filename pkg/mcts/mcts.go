package mcts

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/exp/rand"
)

// Engine owns a search tree rooted at the current state, and runs the
// select, expand, simulate, backpropagate loop on it. Not safe for
// concurrent use, apart from Stop.
type Engine[S GameState[S, A, P], A Action, P comparable] struct {
	root   *Node[S, A, P]
	config Config
	stats  SearchStatistics

	selection   SelectionPolicy[S, A, P]
	expansion   ExpansionPolicy[S, A, P]
	simulation  SimulationPolicy[S, A, P]
	backprop    BackpropagationPolicy[S, A, P]
	pool        *NodePool[S, A, P]
	limiter     *Limiter
	listener    *StatsListener[A]
	rng         *rand.Rand
	logger      zerolog.Logger
	warnedUnset bool
}

// Create a new engine for 'state'. A nil config means DefaultConfig().
// Default policies are UCB1 with the config's exploration constant, random
// expansion, random simulation and standard backpropagation.
func NewEngine[S GameState[S, A, P], A Action, P comparable](state S, config *Config) *Engine[S, A, P] {
	if config == nil {
		config = DefaultConfig()
	}

	listener := NewStatsListener[A]()
	engine := &Engine[S, A, P]{
		config:   *config.Clone(),
		stats:    NewSearchStatistics(),
		limiter:  NewLimiter(),
		listener: &listener,
		rng:      newRand(),
		logger:   log.With().Str("component", "mcts").Logger(),
	}

	if engine.config.Pooling() {
		engine.pool = NewNodePool[S, A, P](state, engine.config.NodePoolSize).
			SetChunkSize(engine.config.NodePoolChunkSize)
		engine.root = engine.pool.CreateNode(state, nil, nil, 0)
	} else {
		engine.root = NewNode[S, A, P](state, nil, nil, 0)
	}

	if err := engine.config.Validate(); err != nil {
		engine.logger.Warn().Err(err).Msg("engine created with invalid configuration")
	}

	return engine.
		WithSelectionPolicy(NewUCB1[S, A, P](engine.config.ExplorationConstant)).
		WithExpansionPolicy(NewRandomExpansion[S, A, P]()).
		WithSimulationPolicy(NewRandomSimulation[S, A, P]()).
		WithBackpropagationPolicy(NewStandardBackprop[S, A, P]())
}

// Policies accepting a generator get the engine's one
func (e *Engine[S, A, P]) attachRand(policy any) {
	if setter, ok := policy.(RandSetter); ok {
		setter.SetRand(e.rng)
	}
}

func (e *Engine[S, A, P]) WithSelectionPolicy(policy SelectionPolicy[S, A, P]) *Engine[S, A, P] {
	if policy != nil {
		e.attachRand(policy)
		e.selection = policy
	}
	return e
}

func (e *Engine[S, A, P]) WithExpansionPolicy(policy ExpansionPolicy[S, A, P]) *Engine[S, A, P] {
	if policy != nil {
		e.attachRand(policy)
		e.expansion = policy
	}
	return e
}

func (e *Engine[S, A, P]) WithSimulationPolicy(policy SimulationPolicy[S, A, P]) *Engine[S, A, P] {
	if policy != nil {
		e.attachRand(policy)
		e.simulation = policy
	}
	return e
}

func (e *Engine[S, A, P]) WithBackpropagationPolicy(policy BackpropagationPolicy[S, A, P]) *Engine[S, A, P] {
	if policy != nil {
		e.attachRand(policy)
		e.backprop = policy
	}
	return e
}

func (e *Engine[S, A, P]) WithLogger(logger zerolog.Logger) *Engine[S, A, P] {
	e.logger = logger
	return e
}

func (e *Engine[S, A, P]) Root() *Node[S, A, P] {
	return e.root
}

// Copy of the engine's configuration
func (e *Engine[S, A, P]) Config() Config {
	return e.config
}

// Statistics of the last search
func (e *Engine[S, A, P]) Statistics() SearchStatistics {
	return e.stats
}

// Pool backing the tree, nil when pooling is disabled
func (e *Engine[S, A, P]) Pool() *NodePool[S, A, P] {
	return e.pool
}

func (e *Engine[S, A, P]) StatsListener() *StatsListener[A] {
	return e.listener
}

func (e *Engine[S, A, P]) SetListener(listener StatsListener[A]) {
	*e.listener = listener
}

// Stop the running search, may be called from another goroutine
func (e *Engine[S, A, P]) Stop() {
	e.limiter.SetStop(true)
}

// Get the reason why the last search was stopped
func (e *Engine[S, A, P]) StopReason() StopReason {
	return e.limiter.StopReason()
}

// Size of the tree, counted
func (e *Engine[S, A, P]) Count() int {
	return countTreeNodes(e.root)
}

// Best child of 'node' by the configured criteria, nil if there are no
// children. Ties go to the first child.
func (e *Engine[S, A, P]) BestChild(node *Node[S, A, P]) *Node[S, A, P] {
	children := node.Children()
	if len(children) == 0 {
		return nil
	}

	index := 0
	switch e.config.BestChildCriteria {
	case BestChildHighestValue:
		best := math.Inf(-1)
		for i, child := range children {
			if value := child.Value(); value > best {
				best = value
				index = i
			}
		}
	default:
		var best uint64
		for i, child := range children {
			if visits := child.Visits(); visits > best {
				best = visits
				index = i
			}
		}
	}

	return children[index]
}

// The recommended action at the root. With no children, returns the first
// unexpanded action, or ErrNoLegalActions if there is none.
func (e *Engine[S, A, P]) BestAction() (A, error) {
	var zero A
	if e.root.IsLeaf() {
		if actions := e.root.UnexpandedActions(); len(actions) > 0 {
			return actions[0], nil
		}
		return zero, ErrNoLegalActions
	}

	action, _ := e.BestChild(e.root).Action()
	return action, nil
}

// Nodes along the best line, from the root's best child down to a leaf
func (e *Engine[S, A, P]) PrincipalVariationNodes() []*Node[S, A, P] {
	pv := make([]*Node[S, A, P], 0, treeHeight(e.root))
	for node := e.BestChild(e.root); node != nil; node = e.BestChild(node) {
		pv = append(pv, node)
	}
	return pv
}

// Get the principal variation (ie. the best sequence of actions)
func (e *Engine[S, A, P]) PrincipalVariation() []A {
	return lo.Map(e.PrincipalVariationNodes(), func(node *Node[S, A, P], _ int) A {
		action, _ := node.Action()
		return action
	})
}

// Discard the tree (recycling it if pooling is enabled) and install a
// fresh root for 'state'
func (e *Engine[S, A, P]) Reset(state S) {
	if e.pool != nil {
		e.pool.RecycleTree(e.root)
		e.root = e.pool.CreateNode(state, nil, nil, 0)
	} else {
		e.root = NewNode[S, A, P](state, nil, nil, 0)
	}

	e.stats = NewSearchStatistics()
	e.logger.Debug().Int("legal_actions", len(e.root.UnexpandedActions())).Msg("root reset")
}

// Advance makes the root's child reached by 'action' the new root, keeping
// its subtree, the rest of the tree is discarded. If there is no such child,
// the tree is reset to the state after 'action', which must be legal.
// Returns whether a subtree was reused.
func (e *Engine[S, A, P]) Advance(action A) bool {
	var next *Node[S, A, P]
	for _, child := range e.root.Children() {
		if a, ok := child.Action(); ok && a.ID() == action.ID() {
			next = child
			break
		}
	}

	if next == nil {
		e.Reset(e.root.State().Apply(action))
		return false
	}

	if e.pool != nil {
		for _, child := range e.root.Children() {
			if child != next {
				e.pool.RecycleTree(child)
			}
		}
		e.pool.RecycleNode(e.root)
	}

	// The new root has no inbound action, and belongs to the player to move
	var zero A
	next.action, next.hasAction = zero, false
	next.player = next.state.CurrentPlayer()
	next.rebaseDepth(0)
	e.root = next
	e.stats = NewSearchStatistics()
	e.stats.TreeSize = countTreeNodes(next)

	e.logger.Debug().Int("action", action.ID()).Int("tree_size", e.stats.TreeSize).Msg("root advanced")
	return true
}

// Depth-indented dump of the tree, for debugging only
func (e *Engine[S, A, P]) VisualizeTree() string {
	builder := strings.Builder{}
	visualizeNode(&builder, e.root, 0)
	return builder.String()
}

func visualizeNode[S GameState[S, A, P], A Action, P comparable](builder *strings.Builder, node *Node[S, A, P], depth int) {
	label := "Root"
	if action, ok := node.Action(); ok {
		label = fmt.Sprintf("%v", action)
	}

	fmt.Fprintf(builder, "%s%s (visits: %d, value: %.3f)\n",
		strings.Repeat("  ", depth), label, node.Visits(), node.Value())

	for _, child := range node.Children() {
		visualizeNode(builder, child, depth+1)
	}
}

func (e *Engine[S, A, P]) String() string {
	return fmt.Sprintf("MCTS={Size=%d, Stats:{maxdepth=%d, iterations=%d, time=%v}, Root={visits=%d, value=%.3f, children=%d}}",
		e.stats.TreeSize, e.stats.MaxDepth, e.stats.Iterations, e.stats.TotalTime,
		e.root.Visits(), e.root.Value(), len(e.root.Children()))
}
