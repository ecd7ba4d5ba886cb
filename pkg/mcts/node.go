package mcts

import "sync/atomic"

// Node is a single position in the search tree. It owns its state and its
// children, there are no parent pointers: nodes are reached from the root
// by replaying a NodePath.
//
// Counters are atomic, so they may be read while another goroutine updates
// them, but the tree shape (children, unexpanded actions) is not synchronized.
type Node[S GameState[S, A, P], A Action, P comparable] struct {
	state     S
	action    A
	hasAction bool
	player    P
	depth     int
	terminal  bool

	visits           atomic.Uint64
	totalReward      StatCell
	sumSquaredReward StatCell
	raveVisits       atomic.Uint64
	raveReward       StatCell
	prior            StatCell

	children   []*Node[S, A, P]
	unexpanded []A
}

// Create a new node, 'action' and 'parentPlayer' are nil for the root.
// The node's player is 'parentPlayer', or the state's current player if nil.
func NewNode[S GameState[S, A, P], A Action, P comparable](state S, action *A, parentPlayer *P, depth int) *Node[S, A, P] {
	node := &Node[S, A, P]{}
	node.init(state, action, parentPlayer, depth)
	return node
}

// (Re)initialize every field, used both by NewNode and by the pool
func (node *Node[S, A, P]) init(state S, action *A, parentPlayer *P, depth int) {
	node.state = state
	node.depth = depth
	node.terminal = state.IsTerminal()

	var zero A
	node.action, node.hasAction = zero, false
	if action != nil {
		node.action, node.hasAction = *action, true
	}

	if parentPlayer != nil {
		node.player = *parentPlayer
	} else {
		node.player = state.CurrentPlayer()
	}

	node.resetStats()
	node.children = node.children[:0]
	node.unexpanded = append(node.unexpanded[:0], state.LegalActions()...)
}

func (node *Node[S, A, P]) resetStats() {
	node.visits.Store(0)
	node.totalReward.Reset()
	node.sumSquaredReward.Reset()
	node.raveVisits.Store(0)
	node.raveReward.Reset()
	node.prior.Store(1.0)
}

func (node *Node[S, A, P]) State() S {
	return node.state
}

// The action that produced this node, false for the root
func (node *Node[S, A, P]) Action() (A, bool) {
	return node.action, node.hasAction
}

// Player who made the move leading to this node (root: player to move)
func (node *Node[S, A, P]) Player() P {
	return node.player
}

func (node *Node[S, A, P]) Depth() int {
	return node.depth
}

func (node *Node[S, A, P]) IsTerminal() bool {
	return node.terminal
}

func (node *Node[S, A, P]) Visits() uint64 {
	return node.visits.Load()
}

func (node *Node[S, A, P]) TotalReward() float64 {
	return node.totalReward.Load()
}

func (node *Node[S, A, P]) SumSquaredReward() float64 {
	return node.sumSquaredReward.Load()
}

// Average reward of this node, 0 if it wasn't visited yet
func (node *Node[S, A, P]) Value() float64 {
	visits := node.Visits()
	if visits == 0 {
		return 0.0
	}
	return node.TotalReward() / float64(visits)
}

func (node *Node[S, A, P]) RaveVisits() uint64 {
	return node.raveVisits.Load()
}

func (node *Node[S, A, P]) RaveReward() float64 {
	return node.raveReward.Load()
}

// Average AMAF reward, 0 without any RAVE visits
func (node *Node[S, A, P]) RaveValue() float64 {
	visits := node.RaveVisits()
	if visits == 0 {
		return 0.0
	}
	return node.RaveReward() / float64(visits)
}

func (node *Node[S, A, P]) Prior() float64 {
	return node.prior.Load()
}

func (node *Node[S, A, P]) SetPrior(prior float64) {
	node.prior.Store(prior)
}

func (node *Node[S, A, P]) IncrementVisits() {
	node.visits.Add(1)
}

func (node *Node[S, A, P]) AddReward(reward float64) {
	node.totalReward.Add(reward)
}

// Adds reward^2 to the squared reward sum (used by UCB1-Tuned variance)
func (node *Node[S, A, P]) AddSquaredReward(reward float64) {
	node.sumSquaredReward.Add(reward * reward)
}

func (node *Node[S, A, P]) IncrementRaveVisits() {
	node.raveVisits.Add(1)
}

func (node *Node[S, A, P]) AddRaveReward(reward float64) {
	node.raveReward.Add(reward)
}

// Children in expansion order, must not be modified by the caller
func (node *Node[S, A, P]) Children() []*Node[S, A, P] {
	return node.children
}

// Get the child at 'index', nil if out of range
func (node *Node[S, A, P]) Child(index int) *Node[S, A, P] {
	if index < 0 || index >= len(node.children) {
		return nil
	}
	return node.children[index]
}

// Actions not yet materialized as children. Their order changes on every
// expansion (swap-remove).
func (node *Node[S, A, P]) UnexpandedActions() []A {
	return node.unexpanded
}

func (node *Node[S, A, P]) IsFullyExpanded() bool {
	return len(node.unexpanded) == 0
}

func (node *Node[S, A, P]) IsLeaf() bool {
	return len(node.children) == 0
}

// Remove the unexpanded action at 'index' (swap-remove), returns the action
// and the player to move in this node's state
func (node *Node[S, A, P]) takeAction(index int) (A, P, bool) {
	var zero A
	var noPlayer P
	if index < 0 || index >= len(node.unexpanded) {
		return zero, noPlayer, false
	}

	last := len(node.unexpanded) - 1
	action := node.unexpanded[index]
	node.unexpanded[index] = node.unexpanded[last]
	node.unexpanded[last] = zero
	node.unexpanded = node.unexpanded[:last]
	return action, node.state.CurrentPlayer(), true
}

// Expand materializes the unexpanded action at 'index' as a new child at depth+1,
// appends it and returns it. Returns nil if 'index' is out of range.
func (node *Node[S, A, P]) Expand(index int) *Node[S, A, P] {
	action, player, ok := node.takeAction(index)
	if !ok {
		return nil
	}

	child := NewNode(node.state.Apply(action), &action, &player, node.depth+1)
	node.children = append(node.children, child)
	return child
}

// Same as Expand, but the child comes from the pool
func (node *Node[S, A, P]) ExpandWithPool(index int, pool *NodePool[S, A, P]) *Node[S, A, P] {
	if pool == nil {
		return node.Expand(index)
	}

	action, player, ok := node.takeAction(index)
	if !ok {
		return nil
	}

	child := pool.CreateNode(node.state.Apply(action), &action, &player, node.depth+1)
	node.children = append(node.children, child)
	return child
}

// Set this node's and the whole subtree's depth, so that this node has 'depth'
func (node *Node[S, A, P]) rebaseDepth(depth int) {
	node.depth = depth
	for _, child := range node.children {
		child.rebaseDepth(depth + 1)
	}
}

// Helper function to count tree nodes
func countTreeNodes[S GameState[S, A, P], A Action, P comparable](node *Node[S, A, P]) int {
	nodes := 1
	for _, child := range node.children {
		nodes += countTreeNodes(child)
	}
	return nodes
}

// Helper function to get the deepest node's depth, relative to 'node'
func treeHeight[S GameState[S, A, P], A Action, P comparable](node *Node[S, A, P]) int {
	height := 0
	for _, child := range node.children {
		height = max(height, 1+treeHeight(child))
	}
	return height
}
