package mcts

// NodePool is a free list of decommissioned nodes. Nodes handed out by the
// pool are refurbished in place and indistinguishable from fresh ones.
//
// A pool belongs to exactly one engine, it must never back two live trees.
type NodePool[S GameState[S, A, P], A Action, P comparable] struct {
	free      []*Node[S, A, P]
	template  S
	chunkSize int

	// Nodes fabricated by the pool (pre-allocation included)
	created int
	// Nodes handed out from the free list
	allocated int
	// Nodes returned to the free list
	recycled int
}

// Create a pool with 'initialSize' placeholder nodes holding 'template' state
func NewNodePool[S GameState[S, A, P], A Action, P comparable](template S, initialSize int) *NodePool[S, A, P] {
	pool := &NodePool[S, A, P]{
		free:      make([]*Node[S, A, P], 0, max(0, initialSize)),
		template:  template,
		chunkSize: DefaultNodePoolChunkSize,
	}

	for range max(0, initialSize) {
		pool.free = append(pool.free, pool.placeholder())
		pool.created++
	}
	return pool
}

// Placeholder node: template state, depth 0, no actions
func (pool *NodePool[S, A, P]) placeholder() *Node[S, A, P] {
	node := &Node[S, A, P]{
		state:  pool.template,
		player: pool.template.CurrentPlayer(),
	}
	node.prior.Store(1.0)
	return node
}

// Set the growth chunk. The pool currently grows one node at a time when
// empty, so this value is only reported.
func (pool *NodePool[S, A, P]) SetChunkSize(size int) *NodePool[S, A, P] {
	if size > 0 {
		pool.chunkSize = size
	}
	return pool
}

func (pool *NodePool[S, A, P]) ChunkSize() int {
	return pool.chunkSize
}

// CreateNode pops a node from the free list and refurbishes it, or fabricates
// a new one when the list is empty. Arguments are the same as in NewNode.
func (pool *NodePool[S, A, P]) CreateNode(state S, action *A, parentPlayer *P, depth int) *Node[S, A, P] {
	if n := len(pool.free); n > 0 {
		node := pool.free[n-1]
		pool.free[n-1] = nil
		pool.free = pool.free[:n-1]
		pool.allocated++

		node.init(state, action, parentPlayer, depth)
		return node
	}

	pool.created++
	return NewNode(state, action, parentPlayer, depth)
}

// Clear the node's children and actions, then push it to the free list.
// Children are not recycled, see RecycleTree.
func (pool *NodePool[S, A, P]) RecycleNode(node *Node[S, A, P]) {
	if node == nil {
		return
	}

	clear(node.children)
	node.children = node.children[:0]
	clear(node.unexpanded)
	node.unexpanded = node.unexpanded[:0]
	node.state = pool.template

	pool.free = append(pool.free, node)
	pool.recycled++
}

// Recycle the whole subtree, children before their parent
func (pool *NodePool[S, A, P]) RecycleTree(root *Node[S, A, P]) {
	if root == nil {
		return
	}

	for _, child := range root.children {
		pool.RecycleTree(child)
	}
	pool.RecycleNode(root)
}

// Number of nodes the pool has fabricated
func (pool *NodePool[S, A, P]) Capacity() int {
	return pool.created
}

// Number of nodes ready to be handed out
func (pool *NodePool[S, A, P]) Available() int {
	return len(pool.free)
}

func (pool *NodePool[S, A, P]) Created() int {
	return pool.created
}

func (pool *NodePool[S, A, P]) Allocated() int {
	return pool.allocated
}

func (pool *NodePool[S, A, P]) Recycled() int {
	return pool.recycled
}

func (pool *NodePool[S, A, P]) Stats() PoolStats {
	return PoolStats{
		Capacity:       pool.Capacity(),
		Available:      pool.Available(),
		TotalAllocated: pool.allocated,
		TotalRecycled:  pool.recycled,
	}
}
