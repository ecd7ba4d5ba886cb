package mcts

import (
	"strconv"
	"strings"
)

// NodePath is a sequence of child indices leading from the root to a node.
// The engine selects with a read-only walk, then replays the path to mutate
// the tree, instead of keeping node pointers across phases.
type NodePath struct {
	indices []int
}

func NewNodePath(indices ...int) NodePath {
	return NodePath{indices: append([]int(nil), indices...)}
}

// Append a child index to the path
func (p *NodePath) Push(index int) {
	p.indices = append(p.indices, index)
}

// Indices of the path, must not be modified by the caller
func (p NodePath) Indices() []int {
	return p.indices
}

func (p NodePath) Len() int {
	return len(p.indices)
}

func (p NodePath) IsEmpty() bool {
	return len(p.indices) == 0
}

// Copy of the path, sharing no memory with this one
func (p NodePath) Clone() NodePath {
	return NewNodePath(p.indices...)
}

// Walk the path from 'root', returns the last node, or nil if any index is out of range
func Walk[S GameState[S, A, P], A Action, P comparable](p NodePath, root *Node[S, A, P]) *Node[S, A, P] {
	node := root
	for _, index := range p.indices {
		if node = node.Child(index); node == nil {
			return nil
		}
	}
	return node
}

// All nodes on the path, starting with the root. Stops at the first invalid index.
func PathNodes[S GameState[S, A, P], A Action, P comparable](p NodePath, root *Node[S, A, P]) []*Node[S, A, P] {
	nodes := make([]*Node[S, A, P], 1, len(p.indices)+1)
	nodes[0] = root
	node := root
	for _, index := range p.indices {
		if node = node.Child(index); node == nil {
			break
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// Format: Path[0 -> 3 -> 1]
func (p NodePath) String() string {
	builder := strings.Builder{}
	builder.WriteString("Path[")
	for i, index := range p.indices {
		if i > 0 {
			builder.WriteString(" -> ")
		}
		builder.WriteString(strconv.Itoa(index))
	}
	builder.WriteString("]")
	return builder.String()
}
