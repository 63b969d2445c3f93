package dag

import (
	"cmp"
	"errors"
	"slices"
	"strings"
)

// ErrInvalidNodeID is returned by [Graph.AddNode] and [Graph.AddEdge] when a
// node ID is empty.
var ErrInvalidNodeID = errors.New("node ID must not be empty")

// NodeKind distinguishes trace roots from every other node.
type NodeKind int

const (
	// NodeKindRegular is an ordinary source or header node.
	NodeKindRegular NodeKind = iota
	// NodeKindRoot is a top-level (depth 1) entry of an inclusion trace.
	NodeKindRoot
)

// Node is a source or header unit identified by ID.
type Node struct {
	ID   string   // Scope-local identifier, also used as the display label
	Kind NodeKind // Regular or root
}

// IsRoot reports whether the node is a top-level trace entry.
func (n Node) IsRoot() bool { return n.Kind == NodeKindRoot }

// Edge is an ordered pair meaning "From includes To".
type Edge struct {
	From string
	To   string
}

// Graph is an insertion-ordered node set with an undeduplicated edge list.
//
// The zero value is not usable - use New.
type Graph struct {
	name  string
	nodes map[string]*Node
	order []string
	edges []Edge
}

// New creates an empty graph. The name is informational and is used as the
// graph title by renderers.
func New(name string) *Graph {
	return &Graph{
		name:  name,
		nodes: make(map[string]*Node),
	}
}

// Name returns the graph name given to New.
func (g *Graph) Name() string { return g.name }

// AddNode declares a node. Redeclaring an existing node is a no-op, except
// that a regular node is promoted when redeclared as a root.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if existing, ok := g.nodes[n.ID]; ok {
		if n.Kind == NodeKindRoot {
			existing.Kind = NodeKindRoot
		}
		return nil
	}
	node := n
	g.nodes[n.ID] = &node
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge appends a directed edge, declaring either endpoint if it is not
// yet part of the graph. Duplicate edges are kept.
func (g *Graph) AddEdge(e Edge) error {
	if e.From == "" || e.To == "" {
		return ErrInvalidNodeID
	}
	_ = g.AddNode(Node{ID: e.From})
	_ = g.AddNode(Node{ID: e.To})
	g.edges = append(g.edges, e)
	return nil
}

// Merge copies every node and edge of other into g. Node kinds are
// preserved; edges are appended as-is.
func (g *Graph) Merge(other *Graph) {
	for _, n := range other.Nodes() {
		_ = g.AddNode(n)
	}
	g.edges = append(g.edges, other.edges...)
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Nodes returns all nodes in declaration order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, *g.nodes[id])
	}
	return out
}

// Roots returns the root nodes in declaration order.
func (g *Graph) Roots() []Node {
	var out []Node
	for _, id := range g.order {
		if n := g.nodes[id]; n.IsRoot() {
			out = append(out, *n)
		}
	}
	return out
}

// Edges returns a copy of the edge list in insertion order.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// NodeCount returns the number of distinct nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges, duplicates included.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Empty reports whether the graph has no nodes.
func (g *Graph) Empty() bool { return len(g.order) == 0 }

// NodeIDs returns the sorted node IDs. It is mainly useful for comparing
// graphs as sets.
func (g *Graph) NodeIDs() []string {
	ids := slices.Clone(g.order)
	slices.Sort(ids)
	return ids
}

// SortedEdges returns the edges sorted by (From, To).
func (g *Graph) SortedEdges() []Edge {
	out := g.Edges()
	slices.SortFunc(out, compareEdges)
	return out
}

func compareEdges(a, b Edge) int {
	return cmp.Or(strings.Compare(a.From, b.From), strings.Compare(a.To, b.To))
}
