package graph

import (
	"github.com/matzehuels/incgraph/pkg/dag"
)

// KindRoot marks top-level trace entries in serialized nodes.
const KindRoot = "root"

// Graph is the serialization format for include graphs.
type Graph struct {
	Name  string `json:"name,omitempty"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a serialized graph node.
type Node struct {
	ID   string `json:"id"`
	Kind string `json:"kind,omitempty"`
}

// Edge is a serialized directed edge.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// FromDAG converts a graph to its serialized form.
func FromDAG(g *dag.Graph) Graph {
	out := Graph{
		Name:  g.Name(),
		Nodes: make([]Node, 0, g.NodeCount()),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		node := Node{ID: n.ID}
		if n.IsRoot() {
			node.Kind = KindRoot
		}
		out.Nodes = append(out.Nodes, node)
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, Edge{From: e.From, To: e.To})
	}
	return out
}

// ToDAG converts a serialized graph back into a [dag.Graph].
func ToDAG(data Graph) (*dag.Graph, error) {
	g := dag.New(data.Name)
	for _, n := range data.Nodes {
		kind := dag.NodeKindRegular
		if n.Kind == KindRoot {
			kind = dag.NodeKindRoot
		}
		if err := g.AddNode(dag.Node{ID: n.ID, Kind: kind}); err != nil {
			return nil, err
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To}); err != nil {
			return nil, err
		}
	}
	return g, nil
}
