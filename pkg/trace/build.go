package trace

import (
	"errors"
	"fmt"

	"github.com/matzehuels/incgraph/pkg/dag"
)

var (
	// ErrNoRoot is returned by [Build] when the first entry is nested, so
	// there is no depth-1 ancestor to attach it to.
	ErrNoRoot = errors.New("trace does not start at depth 1")

	// ErrDepthJump is returned by [Build] when an entry is more than one
	// level deeper than its predecessor and therefore has no parent.
	ErrDepthJump = errors.New("trace depth increases by more than one")

	// ErrInvalidDepth is returned by [Build] for entries with depth < 1.
	ErrInvalidDepth = errors.New("trace depth must be positive")
)

// Build reconstructs the include forest described by entries.
//
// Every depth-1 entry starts a new, independent root scope, even when it
// names a header already seen. Every deeper entry yields exactly one edge
// from its parent, so the result holds one edge per entry with depth > 1.
// An empty entry slice yields an empty graph.
func Build(entries []Entry) (*dag.Graph, error) {
	return BuildNamed("", entries)
}

// BuildNamed is [Build] with a graph name for renderers.
func BuildNamed(name string, entries []Entry) (*dag.Graph, error) {
	g := dag.New(name)
	var st ancestors
	for i, e := range entries {
		if e.Depth < 1 {
			return nil, fmt.Errorf("entry %d (%s): %w", i+1, e.ID, ErrInvalidDepth)
		}
		if e.Depth == 1 {
			st.reset(e.ID)
			if err := g.AddNode(dag.Node{ID: e.ID, Kind: dag.NodeKindRoot}); err != nil {
				return nil, fmt.Errorf("entry %d: %w", i+1, err)
			}
			continue
		}
		if st.empty() {
			return nil, fmt.Errorf("entry %d (%s) at depth %d: %w", i+1, e.ID, e.Depth, ErrNoRoot)
		}
		parent, ok := st.push(e.Depth, e.ID)
		if !ok {
			return nil, fmt.Errorf("entry %d (%s) jumps to depth %d after depth %d: %w",
				i+1, e.ID, e.Depth, st.depth(), ErrDepthJump)
		}
		if err := g.AddEdge(dag.Edge{From: parent, To: e.ID}); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	return g, nil
}

// ancestors holds the most recent node at each depth: index d-1 for depth
// d. Slots deeper than cur are stale leftovers of a finished subtree; they
// are overwritten before they can be read again.
type ancestors struct {
	stack []string
	cur   int
}

func (a *ancestors) empty() bool { return a.cur == 0 }

func (a *ancestors) depth() int { return a.cur }

func (a *ancestors) reset(root string) {
	a.stack = append(a.stack[:0], root)
	a.cur = 1
}

// push records id at depth and returns its parent. It reports false when
// depth skips a level.
func (a *ancestors) push(depth int, id string) (string, bool) {
	if depth > a.cur+1 {
		return "", false
	}
	slot := depth - 1
	if slot < len(a.stack) {
		a.stack[slot] = id
	} else {
		a.stack = append(a.stack, id)
	}
	a.cur = depth
	return a.stack[slot-1], true
}
