package nodelink

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/incgraph/pkg/dag"
)

// Style is the fixed set of Graphviz attributes for one kind of graph.
type Style struct {
	Graph map[string]string // Graph attributes, e.g. rankdir
	Node  map[string]string // Default node attributes
	Edge  map[string]string // Default edge attributes

	// RootRank pins root nodes to the source rank in their own subgraph.
	RootRank bool
	// RootNode holds node attributes applied inside the root subgraph.
	RootNode map[string]string
}

var (
	// RuleStyle is used for per-file, per-cluster and global rule graphs.
	RuleStyle = Style{
		Graph: map[string]string{"rankdir": "LR", "nodesep": "1", "ranksep": "20"},
		Node:  map[string]string{"shape": "record", "style": "filled", "fillcolor": "lightgrey"},
		Edge:  map[string]string{"color": "black", "arrowhead": "vee"},
	}

	// TraceStyle is used for graphs rebuilt from header traces.
	TraceStyle = Style{
		Graph:    map[string]string{"rankdir": "LR"},
		RootRank: true,
		RootNode: map[string]string{"shape": "box", "style": "filled", "fillcolor": "lightgrey"},
	}
)

// ToDOT converts a graph to Graphviz DOT source. Nodes and edges are
// written in graph order; duplicate edges are emitted as-is.
func ToDOT(g *dag.Graph, s Style) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if g.Name() != "" {
		fmt.Fprintf(&buf, "  // %s\n", strings.ReplaceAll(g.Name(), "\n", " "))
	}
	writeDefaults(&buf, "graph", s.Graph)
	writeDefaults(&buf, "node", s.Node)
	writeDefaults(&buf, "edge", s.Edge)
	buf.WriteString("\n")

	labelOf := quote
	if s.Node["shape"] == "record" {
		labelOf = quoteRecord
	}
	var regular []dag.Node
	if s.RootRank {
		var roots []dag.Node
		for _, n := range g.Nodes() {
			if n.IsRoot() {
				roots = append(roots, n)
			} else {
				regular = append(regular, n)
			}
		}
		if len(roots) > 0 {
			buf.WriteString("  {\n    rank=source;\n")
			if len(s.RootNode) > 0 {
				fmt.Fprintf(&buf, "    node [%s];\n", fmtAttrs(s.RootNode))
			}
			for _, n := range roots {
				fmt.Fprintf(&buf, "    %s [label=%s];\n", quote(n.ID), quote(n.ID))
			}
			buf.WriteString("  }\n")
		}
	} else {
		regular = g.Nodes()
	}

	for _, n := range regular {
		fmt.Fprintf(&buf, "  %s [label=%s];\n", quote(n.ID), labelOf(n.ID))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %s -> %s;\n", quote(e.From), quote(e.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeDefaults(buf *bytes.Buffer, kind string, attrs map[string]string) {
	if len(attrs) == 0 {
		return
	}
	fmt.Fprintf(buf, "  %s [%s];\n", kind, fmtAttrs(attrs))
}

// fmtAttrs formats attributes sorted by key so DOT output is stable.
func fmtAttrs(attrs map[string]string) string {
	parts := make([]string, 0, len(attrs))
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		parts = append(parts, k+"="+quote(attrs[k]))
	}
	return strings.Join(parts, ", ")
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// quote renders s as a DOT double-quoted string.
func quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}

var recordQuoter = strings.NewReplacer(
	`\`, `\\`, `"`, `\"`, "\n", `\n`,
	"{", `\{`, "}", `\}`, "|", `\|`, "<", `\<`, ">", `\>`,
)

// quoteRecord is quote for record-shaped labels, where braces, bars and
// angle brackets are field syntax and must be escaped.
func quoteRecord(s string) string {
	return `"` + recordQuoter.Replace(s) + `"`
}
