// Package nodelink renders include graphs as Graphviz node-link diagrams.
//
// # Overview
//
// [ToDOT] converts a [dag.Graph] to DOT source using one of two fixed
// styles:
//
//   - [RuleStyle]: left-to-right record nodes for flat dependency rules
//   - [TraceStyle]: left-to-right, with trace roots pinned to the source rank
//
// Styles are constants of the tool and are not user configurable.
//
// # Rendering
//
// [Graphviz] renders DOT in-process with [github.com/goccy/go-graphviz], so
// no dot binary is needed:
//
//	gv, err := nodelink.NewGraphviz(ctx)
//	if err != nil {
//	    return err
//	}
//	defer gv.Close()
//	svg, err := gv.Render(ctx, nodelink.ToDOT(g, nodelink.RuleStyle), nodelink.FormatSVG)
//
// [Emitter] wraps a renderer with an artifact cache and writes one file per
// requested format next to a base path.
package nodelink
