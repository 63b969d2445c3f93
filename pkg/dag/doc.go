// Package dag provides the directed graph structure shared by both
// incgraph pipelines.
//
// # Overview
//
// A [Graph] is an insertion-ordered set of nodes plus a list of edges. It is
// deliberately permissive, mirroring how a Graphviz document behaves:
//
//   - [Graph.AddNode] is idempotent; redeclaring a node is a no-op.
//   - [Graph.AddEdge] declares missing endpoints and never deduplicates
//     edges, so repeated edges are kept exactly as the input produced them.
//   - Cycles are not detected. Whatever the compiler reported is passed
//     through.
//
// # Node Identity
//
// Node IDs are scope-local. In rule graphs the ID is a file's base name, so
// two headers sharing a name in different directories collapse into one
// node within the same graph. Trace graphs use the normalized identifier
// reported by the compiler.
//
// # Node Kinds
//
// [NodeKindRoot] marks top-level entries of an inclusion trace. Renderers
// place them on the source rank. A node declared as a root keeps that kind
// even if it is later redeclared as a regular node.
//
// # Concurrency
//
// Graph is not safe for concurrent use. Each pipeline builds its graphs on a
// single goroutine and hands them off for rendering.
package dag
