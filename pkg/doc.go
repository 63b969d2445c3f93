// Package pkg provides the libraries behind incgraph, a tool that rebuilds
// C/C++ header dependency graphs from compiler output.
//
// # Overview
//
// The pkg directory is organized by stage:
//
//  1. Parsing: [trace] reads -H include traces, [rule] reads .d rules
//  2. Graph building: [dag] holds graphs, [trace] rebuilds trees and
//     [cluster] groups rules by directory
//  3. Rendering: [render/nodelink] writes DOT, SVG, PNG and JSON artifacts,
//     [cache] keeps rendered artifacts and [graph] serializes graphs
//  4. Orchestration: [compdb] runs compile commands, [walk] finds inputs and
//     [pipeline] ties the stages together
//
// # Architecture
//
// The two data flows:
//
//	.d rules ──▶ rule.Parse ──▶ cluster.Aggregator ──▶ per-file, per-cluster
//	                                                   and overall graphs
//
//	compile_commands.json ──▶ compdb (-H) ──▶ .dep traces
//	        ──▶ trace.Parse ──▶ trace.Build ──▶ one tree per source
//
// # Quick Start
//
//	entries, _ := trace.ParseString(". a.h\n.. b.h\n")
//	g, _ := trace.Build(entries)
//	fmt.Println(nodelink.ToDOT(g, nodelink.TraceStyle))
//
// # Observability
//
// [observability] exposes hooks for counting parsed files, skipped files,
// rendered artifacts and compiler invocations.
package pkg
