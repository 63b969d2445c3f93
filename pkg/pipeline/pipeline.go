// Package pipeline wires parsers, graph builders and the emitter into the
// two incgraph runs.
//
// The flat run reads Makefile-style .d rules and writes one graph per
// source, one per directory cluster and one for the whole tree:
//
//	flat := &pipeline.Flat{Emitter: emitter, Logger: logger}
//	report, err := flat.Run(ctx, "build", "graphs")
//
// The tree run compiles every entry of a compilation database with -H and
// renders the resulting inclusion traces:
//
//	tree := &pipeline.Tree{Emitter: emitter, Dispatcher: d, Logger: logger}
//	if _, err := tree.Generate(ctx, ".", "build", "deps"); err != nil {
//	    return err
//	}
//	report, err := tree.Run(ctx, "deps")
//
// Malformed inputs and failed artifacts are logged and counted in the
// [Report]; only a missing compilation database or a cancelled context
// stops a run.
package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/incgraph/pkg/dag"
	"github.com/matzehuels/incgraph/pkg/render/nodelink"
)

// Pipeline names passed to observability hooks.
const (
	NameFlat = "flat"
	NameTree = "tree"
)

// Report summarizes one run.
type Report struct {
	RunID    string        // Random ID attached to every log line of the run
	Files    int           // Inputs turned into graphs (or traces, for Generate)
	Ignored  int           // Inputs dropped by the ignore filter
	Skipped  int           // Malformed or empty inputs
	Failed   int           // Inputs or graphs that errored
	Rendered int           // Artifact files written
	Duration time.Duration // Wall time of the run
}

func newReport() *Report {
	return &Report{RunID: uuid.NewString()}
}

// OK reports whether the run finished without failures.
func (r *Report) OK() bool { return r.Failed == 0 }

// Log writes a one-line summary of the report.
func (r *Report) Log(logger *log.Logger, msg string) {
	logger.Info(msg,
		"run", r.RunID,
		"files", r.Files,
		"ignored", r.Ignored,
		"skipped", r.Skipped,
		"failed", r.Failed,
		"rendered", r.Rendered,
		"duration", r.Duration.Round(time.Millisecond))
}

func loggerOrDefault(l *log.Logger) *log.Logger {
	if l == nil {
		return log.Default()
	}
	return l
}

// emit writes one graph and folds the outcome into rep.
func emit(ctx context.Context, e *nodelink.Emitter, logger *log.Logger, rep *Report, g *dag.Graph, s nodelink.Style, base string) {
	written, err := e.Emit(ctx, g, s, base)
	rep.Rendered += len(written)
	if err != nil && ctx.Err() == nil {
		rep.Failed++
		logger.Error("render failed", "path", base, "err", err)
		return
	}
	for _, p := range written {
		logger.Debug("wrote", "path", p)
	}
}
